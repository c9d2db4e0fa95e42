package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"opsaix/internal/agent"
	"opsaix/internal/config"
	"opsaix/internal/llm"
	"opsaix/internal/logging"
	"opsaix/internal/models"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [incident.json]",
	Short: "Run deep analysis of a known incident",
	Long: `Run the analysis agent against an incident record stored as JSON.

The analysis covers root cause, impact, remediation plan, prevention
measures, and an escalation recommendation. Context data (recent logs,
metrics, related alerts, service health) can be supplied from a JSON
file and is rendered into the prompt.

Examples:
  opsaix analyze incident.json
  opsaix analyze incident.json --context context.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := DefaultAnalyzeOptions()
		opts.IncidentFile = args[0]
		opts.ContextFile, _ = cmd.Flags().GetString("context")

		runner, err := NewAnalyzeRunner(opts)
		if err != nil {
			return err
		}
		defer runner.Close()
		return runner.Run(cmd.Context())
	},
}

func init() {
	analyzeCmd.Flags().String("context", "", "JSON file with context data (logs, metrics, alerts, service_health)")
}

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	IncidentFile string
	ContextFile  string
	Output       io.Writer
}

// DefaultAnalyzeOptions returns the default analyze options.
func DefaultAnalyzeOptions() *AnalyzeOptions {
	return &AnalyzeOptions{
		Output: os.Stdout,
	}
}

// AnalyzeRunner handles the analysis workflow.
type AnalyzeRunner struct {
	options *AnalyzeOptions
	logger  *zap.Logger
	client  llm.Client
	agent   *agent.AnalysisAgent
	context map[string]any
}

// NewAnalyzeRunner creates an analyze runner: loads configuration, sets
// up logging, and connects the model client.
func NewAnalyzeRunner(opts *AnalyzeOptions) (*AnalyzeRunner, error) {
	if opts == nil {
		opts = DefaultAnalyzeOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LoggingSetupConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	logger := logging.L().With(zap.String("command", "analyze"))

	client, err := llm.NewGeminiClient(context.Background(), cfg.LLMClientConfig())
	if err != nil {
		return nil, err
	}

	contextData, err := loadContextFile(opts.ContextFile)
	if err != nil {
		return nil, err
	}

	return &AnalyzeRunner{
		options: opts,
		logger:  logger,
		client:  client,
		agent:   agent.NewAnalysisAgent(client, logger),
		context: contextData,
	}, nil
}

// Run executes the analysis workflow.
func (r *AnalyzeRunner) Run(ctx context.Context) error {
	data, err := os.ReadFile(r.options.IncidentFile)
	if err != nil {
		return fmt.Errorf("failed to read incident file: %w", err)
	}
	incident, err := models.IncidentFromJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse incident file: %w", err)
	}

	r.logger.Info("analysis_starting", logging.IncidentID(incident.ID))

	env := r.agent.Process(ctx, incident, r.context)
	return printJSON(r.options.Output, env)
}

// Close releases the model client and flushes logs.
func (r *AnalyzeRunner) Close() error {
	if r.client != nil {
		_ = r.client.Close()
	}
	return logging.Close()
}
