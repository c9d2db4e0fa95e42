package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"opsaix/internal/agent"
	"opsaix/internal/config"
	"opsaix/internal/ingestion"
	"opsaix/internal/llm"
	"opsaix/internal/logging"
	"opsaix/internal/models"
	"opsaix/internal/normalize"
	"opsaix/internal/parser"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect [path]",
	Short: "Run incident detection over operational data",
	Long: `Run incident detection over a log file, stdin, or inline text.

In batch mode the whole input is read, parsed, and analyzed in one
model call. With --tail the file is followed and every error-level
entry triggers a detection run.

Examples:
  opsaix detect /var/log/app.log
  opsaix detect /var/log/app.log --tail
  opsaix detect --text "Connection timeout on payment service"
  cat incident-notes.txt | opsaix detect`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := DefaultDetectOptions()
		if len(args) > 0 {
			opts.Path = args[0]
		}
		opts.TailMode, _ = cmd.Flags().GetBool("tail")
		opts.Text, _ = cmd.Flags().GetString("text")
		opts.ContextFile, _ = cmd.Flags().GetString("context")

		runner, err := NewDetectRunner(opts)
		if err != nil {
			return err
		}
		defer runner.Close()
		return runner.Run(cmd.Context())
	},
}

func init() {
	detectCmd.Flags().Bool("tail", false, "follow file for new lines (like tail -f)")
	detectCmd.Flags().String("text", "", "detect over inline text instead of a file")
	detectCmd.Flags().String("context", "", "JSON file with context data (logs, metrics, alerts, service_health)")
}

// DetectOptions holds options for the detect command.
type DetectOptions struct {
	Path        string
	TailMode    bool
	Text        string
	ContextFile string
	Output      io.Writer
}

// DefaultDetectOptions returns the default detect options.
func DefaultDetectOptions() *DetectOptions {
	return &DetectOptions{
		Output: os.Stdout,
	}
}

// DetectRunner handles the detection workflow.
type DetectRunner struct {
	options *DetectOptions
	logger  *zap.Logger
	client  llm.Client
	agent   *agent.DetectionAgent
	context map[string]any
}

// NewDetectRunner creates a detect runner: loads configuration, sets up
// logging, and connects the model client.
func NewDetectRunner(opts *DetectOptions) (*DetectRunner, error) {
	if opts == nil {
		opts = DefaultDetectOptions()
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
	logger := logging.L().With(zap.String("command", "detect"))

	client, err := llm.NewGeminiClient(context.Background(), cfg.LLMClientConfig())
	if err != nil {
		return nil, err
	}

	contextData, err := loadContextFile(opts.ContextFile)
	if err != nil {
		return nil, err
	}

	return &DetectRunner{
		options: opts,
		logger:  logger,
		client:  client,
		agent:   agent.NewDetectionAgent(client, logger),
		context: contextData,
	}, nil
}

// Run executes the detection workflow.
func (r *DetectRunner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		r.logger.Info("received_signal", zap.String("signal", sig.String()))
		cancel()
	}()

	switch {
	case r.options.Text != "":
		env := agent.DetectFromText(ctx, r.agent, r.options.Text, r.context)
		return printJSON(r.options.Output, env)
	case r.options.TailMode:
		return r.runTail(ctx)
	default:
		return r.runBatch(ctx)
	}
}

func (r *DetectRunner) runBatch(ctx context.Context) error {
	src := r.newSource()
	defer src.Close()

	entries, err := ingestion.Collect(ctx, src)
	if err != nil {
		return err
	}
	r.logger.Info("entries_collected",
		logging.Source(src.Name()),
		logging.Count(len(entries)),
	)

	env := agent.DetectFromLogs(ctx, r.agent, entries, r.context)
	return printJSON(r.options.Output, env)
}

// runTail follows the file and runs one detection per error-level entry.
func (r *DetectRunner) runTail(ctx context.Context) error {
	src := r.newSource()
	defer src.Close()

	entries := make(chan *models.LogEntry, 64)
	errCh := make(chan error, 1)
	go func() {
		errCh <- src.Read(ctx, entries)
		close(entries)
	}()

	for entry := range entries {
		if !entry.IsErrorLevel() {
			continue
		}
		env := r.agent.Process(ctx, normalize.Log(entry), r.context)
		entry.MarkProcessed()
		if err := printJSON(r.options.Output, env); err != nil {
			return err
		}
	}

	err := <-errCh
	if err == context.Canceled {
		return nil
	}
	return err
}

func (r *DetectRunner) newSource() ingestion.Source {
	registry := parser.NewRegistry()
	if r.options.Path != "" {
		return ingestion.NewFileSource(r.options.Path, r.options.TailMode, registry, r.logger)
	}
	return ingestion.NewStdinSource(registry, r.logger)
}

// Close releases the model client and flushes logs.
func (r *DetectRunner) Close() error {
	if r.client != nil {
		_ = r.client.Close()
	}
	return logging.Close()
}

func loadContextFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}
	var contextData map[string]any
	if err := json.Unmarshal(data, &contextData); err != nil {
		return nil, fmt.Errorf("failed to parse context file: %w", err)
	}
	return contextData, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
