package llm

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	agenterrors "opsaix/internal/errors"
	"opsaix/internal/logging"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli    *genai.Client
	config *Config
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini-backed model client from the given
// configuration.
func NewGeminiClient(ctx context.Context, cfg *Config) (*GeminiClient, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, agenterrors.NewModelConnectionError(cfg.Model, err)
	}

	return &GeminiClient{
		cli:    cli,
		config: cfg,
		logger: logging.With(zap.String("component", "gemini_client"), logging.Model(cfg.Model)),
	}, nil
}

// Name identifies the backing model.
func (g *GeminiClient) Name() string { return "Gemini:" + g.config.Model }

// Close releases client resources. The genai client holds no connection
// state, so this is a no-op kept for the Client contract.
func (g *GeminiClient) Close() error { return nil }

// Invoke sends the role-tagged messages as a single generation request
// and returns the response text. System messages become the system
// instruction; user messages become content turns.
func (g *GeminiClient) Invoke(ctx context.Context, messages []Message) (string, error) {
	if g.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.RequestTimeout)
		defer cancel()
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(g.config.Temperature)),
		MaxOutputTokens:  int32(g.config.MaxTokens),
		ResponseMIMEType: "application/json",
	}

	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			genCfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	g.logger.Debug("model_request", logging.Count(len(contents)))

	resp, err := g.cli.Models.GenerateContent(ctx, g.config.Model, contents, genCfg)
	if err != nil {
		mapped := g.mapError(err)
		g.logger.Error("model_invocation_failed", zap.Error(mapped))
		return "", mapped
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		err := agenterrors.NewModelEmptyResponseError(g.config.Model)
		g.logger.Error("model_invocation_failed", zap.Error(err))
		return "", err
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// mapError classifies transport failures into the agent error taxonomy.
func (g *GeminiClient) mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return agenterrors.NewModelTimeoutError(g.config.Model, g.config.RequestTimeout.Seconds())
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return agenterrors.NewModelAuthError(g.config.Model, err)
		case http.StatusTooManyRequests:
			return agenterrors.NewModelRateLimitError(g.config.Model)
		}
	}

	return agenterrors.NewModelConnectionError(g.config.Model, err)
}
