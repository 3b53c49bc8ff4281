package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/ai/gemini"
	"github.com/spigell/jobfit/internal/ai/ollama"
	"github.com/spigell/jobfit/internal/ai/openai"
	"github.com/spigell/jobfit/internal/fetch"
	"github.com/spigell/jobfit/internal/jobs"
	"github.com/spigell/jobfit/internal/secrets"
)

// newBackend resolves the provider once and builds the matching chatter.
// The chatter is nil when no provider is configured.
func newBackend(ctx context.Context, config *AIConfig, logger *zap.Logger) (ai.Chatter, ai.Selection, error) {
	if err := ai.CheckProvider(config.Provider); err != nil {
		return nil, ai.Selection{}, err
	}

	apiKey, err := secrets.Optional(secrets.Source{
		Name:  "ai api key",
		File:  config.APIKeyFile,
		Value: config.APIKey,
		Env:   apiKeyEnv(config.Provider),
	})
	if err != nil {
		return nil, ai.Selection{}, err
	}

	selection := ai.Resolve(ai.Settings{
		Provider: config.Provider,
		Model:    config.Model,
		APIKey:   apiKey,
	})

	switch selection.Provider {
	case ai.ProviderNone:
		return nil, selection, nil
	case ai.ProviderSelfHosted:
		client := ollama.New(ollama.Config{
			BaseURL: config.BaseURL,
			Model:   selection.Model,
			Timeout: config.Timeout,
		}, logger)
		selection.Model = client.Model()
		return client, selection, nil
	case ai.ProviderHosted:
		chatter, err := newHostedBackend(ctx, selection, config, apiKey, logger)
		if err != nil {
			return nil, selection, err
		}
		selection.Model = chatter.Model()
		return chatter, selection, nil
	default:
		return nil, selection, fmt.Errorf("unsupported ai provider %s", selection.Provider)
	}
}

func newHostedBackend(ctx context.Context, selection ai.Selection, config *AIConfig, apiKey string, logger *zap.Logger) (ai.Chatter, error) {
	switch selection.Vendor {
	case ai.VendorGemini:
		return gemini.NewGenerator(ctx, gemini.Config{
			APIKey:     apiKey,
			Model:      selection.Model,
			BaseURL:    config.BaseURL,
			Timeout:    config.Timeout,
			MaxRetries: config.MaxRetries,
		}, logger)
	case ai.VendorOpenAI:
		return openai.New(openai.Config{
			APIKey:  apiKey,
			Model:   selection.Model,
			BaseURL: config.BaseURL,
			Timeout: config.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported hosted vendor %q", selection.Vendor)
	}
}

func apiKeyEnv(provider string) []string {
	if strings.EqualFold(strings.TrimSpace(provider), string(ai.VendorGemini)) {
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
	return []string{"OPENAI_API_KEY"}
}

func newFetcher(config *Config, logger *zap.Logger) *fetch.Client {
	client := fetch.New(logger)

	if ua := strings.TrimSpace(config.UserAgent); ua != "" {
		client.UserAgent = ua
	}
	if config.Fetch.Timeout > 0 {
		client.HTTPClient.Timeout = config.Fetch.Timeout
	}
	if config.Fetch.MaxChars > 0 {
		client.MaxChars = config.Fetch.MaxChars
	}

	return client
}

// services holds everything a command needs to analyze and score.
type services struct {
	logger   *zap.Logger
	analyzer *jobs.Analyzer
	scorer   *jobs.Scorer
}

func newServices(ctx context.Context, config *Config, logger *zap.Logger) (*services, error) {
	chatter, selection, err := newBackend(ctx, config.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("creating ai backend: %w", err)
	}

	fallback, err := jobs.ParseFallbackPolicy(config.Scoring.Fallback)
	if err != nil {
		return nil, err
	}

	logger.Debug("resolved ai provider",
		zap.String("provider", selection.Provider.String()),
		zap.String("vendor", string(selection.Vendor)),
		zap.String("model", selection.Model),
		zap.String("scoring_fallback", string(fallback)),
	)

	deps := jobs.Config{
		Fetcher:      newFetcher(config, logger),
		Chatter:      chatter,
		Selection:    selection,
		Logger:       logger,
		MaxLogLength: config.AI.MaxLogLength,
	}

	return &services{
		logger:   logger,
		analyzer: jobs.NewAnalyzer(deps),
		scorer:   jobs.NewScorer(deps, config.Scoring.Weights, fallback),
	}, nil
}
