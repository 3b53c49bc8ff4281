package jobs

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/lithammer/shortuuid/v4"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/utils"
)

const (
	extractSystemPrompt = "You extract structured fields from job postings for ATS and matching use. Respond with JSON only."

	aiIDPrefix          = "ai-"
	defaultMaxLogLength = 200
)

//go:embed extract_prompt.md
var extractPromptTemplate string

// TextFetcher downloads a posting page as plain text. Failures yield "".
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL string) string
}

// Input is what a caller knows about a posting.
type Input struct {
	URL         string
	Description string
}

// Config wires the collaborators of Analyzer and Scorer.
type Config struct {
	Fetcher      TextFetcher
	Chatter      ai.Chatter
	Selection    ai.Selection
	Logger       *zap.Logger
	MaxLogLength int
}

// Analyzer turns postings into JobAnalysis values. It is safe for concurrent
// use.
type Analyzer struct {
	fetcher   TextFetcher
	chatter   ai.Chatter
	selection ai.Selection
	local     *LocalExtractor
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(cfg Config) *Analyzer {
	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Analyzer{
		fetcher:   cfg.Fetcher,
		chatter:   cfg.Chatter,
		selection: cfg.Selection,
		local:     NewLocalExtractor(),
		logger:    logger.WithAI(cfg.Logger, cfg.Selection.Provider.String(), string(cfg.Selection.Vendor), chatterModel(cfg.Chatter)),
		maxLogLen: maxLogLen,
	}
}

// Analyze extracts a JobAnalysis from the pasted description and the text
// behind the URL. A failed model call degrades to the local heuristics, so
// the only error returned is the cancellation of ctx.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*JobAnalysis, error) {
	text := a.postingText(ctx, in)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.logger.Debug("analyzing posting",
		zap.String("url", in.URL),
		zap.Int("text_length", utf8.RuneCountInString(text)),
	)

	local := func() *JobAnalysis {
		return a.local.Extract(text, in.URL)
	}

	var analysis *JobAnalysis
	switch a.selection.Provider {
	case ai.ProviderNone:
		analysis = local()
	case ai.ProviderHosted, ai.ProviderSelfHosted:
		if text == "" {
			a.logger.Debug("nothing to send to the model, using local heuristics")
			analysis = local()
			break
		}

		outcome := a.extractWithAI(ctx, text)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		analysis = outcome.Or(func() *JobAnalysis {
			a.logger.Warn("ai extraction failed, falling back to local heuristics", zap.Error(outcome.Err()))
			return local()
		})
	default:
		return nil, fmt.Errorf("unknown ai provider %d", a.selection.Provider)
	}

	analysis.URL = strings.TrimSpace(in.URL)

	a.logger.Info("posting analyzed",
		zap.String("id", analysis.ID),
		zap.String("source", analysis.Source),
		zap.String("title", analysis.Title),
		zap.Int("keywords", len(analysis.Keywords)),
	)

	return analysis, nil
}

func (a *Analyzer) postingText(ctx context.Context, in Input) string {
	parts := make([]string, 0, 2)
	if desc := strings.TrimSpace(in.Description); desc != "" {
		parts = append(parts, desc)
	}

	if strings.TrimSpace(in.URL) != "" && a.fetcher != nil {
		if fetched := strings.TrimSpace(a.fetcher.FetchText(ctx, in.URL)); fetched != "" {
			parts = append(parts, fetched)
		}
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

func (a *Analyzer) extractWithAI(ctx context.Context, text string) ai.Outcome[*JobAnalysis] {
	if a.chatter == nil {
		return ai.Failed[*JobAnalysis](ai.ErrNoProvider)
	}

	prompt := strings.ReplaceAll(extractPromptTemplate, "{{POSTING_TEXT}}", text)

	a.logger.Debug("ai extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.chatter.Chat(ctx, extractSystemPrompt, prompt)
	if err != nil {
		return ai.Failed[*JobAnalysis](err)
	}

	a.logger.Debug("ai extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	var analysis JobAnalysis
	if err := ai.Decode(raw, &analysis); err != nil {
		return ai.Failed[*JobAnalysis](err)
	}

	analysis.bound()
	if analysis.ID == "" {
		analysis.ID = aiIDPrefix + shortuuid.New()
	}
	analysis.Source = SourceAI

	return ai.Succeeded(&analysis)
}

func chatterModel(c ai.Chatter) string {
	if c == nil {
		return ""
	}
	return c.Model()
}
