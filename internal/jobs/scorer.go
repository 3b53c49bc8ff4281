package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/textutil"
	"github.com/spigell/jobfit/internal/utils"
)

const scoreSystemPrompt = "You are an ATS scoring engine. Respond with JSON only."

//go:embed score_prompt.md
var scorePromptTemplate string

// Weights are the contributions of a matched required skill and a matched
// keyword to the heuristic score.
type Weights struct {
	Required float64 `mapstructure:"required"`
	Keyword  float64 `mapstructure:"keyword"`
}

func DefaultWeights() Weights {
	return Weights{Required: 1, Keyword: 0.5}
}

func (w Weights) sanitized() Weights {
	w.Required = math.Max(w.Required, 0)
	w.Keyword = math.Max(w.Keyword, 0)
	if w.Required == 0 && w.Keyword == 0 {
		return DefaultWeights()
	}
	return w
}

// FallbackPolicy decides what a failed model scoring call turns into.
type FallbackPolicy string

const (
	// FallbackHeuristic scores with HeuristicScore instead.
	FallbackHeuristic FallbackPolicy = "heuristic"
	// FallbackError returns the model error to the caller.
	FallbackError FallbackPolicy = "error"
)

func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch p := FallbackPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FallbackHeuristic, nil
	case FallbackHeuristic, FallbackError:
		return p, nil
	default:
		return "", fmt.Errorf("unknown scoring fallback %q (want %q or %q)", s, FallbackHeuristic, FallbackError)
	}
}

// Scorer rates profiles against analyses. It is safe for concurrent use.
type Scorer struct {
	chatter   ai.Chatter
	selection ai.Selection
	weights   Weights
	fallback  FallbackPolicy
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(cfg Config, weights Weights, fallback FallbackPolicy) *Scorer {
	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}
	if fallback == "" {
		fallback = FallbackHeuristic
	}

	return &Scorer{
		chatter:   cfg.Chatter,
		selection: cfg.Selection,
		weights:   weights.sanitized(),
		fallback:  fallback,
		logger:    logger.WithAI(cfg.Logger, cfg.Selection.Provider.String(), string(cfg.Selection.Vendor), chatterModel(cfg.Chatter)),
		maxLogLen: maxLogLen,
	}
}

// Score rates profile against analysis. Without a model it never fails; with
// one, a failed call is handled according to the fallback policy.
func (s *Scorer) Score(ctx context.Context, profile Profile, analysis *JobAnalysis) (*ScoreResult, error) {
	if analysis == nil {
		analysis = &JobAnalysis{}
	}

	switch s.selection.Provider {
	case ai.ProviderNone:
		return HeuristicScore(profile, analysis, s.weights), nil
	case ai.ProviderHosted, ai.ProviderSelfHosted:
		outcome := s.scoreWithAI(ctx, profile, analysis)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if outcome.OK() {
			return outcome.Value(), nil
		}

		switch s.fallback {
		case FallbackError:
			return nil, fmt.Errorf("score with %s: %w", s.selection.Vendor, outcome.Err())
		default:
			s.logger.Warn("ai scoring failed, falling back to heuristic score", zap.Error(outcome.Err()))
			return HeuristicScore(profile, analysis, s.weights), nil
		}
	default:
		return nil, fmt.Errorf("unknown ai provider %d", s.selection.Provider)
	}
}

func (s *Scorer) scoreWithAI(ctx context.Context, profile Profile, analysis *JobAnalysis) ai.Outcome[*ScoreResult] {
	if s.chatter == nil {
		return ai.Failed[*ScoreResult](ai.ErrNoProvider)
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return ai.Failed[*ScoreResult](fmt.Errorf("marshal profile: %w", err))
	}

	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return ai.Failed[*ScoreResult](fmt.Errorf("marshal analysis: %w", err))
	}

	prompt := strings.ReplaceAll(scorePromptTemplate, "{{PROFILE_JSON}}", string(profileJSON))
	prompt = strings.ReplaceAll(prompt, "{{ANALYSIS_JSON}}", string(analysisJSON))

	s.logger.Debug("ai scoring request",
		zap.String("analysis_id", analysis.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.chatter.Chat(ctx, scoreSystemPrompt, prompt)
	if err != nil {
		return ai.Failed[*ScoreResult](err)
	}

	s.logger.Debug("ai scoring response",
		zap.String("analysis_id", analysis.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	var parsed struct {
		Score           float64  `json:"score"`
		Strengths       []string `json:"strengths"`
		Weaknesses      []string `json:"weaknesses"`
		MissingKeywords []string `json:"missingKeywords"`
	}
	if err := ai.Decode(raw, &parsed); err != nil {
		return ai.Failed[*ScoreResult](err)
	}
	if math.IsNaN(parsed.Score) {
		parsed.Score = 0
	}

	result := &ScoreResult{
		Score:           int(math.Round(math.Max(math.Min(parsed.Score, 100), 0))),
		Strengths:       parsed.Strengths,
		Weaknesses:      parsed.Weaknesses,
		MissingKeywords: parsed.MissingKeywords,
	}
	result.bound()

	return ai.Succeeded(result)
}

// HeuristicScore rates profile by the required skills and keywords of
// analysis that occur in its text:
//
//	round((matchedRequired*w.Required + matchedKeywords*w.Keyword) /
//	      (max(len(required), 1)*w.Required + max(len(keywords), 1)*w.Keyword) * 100)
//
// clamped to [0, 100]. Matching is a case and accent insensitive substring
// search.
func HeuristicScore(profile Profile, analysis *JobAnalysis, w Weights) *ScoreResult {
	w = w.sanitized()
	if analysis == nil {
		analysis = &JobAnalysis{}
	}

	profileText := textutil.Normalize(profile.Text())
	found := func(term string) bool {
		return profileText != "" && strings.Contains(profileText, textutil.Normalize(term))
	}

	required := cleanList(analysis.RequiredSkills, -1)
	keywords := cleanList(analysis.Keywords, -1)

	var matchedRequired, matchedKeywords, missingKeywords []string
	for _, skill := range required {
		if found(skill) {
			matchedRequired = append(matchedRequired, skill)
		}
	}
	for _, kw := range keywords {
		if found(kw) {
			matchedKeywords = append(matchedKeywords, kw)
		} else {
			missingKeywords = append(missingKeywords, kw)
		}
	}

	numerator := float64(len(matchedRequired))*w.Required + float64(len(matchedKeywords))*w.Keyword
	denominator := float64(max(len(required), 1))*w.Required + float64(max(len(keywords), 1))*w.Keyword

	score := 0
	if denominator > 0 {
		score = int(math.Round(numerator / denominator * 100))
	}

	result := &ScoreResult{
		Score:           clampScore(score),
		Strengths:       make([]string, 0, min(len(matchedRequired), MaxScoreNotes)),
		Weaknesses:      make([]string, 0, min(len(missingKeywords), MaxScoreNotes)),
		MissingKeywords: cleanList(missingKeywords, MaxMissingKeywords),
	}
	for _, skill := range matchedRequired {
		if len(result.Strengths) == MaxScoreNotes {
			break
		}
		result.Strengths = append(result.Strengths, "compatible with requirement: "+skill)
	}
	for _, kw := range missingKeywords {
		if len(result.Weaknesses) == MaxScoreNotes {
			break
		}
		result.Weaknesses = append(result.Weaknesses, "missing evidence for keyword: "+kw)
	}

	return result
}
