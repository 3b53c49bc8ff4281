package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/jobs"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate profile against a job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel, svc := setup()
		defer cancel()

		profilePath, _ := cmd.Flags().GetString("profile")
		profile, err := loadProfile(profilePath)
		if err != nil {
			svc.logger.Fatal("loading profile", zap.Error(err))
		}

		analysisPath, _ := cmd.Flags().GetString("analysis")

		var analysis *jobs.JobAnalysis
		if analysisPath != "" {
			analysis, err = loadAnalysis(analysisPath)
		} else {
			var input jobs.Input
			if input, err = postingInput(cmd); err == nil {
				analysis, err = analyze(ctx, svc, input)
			}
		}
		if err != nil {
			svc.logger.Fatal("preparing job analysis", zap.Error(err))
		}

		result, err := svc.scorer.Score(ctx, profile, analysis)
		if err != nil {
			svc.logger.Fatal("scoring profile", zap.Error(err))
		}

		svc.logger.Info("profile scored",
			zap.String("analysis_id", analysis.ID),
			zap.Int("score", result.Score),
		)

		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			svc.logger.Fatal("printing score", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	addScoreFlags(scoreCmd)
}

// addScoreFlags registers the score flags. A saved analysis replaces the
// posting input, so the two cannot be combined.
func addScoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("profile", "p", "", "profile file (yaml, json or toml)")
	cmd.Flags().StringP("analysis", "a", "", "job analysis json produced by the analyze command")
	addPostingFlags(cmd)

	_ = cmd.MarkFlagRequired("profile")
	for _, posting := range []string{"url", "description", "description-file"} {
		cmd.MarkFlagsMutuallyExclusive("analysis", posting)
	}
}

// loadProfile reads any format viper understands into a generic record.
func loadProfile(path string) (jobs.Profile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("profile file is required")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", path, err)
	}

	return jobs.Profile(v.AllSettings()), nil
}

func loadAnalysis(path string) (*jobs.JobAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analysis %q: %w", path, err)
	}

	var analysis jobs.JobAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("parsing analysis %q: %w", path, err)
	}

	return &analysis, nil
}
