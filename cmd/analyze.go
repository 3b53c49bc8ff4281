package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/jobs"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract title, company, skills, responsibilities and keywords from a job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel, svc := setup()
		defer cancel()

		input, err := postingInput(cmd)
		if err != nil {
			svc.logger.Fatal("reading posting", zap.Error(err))
		}

		analysis, err := analyze(ctx, svc, input)
		if err != nil {
			svc.logger.Fatal("analyzing posting", zap.Error(err))
		}

		if err := writeJSON(cmd.OutOrStdout(), analysis); err != nil {
			svc.logger.Fatal("printing analysis", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addPostingFlags(analyzeCmd)
}

func addPostingFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("url", "u", "", "url of the job posting")
	cmd.Flags().String("description", "", "pasted job posting text")
	cmd.Flags().String("description-file", "", "file with the job posting text, - for stdin")
}

func analyze(ctx context.Context, svc *services, input jobs.Input) (*jobs.JobAnalysis, error) {
	if strings.TrimSpace(input.URL) == "" && strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("a posting url or description is required")
	}

	return svc.analyzer.Analyze(ctx, input)
}

// postingInput reads the posting from flags and asks for it interactively
// when no flag is given.
func postingInput(cmd *cobra.Command) (jobs.Input, error) {
	url, _ := cmd.Flags().GetString("url")
	description, _ := cmd.Flags().GetString("description")
	file, _ := cmd.Flags().GetString("description-file")

	if file != "" {
		text, err := readTextFile(cmd, file)
		if err != nil {
			return jobs.Input{}, err
		}
		description = strings.TrimSpace(description + "\n\n" + text)
	}

	if strings.TrimSpace(url) != "" || strings.TrimSpace(description) != "" {
		return jobs.Input{URL: url, Description: description}, nil
	}

	return promptPosting()
}

func readTextFile(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		var b strings.Builder
		if _, err := io.Copy(&b, cmd.InOrStdin()); err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return b.String(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}
	return string(data), nil
}

func promptPosting() (jobs.Input, error) {
	urlPrompt := promptui.Prompt{
		Label: "Posting URL (empty to paste text)",
	}
	url, err := urlPrompt.Run()
	if err != nil {
		return jobs.Input{}, err
	}

	if strings.TrimSpace(url) != "" {
		return jobs.Input{URL: url}, nil
	}

	textPrompt := promptui.Prompt{
		Label: "Posting text",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("text must not be empty")
			}
			return nil
		},
	}
	text, err := textPrompt.Run()
	if err != nil {
		return jobs.Input{}, err
	}

	return jobs.Input{Description: text}, nil
}
