package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobfit/internal/fetch"
	"github.com/spigell/jobfit/internal/jobs"
)

const (
	app       = "jobfit"
	envPrefix = "JOBFIT"
)

type Config struct {
	UserAgent string         `mapstructure:"user-agent"`
	Fetch     *FetchConfig   `mapstructure:"fetch"`
	AI        *AIConfig      `mapstructure:"ai"`
	Scoring   *ScoringConfig `mapstructure:"scoring"`
}

type FetchConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxChars int           `mapstructure:"max-chars"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	APIKey       string        `mapstructure:"api-key"`
	APIKeyFile   string        `mapstructure:"api-key-file"`
	BaseURL      string        `mapstructure:"base-url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max-retries"`
	MaxLogLength int           `mapstructure:"max-log-length"`
}

type ScoringConfig struct {
	Fallback string       `mapstructure:"fallback"`
	Weights  jobs.Weights `mapstructure:"weights"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobfit extracts the essentials of a job posting and scores a profile against it",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobfit.yaml in current directory, optional)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("provider", "", "ai provider: openai, gemini, ollama or none")
	rootCmd.PersistentFlags().String("model", "", "model name override")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("ai.provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("ai.model", rootCmd.PersistentFlags().Lookup("model"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user-agent", "")
	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.max-chars", fetch.DefaultMaxChars)
	v.SetDefault("ai.provider", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api-key", "")
	v.SetDefault("ai.api-key-file", "")
	v.SetDefault("ai.base-url", "")
	v.SetDefault("ai.timeout", 0)
	v.SetDefault("ai.max-retries", 2)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("scoring.fallback", string(jobs.FallbackHeuristic))
	v.SetDefault("scoring.weights.required", jobs.DefaultWeights().Required)
	v.SetDefault("scoring.weights.keyword", jobs.DefaultWeights().Keyword)
}

func initConfig() {
	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig wires environment overrides (JOBFIT_AI_API_KEY and friends) and
// reads the config file. Only an explicitly requested file must exist.
func readConfig(v *viper.Viper, file string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}

	return nil
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Fetch == nil {
		config.Fetch = &FetchConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{Weights: jobs.DefaultWeights()}
	}

	return config, nil
}
