package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobsift"
)

type Config struct {
	BatchSize   int           `mapstructure:"batch-size"`
	MaxWorkers  int           `mapstructure:"max-workers"`
	ExpandLinks bool          `mapstructure:"expand-links"`
	Fetch       *FetchConfig  `mapstructure:"fetch"`
	Output      *OutputConfig `mapstructure:"output"`
	Gemini      *GeminiConfig `mapstructure:"gemini"`
}

type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
}

type OutputConfig struct {
	File    string `mapstructure:"file"`
	RawFile string `mapstructure:"raw-file"`
	SQLite  string `mapstructure:"sqlite"`
}

type GeminiConfig struct {
	APIKeyFile     string        `mapstructure:"api-key-file"`
	Model          string        `mapstructure:"model"`
	MaxRetries     int           `mapstructure:"max-retries"`
	RetryDelay     time.Duration `mapstructure:"retry-delay"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	CallsPerMinute int           `mapstructure:"calls-per-minute"`
	MaxLogLength   int           `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobsift extracts structured job posting records from career page URLs",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobsift.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("batch-size", 10)
	viper.SetDefault("max-workers", 10)
	viper.SetDefault("fetch.timeout", 10*time.Second)
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.max-retries", 1)
	viper.SetDefault("gemini.retry-delay", 2*time.Second)
	viper.SetDefault("gemini.request-timeout", 60*time.Second)
	viper.SetDefault("gemini.calls-per-minute", 15)
	viper.SetDefault("gemini.max-log-length", 200)
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional; flags and defaults cover a full run.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
