package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/vtrofin/jobsift/internal/extract"
	"github.com/vtrofin/jobsift/internal/fetch"
	"github.com/vtrofin/jobsift/internal/gemini"
	"github.com/vtrofin/jobsift/internal/logger"
	"github.com/vtrofin/jobsift/internal/pipeline"
	"github.com/vtrofin/jobsift/internal/secrets"
	"github.com/vtrofin/jobsift/internal/sink"
	"github.com/vtrofin/jobsift/internal/source"
	"github.com/vtrofin/jobsift/internal/throttle"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var prompt = promptui.Select{
	Label: "Output file already exists, append to it?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the jobsift extraction pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "input file with a url column (required)")
	runCmd.Flags().StringP("output", "o", "jobs.csv", "output file for extracted records")
	runCmd.Flags().String("raw-file", "", "optional raw dump file for extracted lines")
	runCmd.Flags().String("sqlite", "", "optional sqlite database for extracted records")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before appending to an existing output file")
	runCmd.Flags().Bool("expand-links", false, "treat input urls as listing pages and expand their job links")

	if err := runCmd.MarkFlagRequired("input"); err != nil {
		log.Fatalf("marking input flag required: %v", err)
	}

	viper.BindPFlag("output.file", runCmd.Flags().Lookup("output"))
	viper.BindPFlag("output.raw-file", runCmd.Flags().Lookup("raw-file"))
	viper.BindPFlag("output.sqlite", runCmd.Flags().Lookup("sqlite"))
	viper.BindPFlag("expand-links", runCmd.Flags().Lookup("expand-links"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobsift", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Gemini == nil {
		logger.Fatal("gemini configuration is required for the generative stage")
	}

	input := cmd.Flag("input").Value.String()

	urls, err := source.ReadURLs(input)
	if err != nil {
		if errors.Is(err, source.ErrMissingURLColumn) {
			logger.Fatal("input file must have a url column", zap.String("input", input))
		}
		logger.Fatal("reading input file", zap.Error(err))
	}

	if len(urls) == 0 {
		logger.Info("exiting", zap.String("reason", "no urls in input file"))
		return
	}

	logger.Info("loaded input urls", zap.Int("count", len(urls)))

	fetcher := fetch.New(config.Fetch.Timeout, config.Fetch.UserAgent, logger)

	if config.ExpandLinks {
		urls = expandLinks(ctx, fetcher, urls, logger)
		if len(urls) == 0 {
			logger.Info("exiting", zap.String("reason", "no job links found on listing pages"))
			return
		}
	}

	if !confirmAppend(cmd, config.Output.File, logger) {
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return
	}

	sinks, closeSinks, err := buildSinks(config.Output)
	if err != nil {
		logger.Fatal("opening outputs", zap.Error(err))
	}
	defer closeSinks(logger)

	parser, err := newBatchParser(ctx, config.Gemini, logger)
	if err != nil {
		logger.Fatal(
			"building the generative parser",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	strategies := []extract.Strategy{
		extract.NewSchemaOrg(),
		extract.NewHeuristic(),
	}

	orch := pipeline.New(fetcher, strategies, parser, sinks, pipeline.Config{
		BatchSize: config.BatchSize,
		Workers:   config.MaxWorkers,
	}, logger)

	summary, err := orch.Run(ctx, urls)
	if err != nil {
		logger.Fatal("run aborted", zap.Error(err))
	}

	logger.Info("run finished",
		zap.Int("total", summary.Total),
		zap.Int("direct", summary.Direct),
		zap.Int("generative", summary.Generative),
		zap.Int("defaulted", summary.Defaulted),
		zap.Int("fetch_errors", summary.FetchErrors),
	)

	if summary.SinkErrors > 0 {
		logger.Warn("some records were not persisted", zap.Int("sink_errors", summary.SinkErrors))
	}
}

// confirmAppend asks before appending to a non-empty output file unless
// auto-approve is set.
func confirmAppend(cmd *cobra.Command, path string, logger *zap.Logger) bool {
	if cmd.Flag("auto-approve").Value.String() == "true" {
		return true
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return true
	}

	_, action, err := prompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	return action == PromptYes
}

// expandLinks fetches every input url as a listing page and collects its job
// links. A page without any job link is kept as-is since it may itself be a
// posting.
func expandLinks(ctx context.Context, client *fetch.Client, urls []string, logger *zap.Logger) []string {
	seen := make(map[string]bool)
	var expanded []string

	for _, url := range urls {
		html, err := client.Fetch(ctx, url)
		if err != nil {
			logger.Warn("expanding listing page failed", zap.String("url", url), zap.Error(err))
			continue
		}

		links := fetch.JobLinks(html, url)
		if len(links) == 0 {
			links = []string{url}
		}

		for _, link := range links {
			if !seen[link] {
				seen[link] = true
				expanded = append(expanded, link)
			}
		}
	}

	logger.Info("expanded listing pages",
		zap.Int("pages", len(urls)),
		zap.Int("links", len(expanded)),
	)

	return expanded
}

func buildSinks(cfg *OutputConfig) ([]sink.Sink, func(*zap.Logger), error) {
	var sinks []sink.Sink

	closeAll := func(logger *zap.Logger) {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				logger.Warn("closing output", zap.Error(err))
			}
		}
	}

	csvSink, err := sink.NewCSV(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	sinks = append(sinks, csvSink)

	if cfg.RawFile != "" {
		raw, err := sink.NewRawDump(cfg.RawFile)
		if err != nil {
			closeAll(zap.NewNop())
			return nil, nil, err
		}
		sinks = append(sinks, raw)
	}

	if cfg.SQLite != "" {
		db, err := sink.OpenSQLite(cfg.SQLite)
		if err != nil {
			closeAll(zap.NewNop())
			return nil, nil, err
		}
		sinks = append(sinks, db)
	}

	return sinks, closeAll, nil
}

func newBatchParser(ctx context.Context, cfg *GeminiConfig, baseLogger *zap.Logger) (*gemini.Parser, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model)
	if err != nil {
		return nil, err
	}

	parserLogger := logger.WithGenerativeFields(baseLogger, "gemini", generator.Model())

	return gemini.NewParser(generator, throttle.New(cfg.CallsPerMinute), gemini.ParserConfig{
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
		RequestTimeout: cfg.RequestTimeout,
		MaxLogLength:   cfg.MaxLogLength,
	}, parserLogger), nil
}
