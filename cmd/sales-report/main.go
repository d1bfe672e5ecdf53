package main

import (
	"context"
	"flag"
	"os"

	"go-sales-report/internal/config"
	"go-sales-report/internal/logger"
	"go-sales-report/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sales-report", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML config file")
	inputDir := fs.String("input", "", "directory holding the sales export CSV files (default \"input\")")
	outputDir := fs.String("output", "", "directory receiving csv/ and spreadsheets/ (default \"output\")")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logger.New().Level(logger.ParseLevel(*logLevel))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return 1
	}
	if *inputDir != "" {
		cfg.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	ctx := logger.WithContext(context.Background(), log)
	if _, err := pipeline.Run(ctx, cfg); err != nil {
		return 1
	}
	return 0
}
