package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/tseries/internal/api"
	"github.com/tejusbharadwaj/tseries/internal/config"
	"github.com/tejusbharadwaj/tseries/internal/pipeline"
	middleware "github.com/tejusbharadwaj/tseries/internal/pipeline/middlewares"
)

// Command tseries reads a time series document, runs the configured
// processing pipeline over it and writes the result.
//
// The pipeline supports:
//   - Gap filling (zero, pad, linear) and alignment to a fixed period
//   - Per-second rates, column selection, collapse and renaming
//   - Fixed, hourly and daily rollups with any reducer or percentile
//   - Prometheus step metrics written to a textfile
//
// Usage:
//
//	tseries [flags]
//
// The flags are:
//
//	-config string
//	      path to config file (default "config.yaml")
//	-input string
//	      input document, "-" for stdin (default "-")
//	-output string
//	      output document, "-" for stdout (default "-")
//	-metrics-file string
//	      write step metrics here, overriding metrics.file
func main() {
	// Parse command line flags
	cfg := parseFlags()

	// Load configuration
	appConfig, err := config.Load(cfg.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize structured logger
	logger, err := newLogger(appConfig.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	registry := prometheus.NewRegistry()
	metrics, err := middleware.NewStepMetrics(appConfig.Metrics.Namespace, registry)
	if err != nil {
		logger.Fatalf("Failed to register metrics: %v", err)
	}

	steps, err := pipeline.Build(appConfig.Pipeline.Steps, appConfig.Series.Timezone)
	if err != nil {
		logger.Fatalf("Failed to build pipeline: %v", err)
	}
	runner := pipeline.NewRunner(steps,
		middleware.NewRecoveryInterceptor(logger),
		middleware.NewLoggingInterceptor(logger),
		middleware.NewMetricsInterceptor(metrics),
	)

	// Cancel the run on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := api.NewSeriesReader(appConfig.Series)
	input, err := reader.ReadFile(cfg.Input)
	if err != nil {
		logger.Fatalf("Failed to read input: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"series": input.Name(),
		"events": input.Size(),
		"steps":  runner.Steps(),
	}).Info("Starting pipeline")

	output, err := runner.Run(ctx, input)
	if err != nil {
		logger.Fatalf("Pipeline failed: %v", err)
	}

	if err := api.WriteFile(cfg.Output, output); err != nil {
		logger.Fatalf("Failed to write output: %v", err)
	}

	metricsFile := appConfig.Metrics.File
	if cfg.MetricsFile != "" {
		metricsFile = cfg.MetricsFile
	}
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			logger.Fatalf("Failed to write metrics: %v", err)
		}
	}

	logger.WithFields(logrus.Fields{
		"series": output.Name(),
		"events": output.Size(),
	}).Info("Pipeline finished")
}

type Config struct {
	ConfigPath  string
	Input       string
	Output      string
	MetricsFile string
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.ConfigPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&cfg.Input, "input", "-", "Input document, - for stdin")
	flag.StringVar(&cfg.Output, "output", "-", "Output document, - for stdout")
	flag.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write step metrics to this textfile")

	flag.Parse()

	return cfg
}

func newLogger(cfg config.LoggingConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	// stdout may carry the output document
	logger.SetOutput(os.Stderr)
	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}
