package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/internal/optimizer"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/output"
	"github.com/iwvelando/deal-analyzer/pkg/validation"
	"go.uber.org/zap"
)

// options are the command line settings of one run.
type options struct {
	configLocation string
	outputFormat   string
	outputFile     string
	logLevel       string
	skipOptimizer  bool
	now            time.Time
}

func main() {
	opts := options{now: time.Now()}
	flag.StringVar(&opts.configLocation, "config", constants.DefaultConfigFile, "path to deal file")
	flag.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, json, xlsx")
	flag.StringVar(&opts.outputFile, "output-file", "", "target file for xlsx output")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flag.BoolVar(&opts.skipOptimizer, "skip-optimizer", false, "do not solve the optimizer directives of the deal file")
	flag.Parse()

	// Load the deal file to get logging configuration
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", opts.configLocation, err)
		os.Exit(1)
	}

	logger, err := conf.Logging.BuildLogger(opts.logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(logger, conf, opts, os.Stdout); err != nil {
		logger.Fatal("deal analysis failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// run analyzes the deal of conf and writes the report to stdout, or to the
// output file for xlsx.
func run(logger *zap.Logger, conf *config.Configuration, opts options, stdout io.Writer) error {
	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	if err := validation.ValidateDeal(conf.Deal, conf.Scenario); err != nil {
		return fmt.Errorf("invalid deal: %w", err)
	}

	warnings := validation.DealWarnings(conf.Deal)
	for _, warning := range warnings {
		logger.Warn("Deal warning: "+warning,
			zap.String("op", "main.run"),
		)
	}

	engine := analysis.NewEngine(logger)
	report := output.Report{
		Name:     opts.configLocation,
		Metrics:  engine.Analyze(conf.Deal, conf.Scenario),
		Warnings: warnings,
	}

	asOf, err := conf.AsOfTime(opts.now)
	if err != nil {
		return err
	}
	debt, err := analysis.CurrentDebt(conf.Deal.Loans, asOf)
	if err != nil {
		return fmt.Errorf("failed to compute current debt: %w", err)
	}
	report.Debt = &debt

	if len(conf.Optimizer) > 0 && !opts.skipOptimizer {
		runner := optimizer.NewRunner(logger, conf.Deal, conf.Scenario)
		report.Optimizations, err = runner.Run(conf.Optimizer)
		if err != nil {
			return fmt.Errorf("optimizer execution failed: %w", err)
		}
	}

	if outputFormat != constants.OutputFormatXLSX {
		return output.Write(stdout, outputFormat, report)
	}

	path := conf.Output.File
	if opts.outputFile != "" {
		path = opts.outputFile
	}
	if path == "" {
		path = constants.DefaultXLSXFile
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := output.Write(file, outputFormat, report); err != nil {
		_ = file.Close()
		return err
	}
	logger.Info("workbook written", zap.String("op", "main.run"), zap.String("path", path))
	return file.Close()
}
