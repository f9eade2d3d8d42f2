// benchreport - bench plot organizer and report generator
//
// benchreport takes a directory or archive (zip/7z) of plot images and
// CSV files produced by a hardware test bench, classifies the plots
// into a fixed bucket taxonomy by filename, mirrors them into a
// plots/<bucket>/ tree, and renders a paginated PDF or Markdown report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benchlab/benchreport/pkg/config"
	"github.com/benchlab/benchreport/pkg/errors"
	"github.com/benchlab/benchreport/pkg/logging"
	"github.com/benchlab/benchreport/pkg/pipeline"
)

const version = "1.2.0"

var (
	flagOutput  string
	flagFormat  string
	flagConfig  string
	flagInit    bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "benchreport <source>",
	Short: "Organize bench plot images and generate a report",
	Long: `benchreport classifies plot images from a hardware test bench run,
copies them into a mirrored plots/<bucket>/ tree, summarizes CSV files,
and lays the plots out into a paginated PDF or Markdown report.

The source may be a results directory or a zip/7z archive of one.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", pipeline.DefaultOutputDir,
		"directory for the report and organized files")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "",
		"report format: pdf or markdown (default from config)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "",
		"config file path (default: benchreport.yaml if present)")
	rootCmd.Flags().BoolVar(&flagInit, "init", false,
		"write a default config file and exit")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"verbose (debug) logging")
}

func run(cmd *cobra.Command, args []string) error {
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}

	if flagInit {
		if err := config.InitConfig(cfgPath); err != nil {
			return err
		}
		fmt.Printf("Config initialized at: %s\n", cfgPath)
		return nil
	}

	if len(args) != 1 {
		return errors.ValidationError("NO_SOURCE", "a source directory or archive is required")
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return err
	}
	if flagFormat != "" {
		cfg.Report.Format = flagFormat
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}

	log, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure is unactionable

	artifact, err := pipeline.Run(args[0], flagOutput, cfg, log)
	if err != nil {
		// Full diagnostic detail (stack included at error level) goes
		// through the structured log; main prints the short form.
		log.Error("run failed", zap.Error(err))
		return err
	}

	fmt.Printf("Done! Report saved to %s\n", artifact)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if be, ok := errors.AsBenchError(err); ok {
			if ctx := be.ContextString(); ctx != "" {
				fmt.Fprintf(os.Stderr, "  %s\n", ctx)
			}
			fmt.Fprintf(os.Stderr, "  category: %s\n", be.Category)
		}
		os.Exit(1)
	}
}
