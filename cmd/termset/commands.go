package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/termset/config"
	"github.com/c360studio/termset/handle"
	"github.com/c360studio/termset/pipeline"
	"github.com/c360studio/termset/watch"
)

// buildFlags override the loaded configuration for one invocation.
type buildFlags struct {
	input           string
	sheet           string
	output          string
	mode            string
	formats         []string
	exportDir       string
	metricsTextfile string
	notifyURL       string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Source spreadsheet (.xls, .xlsx, .csv, .tsv); globs must match one file")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Workbook sheet to read (default: first sheet)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Terms file to write")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Output mode (terms, legacy)")
	cmd.Flags().StringSliceVar(&f.formats, "format", nil, "SKOS export formats (turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&f.exportDir, "export-dir", "", "Directory for SKOS exports (default: output directory)")
	cmd.Flags().StringVar(&f.metricsTextfile, "metrics-textfile", "", "Prometheus textfile to write after each build")
	cmd.Flags().StringVar(&f.notifyURL, "notify-url", "", "NATS server to announce builds on")
}

// apply merges the flags into cfg. Flag paths are relative to the working
// directory.
func (f *buildFlags) apply(cfg *config.Config) error {
	abs := func(p string) (string, error) {
		if p == "" {
			return "", nil
		}
		return filepath.Abs(p)
	}

	override := &config.Config{
		Input:  config.InputConfig{Sheet: f.sheet},
		Output: config.OutputConfig{Mode: config.OutputMode(f.mode)},
		Export: config.ExportConfig{Formats: f.formats},
		Notify: config.NotifyConfig{URL: f.notifyURL},
	}

	var err error
	if override.Input.Path, err = abs(f.input); err != nil {
		return err
	}
	if override.Output.Path, err = abs(f.output); err != nil {
		return err
	}
	if override.Export.Dir, err = abs(f.exportDir); err != nil {
		return err
	}
	if override.Metrics.Textfile, err = abs(f.metricsTextfile); err != nil {
		return err
	}

	cfg.Merge(override)
	return cfg.Validate()
}

func loadConfig(g *globalFlags, flags *buildFlags) (*config.Config, error) {
	cfg, err := config.NewLoader(g.logger).Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags != nil {
		if err := flags.apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

func buildCmd(g *globalFlags) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the Terms file once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, flags)
			if err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), cfg, g.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d terms from %d rows to %s\n", res.Terms, res.Stats.Rows, res.Output)
			for _, p := range res.Exports {
				fmt.Fprintf(out, "Exported %s\n", p)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func watchCmd(g *globalFlags) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever the source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, flags)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner, err := pipeline.NewRunner(cfg, g.logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			lastErr := initialBuild(ctx, runner, g.logger)

			patterns := cfg.Watch.Patterns
			if len(patterns) == 0 {
				patterns = []string{cfg.Input.Path}
			}

			w, err := watch.New(patterns, cfg.Watch.Debounce, func(ctx context.Context, _ []string) error {
				_, lastErr = runner.Run(ctx)
				return lastErr
			}, g.logger)
			if err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}

			err = w.Run(ctx)
			if lastErr != nil {
				g.logger.Warn("Watch stopped with last build failed", "error", lastErr)
			} else {
				g.logger.Info("Watch stopped")
			}
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// initialBuild runs the first build of a watch session. A failure does not
// stop the session; the next source change retries it.
func initialBuild(ctx context.Context, runner *pipeline.Runner, logger *slog.Logger) error {
	if _, err := runner.Run(ctx); err != nil {
		logger.Warn("Initial build failed, waiting for changes", "error", err)
		return err
	}
	return nil
}

func handleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handle <text>...",
		Short: "Print the handle a term label normalizes to",
		Example: `  termset handle "Left Kidney"      # left_kidney
  termset handle leftKidney         # left_kidney`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), handle.Normalize(strings.Join(args, " ")))
		},
	}
}

func configCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage termset configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the user config file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(g.logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, nil)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	})

	return cmd
}
