package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-insights/internal/api"
	"github.com/insightdelivered/statement-insights/internal/config"
	"github.com/insightdelivered/statement-insights/internal/extractor"
	"github.com/insightdelivered/statement-insights/internal/logger"
	"github.com/insightdelivered/statement-insights/internal/metrics"
	"github.com/insightdelivered/statement-insights/internal/pipeline"
)

// setup loads configuration and returns the logger and a pipeline built from it.
func setup(m *metrics.Metrics) (*config.Config, zerolog.Logger, *pipeline.Pipeline, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	log := logger.New(cfg.Log.Level)
	if cfg.Log.Format == "json" {
		log = logger.NewWithWriter(os.Stderr).Level(logger.ParseLevel(cfg.Log.Level))
	}
	return cfg, log, pipeline.FromConfig(cfg, m), nil
}

func newParseCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "parse <file> [file ...]",
		Short: "Parse one or more statement files",
		Example: `  finsight parse statement.pdf
  finsight parse --format csv --output nov.csv statement.txt
  finsight parse --format json jan.pdf feb.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseFormat(format); err != nil {
				return err
			}
			if output != "" && len(args) > 1 {
				return errors.New("--output requires a single input file")
			}
			_, log, p, err := setup(nil)
			if err != nil {
				return err
			}

			for _, path := range args {
				ctx := logger.WithContext(cmd.Context(), log.With().Str("file", path).Logger())
				if err := parseFile(ctx, p, path, format, output); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), pipeline.FailureStatus)
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write output to this file instead of stdout")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Parse the built-in sample statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			_, log, p, err := setup(nil)
			if err != nil {
				return err
			}
			res, err := p.Parse(logger.WithContext(cmd.Context(), log), pipeline.SampleText)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), f, "sample.txt", res)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or csv")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parse API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector())
			m := metrics.NewMetrics(registry)

			cfg, log, p, err := setup(m)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr()
			}

			app := api.NewApp(&api.Handler{
				Pipeline: p,
				Metrics:  m,
				Gatherer: registry,
				Log:      log,
				Version:  version,
			}, cfg.Server.BodyLimitMB)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Str("version", version).Msg("Starting server")
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.host/server.port)")
	return cmd
}

func parseFile(ctx context.Context, p *pipeline.Pipeline, path, format, output string) error {
	log := logger.FromContext(ctx)
	text, err := extractor.Load(path)
	if err != nil {
		if errors.Is(err, extractor.ErrNoText) {
			log.Warn().Msg("No readable text; the file may be a scanned image")
		}
		return fmt.Errorf("%w: %w", pipeline.ErrParseFailed, err)
	}
	res, err := p.Parse(ctx, text)
	if err != nil {
		return err
	}

	f, _ := parseFormat(format)
	if output == "" {
		return render(os.Stdout, f, filepath.Base(path), res)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", output, err)
	}
	if err := render(out, f, filepath.Base(path), res); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output file %q: %w", output, err)
	}
	log.Info().Str("output", output).Int("transactions", len(res.Transactions)).Msg("Wrote output")
	return nil
}
