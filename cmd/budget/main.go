package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"budget/internal/charts"
	"budget/internal/cli"
	"budget/internal/config"
	applog "budget/internal/log"
	"budget/internal/metrics"
	"budget/internal/script"
	"budget/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg, os.Stderr)

	if err := run(cfg, logger, os.Args[1:]); err != nil {
		logger.Error("budget failed", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *applog.Logger, args []string) error {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	input, name, err := cli.OpenScript(args)
	if err != nil {
		return err
	}
	cmds, err := parseScript(input, name, logger)
	if err != nil {
		return err
	}
	logger.Info("Script loaded", "script", name, "commands", len(cmds))

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	client, err := cli.InitPublisher(cfg, logger)
	if err != nil {
		return err
	}

	// A nil *amqp.Client must not become a non-nil publisher interface.
	var publisher services.EventPublisher
	if client != nil {
		publisher = client
	}
	book := services.NewBook(publisher, m, logger)
	defer func() {
		if err := book.Close(); err != nil {
			logger.Warn("Failed to close publisher", applog.FieldError, err)
		}
	}()

	runner := script.NewRunner(book, logger)

	g, gctx := errgroup.WithContext(ctx)
	runCtx, finished := context.WithCancel(gctx)
	defer finished()

	g.Go(func() error {
		defer finished()
		return runner.Run(runCtx, cmds, os.Stdout)
	})

	if client != nil {
		closed := client.NotifyClose()
		g.Go(func() error {
			select {
			case <-runCtx.Done():
				return nil
			case amqpErr, ok := <-closed:
				if ok && amqpErr != nil {
					return fmt.Errorf("broker connection lost: %w", amqpErr)
				}
				return nil
			}
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			logger.Info("Shutdown signal received, script stopped", applog.FieldOperation, applog.OpShutdown)
		}
		return err
	}

	if err := writeChartPNG(cfg, runner, logger); err != nil {
		return err
	}

	if cfg.MetricsDump {
		if err := metrics.Dump(ctx, reg, logger); err != nil {
			return err
		}
	}
	return nil
}

// parseScript parses and closes input. A failed close is logged; the
// commands already read are still returned.
func parseScript(input io.ReadCloser, name string, logger *applog.Logger) ([]script.Command, error) {
	cmds, err := script.Parse(input)
	if cerr := input.Close(); cerr != nil {
		logger.Warn("Failed to close script", "script", name, applog.FieldError, cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cmds, nil
}

func writeChartPNG(cfg *config.Config, runner *script.Runner, logger *applog.Logger) error {
	if cfg.ChartPNGPath == "" {
		return nil
	}
	chart, ok := runner.LastChart()
	if !ok {
		logger.Info("No chart rendered, skipping PNG", "path", cfg.ChartPNGPath)
		return nil
	}

	png, err := charts.NewGenerator(cfg.ChartWidth, cfg.ChartHeight).SpendChartPNG(chart.Breakdown)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.ChartPNGPath, png, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	logger.WithComponent(applog.ComponentChart).Info("Spend chart written", "path", cfg.ChartPNGPath, "bytes", len(png))
	return nil
}
