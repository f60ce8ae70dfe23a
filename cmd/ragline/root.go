package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ragline-ai/go-ragline/pkg/config"
	"github.com/ragline-ai/go-ragline/pkg/logging"
	"github.com/ragline-ai/go-ragline/pkg/ragline"
)

var (
	flagConfig      string
	flagVerbose     bool
	flagMetricsAddr string
)

var rootCmd = &cobra.Command{
	Use:           "ragline",
	Short:         "Question answering over a local document knowledge base",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address for the command's duration, e.g. :9090")
}

// commandContext loads the configuration and prepares a context carrying
// the logger and a trace ID for the whole command run.
func commandContext(cmd *cobra.Command) (context.Context, *config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}

	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	logger := slog.New(logging.NewZerologHandler(zl))

	ctx := ragline.WithLogger(cmd.Context(), logger)
	ctx = ragline.WithTraceID(ctx, uuid.NewString())
	return ctx, cfg, nil
}
