package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/wildpay/internal/config"
	"github.com/mmynk/wildpay/internal/events"
	"github.com/mmynk/wildpay/internal/metrics"
	"github.com/mmynk/wildpay/internal/server"
	"github.com/mmynk/wildpay/internal/storage"
	"github.com/mmynk/wildpay/internal/storage/memory"
	"github.com/mmynk/wildpay/internal/storage/sqlite"
	"github.com/mmynk/wildpay/pkg/logging"
)

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  `Start the Connect API server. Settings come from the environment or a .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
			}

			logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().String("port", "", "Port to listen on (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var opts []server.Option

	if cfg.MetricsEnabled {
		opts = append(opts, server.WithMetrics(metrics.New()))
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("connect event publisher: %w", err)
		}
		defer publisher.Close()
		opts = append(opts, server.WithPublisher(publisher))
		slog.Info("Publishing events", "exchange", cfg.AMQPExchange)
	}

	return server.New(cfg, store, opts...).Run(ctx)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
		return memory.New(), nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "database", cfg.DBPath)
		return store, nil
	}
}
