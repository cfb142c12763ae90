package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger HTTP API",
		Long: `Start the HTTP API. By default the ledger is stored in PostgreSQL using the
DB_* environment variables; --sqlite switches to a local database file.`,
		RunE: runServe,
	}

	cmd.Flags().String("sqlite", "", "path to a sqlite database file to use instead of PostgreSQL")
	cmd.Flags().String("port", "", "port to listen on (overrides SERVER_PORT)")

	_ = viper.BindPFlag("database.sqlite", cmd.Flags().Lookup("sqlite"))
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port := viper.GetString("server.port"); port != "" {
		cfg.Server.Port = port
	}

	db, err := openDatabase(cfg, viper.GetString("database.sqlite"))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx := cmd.Context()
	app := newApplication(cfg, db.DB, registry, slog.Default())
	app.start(ctx)

	e := app.router()
	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting ledger API", "addr", server.Addr, "environment", cfg.Server.Environment)
		errCh <- e.StartServer(server)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("Ledger API stopped")

	return nil
}

func openDatabase(cfg *config.Config, sqlitePath string) (*database.DB, error) {
	if sqlitePath != "" {
		slog.Info("Using sqlite database", "path", sqlitePath)
		db, err := database.InitializeSQLite(sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, nil
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}
