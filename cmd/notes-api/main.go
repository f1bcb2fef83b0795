package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"example.com/pinnotes/internal/config"
	"example.com/pinnotes/internal/db"
	"example.com/pinnotes/internal/notes"
)

var (
	memory  bool
	verbose bool
	addr    string
)

var rootCmd = &cobra.Command{
	Use:          "notes-api",
	Short:        "Reference notes service",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		cfg := config.Load()
		if addr != "" {
			cfg.HTTPAddr = addr
		}
		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&memory, "memory", false, "keep notes in memory instead of Postgres")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every request")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address (default $HTTP_ADDR or :8080)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           notes.NewHandlers(store, notes.WithLogger(logger)).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("notes api listening", "addr", cfg.HTTPAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openStore picks Postgres when DATABASE_URL is set and --memory is not.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (notes.Store, func(), error) {
	if memory || cfg.DatabaseURL == "" {
		logger.Warn("using in-memory store, notes are lost on exit")
		return notes.NewMemStore(), func() {}, nil
	}

	dbConn, err := db.Open(ctx, cfg.DatabaseURL, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime)
	if err != nil {
		logger.Error("open database", "err", err)
		return nil, nil, err
	}
	if err := dbConn.Migrate(ctx); err != nil {
		_ = dbConn.SQL.Close()
		logger.Error("migrate", "err", err)
		return nil, nil, err
	}

	repo, err := notes.NewRepository(ctx, dbConn.SQL)
	if err != nil {
		_ = dbConn.SQL.Close()
		logger.Error("prepare statements", "err", err)
		return nil, nil, err
	}
	return repo, func() {
		_ = repo.Close()
		_ = dbConn.SQL.Close()
	}, nil
}
