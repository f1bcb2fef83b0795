package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"example.com/pinnotes/internal/client"
	"example.com/pinnotes/internal/config"
	"example.com/pinnotes/internal/notesync"
	"example.com/pinnotes/internal/view"
)

// errShown is returned by commands that already told the user what went
// wrong; Execute only sets the exit code for it.
var errShown = errors.New("error already reported")

var (
	verbose    bool
	apiURL     string
	configPath string
	timeout    time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Take notes against a remote notes service",
	Long: `notes lists, adds, edits, pins and deletes notes stored by a remote
notes service. Pinned notes are listed first, newest first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errShown) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Notes service base URL (default $NOTES_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default $NOTES_HTTP_TIMEOUT)")
}

// newApp builds the notes cache from flags, config file and environment.
func newApp() (*notesync.Sync, error) {
	cfg := config.Load()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return nil, err
		}
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if timeout > 0 {
		cfg.HTTPTimeout = timeout
	}

	slog.Debug("notes service", "url", cfg.APIURL, "timeout", cfg.HTTPTimeout)
	c := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(slog.Default()),
	)
	return notesync.New(c, notesync.WithLogger(slog.Default())), nil
}

// resolve finds the note a command argument refers to: either its number in
// the listing or its id.
func resolve(ctx context.Context, app *notesync.Sync, ref string) (client.Note, error) {
	if _, err := app.Query(ctx); err != nil {
		return client.Note{}, fmt.Errorf("could not load notes: %w", err)
	}

	var list view.List
	if err := list.Render(io.Discard, app.Snapshot()); err != nil {
		return client.Note{}, err
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if note, ok := list.At(n); ok {
			return note, nil
		}
	}
	for _, note := range list.Rows() {
		if string(note.ID) == ref {
			return note, nil
		}
	}
	return client.Note{}, fmt.Errorf("no note %q", ref)
}

// printList refreshes the cache if needed and prints the list.
func printList(ctx context.Context, app *notesync.Sync) error {
	_, fetchErr := app.Query(ctx)

	var list view.List
	if err := list.Render(os.Stdout, app.Snapshot()); err != nil {
		return err
	}
	if fetchErr != nil {
		return errShown
	}
	return nil
}

