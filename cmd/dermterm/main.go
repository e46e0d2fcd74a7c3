package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/avellar/dermterm/internal/config"
	"github.com/avellar/dermterm/internal/session"
	"github.com/avellar/dermterm/internal/tui"
	"github.com/avellar/dermterm/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverURL string

	rootCmd := &cobra.Command{
		Use:           "dermterm",
		Short:         "Terminal client for the Dermalyze skin analysis service",
		Long:          "dermterm connects to a Dermalyze server to upload skin images for AI analysis, browse your analysis history and send feedback, all from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(serverURL)
		},
	}
	rootCmd.Flags().StringVar(&serverURL, "server", "", "Dermalyze server URL (overrides config)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "dermterm "+version)
			return err
		},
	})

	return rootCmd
}

func run(serverURL string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}

	log, closeLog := newLogger()
	defer closeLog()
	log.Debug("starting", "version", version, "server", cfg.ServerURL)

	c := client.New(cfg.ServerURL, log)

	app := tui.NewApp(c, cfg, session.New(), log)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// newLogger returns a debug logger writing to ~/.dermterm/debug.log when
// DERMTERM_DEBUG=1, and a discard logger otherwise. Logging to the terminal
// would corrupt the alternate screen.
func newLogger() (*slog.Logger, func()) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if os.Getenv("DERMTERM_DEBUG") != "1" {
		return discard, func() {}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return discard, func() {}
	}
	dir := filepath.Join(home, ".dermterm")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return discard, func() {}
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return log, func() { f.Close() }
}
