package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/dealopt/internal/calculation"
	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/config"
	"github.com/rgehrsitz/dealopt/internal/logging"
	"github.com/rgehrsitz/dealopt/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:           "dealopt-tui <customer-file>",
	Short:         "Interactive viewer for wireless deal quotes",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().String("settings", "", "settings file (default: "+config.DefaultSettingsFile+" if it exists)")
	rootCmd.Flags().String("tables", "", "reference tables file (overrides settings)")
	rootCmd.Flags().String("policy", "", "defaults policy: optimistic or conservative")
	rootCmd.Flags().String("log-file", "dealopt-tui.log", "log destination; the terminal belongs to the viewer")
	rootCmd.Flags().Bool("watch", false, "reload the tables file when it changes")
}

func run(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	parser := config.NewInputParser()
	settingsPath, _ := cmd.Flags().GetString("settings")
	settings, err := parser.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	if tables, _ := cmd.Flags().GetString("tables"); tables != "" {
		settings.Tables = tables
	}
	if policyName, _ := cmd.Flags().GetString("policy"); policyName != "" {
		settings.DefaultsPolicy = policyName
	}
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		settings.WatchTables = true
	}

	// logging to stderr would draw over the alternate screen
	if settings.Logging.Output == "" || settings.Logging.Output == "stderr" || settings.Logging.Output == "stdout" {
		settings.Logging.Output, _ = cmd.Flags().GetString("log-file")
	}
	if err := logging.Initialize(settings.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	policy, err := settings.Policy()
	if err != nil {
		return err
	}
	snap, err := parser.LoadSnapshotOrDefault(settings.Tables)
	if err != nil {
		return err
	}

	store := catalog.NewStore(snap)
	optimizer := calculation.NewDealOptimizer(store, policy)
	optimizer.SetLogger(logging.Sugar)

	p := tea.NewProgram(
		tui.NewModel(configPath, optimizer),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if settings.WatchTables && settings.Tables != "" {
		w, err := catalog.NewWatcher(settings.Tables, store, parser.LoadSnapshot, logging.Logger)
		if err != nil {
			return err
		}
		defer w.Close()

		w.OnReload(func(snap *catalog.Snapshot, err error) {
			p.Send(tui.TablesReloadedMsg{Snapshot: snap, Err: err})
		})

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logging.Logger.Error("table watcher stopped", zap.Error(err))
			}
		}()
		logging.Logger.Info("watching reference tables", zap.String("path", settings.Tables))
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
