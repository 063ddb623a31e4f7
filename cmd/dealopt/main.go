package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/dealopt/internal/calculation"
	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/config"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/logging"
	"github.com/rgehrsitz/dealopt/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dealopt %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:           "dealopt",
	Short:         "Wireless Deal Optimizer CLI",
	Long:          "Prices a customer's wireless configuration under every applicable scenario and ranks them by total cost",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// session is everything a command needs to quote: resolved settings, the
// policy and an optimizer over the loaded tables
type session struct {
	parser    *config.InputParser
	settings  config.Settings
	policy    domain.DefaultsPolicy
	store     *catalog.Store
	optimizer *calculation.DealOptimizer
}

// newSession loads the settings file, applies the persistent flags, initializes
// logging and loads the reference tables
func newSession(cmd *cobra.Command) (*session, error) {
	parser := config.NewInputParser()

	settingsPath, _ := cmd.Flags().GetString("settings")
	settings, err := parser.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	if tables, _ := cmd.Flags().GetString("tables"); tables != "" {
		settings.Tables = tables
	}
	if policyName, _ := cmd.Flags().GetString("policy"); policyName != "" {
		settings.DefaultsPolicy = policyName
	}
	if dbg, _ := cmd.Flags().GetBool("debug"); dbg {
		settings.Logging.Level = "debug"
	}

	if err := logging.Initialize(settings.Logging); err != nil {
		return nil, err
	}

	policy, err := settings.Policy()
	if err != nil {
		return nil, err
	}

	snap, err := parser.LoadSnapshotOrDefault(settings.Tables)
	if err != nil {
		return nil, err
	}
	logging.Logger.Debug("reference tables loaded",
		zap.String("path", settings.Tables),
		zap.String("version", snap.Version()),
		zap.String("hash", snap.Hash()))

	store := catalog.NewStore(snap)
	optimizer := calculation.NewDealOptimizer(store, policy)
	optimizer.SetLogger(logging.Sugar)

	return &session{
		parser:    parser,
		settings:  settings,
		policy:    policy,
		store:     store,
		optimizer: optimizer,
	}, nil
}

func (s *session) close() {
	logging.Sync()
}

var quoteCmd = &cobra.Command{
	Use:   "quote [customer-file]",
	Short: "Quote every scenario for a customer configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		cfg, err := s.parser.LoadCustomerConfig(args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		formatter, err := output.NewFormatter(format)
		if err != nil {
			return err
		}
		if html, ok := formatter.(output.HTMLFormatter); ok {
			html.Assumptions = output.PolicyAssumptions(s.policy)
			formatter = html
		}

		quote, err := s.optimizer.Optimize(cfg)
		if err != nil {
			return err
		}

		if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
			name, err := output.WriteFormatted(formatter, quote, dir, extension(formatter))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Quote written to %s\n", name)
			return nil
		}

		data, err := formatter.Format(quote)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func extension(f output.Formatter) string {
	switch f.Name() {
	case "json":
		return "json"
	case "csv", "csv-lines":
		return "csv"
	case "html":
		return "html"
	default:
		return "txt"
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate [customer-file]",
	Short: "Validate a customer configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		cfg, err := parser.LoadCustomerConfig(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration %s is valid\n", args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Lines: %d, plan: %s, term: %d months\n", cfg.Lines, cfg.SelectedPlan, cfg.FinancingTermMonths)
		if n := cfg.AccessoryLines.Count(); n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Accessory connections: %d\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("settings", "", "Settings file (default: "+config.DefaultSettingsFile+" if it exists)")
	rootCmd.PersistentFlags().String("tables", "", "Reference table file (default: built-in demo tables)")
	rootCmd.PersistentFlags().String("policy", "", "Defaults policy: optimistic or conservative")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	quoteCmd.Flags().StringP("format", "f", "table", "Output format ("+strings.Join(output.Formats, ", ")+")")
	quoteCmd.Flags().String("output-dir", "", "Write the quote to a timestamped file in this directory")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
