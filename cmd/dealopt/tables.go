package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/config"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Inspect and validate reference tables",
}

var tablesValidateCmd = &cobra.Command{
	Use:   "validate [tables-file]",
	Short: "Validate a reference table file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := config.NewInputParser().LoadSnapshot(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tables %s are valid\n", args[0])
		writeSummary(cmd.OutOrStdout(), snap)
		return nil
	},
}

var tablesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the reference tables in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		snap := s.store.Current()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap.Summary())
		}

		source := s.settings.Tables
		if source == "" {
			source = "built-in demo tables"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Source: %s\n", source)
		writeSummary(cmd.OutOrStdout(), snap)
		fmt.Fprintln(cmd.OutOrStdout(), "Plans:")
		for _, id := range snap.PlanIDs() {
			plan, _ := snap.Plan(id)
			fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", id, plan.Name)
		}
		return nil
	},
}

func writeSummary(w io.Writer, snap *catalog.Snapshot) {
	sum := snap.Summary()
	fmt.Fprintf(w, "Version: %s\n", sum.Version)
	fmt.Fprintf(w, "Hash: %s\n", sum.Hash)
	fmt.Fprintf(w, "Plans: %d, jurisdictions: %d, devices: %d, trade-in models: %d, promotions: %d, insurance tiers: %d\n",
		sum.Plans, sum.Jurisdictions, sum.Devices, sum.TradeInModels, sum.Promotions, sum.Tiers)
}

func init() {
	tablesShowCmd.Flags().Bool("json", false, "Print the table summary as JSON")

	tablesCmd.AddCommand(tablesValidateCmd)
	tablesCmd.AddCommand(tablesShowCmd)
	rootCmd.AddCommand(tablesCmd)
}
