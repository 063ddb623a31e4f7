package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dealopt/internal/breakeven"
	"github.com/rgehrsitz/dealopt/internal/domain"
)

var breakevenCmd = &cobra.Command{
	Use:   "breakeven [customer-file]",
	Short: "Show when each scenario catches up with the cheapest one",
	Long: `Without --payoff-line, report for every scenario the month at which its running
cost falls to the best scenario's. With --payoff-line N, search for the smallest payoff
balance on line N at which the --target scenario becomes the cheapest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		format = strings.ToLower(strings.TrimSpace(format))
		if format != "table" && format != "json" {
			return fmt.Errorf("unknown format %q (expected table or json)", format)
		}

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		cfg, err := s.parser.LoadCustomerConfig(args[0])
		if err != nil {
			return err
		}

		tf := &breakeven.TableFormatter{}
		jf := &breakeven.JSONFormatter{Pretty: true}

		line, _ := cmd.Flags().GetInt("payoff-line")
		if line == 0 {
			q, err := s.optimizer.Optimize(cfg)
			if err != nil {
				return err
			}
			crossovers := breakeven.Crossovers(q)
			if format == "json" {
				out, err := jf.Format(crossovers)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), tf.FormatCrossovers(q, crossovers))
			return nil
		}

		target, _ := cmd.Flags().GetString("target")
		maxStr, _ := cmd.Flags().GetString("max-payoff")
		maxAmount, err := decimal.NewFromString(maxStr)
		if err != nil {
			return fmt.Errorf("invalid --max-payoff %q: %w", maxStr, err)
		}

		solver := breakeven.NewDefaultSolver(s.optimizer)
		result, err := solver.FindBreakEvenPayoff(cmd.Context(), breakeven.PayoffRequest{
			Config:    cfg,
			Line:      line,
			Target:    domain.ScenarioType(target),
			MaxAmount: maxAmount,
		})
		if err != nil {
			return err
		}

		if format == "json" {
			out, err := jf.Format(result)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), tf.FormatPayoff(result))
		return nil
	},
}

func init() {
	breakevenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	breakevenCmd.Flags().Int("payoff-line", 0, "Search the break-even payoff balance for this line (1-based)")
	breakevenCmd.Flags().String("target", string(domain.ScenarioKeepAndSwitch), "Scenario the payoff search tries to make cheapest")
	breakevenCmd.Flags().String("max-payoff", "2000", "Upper bound of the payoff search in dollars")

	rootCmd.AddCommand(breakevenCmd)
}
