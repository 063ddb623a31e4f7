package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/dealopt/internal/compare"
	"github.com/rgehrsitz/dealopt/internal/transform"
	"github.com/spf13/cobra"
)

var whatifCmd = &cobra.Command{
	Use:   "whatif [customer-file]",
	Short: "Compare the quote against edited versions of the configuration",
	Long: `Quote the configuration as entered, then quote one edited copy per template
(--with) or transform chain (--edit), and report the difference of each from the base.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list-templates"); list {
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("a customer configuration file is required")
		}

		withList, _ := cmd.Flags().GetString("with")
		edits, _ := cmd.Flags().GetStringArray("edit")
		templates := transform.ParseTemplateList(withList)
		if len(templates) == 0 && len(edits) == 0 {
			return fmt.Errorf("nothing to compare: pass --with templates or --edit transform chains")
		}

		format, _ := cmd.Flags().GetString("format")
		format = strings.ToLower(strings.TrimSpace(format))
		switch format {
		case "table", "compact", "csv", "json":
		default:
			return fmt.Errorf("unknown format %q (expected table, compact, csv or json)", format)
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

		base, _ := cmd.Flags().GetString("base")
		engine := compare.NewCompareEngine(s.optimizer)
		compSet, err := engine.Compare(cfg, compare.CompareOptions{
			BaseName:  base,
			Templates: templates,
			Edits:     edits,
		})
		if err != nil {
			return err
		}
		compSet.ConfigPath = args[0]

		var out string
		switch format {
		case "table":
			out = (&compare.TableFormatter{}).Format(compSet)
		case "compact":
			out = (&compare.TableFormatter{}).FormatCompact(compSet)
		case "csv":
			out, err = (&compare.CSVFormatter{}).Format(compSet)
		case "json":
			out, err = (&compare.JSONFormatter{}).Format(compSet)
		}
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var transformsCmd = &cobra.Command{
	Use:   "transforms",
	Short: "List the available transforms and templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Available transforms (use with --edit name:key=value,...):")
		for _, name := range transform.NewTransformRegistry().List() {
			fmt.Fprintf(w, "  %s\n", name)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
	},
}

func init() {
	whatifCmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	whatifCmd.Flags().StringArray("edit", nil, "Transform chain to compare, e.g. set_autopay:enabled=true+set_term:months=36 (repeatable)")
	whatifCmd.Flags().String("base", "current", "Label of the unedited configuration")
	whatifCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	whatifCmd.Flags().Bool("list-templates", false, "List all available what-if templates")

	rootCmd.AddCommand(whatifCmd)
	rootCmd.AddCommand(transformsCmd)
}
