package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/unitstat/internal/app"
)

func (c *CLI) newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [roots...]",
		Short: "Print load counts for every unit on the search path",
		Long: "Replay a class-loading trace against the search path and print one CSV record per unit.\n" +
			"Units that were never loaded are reported with a count of zero.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions(cmd, args)
			if err != nil {
				return err
			}
			return c.app.Report(cmd.Context(), opts)
		},
	}
	addReportFlags(cmd)
	return cmd
}

func (c *CLI) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [roots...]",
		Short: "Export load counts to a file or stdout",
		Long: "Run the same analysis as report and write the CSV to a destination.\n" +
			"The destination is a file path, a file:// URI or '-' for stdout and defaults to export_uri.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions(cmd, args)
			if err != nil {
				return err
			}
			to, _ := cmd.Flags().GetString("to")
			return c.app.Export(cmd.Context(), to, opts)
		},
	}
	addReportFlags(cmd)
	cmd.Flags().StringP("to", "o", "", "Destination URI (defaults to export_uri from the config)")
	return cmd
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("events", "e", "", "Class-loading trace to replay ('-' reads stdin)")
	cmd.Flags().Bool("dead", false, "Only report units that were never loaded")
}

func reportOptions(cmd *cobra.Command, args []string) (app.ReportOptions, error) {
	events, err := cmd.Flags().GetString("events")
	if err != nil {
		return app.ReportOptions{}, err
	}
	dead, err := cmd.Flags().GetBool("dead")
	if err != nil {
		return app.ReportOptions{}, err
	}
	return app.ReportOptions{Roots: roots(args), Events: events, Dead: dead}, nil
}

// roots returns nil for an empty argument list so that configured roots apply.
func roots(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return args
}
