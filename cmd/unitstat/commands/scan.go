package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/unitstat/internal/app"
)

func (c *CLI) newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [roots...]",
		Short: "List the units found on the search path",
		Long: "List every unit found on the search path as name, kind and source.\n" +
			"Roots given as arguments replace the configured roots.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Scan(cmd.Context(), app.ScanOptions{Roots: roots(args)})
		},
	}
}
