package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/unitstat/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [roots...]",
		Short: "Publish the usage statistics over the inspection socket",
		Long: "Start the inspection registry and serve the published objects until stopped.\n" +
			"Load events are read from --events while serving.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, _ := cmd.Flags().GetString("events")
			watch, _ := cmd.Flags().GetBool("watch")
			idle, _ := cmd.Flags().GetDuration("idle-timeout")
			return c.app.Serve(cmd.Context(), app.ServeOptions{
				Roots:       roots(args),
				Events:      events,
				Watch:       watch,
				IdleTimeout: idle,
			})
		},
	}
	cmd.Flags().StringP("events", "e", "", "Class-loading trace to follow ('-' reads stdin)")
	cmd.Flags().BoolP("watch", "w", false, "Rescan the search path when it changes")
	cmd.Flags().Duration("idle-timeout", 0, "Shut down after this long without requests (0 never)")
	return cmd
}

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [name]",
		Short: "Show daemon status or the attributes of a published object",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.app.Status(cmd.Context(), name)
		},
	}
}

func (c *CLI) newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Stop(cmd.Context())
		},
	}
}
