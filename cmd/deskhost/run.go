package main

import (
	"github.com/spf13/cobra"

	"deskhost/internal/app"
)

var runHeadless bool

func init() {
	rootCmd.AddCommand(cmdRun)
	cmdRun.Flags().BoolVar(&runHeadless, "headless", false, "Run without the terminal window; stop with Ctrl+C")
}

var cmdRun = &cobra.Command{
	Use:   "run",
	Short: "Start the backend and open the window",
	Long: `Starts the backend unless one already answers on the configured port, opens the
window once it accepts connections and kills the backend this launcher started
when the window is closed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return controller().Launch(cmd.Context(), app.LaunchOptions{
			Headless: runHeadless,
			Out:      cmd.OutOrStdout(),
		})
	},
}
