package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"deskhost/internal/control"
)

func init() {
	rootCmd.AddCommand(cmdStop)
}

var stopForce bool

func init() {
	cmdStop.Flags().BoolVarP(&stopForce, "force", "f", false, "Kill the launcher if it does not exit after SIGTERM, then kill the backend it recorded")
}

var cmdStop = &cobra.Command{
	Use:   "stop",
	Short: "Close the running launcher and the backend it owns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		spin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
		spin.Suffix = " Stopping launcher..."
		spin.Start()
		err := controller().Stop(stopForce)
		spin.Stop()

		if errors.Is(err, control.ErrNotRunning) {
			fmt.Fprintln(out, "Launcher is not running.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Launcher stopped.")
		return nil
	},
}
