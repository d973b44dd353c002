package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdStatus)
}

var statusTimeout time.Duration

func init() {
	cmdStatus.Flags().DurationVarP(&statusTimeout, "timeout", "t", 2*time.Second, "Timeout for contacting the launcher")
}

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Show the backend and launcher state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := controller().Status(cmd.Context(), statusTimeout)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		backend := "down"
		if st.BackendAlive {
			backend = "alive"
		}
		fmt.Fprintf(out, "backend:  %s (%s)\n", backend, st.Addr)

		switch {
		case !st.LauncherRunning:
			fmt.Fprintln(out, "launcher: not running")
		case st.LauncherPID > 0:
			fmt.Fprintf(out, "launcher: running (pid %d), backend %s\n", st.LauncherPID, st.BackendHealth)
		default:
			fmt.Fprintf(out, "launcher: running, backend %s\n", st.BackendHealth)
		}

		if rec := st.Record; rec != nil {
			fmt.Fprintf(out, "owned:    pid %d since %s (launch %s)\n", rec.PID, rec.StartedAt.Local().Format(time.RFC3339), rec.LaunchID)
			fmt.Fprintf(out, "cmd:      %s\n", rec.Cmd)
		}
		return nil
	},
}
