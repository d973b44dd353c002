package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdProbe)
}

var probeTimeout time.Duration

func init() {
	cmdProbe.Flags().DurationVarP(&probeTimeout, "timeout", "t", 0, "Dial timeout (default from config)")
}

// `deskhost probe` checks the backend port once. Prints "alive" or fails.
var cmdProbe = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the backend accepts connections (expects 'alive')",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := controller().Probe(probeTimeout); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "alive")
		return nil
	},
}
