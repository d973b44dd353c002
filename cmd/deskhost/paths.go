package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var pathsJSON bool

func init() {
	rootCmd.AddCommand(cmdPaths)
	cmdPaths.Flags().BoolVar(&pathsJSON, "json", false, "Print as JSON")
}

var cmdPaths = &cobra.Command{
	Use:   "paths",
	Short: "Print where the interpreter, entry script, assets and data are looked up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := controller().Paths()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if pathsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rc)
		}
		fmt.Fprintf(out, "interpreter: %s\n", rc.InterpreterPath)
		fmt.Fprintf(out, "entry:       %s\n", rc.ServerEntryPath)
		fmt.Fprintf(out, "workdir:     %s\n", rc.WorkingDirectory)
		fmt.Fprintf(out, "public:      %s\n", rc.StaticAssetDirectory)
		fmt.Fprintf(out, "data:        %s\n", rc.UserDataDirectory)
		return nil
	},
}
