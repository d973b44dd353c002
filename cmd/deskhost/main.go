package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"deskhost/internal/app"
	"deskhost/internal/paths"
)

var rootCmd = &cobra.Command{
	Use:   "deskhost [command]",
	Short: "deskhost: desktop launcher for a local Node.js backend",
	Long: `deskhost starts a bundled Node.js backend on a fixed local port, waits for it to
accept connections, shows it in a terminal window and stops it again when the
window is closed.`,
	SilenceUsage: true,
}

var (
	configPath string
	runMode    string
	launchMode string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&runMode, "run-mode", "", "Override run mode (development|packaged)")
	rootCmd.PersistentFlags().StringVar(&launchMode, "launch-mode", "", "Override launch mode (rich|simple)")
}

// controllerAPI is what the commands need from app.App.
type controllerAPI interface {
	Paths() (paths.RunModeContext, error)
	Probe(timeout time.Duration) (string, error)
	Status(ctx context.Context, timeout time.Duration) (app.Status, error)
	Stop(force bool) error
	Launch(ctx context.Context, opts app.LaunchOptions) error
}

var controllerFactory = func() controllerAPI {
	return app.New(app.Options{
		ConfigPath: configPath,
		RunMode:    runMode,
		LaunchMode: launchMode,
	})
}

func controller() controllerAPI {
	return controllerFactory()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
