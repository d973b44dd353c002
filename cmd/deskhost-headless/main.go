package main

import (
	"context"
	"flag"
	"log"
	"os"

	"deskhost/internal/app"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	runMode := flag.String("run-mode", "", "Override run mode (development|packaged)")
	launchMode := flag.String("launch-mode", "", "Override launch mode (rich|simple)")
	flag.Parse()

	controller := app.New(app.Options{
		ConfigPath: *configPath,
		RunMode:    *runMode,
		LaunchMode: *launchMode,
	})
	log.Printf("Launcher started (pid %d). Press Ctrl+C to stop.", os.Getpid())
	if err := controller.Launch(context.Background(), app.LaunchOptions{Headless: true, Out: os.Stdout}); err != nil {
		log.Fatalf("launch failed: %v", err)
	}
	log.Printf("Launcher stopped.")
}
