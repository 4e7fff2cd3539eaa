package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/splitaudio/internal/config"
	"github.com/handiism/splitaudio/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to a JSON or TOML config file")
	envFlag := flag.String("env", ".env", "Dotenv file with SPLITAUDIO_* overrides")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(2)
		}
	}
	if err := settings.ApplyEnv(*envFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(2)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
