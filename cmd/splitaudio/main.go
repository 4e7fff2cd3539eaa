package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/handiism/splitaudio/internal/config"
	ioutils "github.com/handiism/splitaudio/internal/io"
	"github.com/handiism/splitaudio/internal/split"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitInterrupt = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	// Command line flags
	var (
		inputFlag, csvFlag, outputFlag  string
		albumFlag, artistFlag, yearFlag string
		formatFlag, coverFlag           string
		configFlag, envFlag             string
		playlistFlag, dryRunFlag        bool
		verboseFlag                     bool
	)
	flag.StringVar(&inputFlag, "input", "", "Audio file to split")
	flag.StringVar(&inputFlag, "i", "", "Shorthand for -input")
	flag.StringVar(&csvFlag, "csv", "", "Track list (title, position, optional album, artist, year)")
	flag.StringVar(&csvFlag, "c", "", "Shorthand for -csv")
	flag.StringVar(&outputFlag, "output", "", "Output directory (default: the input's directory)")
	flag.StringVar(&outputFlag, "o", "", "Shorthand for -output")
	flag.StringVar(&albumFlag, "album", "", "Default album title")
	flag.StringVar(&albumFlag, "a", "", "Shorthand for -album")
	flag.StringVar(&artistFlag, "artist", "", "Default artist")
	flag.StringVar(&yearFlag, "year", "", "Default release year")
	flag.StringVar(&yearFlag, "y", "", "Shorthand for -year")
	flag.StringVar(&formatFlag, "format", "", "Output format extension (default: derived from the input)")
	flag.StringVar(&coverFlag, "cover", "", "Cover art file or URL, embedded in MP3 output")
	flag.StringVar(&configFlag, "config", "", "Path to a JSON or TOML config file")
	flag.StringVar(&envFlag, "env", ".env", "Dotenv file with SPLITAUDIO_* overrides")
	flag.BoolVar(&playlistFlag, "playlist", false, "Create playlist file")
	flag.BoolVar(&dryRunFlag, "dry-run", false, "Plan the split without writing files")
	flag.BoolVar(&dryRunFlag, "d", false, "Shorthand for -dry-run")
	flag.BoolVar(&verboseFlag, "verbose", false, "Show verbose output")

	flag.Usage = usage
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Load config
	settings := config.DefaultSettings()
	if configFlag != "" {
		var err error
		settings, err = config.Load(expandHome(configFlag))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return exitUsage
		}
	}
	if err := settings.ApplyEnv(expandHome(envFlag)); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		return exitUsage
	}

	// Apply flags
	if inputFlag == "" && flag.NArg() > 0 {
		inputFlag = flag.Arg(0)
		set["input"] = true
	}
	if csvFlag == "" && flag.NArg() > 1 {
		csvFlag = flag.Arg(1)
		set["csv"] = true
	}
	apply := func(dst *string, value string, names ...string) {
		for _, name := range names {
			if set[name] {
				*dst = value
				return
			}
		}
	}
	apply(&settings.InputPath, expandHome(inputFlag), "input", "i")
	apply(&settings.TrackListPath, expandHome(csvFlag), "csv", "c")
	apply(&settings.OutputPath, expandHome(outputFlag), "output", "o")
	apply(&settings.Album, albumFlag, "album", "a")
	apply(&settings.Artist, artistFlag, "artist")
	apply(&settings.Year, yearFlag, "year", "y")
	apply(&settings.OutputFormat, formatFlag, "format")
	apply(&settings.CoverArt, expandHome(coverFlag), "cover")
	if playlistFlag {
		settings.CreatePlaylist = true
	}
	if dryRunFlag {
		settings.DryRun = true
	}
	if verboseFlag {
		settings.Verbose = true
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		usage()
		return exitUsage
	}
	for _, path := range []string{settings.InputPath, settings.TrackListPath} {
		if !ioutils.FileExists(path) {
			fmt.Fprintf(os.Stderr, "Error: %s is not a readable file\n", path)
			return exitUsage
		}
	}

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create manager with progress callback
	manager := split.NewManager(settings, func(event split.ProgressEvent) {
		if event.Level == split.LevelVerbose && !settings.Verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case split.LevelError:
			prefix = "❌ "
		case split.LevelWarning:
			prefix = "⚠️  "
		case split.LevelSuccess:
			prefix = "✅ "
		case split.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		if event.Level == split.LevelError {
			fmt.Fprintln(os.Stderr, prefix+event.Message)
			return
		}
		fmt.Println(prefix + event.Message)
	})

	fmt.Println("🎵 splitaudio")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Initialize(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nInterrupted.")
			return exitInterrupt
		}
		if errors.Is(err, config.ErrInvalidSettings) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitUsage
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	if settings.DryRun {
		fmt.Println("\n[Dry run - no files will be written]")
	} else {
		fmt.Println("\n✂️  Splitting...")
		fmt.Println()
	}

	if err := manager.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nSplit cancelled.")
			reportWritten(manager.Written())
			return exitInterrupt
		}
		reportWritten(manager.Written())
		return exitFailure
	}

	done, total := manager.GetProgress()
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if settings.DryRun {
		fmt.Printf("✨ Planned %d tracks\n", total)
	} else {
		fmt.Printf("✨ Complete! Split %d/%d tracks\n", done, total)
	}
	return exitOK
}

func reportWritten(paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "Files written before the failure:")
	for _, p := range paths {
		fmt.Fprintln(os.Stderr, "  "+p)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "splitaudio - Split one recording into tagged tracks")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  splitaudio -i <audio> -c <tracks.csv> [options]")
	fmt.Fprintln(out, "  splitaudio [options] <audio> <tracks.csv>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "For interactive mode, use: splitaudio-tui")
	fmt.Fprintln(out)
	flag.PrintDefaults()
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
