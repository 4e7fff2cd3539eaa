// Package split orchestrates cutting one recording into tracks.
//
// # Manager
//
// The Manager coordinates the entire run:
//
//  1. Read the track list and apply the run-level defaults
//  2. Probe the source duration
//  3. Build and validate the track boundaries
//  4. Export each track with ffmpeg
//  5. Tag each file, inline or post-hoc depending on the output format
//  6. Generate a playlist (optional)
//
// Steps 1 to 3 happen in Initialize and are identical for dry runs. Run
// does nothing but report when the settings ask for a dry run.
//
// # Basic Usage
//
//	manager := split.NewManager(settings, func(event split.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := manager.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Tracks are started in track-number order through an errgroup limited to
// settings.MaxConcurrentTracks, one by default. The first error cancels
// the group and no further track starts. Tracks written before the error
// are left on disk; Written lists them.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package split
