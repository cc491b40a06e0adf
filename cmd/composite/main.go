package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"stamp-compositor/internal/batch"
	"stamp-compositor/internal/compositor"
	"stamp-compositor/internal/config"
	"stamp-compositor/internal/imageset"
	"stamp-compositor/internal/logging"
	"stamp-compositor/internal/project"
	"stamp-compositor/internal/raster"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	envFile := flag.String("env", ".env", "Path to .env file (optional)")
	projectFile := flag.String("project", "", "Path to project.json")
	outputDir := flag.String("output", "", "Output directory (default: project directory)")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 70)")
	format := flag.String("format", "", "Output format: jpg, png or webp (default: jpg)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: 1)")
	yieldMS := flag.Int("yield", 0, "Pause between pairs in milliseconds")
	verbose := flag.Bool("v", false, "Log batch details to stderr")

	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env: %v\n", err)
		os.Exit(1)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Project:   *projectFile,
		OutputDir: *outputDir,
		Format:    *format,
		Quality:   *quality,
		Workers:   *workers,
		YieldMS:   *yieldMS,
	})

	if cfg.Project == "" {
		fmt.Fprintln(os.Stderr, "Error: no project file. Use -project flag or config.json.")
		os.Exit(1)
	}

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	fmtOut, err := compositor.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	interp, err := raster.ParseInterpolation(cfg.Interpolation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lib, err := project.Load(cfg.Project, imageset.NewCache())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading project: %v\n", err)
		os.Exit(1)
	}

	styles, stamps := len(lib.Styles()), len(lib.Stamps())
	fmt.Printf("Stamp compositor → %s\n", fmtOut)
	fmt.Printf("Styles: %d, Stamps: %d, Pairs: %d, Workers: %d\n", styles, stamps, styles*stamps, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.ArchivePath())
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	lastPrint := start

	res, err := batch.Run(ctx, lib, batch.Config{
		Encoder:  compositor.Encoder{Format: fmtOut, Quality: cfg.Quality},
		Compose:  compositor.Options{NewSurface: raster.SoftwareFactory(interp)},
		Archive:  batch.NewZipFile(cfg.ArchivePath()),
		Manifest: cfg.Manifest,
		Workers:  cfg.Workers,
		Yield:    batch.SleepYield(time.Duration(cfg.YieldMS) * time.Millisecond),
		Progress: func(p batch.Progress) {
			if p.State != batch.Composed && p.State != batch.Skipped {
				return
			}
			if time.Since(lastPrint) < 2*time.Second && p.Completed < p.Total {
				return
			}
			lastPrint = time.Now()
			rate := float64(p.Completed) / time.Since(start).Seconds()
			fmt.Printf("  [%d/%d] %3.0f%% %.1f pairs/sec\n", p.Completed, p.Total, p.Percent(), rate)
		},
	})

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())
	fmt.Printf("Composited: %d/%d\n", res.Success, res.Total)

	if len(res.Skipped) > 0 {
		fmt.Printf("\nSkipped (%d):\n", len(res.Skipped))
		limit := 20
		if len(res.Skipped) < limit {
			limit = len(res.Skipped)
		}
		for _, s := range res.Skipped[:limit] {
			fmt.Printf("  %s + %s: %v\n", s.Style, s.Stamp, s.Err)
		}
	}

	switch {
	case err == nil:
		fmt.Printf("Archive: %s\n", cfg.ArchivePath())
	case errors.Is(err, batch.ErrEmptyInput):
		fmt.Fprintln(os.Stderr, "Error: add at least one style and one stamp")
		os.Exit(1)
	case errors.Is(err, batch.ErrNoSuccess):
		fmt.Fprintln(os.Stderr, "Error: nothing composited, check images and settings")
		os.Exit(1)
	case errors.Is(err, batch.ErrPackaging):
		fmt.Fprintf(os.Stderr, "Error: failed to create archive: %v\n", err)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
