// Package batch composites every style × stamp pair of a library and
// packages the results into one archive.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"stamp-compositor/internal/catalog"
	"stamp-compositor/internal/compositor"
	"stamp-compositor/internal/imageset"
	"stamp-compositor/internal/logging"
	"stamp-compositor/internal/transform"
)

var (
	// ErrEmptyInput is returned before any work when there are no styles
	// or no stamps.
	ErrEmptyInput = errors.New("batch: no styles or no stamps")

	// ErrNoSuccess is returned when every pair was skipped. No archive is
	// emitted.
	ErrNoSuccess = errors.New("batch: no pair composited, check images and settings")

	// ErrPackaging is returned when pairs composited but the archive could
	// not be written.
	ErrPackaging = errors.New("batch: packaging failed")
)

// Config holds the settings of one run.
type Config struct {
	Encoder compositor.Encoder
	Compose compositor.Options

	// Archive receives the encoded composites in pair order. Nil runs
	// without packaging.
	Archive Archive

	// Manifest adds a manifest.json entry to the archive.
	Manifest bool

	// Workers composites pairs in parallel when above 1. Archive order is
	// unaffected.
	Workers int

	// Yield runs between pairs. Defaults to NoYield.
	Yield Yielder

	// Progress, when set, is called from the goroutine running Run.
	Progress func(Progress)
}

// PairResult is the outcome of one style/stamp pair.
type PairResult struct {
	Style string
	Stamp string
	File  string
	State State
	Err   error
	Rect  transform.DrawRect
}

// Result summarises a run.
type Result struct {
	Total   int
	Success int
	Skipped []PairResult
	Entries []string
}

type pair struct {
	style *catalog.Style
	stamp *catalog.Stamp
}

type outcome struct {
	res  PairResult
	data []byte
	err  error
}

// Run composites every pair of lib, styles in the outer loop and stamps in
// the inner loop. Pairs that fail to decode or resolve are skipped. A
// cancelled ctx stops the run between pairs and no archive is emitted.
func Run(ctx context.Context, lib *catalog.Library, cfg Config) (Result, error) {
	styles, stamps := lib.Styles(), lib.Stamps()
	if len(styles) == 0 || len(stamps) == 0 {
		return Result{}, ErrEmptyInput
	}

	pairs := make([]pair, 0, len(styles)*len(stamps))
	for _, s := range styles {
		for _, p := range stamps {
			pairs = append(pairs, pair{style: s, stamp: p})
		}
	}

	if cfg.Yield == nil {
		cfg.Yield = NoYield
	}
	report := func(p Progress) {
		if cfg.Progress != nil {
			cfg.Progress(p)
		}
	}

	res := Result{Total: len(pairs)}
	report(Progress{State: Running, Total: res.Total})
	logging.Logger().Info("batch start", "styles", len(styles), "stamps", len(stamps), "workers", cfg.Workers)

	fail := func(err error) (Result, error) {
		report(Progress{State: Failed, Completed: res.Success + len(res.Skipped), Total: res.Total})
		logging.Logger().Warn("batch failed", "err", err)
		return res, err
	}

	var next func(i int) outcome
	if cfg.Workers > 1 {
		var stop func()
		next, stop = startPool(ctx, cfg, pairs)
		defer stop()
	} else {
		next = func(i int) outcome {
			pr, data := processPair(cfg, pairs[i])
			return outcome{res: pr, data: data}
		}
	}

	var manifest []ManifestEntry
	for i, p := range pairs {
		if i > 0 {
			if err := cfg.Yield(ctx); err != nil {
				return fail(fmt.Errorf("batch: %w", err))
			}
		}
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("batch: %w", err))
		}

		report(Progress{
			State: Composing, Completed: i, Total: res.Total,
			Style: p.style.Name, Stamp: p.stamp.Name,
		})
		o := next(i)
		if o.err != nil {
			return fail(fmt.Errorf("batch: %w", o.err))
		}

		pr := o.res
		if pr.State == Composed && cfg.Archive != nil {
			if err := cfg.Archive.Add(pr.File, o.data); err != nil {
				return fail(fmt.Errorf("%w: %w", ErrPackaging, err))
			}
		}
		if pr.State == Composed {
			res.Success++
			res.Entries = append(res.Entries, pr.File)
			manifest = append(manifest, manifestEntry(pr))
		} else {
			res.Skipped = append(res.Skipped, pr)
			logging.Logger().Warn("pair skipped", "style", pr.Style, "stamp", pr.Stamp, "err", pr.Err)
		}
		report(Progress{
			State: pr.State, Completed: i + 1, Total: res.Total,
			Style: pr.Style, Stamp: pr.Stamp,
		})
	}

	if res.Success == 0 {
		return fail(ErrNoSuccess)
	}

	if cfg.Archive != nil {
		report(Progress{State: Packaging, Completed: res.Total, Total: res.Total})
		if cfg.Manifest {
			data, err := encodeManifest(manifest)
			if err != nil {
				return fail(fmt.Errorf("%w: %w", ErrPackaging, err))
			}
			if err := cfg.Archive.Add(ManifestName, data); err != nil {
				return fail(fmt.Errorf("%w: %w", ErrPackaging, err))
			}
		}
		if err := cfg.Archive.Close(); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrPackaging, err))
		}
	}

	report(Progress{State: Done, Completed: res.Total, Total: res.Total})
	logging.Logger().Info("batch done", "success", res.Success, "skipped", len(res.Skipped))
	return res, nil
}

// startPool composites pairs on cfg.Workers goroutines. next(i) blocks
// until pair i is done, so the caller still consumes results in order.
// stop cancels outstanding work and waits for the workers.
func startPool(ctx context.Context, cfg Config, pairs []pair) (next func(int) outcome, stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	outs := make([]chan outcome, len(pairs))
	for i := range outs {
		outs[i] = make(chan outcome, 1)
	}

	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					outs[idx] <- outcome{err: err}
					continue
				}
				pr, data := processPair(cfg, pairs[idx])
				outs[idx] <- outcome{res: pr, data: data}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range pairs {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	next = func(i int) outcome {
		select {
		case o := <-outs[i]:
			return o
		case <-ctx.Done():
			return outcome{err: ctx.Err()}
		}
	}
	stop = func() {
		cancel()
		wg.Wait()
	}
	return next, stop
}

// processPair composites and encodes one pair. Every failure is reported
// as a skipped pair, never as an error.
func processPair(cfg Config, p pair) (PairResult, []byte) {
	pr := PairResult{
		Style: p.style.Name,
		Stamp: p.stamp.Name,
		File:  EntryName(p.style.Name, p.stamp.Name, cfg.Encoder.Ext()),
		State: Skipped,
	}

	img, rect, err := compositor.Compose(p.style, p.stamp, cfg.Compose)
	if err != nil {
		pr.Err = err
		return pr, nil
	}
	pr.Rect = rect

	var buf bytes.Buffer
	if err := cfg.Encoder.Encode(&buf, img); err != nil {
		pr.Err = err
		return pr, nil
	}
	pr.State = Composed
	return pr, buf.Bytes()
}

// EntryName builds "{style}-{stamp}.{ext}" from image names, each cut at
// its first dot.
func EntryName(style, stamp, ext string) string {
	return fmt.Sprintf("%s-%s.%s", imageset.BaseName(style), imageset.BaseName(stamp), ext)
}
