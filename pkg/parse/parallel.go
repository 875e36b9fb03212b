package parse

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

// LoadOptions controls parallel loading behavior and error handling.
type LoadOptions struct {
	// Parallel enables concurrent file loading.
	Parallel bool

	// Workers specifies the number of loader goroutines.
	// If 0, defaults to runtime.NumCPU(). Only used when Parallel is true.
	Workers int

	// SkipErrors causes loading to continue when individual files fail.
	// When false, the first error stops loading and is returned alone.
	SkipErrors bool

	// Progress is called after each file is processed with the number of
	// files processed so far and the total.
	Progress func(loaded, total int)

	// ErrorLog receives one line per failed file.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// Loaded is the parsed content of one file.
type Loaded struct {
	Path     string
	Features geo.FeatureCollection
	Warnings []string
}

// LoadFilesParallel parses many files with a worker pool.
//
// Results are returned in the order of paths; failed files are left out and
// their errors, prefixed with the path, are collected in the second return
// value.
//
// Example:
//
//	p := parse.NewParser(parse.DefaultParseOptions())
//	loaded, errs := parse.LoadFilesParallel(paths, p, parse.LoadOptions{
//	    Parallel:   true,
//	    SkipErrors: true,
//	    ErrorLog:   os.Stderr,
//	})
func LoadFilesParallel(paths []string, p Parser, opts LoadOptions) ([]Loaded, []error) {
	return LoadFilesParallelContext(context.Background(), paths, p, opts)
}

// LoadFilesParallelContext is LoadFilesParallel with cancellation. Files not
// yet started when ctx is done fail with ctx.Err().
//
// Serial loading runs the same pipeline with a single worker, so Progress
// and ErrorLog see one call per finished file in both modes. Without
// SkipErrors the first failure cancels the files still queued.
func LoadFilesParallelContext(ctx context.Context, paths []string, p Parser, opts LoadOptions) ([]Loaded, []error) {
	if len(paths) == 0 {
		return []Loaded{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// buffered to len(paths) so workers never block once we stop reading
	outcomes := make(chan fileOutcome, len(paths))
	queue := make(chan int, len(paths))
	for i := range paths {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	for n := workerCount(opts, len(paths)); n > 0; n-- {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				loaded, err := loadFile(ctx, paths[i], p)
				outcomes <- fileOutcome{index: i, loaded: loaded, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	slots := make([]*Loaded, len(paths))
	var errs []error
	finished := 0

	for o := range outcomes {
		finished++
		if opts.Progress != nil {
			opts.Progress(finished, len(paths))
		}

		if o.err == nil {
			loaded := o.loaded
			slots[o.index] = &loaded
			continue
		}

		err := fmt.Errorf("%s: %w", paths[o.index], o.err)
		if opts.ErrorLog != nil {
			fmt.Fprintf(opts.ErrorLog, "Error loading file: %v\n", err)
		}
		if !opts.SkipErrors {
			return nil, []error{err}
		}
		errs = append(errs, err)
	}

	out := make([]Loaded, 0, len(paths)-len(errs))
	for _, l := range slots {
		if l != nil {
			out = append(out, *l)
		}
	}
	return out, errs
}

type fileOutcome struct {
	index  int
	loaded Loaded
	err    error
}

// workerCount is 1 for serial loading, otherwise opts.Workers (NumCPU when
// unset) capped at the number of files.
func workerCount(opts LoadOptions, files int) int {
	if !opts.Parallel {
		return 1
	}
	n := opts.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > files {
		n = files
	}
	return n
}

func loadFile(ctx context.Context, path string, p Parser) (Loaded, error) {
	if err := ctx.Err(); err != nil {
		return Loaded{}, err
	}
	fc, warnings, err := p.ParseFile(path)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{Path: path, Features: fc, Warnings: warnings}, nil
}
