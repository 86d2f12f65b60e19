package diff_cache

import (
	"context"
	"runtime"

	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/sourcegraph/conc/pool"
)

// Pair is one diff the player will ask for.
type Pair struct {
	Path     string
	Step     int
	Previous string
	Current  string
	First    bool
}

// Pairs lists every diff a full playback of steps displays, in playback order: the changed files of each step,
// or its first tracked file when none are listed.
func Pairs(steps models.StepSequence) []Pair {
	var pairs []Pair
	for i, step := range steps {
		paths := step.Changed
		if len(paths) == 0 && len(step.Files) > 0 {
			paths = []string{step.Files[0].Path}
		}
		for _, path := range paths {
			current, _ := step.Files.Lookup(path)
			var previous string
			if i > 0 {
				previous, _ = steps[i-1].Files.Lookup(path)
			}
			pairs = append(pairs, Pair{Path: path, Step: i, Previous: previous, Current: current, First: i == 0})
		}
	}
	return pairs
}

// Warm computes the given diffs concurrently so that playback only hits the cache. workers <= 0 uses one
// goroutine per CPU. It stops scheduling new work once ctx is done and returns ctx.Err() in that case.
func (dc *DiffCache) Warm(ctx context.Context, pairs []Pair, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := pool.New().WithMaxGoroutines(workers)
	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		pair := pair
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			dc.Diff(pair.Previous, pair.Current, pair.First)
		})
	}
	p.Wait()

	return ctx.Err()
}
