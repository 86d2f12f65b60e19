package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/meysamhadeli/stepdiff/config"
	"github.com/meysamhadeli/stepdiff/diff_stats"
	"github.com/meysamhadeli/stepdiff/playback"
	"github.com/meysamhadeli/stepdiff/render"
	"github.com/meysamhadeli/stepdiff/timeline"
	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/spf13/cobra"
)

// sourceFlags select where a command reads its steps from. A script argument, --dirs and --git are
// mutually exclusive.
type sourceFlags struct {
	dirs     []string
	git      bool
	gitPaths []string
	gitLimit int
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringSliceVar(&f.dirs, "dirs", nil, "Build one step per directory, in the given order.")
	cmd.Flags().BoolVar(&f.git, "git", false, "Build one step per commit of the repository in the working directory.")
	cmd.Flags().StringSliceVar(&f.gitPaths, "git-paths", nil, "Restrict --git to these paths.")
	cmd.Flags().IntVar(&f.gitLimit, "git-limit", 0, "Import at most this many recent commits with --git (0 = all).")
}

var errNoSource = errors.New("no steps given: pass a step script, --dirs or --git")

// loadSteps reads the step sequence. script is the path of the loaded script, "" for the other sources.
func loadSteps(ctx context.Context, deps *RootDependencies, args []string, f *sourceFlags) (steps models.StepSequence, script string, err error) {
	sources := 0
	if len(args) > 0 {
		sources++
	}
	if len(f.dirs) > 0 {
		sources++
	}
	if f.git {
		sources++
	}
	switch {
	case sources == 0:
		return nil, "", errNoSource
	case sources > 1:
		return nil, "", errors.New("a step script, --dirs and --git cannot be combined")
	}

	switch {
	case len(f.dirs) > 0:
		steps, err = deps.Loader.LoadDirectories(f.dirs, 0)
	case f.git:
		steps, err = timeline.FromGit(ctx, timeline.NewGitOperations(deps.Cwd), timeline.GitImportOptions{
			Paths: f.gitPaths,
			Limit: f.gitLimit,
		})
	default:
		script = args[0]
		steps, err = deps.Loader.Load(script)
	}
	if err != nil {
		return nil, "", err
	}

	deps.Logger.Info().Int("steps", len(steps)).Str("script", script).Msg("steps loaded")
	return steps, script, nil
}

// newScheduler builds a scheduler that diffs through the shared cache and records every displayed position.
func newScheduler(deps *RootDependencies, steps models.StepSequence, listeners ...func(playback.View)) *playback.Scheduler {
	opts := []playback.Option{
		playback.WithDefaultDelay(time.Duration(deps.Config.DefaultDelay) * time.Millisecond),
		playback.WithGraceDelay(time.Duration(deps.Config.GraceDelay) * time.Millisecond),
		playback.WithDiffer(deps.Cache),
		playback.WithLogger(deps.Logger),
		playback.WithListener(recordPositions(deps.Stats)),
	}
	for _, l := range listeners {
		opts = append(opts, playback.WithListener(l))
	}
	return playback.New(steps, opts...)
}

// recordPositions returns a listener that records each newly displayed position once.
func recordPositions(stats *diff_stats.StatsManager) func(playback.View) {
	var mu sync.Mutex
	last := playback.State{StepIndex: -1}
	return func(v playback.View) {
		if v.Empty {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		pos := playback.State{StepIndex: v.State.StepIndex, FileIndex: v.State.FileIndex}
		if pos == last {
			return
		}
		last = pos
		stats.Record(v.State.StepIndex, v.File, v.Lines)
	}
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		Theme:       cfg.Theme,
		Highlight:   cfg.Highlight,
		Width:       cfg.Width,
		LineNumbers: cfg.LineNumbers,
	}
}

// startAt moves the scheduler to the step matching query. An unmatched query only warns.
func startAt(scheduler *playback.Scheduler, steps models.StepSequence, query string) {
	if query == "" {
		return
	}
	i, ok := timeline.FindStep(steps, query)
	if !ok {
		config.PrintWarning(fmt.Sprintf("No step matches %q, starting at the first step.", query))
		return
	}
	scheduler.StepTo(i)
}
