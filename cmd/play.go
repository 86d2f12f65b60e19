package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/meysamhadeli/stepdiff/config"
	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/diff_cache"
	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/meysamhadeli/stepdiff/tui"
	"github.com/spf13/cobra"
)

type playFlags struct {
	source   sourceFlags
	watch    bool
	from     string
	autoplay bool
}

var playOptions playFlags

// playCmd: stepdiff play
var playCmd = &cobra.Command{
	Use:   "play [script]",
	Short: "Play a step sequence in the full screen terminal player.",
	Long: `The 'play' subcommand opens the terminal player. Space plays and pauses, the arrow keys move between
steps, tab and 1-9 switch between the changed files of a step. With --watch the script is reloaded whenever
it changes on disk, keeping the current position when it still exists.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		defer rootDependencies.Close()
		handlePlayCommand(cmd.Context(), args, playOptions, rootDependencies)
	},
}

func init() {
	addSourceFlags(playCmd, &playOptions.source)
	playCmd.Flags().BoolVarP(&playOptions.watch, "watch", "w", false, "Reload the script when it changes on disk.")
	playCmd.Flags().StringVarP(&playOptions.from, "from", "f", "", "Start at the step with this number, id or title (fuzzy).")
	playCmd.Flags().BoolVarP(&playOptions.autoplay, "autoplay", "a", false, "Start playing immediately.")

	rootCmd.AddCommand(playCmd)
}

func handlePlayCommand(parent context.Context, args []string, flags playFlags, rootDependencies *RootDependencies) {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	steps, script, err := loadSteps(ctx, rootDependencies, args, &flags.source)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	bridge := &tui.Bridge{}
	scheduler := newScheduler(rootDependencies, steps, bridge.Notify)
	defer scheduler.Close()

	warm := func(steps models.StepSequence) {
		if err := rootDependencies.Cache.Warm(ctx, diff_cache.Pairs(steps), 0); err != nil && !errors.Is(err, context.Canceled) {
			rootDependencies.Logger.Warn().Err(err).Msg("cache warm-up stopped")
		}
	}
	go warm(steps)

	startAt(scheduler, steps, flags.from)

	if flags.watch {
		if script == "" {
			config.PrintWarning("--watch needs a step script, ignoring it.")
		} else {
			go func() {
				err := rootDependencies.Loader.Watch(ctx, script, func(reloaded models.StepSequence) {
					scheduler.SetSteps(reloaded)
					go warm(reloaded)
				})
				if err != nil {
					rootDependencies.Logger.Error().Err(err).Str("script", script).Msg("watching stopped")
				}
			}()
		}
	}

	if flags.autoplay {
		scheduler.Play()
	}

	err = tui.Run(ctx, scheduler, bridge, renderOptions(rootDependencies.Config),
		tui.WithOutliner(rootDependencies.Outliner, rootDependencies.Config.ShowOutline))
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error running player: %v", err)))
	}
}
