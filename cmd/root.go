package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/meysamhadeli/stepdiff/code_outline"
	"github.com/meysamhadeli/stepdiff/code_outline/contracts"
	"github.com/meysamhadeli/stepdiff/config"
	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/diff_cache"
	"github.com/meysamhadeli/stepdiff/diff_stats"
	"github.com/meysamhadeli/stepdiff/logging"
	"github.com/meysamhadeli/stepdiff/timeline"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// RootDependencies holds everything the subcommands share. Close releases the log file.
type RootDependencies struct {
	Cwd      string
	Config   *config.Config
	Logger   zerolog.Logger
	Fs       afero.Fs
	Loader   *timeline.Loader
	Cache    *diff_cache.DiffCache
	Outliner contracts.IOutliner
	Stats    *diff_stats.StatsManager

	logCloser io.Closer
}

func (d *RootDependencies) Close() {
	if d.logCloser != nil {
		_ = d.logCloser.Close()
	}
}

// rootCmd: stepdiff
var rootCmd = &cobra.Command{
	Use:   "stepdiff",
	Short: "Play back code evolving step by step as an animated diff.",
	Long: `stepdiff turns a sequence of code snapshots into a playable diff animation.
Each step is diffed against the previous one line by line, changed lines are refined word by word,
and playback advances through the steps (and through every changed file of a step) on a timer.
Steps come from a YAML, JSON or TOML script, from a list of directories, or from git history.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Println(lipgloss.Info.Render("stepdiff version: " + config.DefaultConfig.Version))
			return
		}
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		defer rootDependencies.Close()

		fmt.Println(lipgloss.BoxStyle.Render(rootHelp))
	},
}

const rootHelp = `play <script>     Play steps in the terminal player
console <script>  Drive playback from a prompt
render <script>   Print the diffs (ansi, plain or markdown)
steps <script>    List the steps of a script
summary <script>  Diff statistics for a whole sequence
import-git        Write git history as a step script`

// handleRootCommand loads the configuration and builds the shared dependencies. It prints the problem and
// returns nil when that fails.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	rootDependencies := &RootDependencies{}

	var err error
	rootDependencies.Cwd, err = os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	rootDependencies.Config, err = config.LoadConfigs(cmd.Root(), rootDependencies.Cwd)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	rootDependencies.Logger, rootDependencies.logCloser, err = logging.NewLoggerBuilder().
		WithLevel(rootDependencies.Config.LogLevel).
		WithFile(rootDependencies.Config.LogFile).
		WithConsole(rootDependencies.Config.LogFile == "").
		WithConsoleWriter(os.Stderr).
		Build()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error creating logger: %v", err)))
		return nil
	}

	if used := config.ConfigFileUsed(); used != "" {
		rootDependencies.Logger.Debug().Str("file", used).Msg("configuration loaded")
	}

	rootDependencies.Fs = afero.NewOsFs()
	rootDependencies.Loader = timeline.NewLoader(rootDependencies.Fs, rootDependencies.Logger)
	rootDependencies.Outliner = code_outline.NewOutliner()
	rootDependencies.Stats = diff_stats.NewStatsManager()

	rootDependencies.Cache, err = diff_cache.NewDiffCache(rootDependencies.Config.CacheSize)
	if err != nil {
		rootDependencies.Close()
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return nil
	}

	return rootDependencies
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}
