package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/diff_cache"
	"github.com/meysamhadeli/stepdiff/diff_stats"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var summaryOptions struct {
	source  sourceFlags
	stats   bool
	workers int
}

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary [script]",
	Short: "Compute every diff of a sequence and print line statistics.",
	Long: `The 'summary' command computes every diff a full playback shows, in parallel, and prints the number of
added, removed and changed lines per step and file. With --stats it also reports how the diff cache performed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		defer rootDependencies.Close()

		handleSummaryCommand(cmd.Context(), args, rootDependencies)
	},
}

func init() {
	addSourceFlags(summaryCmd, &summaryOptions.source)
	summaryCmd.Flags().BoolVarP(&summaryOptions.stats, "stats", "s", false, "Show diff cache statistics")
	summaryCmd.Flags().IntVar(&summaryOptions.workers, "workers", 0, "Diffs computed in parallel (0 = one per CPU)")

	rootCmd.AddCommand(summaryCmd)
}

func handleSummaryCommand(ctx context.Context, args []string, rootDependencies *RootDependencies) {
	steps, _, err := loadSteps(ctx, rootDependencies, args, &summaryOptions.source)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerInstance, _ := spinner.Start("Computing diffs...")

	pairs := diff_cache.Pairs(steps)
	if err := rootDependencies.Cache.Warm(ctx, pairs, summaryOptions.workers); err != nil {
		spinnerInstance.Stop()
		fmt.Print("\r")
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error computing diffs: %v", err)))
		return
	}

	for _, pair := range pairs {
		rootDependencies.Stats.Record(pair.Step, pair.Path, rootDependencies.Cache.Diff(pair.Previous, pair.Current, pair.First))
	}

	spinnerInstance.Stop()
	fmt.Print("\r")

	if len(pairs) == 0 {
		fmt.Println(lipgloss.Yellow.Render("No diffs to summarize."))
		return
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(summaryTable(rootDependencies.Stats.Entries())).Render(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error rendering summary: %v", err)))
	}
	rootDependencies.Stats.DisplayStats()

	if summaryOptions.stats {
		printCacheStats(rootDependencies.Cache.GetPerformanceStats())
	}
}

func summaryTable(entries []diff_stats.StepTally) pterm.TableData {
	data := pterm.TableData{{"Step", "File", "Added", "Removed", "Changed", "Unchanged"}}
	for _, e := range entries {
		data = append(data, []string{
			strconv.Itoa(e.Step + 1),
			e.Path,
			strconv.Itoa(e.Tally.Added),
			strconv.Itoa(e.Tally.Removed),
			strconv.Itoa(e.Tally.Changed),
			strconv.Itoa(e.Tally.Unchanged),
		})
	}
	return data
}

func printCacheStats(stats diff_cache.PerformanceStats) {
	fmt.Println(lipgloss.Info.Render("Cache Statistics:"))
	fmt.Printf("  Requests: %d\n", stats.TotalRequests)
	fmt.Printf("  Cached Diffs: %d\n", stats.Entries)
	fmt.Printf("  Hit Rate: %.1f%%\n", stats.HitRatePercent)
	fmt.Printf("  Evictions: %d\n", stats.Evictions)
	fmt.Printf("  Efficiency: %s\n", stats.Efficiency())
}
