package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/diff_cache"
	"github.com/meysamhadeli/stepdiff/render"
	"github.com/meysamhadeli/stepdiff/timeline"
	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/spf13/cobra"
)

const (
	formatANSI     = "ansi"
	formatPlain    = "plain"
	formatMarkdown = "markdown"
)

type renderFlags struct {
	source sourceFlags
	format string
	step   string
	output string
}

var renderOptionsFlags renderFlags

// renderCmd: stepdiff render
var renderCmd = &cobra.Command{
	Use:   "render [script]",
	Short: "Print the diff of every step without playing it.",
	Long: `The 'render' subcommand writes the diffs a playback would show. The ansi format matches the player,
plain marks word changes as [-removed-] and {+added+}, and markdown produces one section per step with a
fenced diff block per file.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		defer rootDependencies.Close()

		if err := handleRenderCommand(cmd.Context(), args, renderOptionsFlags, rootDependencies); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		}
	},
}

func init() {
	addSourceFlags(renderCmd, &renderOptionsFlags.source)
	renderCmd.Flags().StringVarP(&renderOptionsFlags.format, "format", "F", formatANSI, "Output format: ansi, plain or markdown.")
	renderCmd.Flags().StringVarP(&renderOptionsFlags.step, "step", "s", "", "Only render the step with this number, id or title.")
	renderCmd.Flags().StringVarP(&renderOptionsFlags.output, "output", "o", "", "Write to this file instead of standard output.")

	rootCmd.AddCommand(renderCmd)
}

func handleRenderCommand(ctx context.Context, args []string, flags renderFlags, rootDependencies *RootDependencies) error {
	steps, _, err := loadSteps(ctx, rootDependencies, args, &flags.source)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flags.output != "" {
		f, err := rootDependencies.Fs.Create(flags.output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", flags.output, err)
		}
		defer f.Close()
		w = f
	}

	return writeRendered(ctx, w, steps, flags, rootDependencies)
}

func writeRendered(ctx context.Context, w io.Writer, steps models.StepSequence, flags renderFlags, rootDependencies *RootDependencies) error {
	only := -1
	if flags.step != "" {
		i, ok := timeline.FindStep(steps, flags.step)
		if !ok {
			return fmt.Errorf("no step matches %q", flags.step)
		}
		only = i
	}

	switch flags.format {
	case formatMarkdown:
		if only >= 0 {
			return render.WriteMarkdownRange(ctx, w, steps, rootDependencies.Cache, only, only+1)
		}
		return render.WriteMarkdown(ctx, w, steps, rootDependencies.Cache)
	case formatANSI, formatPlain:
	default:
		return fmt.Errorf("unknown format %q, expected ansi, plain or markdown", flags.format)
	}

	renderer := render.NewRenderer(renderOptions(rootDependencies.Config))
	for _, pair := range diff_cache.Pairs(steps) {
		if only >= 0 && pair.Step != only {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		lines := rootDependencies.Cache.Diff(pair.Previous, pair.Current, pair.First)
		rootDependencies.Stats.Record(pair.Step, pair.Path, lines)

		title := fmt.Sprintf("Step %d · %s · %s", pair.Step+1, steps[pair.Step].Title(pair.Step), pair.Path)
		body := render.Plain(lines)
		if flags.format == formatANSI {
			title = lipgloss.Header.Render(title)
			body = renderer.Lines(pair.Path, lines) + "\n"
		}
		if _, err := fmt.Fprintf(w, "%s\n%s\n", title, body); err != nil {
			return err
		}
	}
	return nil
}
