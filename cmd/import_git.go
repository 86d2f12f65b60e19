package cmd

import (
	"context"
	"fmt"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/timeline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type importGitFlags struct {
	output string
	paths  []string
	limit  int
	delay  int
}

var importGitOptions importGitFlags

// importGitCmd: stepdiff import-git
var importGitCmd = &cobra.Command{
	Use:   "import-git",
	Short: "Write the git history of the working directory as a step script.",
	Long: `The 'import-git' subcommand turns each commit into a step, oldest first. The tracked files are every file
touched by an imported commit, and each step lists the files its commit changed. The format of the written
script follows the extension of --output (.yaml, .yml, .json or .toml).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		defer rootDependencies.Close()

		if err := handleImportGitCommand(cmd.Context(), importGitOptions, rootDependencies); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		}
	},
}

func init() {
	importGitCmd.Flags().StringVarP(&importGitOptions.output, "output", "o", "steps.yaml", "Script file to write.")
	importGitCmd.Flags().StringSliceVar(&importGitOptions.paths, "paths", nil, "Restrict the import to these paths.")
	importGitCmd.Flags().IntVarP(&importGitOptions.limit, "limit", "n", 0, "Import at most this many recent commits (0 = all).")
	importGitCmd.Flags().IntVar(&importGitOptions.delay, "delay", 0, "Delay in milliseconds written to every step (0 = default).")

	rootCmd.AddCommand(importGitCmd)
}

func handleImportGitCommand(ctx context.Context, flags importGitFlags, rootDependencies *RootDependencies) error {
	if _, err := timeline.FormatFor(flags.output); err != nil {
		return err
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)
	spinnerInstance, _ := spinner.Start("Reading git history...")

	steps, err := timeline.FromGit(ctx, timeline.NewGitOperations(rootDependencies.Cwd), timeline.GitImportOptions{
		Paths: flags.paths,
		Limit: flags.limit,
		Delay: flags.delay,
	})
	spinnerInstance.Stop()
	fmt.Print("\r")
	if err != nil {
		return err
	}

	if err := rootDependencies.Loader.Save(flags.output, steps); err != nil {
		return err
	}

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ Wrote %d steps to %s", len(steps), flags.output)))
	return nil
}
