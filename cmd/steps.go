package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/timeline"
	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// previewLength is the number of characters of code shown per step.
const previewLength = 50

var stepsOptions struct {
	source sourceFlags
}

// stepsCmd: stepdiff steps
var stepsCmd = &cobra.Command{
	Use:   "steps [script]",
	Short: "List the steps of a sequence.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		defer rootDependencies.Close()

		steps, _, err := loadSteps(cmd.Context(), rootDependencies, args, &stepsOptions.source)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			return
		}
		printStepsTable(steps)
	},
}

func init() {
	addSourceFlags(stepsCmd, &stepsOptions.source)
	rootCmd.AddCommand(stepsCmd)
}

func printStepsTable(steps models.StepSequence) {
	if len(steps) == 0 {
		fmt.Println(lipgloss.Yellow.Render("No steps."))
		return
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(stepsTable(steps)).Render(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error rendering steps: %v", err)))
	}
}

// stepsTable is the header row followed by one row per step.
func stepsTable(steps models.StepSequence) pterm.TableData {
	data := pterm.TableData{{"#", "ID", "Title", "Files", "Changed", "Delay", "Preview"}}
	for i, step := range steps {
		delay := "default"
		if step.Delay > 0 {
			delay = strconv.Itoa(step.Delay) + "ms"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			step.ID,
			step.Title(i),
			strconv.Itoa(len(step.Files)),
			strings.Join(step.Changed, ", "),
			delay,
			timeline.Preview(step, previewLength),
		})
	}
	return data
}
