package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
	"github.com/meysamhadeli/stepdiff/playback"
	"github.com/meysamhadeli/stepdiff/render"
	"github.com/meysamhadeli/stepdiff/timeline"
	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/meysamhadeli/stepdiff/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var consoleOptions struct {
	source sourceFlags
	from   string
}

// consoleCmd: stepdiff console
var consoleCmd = &cobra.Command{
	Use:   "console [script]",
	Short: "Drive playback from a command prompt.",
	Long: `The 'console' subcommand prints each frame to the terminal and reads playback commands from a prompt.
It is meant for terminals where the full screen player is not available and for scripted demos.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return
		}
		defer rootDependencies.Close()
		handleConsoleCommand(cmd.Context(), args, rootDependencies)
	},
}

func init() {
	addSourceFlags(consoleCmd, &consoleOptions.source)
	consoleCmd.Flags().StringVarP(&consoleOptions.from, "from", "f", "", "Start at the step with this number, id or title (fuzzy).")

	rootCmd.AddCommand(consoleCmd)
}

// framePrinter prints each newly displayed frame. Frames arrive from the playback timer as well as from
// the prompt loop.
type framePrinter struct {
	mu       sync.Mutex
	renderer *render.Renderer
	revision uint64
}

func (p *framePrinter) print(v playback.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v.Revision != 0 && v.Revision <= p.revision {
		return
	}
	p.revision = v.Revision
	fmt.Println()
	fmt.Println(p.renderer.Frame(v))
}

// consoleSession is the state the prompt commands act on.
type consoleSession struct {
	scheduler *playback.Scheduler
	steps     models.StepSequence
	printer   *framePrinter
	deps      *RootDependencies
}

func handleConsoleCommand(parent context.Context, args []string, rootDependencies *RootDependencies) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)
	spinnerLoadSteps, _ := spinner.Start("Loading steps...")

	steps, _, err := loadSteps(ctx, rootDependencies, args, &consoleOptions.source)
	spinnerLoadSteps.Stop()
	fmt.Print("\r")
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	session := &consoleSession{
		steps:   steps,
		printer: &framePrinter{renderer: render.NewRenderer(renderOptions(rootDependencies.Config))},
		deps:    rootDependencies,
	}
	session.scheduler = newScheduler(rootDependencies, steps, session.printer.print)
	defer session.scheduler.Close()

	go utils.GracefulShutdown(ctx, cancel, func() {
		session.scheduler.Close()
	})

	fmt.Println(lipgloss.BoxStyle.Render("/help  Help for console subcommand"))
	startAt(session.scheduler, steps, consoleOptions.from)
	session.printer.print(session.scheduler.View())

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		userInput, err := utils.InputPromptWithContext(ctx, reader)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, utils.ErrInputClosed) {
				fmt.Println(lipgloss.Yellow.Render("Exiting..."))
				return
			}
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			continue
		}

		if userInput == "" {
			continue
		}

		if exit := session.run(userInput); exit {
			return
		}
	}
}

const consoleHelp = `/play            Start playback
/pause           Pause playback
/next  /prev     Move one step
/first /last     Jump to the first or last step
/goto <query>    Jump to a step by number, id or title
/file <n>        Show the n-th changed file of the step
/restart         Rewind to the first step
/show            Print the current frame again
/steps           List the steps
/stats           Statistics of the frames shown so far
/live-stats      Statistics of the current frame
/clear-stats     Forget the recorded statistics
/clear           Clear screen
/exit            Exit from stepdiff`

// run executes one prompt command and reports whether the session should end.
func (s *consoleSession) run(line string) bool {
	command, argument := utils.ParseCommand(line)

	switch command {
	case "/help":
		fmt.Println(lipgloss.BoxStyle.Render(consoleHelp))
	case "/play":
		s.scheduler.Play()
	case "/pause":
		s.scheduler.Pause()
	case "/next":
		s.scheduler.Next()
	case "/prev":
		s.scheduler.Prev()
	case "/first", "/restart":
		s.scheduler.Restart()
	case "/last":
		s.scheduler.StepTo(len(s.steps) - 1)
	case "/goto":
		i, ok := timeline.FindStep(s.steps, argument)
		if !ok {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("No step matches %q.", argument)))
			return false
		}
		s.scheduler.StepTo(i)
	case "/file":
		n, err := strconv.Atoi(argument)
		if err != nil || n < 1 {
			fmt.Println(lipgloss.Yellow.Render("Usage: /file <n>, counting from 1"))
			return false
		}
		s.scheduler.SelectFile(n - 1)
	case "/show":
		s.printer.mu.Lock()
		s.printer.revision = 0
		s.printer.mu.Unlock()
		s.printer.print(s.scheduler.View())
	case "/steps":
		printStepsTable(s.steps)
	case "/stats":
		s.deps.Stats.DisplayStats()
	case "/live-stats":
		s.deps.Stats.DisplayLiveStats(s.scheduler.Lines())
	case "/clear-stats":
		s.deps.Stats.ClearStats()
	case "/clear":
		fmt.Print("\033[2J\033[H")
	case "/exit":
		return true
	default:
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Unknown command %q, type /help for the list.", command)))
	}
	return false
}
