package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
)

// ErrInputClosed is returned when standard input reaches EOF.
var ErrInputClosed = errors.New("input closed")

// InputPromptWithContext prints the prompt and reads one trimmed line, returning ctx.Err() when ctx is done first.
// The reading goroutine outlives a cancelled call until the next line or EOF arrives.
func InputPromptWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render("> "))

		userInput, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if strings.TrimSpace(userInput) != "" {
					inputChan <- strings.TrimSpace(userInput)
					return
				}
				errChan <- ErrInputClosed
				return
			}
			errChan <- fmt.Errorf("error reading input: %w", err)
			return
		}
		inputChan <- strings.TrimSpace(userInput)
	}()

	select {
	case <-ctx.Done():
		fmt.Println()
		return "", ctx.Err()
	case err := <-errChan:
		return "", err
	case input := <-inputChan:
		return input, nil
	}
}

// ParseCommand splits a console line such as "/goto intro" into its command and argument.
func ParseCommand(line string) (command string, argument string) {
	line = strings.TrimSpace(line)
	command, argument, _ = strings.Cut(line, " ")
	return strings.ToLower(command), strings.TrimSpace(argument)
}
