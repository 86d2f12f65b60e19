package utils

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/meysamhadeli/stepdiff/constants/lipgloss"
)

// GracefulShutdown runs cleanup once, on SIGINT/SIGTERM or when ctx is done, and then cancels ctx.
func GracefulShutdown(ctx context.Context, cancel context.CancelFunc, cleanup func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		fmt.Println(lipgloss.Yellow.Render("\nShutting down..."))
	case <-ctx.Done():
	}

	if cleanup != nil {
		cleanup()
	}
	cancel()
}
