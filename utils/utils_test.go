package utils

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputPromptWithContext_ReadsTrimmedLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  /next  \n"))

	input, err := InputPromptWithContext(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, "/next", input)
}

func TestInputPromptWithContext_LastLineWithoutNewline(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("/exit"))

	input, err := InputPromptWithContext(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, "/exit", input)
}

func TestInputPromptWithContext_EOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := InputPromptWithContext(context.Background(), reader)
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestInputPromptWithContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never returns keeps the goroutine blocked, so only ctx can finish the call.
	blocked, _ := newBlockingReader()
	_, err := InputPromptWithContext(ctx, bufio.NewReader(blocked))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line, command, argument string
	}{
		{"/next", "/next", ""},
		{"/GOTO  intro step ", "/goto", "intro step"},
		{"  /file 2", "/file", "2"},
		{"", "", ""},
	}
	for _, tt := range tests {
		command, argument := ParseCommand(tt.line)
		assert.Equal(t, tt.command, command, tt.line)
		assert.Equal(t, tt.argument, argument, tt.line)
	}
}

func TestGracefulShutdown_RunsCleanupWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cleaned := make(chan struct{})

	go GracefulShutdown(ctx, cancel, func() { close(cleaned) })
	cancel()

	select {
	case <-cleaned:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not run")
	}
}

type blockingReader struct {
	done chan struct{}
}

func newBlockingReader() (*blockingReader, func()) {
	r := &blockingReader{done: make(chan struct{})}
	return r, func() { close(r.done) }
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, nil
}
