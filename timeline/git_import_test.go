package timeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	write := func(name, content string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	run("init", "-q")
	write("main.go", "package main\n")
	run("add", ".")
	run("commit", "-q", "-m", "start")

	write("main.go", "package main\n\nfunc main() {}\n")
	write("pkg/util.go", "package pkg\n")
	run("add", ".")
	run("commit", "-q", "-m", "add util")

	require.NoError(t, os.Remove(filepath.Join(dir, "pkg/util.go")))
	write("README.md", "# demo\n")
	run("add", "-A")
	run("commit", "-q", "-m", "docs")

	return dir
}

func TestFromGit(t *testing.T) {
	dir := gitRepo(t)

	steps, err := FromGit(context.Background(), NewGitOperations(dir), GitImportOptions{Delay: 700})
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, "start", steps[0].Label)
	assert.Len(t, steps[0].ID, 7)
	assert.Equal(t, []string{"main.go"}, steps[0].Files.Paths())
	assert.Nil(t, steps[0].Changed)

	assert.Equal(t, "add util", steps[1].Label)
	assert.ElementsMatch(t, []string{"main.go", "pkg/util.go"}, steps[1].Changed)
	content, ok := steps[1].Files.Lookup("main.go")
	assert.True(t, ok)
	assert.Equal(t, "package main\n\nfunc main() {}\n", content)

	assert.ElementsMatch(t, []string{"README.md", "pkg/util.go"}, steps[2].Changed)
	_, ok = steps[2].Files.Lookup("pkg/util.go")
	assert.False(t, ok)
	assert.Equal(t, 700, steps[2].Delay)
}

func TestFromGit_PathsAndLimit(t *testing.T) {
	dir := gitRepo(t)

	steps, err := FromGit(context.Background(), NewGitOperations(dir), GitImportOptions{Paths: []string{"pkg/"}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "docs", steps[0].Label)
	assert.Empty(t, steps[0].Files)
}

func TestFromGit_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	_, err := FromGit(context.Background(), NewGitOperations(t.TempDir()), GitImportOptions{})
	assert.Error(t, err)
}

func TestUnderAny(t *testing.T) {
	assert.True(t, underAny("a/b.go", nil))
	assert.True(t, underAny("a/b.go", []string{"./a/"}))
	assert.True(t, underAny("a/b.go", []string{"a/b.go"}))
	assert.False(t, underAny("ab/c.go", []string{"a"}))
	assert.True(t, underAny("x.go", []string{"."}))
}
