package timeline

import (
	"testing"

	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func TestLoad_YAML(t *testing.T) {
	fs := memFs(t, map[string]string{
		"demo/steps.yaml": `
default_delay: 400
steps:
  - id: intro
    label: Intro
    files:
      - path: main.go
        content: |
          package main
  - files:
      - path: main.go
        source: v2/main.go
    changed: [main.go]
    delay: 1.5s
`,
		"demo/v2/main.go": "package main\n\nfunc main() {}\n",
	})

	steps, err := Load(fs, "demo/steps.yaml")
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, models.Step{
		ID:    "intro",
		Label: "Intro",
		Files: models.Snapshot{{Path: "main.go", Content: "package main\n"}},
		Delay: 400,
	}, steps[0])

	assert.Equal(t, "step-2", steps[1].ID)
	assert.Equal(t, "Step 2", steps[1].Title(1))
	assert.Equal(t, []string{"main.go"}, steps[1].Changed)
	assert.Equal(t, 1500, steps[1].Delay)
	content, ok := steps[1].Files.Lookup("main.go")
	assert.True(t, ok)
	assert.Equal(t, "package main\n\nfunc main() {}\n", content)
}

func TestLoad_JSONCodeShorthand(t *testing.T) {
	fs := memFs(t, map[string]string{
		"steps.json": `{"steps": [
			{"id": "1", "name": "Step 1", "code": "let a = 1;", "delay": 1000},
			{"id": "2", "name": "Step 2", "code": "let a = 2;", "delay": "250"}
		]}`,
	})

	steps, err := Load(fs, "steps.json")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "Step 1", steps[0].Label)
	assert.Equal(t, models.Snapshot{{Path: DefaultCodePath, Content: "let a = 2;"}}, steps[1].Files)
	assert.Equal(t, 250, steps[1].Delay)
}

func TestLoad_TOML(t *testing.T) {
	fs := memFs(t, map[string]string{
		"steps.toml": `
[[steps]]
id = "a"
delay = 300

[[steps.files]]
path = "x.py"
content = "print(1)\n"
`,
	})

	steps, err := Load(fs, "steps.toml")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, 300, steps[0].Delay)
	assert.Equal(t, "x.py", steps[0].Files[0].Path)
}

func TestLoad_InvalidDelaysFallBack(t *testing.T) {
	fs := memFs(t, map[string]string{
		"steps.yaml": `
default_delay: soon
steps:
  - code: a
    delay: -20
  - code: b
    delay: fast
  - code: c
    delay: 0
`,
	})

	steps, err := NewLoader(fs, zerolog.Nop()).Load("steps.yaml")
	require.NoError(t, err)
	for _, step := range steps {
		assert.Equal(t, 0, step.Delay, step.ID)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		files map[string]string
	}{
		{"unsupported extension", "steps.txt", map[string]string{"steps.txt": "steps: []"}},
		{"missing file", "steps.yaml", map[string]string{}},
		{"malformed yaml", "steps.yaml", map[string]string{"steps.yaml": "steps: [\n"}},
		{"unknown json field", "steps.json", map[string]string{"steps.json": `{"stepz": []}`}},
		{"file without path", "steps.yaml", map[string]string{"steps.yaml": "steps:\n  - files:\n      - content: x\n"}},
		{"code and files", "steps.yaml", map[string]string{"steps.yaml": "steps:\n  - code: x\n    files:\n      - path: a\n"}},
		{"content and source", "steps.yaml", map[string]string{"steps.yaml": "steps:\n  - files:\n      - path: a\n        content: x\n        source: y\n"}},
		{"empty changed entry", "steps.yaml", map[string]string{"steps.yaml": "steps:\n  - code: x\n    changed: [\"\"]\n"}},
		{"duplicate path", "steps.yaml", map[string]string{"steps.yaml": "steps:\n  - files:\n      - path: a\n      - path: a\n"}},
		{"missing source", "steps.yaml", map[string]string{"steps.yaml": "steps:\n  - files:\n      - path: a\n        source: nope.go\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(memFs(t, tt.files), tt.path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnsupportedFormatIsTyped(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "steps.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in    any
		want  int
		valid bool
	}{
		{nil, 0, true},
		{"", 0, true},
		{0, 0, true},
		{250, 250, true},
		{float64(120), 120, true},
		{"750", 750, true},
		{"2s", 2000, true},
		{"150ms", 150, true},
		{-1, 0, false},
		{"later", 0, false},
		{[]string{"x"}, 0, false},
	}
	for _, tt := range tests {
		got, valid := parseDelay(tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
		assert.Equal(t, tt.valid, valid, "%v", tt.in)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	steps := models.StepSequence{
		{ID: "a", Label: "First", Files: models.Snapshot{{Path: "m.go", Content: "package m\n\nvar x = 1\n"}}, Delay: 500},
		{ID: "b", Files: models.Snapshot{{Path: "m.go", Content: "package m\n"}}, Changed: []string{"m.go"}, Delay: 200},
	}

	for _, path := range []string{"out/steps.yaml", "out/steps.json", "out/steps.toml"} {
		t.Run(path, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			loader := NewLoader(fs, zerolog.Nop())

			require.NoError(t, loader.Save(path, steps))
			loaded, err := loader.Load(path)
			require.NoError(t, err)
			assert.Equal(t, steps, loaded)
		})
	}
}
