package timeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/meysamhadeli/stepdiff/timeline/models"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Script formats, chosen by file extension.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// DefaultCodePath names the single file of a step written with the "code" shorthand.
const DefaultCodePath = "code"

// ErrUnsupportedFormat is returned for script files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported step script format")

type rawFile struct {
	Path    string `json:"path" yaml:"path" toml:"path" validate:"required"`
	Content string `json:"content" yaml:"content" toml:"content" validate:"excluded_with=Source"`
	Source  string `json:"source" yaml:"source" toml:"source"`
}

type rawStep struct {
	ID      string    `json:"id" yaml:"id" toml:"id"`
	Label   string    `json:"label" yaml:"label" toml:"label"`
	Name    string    `json:"name" yaml:"name" toml:"name"`
	Code    *string   `json:"code" yaml:"code" toml:"code" validate:"excluded_with=Files"`
	Files   []rawFile `json:"files" yaml:"files" toml:"files" validate:"dive"`
	Changed []string  `json:"changed" yaml:"changed" toml:"changed" validate:"dive,required"`
	Delay   any       `json:"delay" yaml:"delay" toml:"delay"`
}

type rawScript struct {
	DefaultDelay any       `json:"default_delay" yaml:"default_delay" toml:"default_delay"`
	Steps        []rawStep `json:"steps" yaml:"steps" toml:"steps" validate:"dive"`
}

// scriptFile is the shape written by Save.
type scriptFile struct {
	Steps models.StepSequence `json:"steps" yaml:"steps" toml:"steps"`
}

// Loader reads step sequences from scripts, directories and git history.
type Loader struct {
	fs       afero.Fs
	logger   zerolog.Logger
	validate *validator.Validate
	ignore   *IgnoreRules
}

// NewLoader creates a loader over fs.
func NewLoader(fs afero.Fs, logger zerolog.Logger) *Loader {
	return &Loader{
		fs:       fs,
		logger:   logger,
		validate: validator.New(),
		ignore:   NewIgnoreRules(fs),
	}
}

// Load reads the step script at path with a silent loader.
func Load(fs afero.Fs, path string) (models.StepSequence, error) {
	return NewLoader(fs, zerolog.Nop()).Load(path)
}

// FormatFor returns the script format of path from its extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates the step script at path. File entries with a "source" are read relative to the
// script's directory.
func (l *Loader) Load(path string) (models.StepSequence, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read step script %s: %w", path, err)
	}

	var script rawScript
	if err := decode(data, format, &script); err != nil {
		return nil, fmt.Errorf("failed to parse step script %s: %w", path, err)
	}

	if err := l.validate.Struct(script); err != nil {
		return nil, fmt.Errorf("invalid step script %s: %w", path, err)
	}

	return l.build(script, filepath.Dir(path))
}

func decode(data []byte, format string, v any) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		return decoder.Decode(v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	}
	return ErrUnsupportedFormat
}

func (l *Loader) build(script rawScript, baseDir string) (models.StepSequence, error) {
	defaultDelay, ok := parseDelay(script.DefaultDelay)
	if !ok {
		l.logger.Warn().Interface("default_delay", script.DefaultDelay).Msg("ignoring invalid default delay")
	}

	steps := make(models.StepSequence, 0, len(script.Steps))
	for i, raw := range script.Steps {
		step := models.Step{
			ID:      raw.ID,
			Label:   raw.Label,
			Changed: raw.Changed,
		}
		if step.ID == "" {
			step.ID = fmt.Sprintf("step-%d", i+1)
		}
		if step.Label == "" {
			step.Label = raw.Name
		}
		if len(step.Changed) == 0 {
			step.Changed = nil
		}

		delay, ok := parseDelay(raw.Delay)
		if !ok {
			l.logger.Warn().Str("step", step.ID).Interface("delay", raw.Delay).Msg("ignoring invalid step delay")
		}
		if delay == 0 {
			delay = defaultDelay
		}
		step.Delay = delay

		if raw.Code != nil {
			step.Files = models.Snapshot{{Path: DefaultCodePath, Content: *raw.Code}}
		}
		for _, f := range raw.Files {
			content := f.Content
			if f.Source != "" {
				source := f.Source
				if !filepath.IsAbs(source) {
					source = filepath.Join(baseDir, source)
				}
				data, err := afero.ReadFile(l.fs, source)
				if err != nil {
					return nil, fmt.Errorf("failed to read source of %s in %s: %w", f.Path, step.ID, err)
				}
				content = string(data)
			}
			if _, dup := step.Files.Lookup(f.Path); dup {
				return nil, fmt.Errorf("step %s lists %s twice", step.ID, f.Path)
			}
			step.Files = append(step.Files, models.FileEntry{Path: f.Path, Content: content})
		}

		steps = append(steps, step)
	}

	l.logger.Debug().Int("steps", len(steps)).Msg("step script loaded")
	return steps, nil
}

// parseDelay reads a delay in milliseconds from a number, a numeric string or a duration string such as
// "1.5s". Missing and zero values give (0, true); unparsable or negative values give (0, false).
func parseDelay(v any) (int, bool) {
	if v == nil {
		return 0, true
	}

	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, true
		}
		if strings.IndexFunc(s, isUnitRune) >= 0 {
			d, err := cast.ToDurationE(s)
			if err != nil || d < 0 {
				return 0, false
			}
			return int(d / time.Millisecond), true
		}
	}

	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func isUnitRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == 'µ'
}

// Save writes steps as a step script in the format implied by path.
func (l *Loader) Save(path string, steps models.StepSequence) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	script := scriptFile{Steps: steps}
	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(script)
	case FormatJSON:
		data, err = json.MarshalIndent(script, "", "  ")
	case FormatTOML:
		data, err = toml.Marshal(script)
	}
	if err != nil {
		return fmt.Errorf("failed to encode step script: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := l.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := afero.WriteFile(l.fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write step script %s: %w", path, err)
	}
	return nil
}
