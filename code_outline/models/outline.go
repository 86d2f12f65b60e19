package models

// Symbol is a named declaration with its 1-based, inclusive line range.
type Symbol struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Contains reports whether line falls inside the symbol.
func (s Symbol) Contains(line int) bool {
	return line >= s.StartLine && line <= s.EndLine
}

// Outline holds the declarations of one file, in source order. Nested declarations follow their parent and
// carry a dotted name.
type Outline struct {
	Path     string   `json:"path"`
	Language string   `json:"language"`
	Symbols  []Symbol `json:"symbols"`
}
