package code_outline

import (
	"context"
	"fmt"

	"github.com/meysamhadeli/stepdiff/code_outline/contracts"
	"github.com/meysamhadeli/stepdiff/code_outline/models"
	"github.com/meysamhadeli/stepdiff/diff_engine"
	sitter "github.com/smacker/go-tree-sitter"
)

// Node types that become symbols, with the kind they are reported as.
var symbolKinds = map[string]string{
	"function_declaration":    "function",
	"function_definition":     "function",
	"method_declaration":      "method",
	"method_definition":       "method",
	"constructor_declaration": "constructor",
	"type_spec":               "type",
	"type_alias_declaration":  "type",
	"class_declaration":       "class",
	"class_definition":        "class",
	"interface_declaration":   "interface",
	"struct_declaration":      "struct",
	"enum_declaration":        "enum",
}

// Symbol kinds whose body is searched for members.
var memberOwners = map[string]bool{
	"class":     true,
	"interface": true,
	"struct":    true,
}

// Node types searched for symbols without being symbols themselves.
var containerKinds = map[string]bool{
	"type_declaration":                  true,
	"export_statement":                  true,
	"decorated_definition":              true,
	"namespace_declaration":             true,
	"file_scoped_namespace_declaration": true,
	"declaration_list":                  true,
}

// Outliner extracts declarations with tree-sitter.
type Outliner struct{}

var _ contracts.IOutliner = (*Outliner)(nil)

func NewOutliner() contracts.IOutliner {
	return &Outliner{}
}

// Outline parses source and lists its declarations. Files without a grammar yield an outline with no
// language and no symbols.
func (o *Outliner) Outline(ctx context.Context, path string, source []byte) (*models.Outline, error) {
	outline := &models.Outline{Path: path, Language: GetSupportedLanguage(path)}
	if outline.Language == "" {
		return outline, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar(outline.Language))

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	w := walker{source: source}
	w.walk(tree.RootNode(), "")
	outline.Symbols = w.symbols

	return outline, nil
}

type walker struct {
	source  []byte
	symbols []models.Symbol
}

func (w *walker) walk(node *sitter.Node, prefix string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		nodeType := child.Type()

		if kind, ok := symbolKinds[nodeType]; ok {
			name := w.nameOf(child)
			if name == "" {
				continue
			}
			if prefix != "" {
				name = prefix + "." + name
			}
			w.symbols = append(w.symbols, models.Symbol{
				Kind:      kind,
				Name:      name,
				StartLine: int(child.StartPoint().Row) + 1,
				EndLine:   int(child.EndPoint().Row) + 1,
			})
			if memberOwners[kind] {
				if body := child.ChildByFieldName("body"); body != nil {
					w.walk(body, name)
				}
			}
			continue
		}

		if containerKinds[nodeType] {
			if body := child.ChildByFieldName("body"); body != nil && nodeType != "declaration_list" {
				w.walk(body, prefix)
				continue
			}
			w.walk(child, prefix)
		}
	}
}

func (w *walker) nameOf(node *sitter.Node) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return name.Content(w.source)
	}
	return ""
}

// TouchedSymbols returns the symbols of outline containing a non-unchanged line of a diff of that file.
// Removed lines count at the position they were removed from.
func (o *Outliner) TouchedSymbols(outline *models.Outline, lines []diff_engine.Line) []models.Symbol {
	if outline == nil || len(outline.Symbols) == 0 {
		return nil
	}

	touched := make([]bool, len(outline.Symbols))
	position := 1
	for _, line := range lines {
		if line.Kind != diff_engine.Unchanged {
			for i, symbol := range outline.Symbols {
				if symbol.Contains(position) {
					touched[i] = true
				}
			}
		}
		if line.Kind != diff_engine.Removed {
			position++
		}
	}

	var result []models.Symbol
	for i, symbol := range outline.Symbols {
		if touched[i] {
			result = append(result, symbol)
		}
	}
	return result
}
