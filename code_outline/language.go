package code_outline

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var extensions = map[string]string{
	".go":   "go",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".ts":   "typescript",
	".mts":  "typescript",
	".py":   "python",
	".java": "java",
	".cs":   "csharp",
}

// GetSupportedLanguage returns the outline language of path, or "" when it has no grammar.
func GetSupportedLanguage(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

func grammar(language string) *sitter.Language {
	switch language {
	case "go":
		return golang.GetLanguage()
	case "javascript":
		return javascript.GetLanguage()
	case "typescript":
		return typescript.GetLanguage()
	case "python":
		return python.GetLanguage()
	case "java":
		return java.GetLanguage()
	case "csharp":
		return csharp.GetLanguage()
	}
	return nil
}
