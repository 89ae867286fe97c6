// Package quality implements the deliverable quality assessment engine:
// weighted multi-dimensional scoring against validated standard
// configurations.
package quality

import "strings"

// FileCategory groups file types into one of the built-in standard
// categories. The mapping is total: unknown or empty file types resolve to
// CategoryDocument, the documented fallback. Unknown types are never
// rejected outright.
type FileCategory string

const (
	CategoryCode          FileCategory = "code"
	CategoryDocument      FileCategory = "document"
	CategoryTest          FileCategory = "test"
	CategoryConfiguration FileCategory = "configuration"
)

// AllCategories returns all built-in file categories.
func AllCategories() []FileCategory {
	return []FileCategory{
		CategoryCode,
		CategoryDocument,
		CategoryTest,
		CategoryConfiguration,
	}
}

// IsValid returns true for a known category.
func (c FileCategory) IsValid() bool {
	switch c {
	case CategoryCode, CategoryDocument, CategoryTest, CategoryConfiguration:
		return true
	default:
		return false
	}
}

var extensionCategories = map[string]FileCategory{
	".go":   CategoryCode,
	".ts":   CategoryCode,
	".tsx":  CategoryCode,
	".js":   CategoryCode,
	".jsx":  CategoryCode,
	".py":   CategoryCode,
	".java": CategoryCode,
	".rb":   CategoryCode,
	".rs":   CategoryCode,
	".c":    CategoryCode,
	".cpp":  CategoryCode,
	".cs":   CategoryCode,
	".sh":   CategoryCode,
	".sql":  CategoryCode,

	".md":   CategoryDocument,
	".txt":  CategoryDocument,
	".rst":  CategoryDocument,
	".adoc": CategoryDocument,
	".doc":  CategoryDocument,
	".docx": CategoryDocument,
	".pdf":  CategoryDocument,

	".test.ts":  CategoryTest,
	".test.tsx": CategoryTest,
	".test.js":  CategoryTest,
	".spec.ts":  CategoryTest,
	".spec.js":  CategoryTest,
	"_test.go":  CategoryTest,
	".feature":  CategoryTest,

	".json":       CategoryConfiguration,
	".yaml":       CategoryConfiguration,
	".yml":        CategoryConfiguration,
	".toml":       CategoryConfiguration,
	".ini":        CategoryConfiguration,
	".env":        CategoryConfiguration,
	".properties": CategoryConfiguration,
}

// CategoryForFileType maps a file extension or file name to its category.
// Compound test suffixes (e.g. ".test.ts", "_test.go") take precedence over
// the plain extension. Unrecognized input falls back to CategoryDocument.
func CategoryForFileType(fileType string) FileCategory {
	ft := strings.ToLower(strings.TrimSpace(fileType))
	if ft == "" {
		return CategoryDocument
	}
	if !strings.HasPrefix(ft, ".") && !strings.Contains(ft, ".") && !strings.Contains(ft, "_") {
		ft = "." + ft
	}

	// Longest-suffix match so ".test.ts" wins over ".ts".
	var best FileCategory
	bestLen := 0
	for suffix, category := range extensionCategories {
		if strings.HasSuffix(ft, suffix) && len(suffix) > bestLen {
			best = category
			bestLen = len(suffix)
		}
	}
	if bestLen == 0 {
		return CategoryDocument
	}
	return best
}
