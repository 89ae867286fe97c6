package quality_test

import (
	"testing"

	"github.com/workintel/workintel/pkg/domain/quality"
)

func TestCategoryForFileType(t *testing.T) {
	tests := []struct {
		fileType string
		want     quality.FileCategory
	}{
		// 1. Plain extensions.
		{".go", quality.CategoryCode},
		{".ts", quality.CategoryCode},
		{".py", quality.CategoryCode},
		{".md", quality.CategoryDocument},
		{".txt", quality.CategoryDocument},
		{".json", quality.CategoryConfiguration},
		{".yaml", quality.CategoryConfiguration},

		// 2. Compound test suffixes beat the plain extension.
		{".test.ts", quality.CategoryTest},
		{".spec.js", quality.CategoryTest},
		{"_test.go", quality.CategoryTest},
		{"parser_test.go", quality.CategoryTest},
		{"api.test.ts", quality.CategoryTest},

		// 3. Bare names and casing are normalized.
		{"go", quality.CategoryCode},
		{"md", quality.CategoryDocument},
		{".GO", quality.CategoryCode},
		{" .md ", quality.CategoryDocument},

		// 4. Unknown or empty types fall back to document.
		{".xyz", quality.CategoryDocument},
		{"", quality.CategoryDocument},
	}

	for _, tt := range tests {
		if got := quality.CategoryForFileType(tt.fileType); got != tt.want {
			t.Errorf("CategoryForFileType(%q) = %s, want %s", tt.fileType, got, tt.want)
		}
	}
}

func TestFileCategoryIsValid(t *testing.T) {
	for _, c := range quality.AllCategories() {
		if !c.IsValid() {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if quality.FileCategory("binary").IsValid() {
		t.Error("expected unknown category to be invalid")
	}
}

func TestAvailableStandardsFallsBackToDocument(t *testing.T) {
	names := quality.AvailableStandards(".unknown-extension")
	if len(names) == 0 {
		t.Fatal("expected at least one standard name")
	}
	if names[0] != "document-default" {
		t.Errorf("expected document-default fallback, got %v", names)
	}
}
