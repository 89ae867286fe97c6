package quality

import (
	"context"
	"testing"
	"time"

	"github.com/workintel/workintel/pkg/domain/todo"
)

func TestPerformAssessmentEmptyConfigReportsGap(t *testing.T) {
	// A standard with dimensions but no checks anywhere cannot score
	// anything. The run still succeeds and reports the gap.
	empty := &StandardConfig{
		Name:     "empty-standard",
		Category: CategoryDocument,
		Dimensions: []DimensionConfig{
			{Name: DimensionFormat, Weight: 1.0, MinimumScore: 60},
		},
		ImprovementThresholds: ImprovementThresholds{
			Excellent:  90,
			Good:       80,
			Acceptable: 70,
			Poor:       50,
		},
	}
	e := &Engine{
		standards: map[FileCategory]*StandardConfig{CategoryDocument: empty},
		now:       time.Now,
	}

	d := &todo.Deliverable{ID: "deliv-1", Version: 1, FileType: ".txt", Content: "content"}
	result, err := e.PerformAssessment(context.Background(), d, nil, AssessmentContext{})
	if err != nil {
		t.Fatalf("PerformAssessment: %v", err)
	}

	if result.ComplianceStatus.IsCompliant {
		t.Error("expected non-compliant result")
	}
	if result.Classification != "poor" {
		t.Errorf("expected poor classification, got %s", result.Classification)
	}
	if len(result.ImprovementSuggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %v", result.ImprovementSuggestions)
	}
	s := result.ImprovementSuggestions[0]
	if s.Category != SuggestionCritical || s.Priority != 10 {
		t.Errorf("unexpected suggestion: %+v", s)
	}
}

func TestMatchesFileType(t *testing.T) {
	tests := []struct {
		fileType string
		pattern  string
		want     bool
	}{
		{".ts", ".ts", true},
		{"api.test.ts", ".test.ts", true},
		{"api.test.ts", ".ts", true},
		{".ts", ".test.ts", false},
		{".go", ".ts", false},
		{"", ".ts", false},
		{".ts", "", false},
	}
	for _, tt := range tests {
		if got := matchesFileType(tt.fileType, tt.pattern); got != tt.want {
			t.Errorf("matchesFileType(%q, %q) = %v, want %v", tt.fileType, tt.pattern, got, tt.want)
		}
	}
}

func TestFindStandardPrefersOverrides(t *testing.T) {
	override := DefaultStandardFor(CategoryDocument)
	override.Name = "document-default"
	override.ComplianceThreshold = 95

	e := &Engine{
		standards: DefaultStandards(),
		overrides: []*StandardConfig{override},
		now:       time.Now,
	}

	// 1. An override shadowing a default name wins.
	got := e.findStandard([]string{"document-default"})
	if got == nil || got.ComplianceThreshold != 95 {
		t.Fatalf("expected shadowing override, got %+v", got)
	}

	// 2. Unknown names resolve to nil.
	if e.findStandard([]string{"nope"}) != nil {
		t.Error("expected nil for unknown name")
	}
	if e.findStandard(nil) != nil {
		t.Error("expected nil for empty name list")
	}
}
