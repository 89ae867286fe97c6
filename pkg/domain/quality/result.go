package quality

import (
	"sort"
	"time"
)

// SuggestionCategory classifies an improvement suggestion.
type SuggestionCategory string

const (
	SuggestionCritical    SuggestionCategory = "critical"
	SuggestionMajor       SuggestionCategory = "major"
	SuggestionMinor       SuggestionCategory = "minor"
	SuggestionEnhancement SuggestionCategory = "enhancement"
)

// Suggestion is one improvement recommendation attached to an assessment.
// Priority runs 0-10 and orders suggestions descending.
type Suggestion struct {
	Category    SuggestionCategory `json:"category"`
	Dimension   Dimension          `json:"dimension,omitempty"`
	Description string             `json:"description"`
	Impact      string             `json:"impact"`
	Effort      string             `json:"effort"`
	Priority    int                `json:"priority"`
}

// DimensionScore is the scored outcome of one dimension.
type DimensionScore struct {
	Name         Dimension `json:"name"`
	Score        float64   `json:"score"`
	Weight       float64   `json:"weight"`
	MinimumScore float64   `json:"minimum_score"`
	Passed       bool      `json:"passed"`
	Degraded     bool      `json:"degraded,omitempty"`
}

// ComplianceStatus summarizes whether the deliverable meets the standard.
type ComplianceStatus struct {
	IsCompliant bool     `json:"is_compliant"`
	Threshold   float64  `json:"threshold"`
	FailedRules []string `json:"failed_rules,omitempty"`
}

// AssessmentResult is the output of one scoring run against one deliverable
// version. Created fresh per run; never mutated after creation.
type AssessmentResult struct {
	DeliverableID          string           `json:"deliverable_id"`
	Version                int              `json:"version"`
	StandardName           string           `json:"standard_name"`
	Category               FileCategory     `json:"category"`
	OverallScore           float64          `json:"overall_score"`
	Classification         string           `json:"classification"`
	QualityDimensions      []DimensionScore `json:"quality_dimensions"`
	ComplianceStatus       ComplianceStatus `json:"compliance_status"`
	ImprovementSuggestions []Suggestion     `json:"improvement_suggestions"`
	AssessedAt             time.Time        `json:"assessed_at"`
}

// SortSuggestions orders suggestions by descending priority. Ties keep
// their original relative order.
func SortSuggestions(suggestions []Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority > suggestions[j].Priority
	})
}

// ToMap renders the result for attachment onto a deliverable record.
func (r *AssessmentResult) ToMap() map[string]interface{} {
	dims := make([]interface{}, 0, len(r.QualityDimensions))
	for _, d := range r.QualityDimensions {
		dims = append(dims, map[string]interface{}{
			"name":          string(d.Name),
			"score":         d.Score,
			"minimum_score": d.MinimumScore,
			"passed":        d.Passed,
		})
	}
	suggestions := make([]interface{}, 0, len(r.ImprovementSuggestions))
	for _, s := range r.ImprovementSuggestions {
		suggestions = append(suggestions, map[string]interface{}{
			"category":    string(s.Category),
			"description": s.Description,
			"priority":    s.Priority,
		})
	}
	return map[string]interface{}{
		"overall_score":  r.OverallScore,
		"classification": r.Classification,
		"standard_name":  r.StandardName,
		"compliance_status": map[string]interface{}{
			"is_compliant": r.ComplianceStatus.IsCompliant,
			"threshold":    r.ComplianceStatus.Threshold,
		},
		"quality_dimensions":      dims,
		"improvement_suggestions": suggestions,
		"assessed_at":             r.AssessedAt,
	}
}
