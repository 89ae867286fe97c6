package quality

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/workintel/workintel/pkg/domain/todo"
)

// AssessmentContext carries optional caller context for an assessment run.
type AssessmentContext struct {
	TeamID         string
	ProjectContext string
}

// Engine applies standard configurations to submitted deliverables. Configs
// are read-only snapshots at assessment time; overrides may be swapped at
// runtime via SetOverrides, so the engine is safe for concurrent use.
type Engine struct {
	standards map[FileCategory]*StandardConfig
	provider  CheckProvider
	now       func() time.Time

	mu        sync.RWMutex
	overrides []*StandardConfig
}

// Option configures an Engine.
type Option func(*Engine)

// WithProvider plugs in an external rules/compliance engine for
// static_analysis and content_analysis checks.
func WithProvider(p CheckProvider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithOverrides installs team-supplied standard configs. Each must already
// pass validation; NewEngine rejects invalid overrides.
func WithOverrides(overrides ...*StandardConfig) Option {
	return func(e *Engine) { e.overrides = append(e.overrides, overrides...) }
}

// WithClock overrides the engine's clock. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an assessment engine over the built-in category defaults.
// Overrides failing static validation are rejected up front with the full
// violation list; scoring never begins against an invalid configuration.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		standards: DefaultStandards(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, cfg := range e.overrides {
		if report := ValidateConfig(cfg); !report.Valid {
			return nil, &ConfigurationError{Name: cfg.Name, Violations: report.Errors}
		}
	}

	return e, nil
}

// SetOverrides replaces the installed override set. All configs must pass
// static validation; on failure the previous set is kept untouched.
func (e *Engine) SetOverrides(overrides ...*StandardConfig) error {
	for _, cfg := range overrides {
		if report := ValidateConfig(cfg); !report.Valid {
			return &ConfigurationError{Name: cfg.Name, Violations: report.Errors}
		}
	}

	e.mu.Lock()
	e.overrides = overrides
	e.mu.Unlock()
	return nil
}

// SelectConfig resolves the effective standard for a file type: an override
// whose file_types match wins, then the category default, then the document
// default. Unknown types are never rejected.
func (e *Engine) SelectConfig(fileType string) *StandardConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, cfg := range e.overrides {
		for _, ft := range cfg.FileTypes {
			if matchesFileType(fileType, ft) {
				return cfg
			}
		}
	}

	category := CategoryForFileType(fileType)
	if cfg, ok := e.standards[category]; ok {
		return cfg
	}
	return e.standards[CategoryDocument]
}

// findStandard resolves the first requested standard name against the
// overrides, then the category defaults. Unknown names are ignored so the
// file-type selection stays in effect.
func (e *Engine) findStandard(names []string) *StandardConfig {
	if len(names) == 0 {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, name := range names {
		for _, cfg := range e.overrides {
			if cfg.Name == name {
				return cfg
			}
		}
		for _, cfg := range e.standards {
			if cfg.Name == name {
				return cfg
			}
		}
	}
	return nil
}

func matchesFileType(fileType, pattern string) bool {
	if fileType == "" || pattern == "" {
		return false
	}
	if fileType == pattern {
		return true
	}
	// ".test.ts" matches a deliverable typed ".ts" only on exact suffix.
	return len(pattern) > 1 && len(fileType) >= len(pattern) &&
		fileType[len(fileType)-len(pattern):] == pattern
}

// hasExecutableChecks reports whether any dimension defines at least one
// check.
func hasExecutableChecks(cfg *StandardConfig) bool {
	for _, dim := range cfg.Dimensions {
		if len(dim.Checks) > 0 {
			return true
		}
	}
	return false
}

// PerformAssessment scores one deliverable version against the effective
// standard. A configuration with no executable checks never fails the run:
// it returns a non-compliant result whose suggestions explain the
// configuration gap.
func (e *Engine) PerformAssessment(ctx context.Context, d *todo.Deliverable, standardNames []string, assessCtx AssessmentContext) (*AssessmentResult, error) {
	if d == nil {
		return nil, fmt.Errorf("deliverable is required")
	}

	cfg := e.SelectConfig(d.FileType)
	if named := e.findStandard(standardNames); named != nil {
		cfg = named
	}

	result := &AssessmentResult{
		DeliverableID: d.ID,
		Version:       d.Version,
		StandardName:  cfg.Name,
		Category:      cfg.Category,
		AssessedAt:    e.now(),
	}

	if !hasExecutableChecks(cfg) {
		result.ComplianceStatus = ComplianceStatus{
			IsCompliant: false,
			Threshold:   cfg.EffectiveThreshold(),
		}
		result.Classification = cfg.ImprovementThresholds.Classify(0)
		result.ImprovementSuggestions = append(result.ImprovementSuggestions, Suggestion{
			Category:    SuggestionCritical,
			Description: fmt.Sprintf("standard %q defines no executable checks; no dimension could be scored", cfg.Name),
			Impact:      "high",
			Effort:      "medium",
			Priority:    10,
		})
		return result, nil
	}

	if report := ValidateConfig(cfg); !report.Valid {
		return nil, &ConfigurationError{Name: cfg.Name, Violations: report.Errors}
	}

	artifact := Artifact{
		FileName: d.FileName,
		FileType: d.FileType,
		Content:  d.Content,
	}

	var overall float64
	allDimensionsPassed := true

	for _, dim := range cfg.Dimensions {
		var dimScore float64
		dimDegraded := false

		for _, check := range dim.Checks {
			outcome := runCheck(ctx, e.provider, artifact, check)
			dimScore += outcome.Score * check.Weight
			if outcome.Degraded {
				dimDegraded = true
			}
		}

		passed := dimScore >= dim.MinimumScore
		if !passed {
			allDimensionsPassed = false
		}

		result.QualityDimensions = append(result.QualityDimensions, DimensionScore{
			Name:         dim.Name,
			Score:        dimScore,
			Weight:       dim.Weight,
			MinimumScore: dim.MinimumScore,
			Passed:       passed,
			Degraded:     dimDegraded,
		})

		overall += dimScore * dim.Weight

		if !passed {
			result.ImprovementSuggestions = append(result.ImprovementSuggestions,
				suggestionForDimension(dim, dimScore))
		}
		if dimDegraded {
			result.ImprovementSuggestions = append(result.ImprovementSuggestions, Suggestion{
				Category:    SuggestionMinor,
				Dimension:   dim.Name,
				Description: fmt.Sprintf("external check provider unavailable for %s checks; scored at reduced confidence", dim.Name),
				Impact:      "low",
				Effort:      "low",
				Priority:    3,
			})
		}
	}

	threshold := cfg.EffectiveThreshold()
	result.OverallScore = overall
	result.Classification = cfg.ImprovementThresholds.Classify(overall)
	result.ComplianceStatus = ComplianceStatus{
		IsCompliant: overall >= threshold && allDimensionsPassed,
		Threshold:   threshold,
	}

	if overall < threshold {
		result.ImprovementSuggestions = append(result.ImprovementSuggestions, Suggestion{
			Category:    SuggestionMajor,
			Description: fmt.Sprintf("overall score %.1f is below the %s threshold %.1f", overall, cfg.Name, threshold),
			Impact:      "high",
			Effort:      "medium",
			Priority:    8,
		})
	}

	SortSuggestions(result.ImprovementSuggestions)
	return result, nil
}

func suggestionForDimension(dim DimensionConfig, score float64) Suggestion {
	gap := dim.MinimumScore - score
	category := SuggestionMajor
	priority := 7
	if gap > 30 {
		category = SuggestionCritical
		priority = 9
	} else if gap < 10 {
		category = SuggestionMinor
		priority = 5
	}
	return Suggestion{
		Category:    category,
		Dimension:   dim.Name,
		Description: fmt.Sprintf("%s scored %.1f, below its minimum of %.1f", dim.Name, score, dim.MinimumScore),
		Impact:      "high",
		Effort:      "medium",
		Priority:    priority,
	}
}
