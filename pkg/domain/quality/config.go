package quality

// WeightSumTolerance is the allowed drift when validating that weight groups
// sum to 1.0. Inferred from the observed test contract; kept as a named
// constant rather than a magic number.
const WeightSumTolerance = 0.01

// DefaultComplianceThreshold is the overall score a deliverable must reach
// to be compliant when a config does not set its own threshold.
const DefaultComplianceThreshold = 70.0

// Dimension is one axis of quality evaluation.
type Dimension string

const (
	DimensionFormat       Dimension = "format"
	DimensionCompleteness Dimension = "completeness"
	DimensionAccuracy     Dimension = "accuracy"
	DimensionClarity      Dimension = "clarity"
	DimensionConsistency  Dimension = "consistency"
)

// AllDimensions returns the five quality dimensions in canonical order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionFormat,
		DimensionCompleteness,
		DimensionAccuracy,
		DimensionClarity,
		DimensionConsistency,
	}
}

// CheckType classifies how a check is evaluated.
type CheckType string

const (
	// CheckStaticAnalysis inspects lexical/structural properties; delegates
	// to an external rules engine when one is configured.
	CheckStaticAnalysis CheckType = "static_analysis"
	// CheckContentAnalysis inspects textual completeness/clarity; delegates
	// to an external content provider when one is configured.
	CheckContentAnalysis CheckType = "content_analysis"
	// CheckFormatCompliance runs built-in structural format heuristics.
	CheckFormatCompliance CheckType = "format_compliance"
	// CheckHeuristic runs built-in text heuristics.
	CheckHeuristic CheckType = "heuristic"
)

// CheckConfig is one concrete test within a dimension.
type CheckConfig struct {
	Name   string                 `json:"name" yaml:"name"`
	Type   CheckType              `json:"type" yaml:"type"`
	Weight float64                `json:"weight" yaml:"weight"`
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// DimensionConfig describes one scoring dimension: its weight in the overall
// score, the minimum score it must individually reach, and its checks.
type DimensionConfig struct {
	Name         Dimension     `json:"name" yaml:"name"`
	Weight       float64       `json:"weight" yaml:"weight"`
	MinimumScore float64       `json:"minimum_score" yaml:"minimum_score"`
	Checks       []CheckConfig `json:"checks" yaml:"checks"`
}

// ScoringWeights combine the four scoring categories into the overall score.
type ScoringWeights struct {
	StaticAnalysis     float64 `json:"static_analysis" yaml:"static_analysis"`
	SemanticValidation float64 `json:"semantic_validation" yaml:"semantic_validation"`
	FormatCompliance   float64 `json:"format_compliance" yaml:"format_compliance"`
	ContentQuality     float64 `json:"content_quality" yaml:"content_quality"`
}

// Sum returns the total of all four category weights.
func (w ScoringWeights) Sum() float64 {
	return w.StaticAnalysis + w.SemanticValidation + w.FormatCompliance + w.ContentQuality
}

// ImprovementThresholds label score cut points.
type ImprovementThresholds struct {
	Excellent  float64 `json:"excellent" yaml:"excellent"`
	Good       float64 `json:"good" yaml:"good"`
	Acceptable float64 `json:"acceptable" yaml:"acceptable"`
	Poor       float64 `json:"poor" yaml:"poor"`
}

// Classify returns the label for a score.
func (t ImprovementThresholds) Classify(score float64) string {
	switch {
	case score >= t.Excellent:
		return "excellent"
	case score >= t.Good:
		return "good"
	case score >= t.Acceptable:
		return "acceptable"
	default:
		return "poor"
	}
}

// StandardConfig describes scoring rules for one file-type category.
// Immutable during a single assessment run; validated on load and on any
// update.
type StandardConfig struct {
	Name                  string                `json:"name" yaml:"name"`
	Category              FileCategory          `json:"category" yaml:"category"`
	FileTypes             []string              `json:"file_types" yaml:"file_types"`
	Dimensions            []DimensionConfig     `json:"dimensions" yaml:"dimensions"`
	ComplianceRules       []string              `json:"compliance_rules,omitempty" yaml:"compliance_rules,omitempty"`
	ScoringWeights        ScoringWeights        `json:"scoring_weights" yaml:"scoring_weights"`
	ImprovementThresholds ImprovementThresholds `json:"improvement_thresholds" yaml:"improvement_thresholds"`

	// ComplianceThreshold overrides DefaultComplianceThreshold when > 0.
	ComplianceThreshold float64 `json:"compliance_threshold,omitempty" yaml:"compliance_threshold,omitempty"`
}

// EffectiveThreshold returns the overall compliance threshold for this config.
func (c *StandardConfig) EffectiveThreshold() float64 {
	if c.ComplianceThreshold > 0 {
		return c.ComplianceThreshold
	}
	return DefaultComplianceThreshold
}

// Dimension returns the configuration for a named dimension, if present.
func (c *StandardConfig) Dimension(name Dimension) (DimensionConfig, bool) {
	for _, d := range c.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return DimensionConfig{}, false
}
