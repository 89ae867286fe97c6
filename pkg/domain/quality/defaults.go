package quality

// Built-in standard configurations per category. These are the system
// defaults applied when no team override matches a deliverable's file type.
// Weight emphasis differs per category: test standards weigh completeness
// and accuracy heaviest, configuration standards weigh format and accuracy
// heaviest.

func defaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		StaticAnalysis:     0.3,
		SemanticValidation: 0.25,
		FormatCompliance:   0.2,
		ContentQuality:     0.25,
	}
}

func defaultImprovementThresholds() ImprovementThresholds {
	return ImprovementThresholds{
		Excellent:  90,
		Good:       80,
		Acceptable: 70,
		Poor:       50,
	}
}

func codeStandard() *StandardConfig {
	return &StandardConfig{
		Name:      "code-default",
		Category:  CategoryCode,
		FileTypes: []string{".go", ".ts", ".tsx", ".js", ".py", ".java", ".rb", ".rs"},
		Dimensions: []DimensionConfig{
			{
				Name:         DimensionFormat,
				Weight:       0.20,
				MinimumScore: 60,
				Checks: []CheckConfig{
					{Name: "line-length", Type: CheckFormatCompliance, Weight: 0.4},
					{Name: "whitespace-hygiene", Type: CheckFormatCompliance, Weight: 0.3},
					{Name: "lint-rules", Type: CheckStaticAnalysis, Weight: 0.3},
				},
			},
			{
				Name:         DimensionCompleteness,
				Weight:       0.20,
				MinimumScore: 65,
				Checks: []CheckConfig{
					{Name: "non-empty", Type: CheckHeuristic, Weight: 0.3},
					{Name: "todo-markers", Type: CheckHeuristic, Weight: 0.3},
					{Name: "required-sections", Type: CheckContentAnalysis, Weight: 0.4},
				},
			},
			{
				Name:         DimensionAccuracy,
				Weight:       0.30,
				MinimumScore: 70,
				Checks: []CheckConfig{
					{Name: "static-correctness", Type: CheckStaticAnalysis, Weight: 0.6},
					{Name: "semantic-review", Type: CheckContentAnalysis, Weight: 0.4},
				},
			},
			{
				Name:         DimensionClarity,
				Weight:       0.15,
				MinimumScore: 55,
				Checks: []CheckConfig{
					{Name: "identifier-length", Type: CheckHeuristic, Weight: 0.5},
					{Name: "comment-density", Type: CheckHeuristic, Weight: 0.5},
				},
			},
			{
				Name:         DimensionConsistency,
				Weight:       0.15,
				MinimumScore: 55,
				Checks: []CheckConfig{
					{Name: "indentation", Type: CheckFormatCompliance, Weight: 0.5},
					{Name: "line-endings", Type: CheckFormatCompliance, Weight: 0.5},
				},
			},
		},
		ComplianceRules:       []string{"clean-code", "security-baseline"},
		ScoringWeights:        defaultScoringWeights(),
		ImprovementThresholds: defaultImprovementThresholds(),
	}
}

func documentStandard() *StandardConfig {
	return &StandardConfig{
		Name:      "document-default",
		Category:  CategoryDocument,
		FileTypes: []string{".md", ".txt", ".rst", ".adoc", ".doc", ".docx", ".pdf"},
		Dimensions: []DimensionConfig{
			{
				Name:         DimensionFormat,
				Weight:       0.20,
				MinimumScore: 60,
				Checks: []CheckConfig{
					{Name: "heading-structure", Type: CheckFormatCompliance, Weight: 0.6},
					{Name: "whitespace-hygiene", Type: CheckFormatCompliance, Weight: 0.4},
				},
			},
			{
				Name:         DimensionCompleteness,
				Weight:       0.25,
				MinimumScore: 65,
				Checks: []CheckConfig{
					{Name: "non-empty", Type: CheckHeuristic, Weight: 0.4},
					{Name: "required-sections", Type: CheckContentAnalysis, Weight: 0.6},
				},
			},
			{
				Name:         DimensionAccuracy,
				Weight:       0.20,
				MinimumScore: 65,
				Checks: []CheckConfig{
					{Name: "semantic-review", Type: CheckContentAnalysis, Weight: 1.0},
				},
			},
			{
				Name:         DimensionClarity,
				Weight:       0.20,
				MinimumScore: 60,
				Checks: []CheckConfig{
					{Name: "sentence-length", Type: CheckHeuristic, Weight: 0.5},
					{Name: "readability", Type: CheckContentAnalysis, Weight: 0.5},
				},
			},
			{
				Name:         DimensionConsistency,
				Weight:       0.15,
				MinimumScore: 55,
				Checks: []CheckConfig{
					{Name: "terminology", Type: CheckHeuristic, Weight: 0.5},
					{Name: "line-endings", Type: CheckFormatCompliance, Weight: 0.5},
				},
			},
		},
		ComplianceRules:       []string{"documentation-style"},
		ScoringWeights:        defaultScoringWeights(),
		ImprovementThresholds: defaultImprovementThresholds(),
	}
}

func testStandard() *StandardConfig {
	return &StandardConfig{
		Name:      "test-default",
		Category:  CategoryTest,
		FileTypes: []string{".test.ts", ".test.js", ".spec.ts", ".spec.js", "_test.go", ".feature"},
		Dimensions: []DimensionConfig{
			{
				Name:         DimensionFormat,
				Weight:       0.10,
				MinimumScore: 55,
				Checks: []CheckConfig{
					{Name: "whitespace-hygiene", Type: CheckFormatCompliance, Weight: 1.0},
				},
			},
			{
				// Test artifacts are judged primarily on coverage of cases.
				Name:         DimensionCompleteness,
				Weight:       0.35,
				MinimumScore: 70,
				Checks: []CheckConfig{
					{Name: "non-empty", Type: CheckHeuristic, Weight: 0.2},
					{Name: "assertion-presence", Type: CheckHeuristic, Weight: 0.3},
					{Name: "case-coverage", Type: CheckContentAnalysis, Weight: 0.5},
				},
			},
			{
				Name:         DimensionAccuracy,
				Weight:       0.30,
				MinimumScore: 70,
				Checks: []CheckConfig{
					{Name: "static-correctness", Type: CheckStaticAnalysis, Weight: 0.5},
					{Name: "semantic-review", Type: CheckContentAnalysis, Weight: 0.5},
				},
			},
			{
				Name:         DimensionClarity,
				Weight:       0.10,
				MinimumScore: 55,
				Checks: []CheckConfig{
					{Name: "test-naming", Type: CheckHeuristic, Weight: 1.0},
				},
			},
			{
				Name:         DimensionConsistency,
				Weight:       0.15,
				MinimumScore: 55,
				Checks: []CheckConfig{
					{Name: "indentation", Type: CheckFormatCompliance, Weight: 0.5},
					{Name: "line-endings", Type: CheckFormatCompliance, Weight: 0.5},
				},
			},
		},
		ComplianceRules:       []string{"test-conventions"},
		ScoringWeights:        defaultScoringWeights(),
		ImprovementThresholds: defaultImprovementThresholds(),
	}
}

func configurationStandard() *StandardConfig {
	return &StandardConfig{
		Name:      "configuration-default",
		Category:  CategoryConfiguration,
		FileTypes: []string{".json", ".yaml", ".yml", ".toml", ".ini", ".env", ".properties"},
		Dimensions: []DimensionConfig{
			{
				// Configuration artifacts are judged primarily on structural
				// correctness.
				Name:         DimensionFormat,
				Weight:       0.35,
				MinimumScore: 75,
				Checks: []CheckConfig{
					{Name: "parseable", Type: CheckFormatCompliance, Weight: 0.6},
					{Name: "whitespace-hygiene", Type: CheckFormatCompliance, Weight: 0.4},
				},
			},
			{
				Name:         DimensionCompleteness,
				Weight:       0.15,
				MinimumScore: 60,
				Checks: []CheckConfig{
					{Name: "non-empty", Type: CheckHeuristic, Weight: 0.5},
					{Name: "required-keys", Type: CheckContentAnalysis, Weight: 0.5},
				},
			},
			{
				Name:         DimensionAccuracy,
				Weight:       0.30,
				MinimumScore: 70,
				Checks: []CheckConfig{
					{Name: "static-correctness", Type: CheckStaticAnalysis, Weight: 1.0},
				},
			},
			{
				Name:         DimensionClarity,
				Weight:       0.10,
				MinimumScore: 50,
				Checks: []CheckConfig{
					{Name: "key-naming", Type: CheckHeuristic, Weight: 1.0},
				},
			},
			{
				Name:         DimensionConsistency,
				Weight:       0.10,
				MinimumScore: 50,
				Checks: []CheckConfig{
					{Name: "indentation", Type: CheckFormatCompliance, Weight: 1.0},
				},
			},
		},
		ComplianceRules:       []string{"configuration-safety"},
		ScoringWeights:        defaultScoringWeights(),
		ImprovementThresholds: defaultImprovementThresholds(),
	}
}

// DefaultStandards returns the built-in standard configuration for every
// category. The returned configs are fresh copies: callers may not mutate a
// config another assessment is using.
func DefaultStandards() map[FileCategory]*StandardConfig {
	return map[FileCategory]*StandardConfig{
		CategoryCode:          codeStandard(),
		CategoryDocument:      documentStandard(),
		CategoryTest:          testStandard(),
		CategoryConfiguration: configurationStandard(),
	}
}

// DefaultStandardFor returns the built-in config for a category, falling
// back to the document default for unrecognized categories.
func DefaultStandardFor(category FileCategory) *StandardConfig {
	switch category {
	case CategoryCode:
		return codeStandard()
	case CategoryTest:
		return testStandard()
	case CategoryConfiguration:
		return configurationStandard()
	case CategoryDocument:
		return documentStandard()
	default:
		return documentStandard()
	}
}

// standardNames lists applicable standard names per category, exposed via
// AvailableStandards.
var standardNames = map[FileCategory][]string{
	CategoryCode:          {"code-default", "clean-code", "security-baseline"},
	CategoryDocument:      {"document-default", "documentation-style"},
	CategoryTest:          {"test-default", "test-conventions"},
	CategoryConfiguration: {"configuration-default", "configuration-safety"},
}

// AvailableStandards returns the standard names applicable to the category
// matched by fileType. Tolerant of empty or unknown input: the
// document-category defaults are returned and the function never panics.
func AvailableStandards(fileType string) []string {
	category := CategoryForFileType(fileType)
	names, ok := standardNames[category]
	if !ok {
		names = standardNames[CategoryDocument]
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// DimensionConfigFor returns the five dimension definitions for the category
// matched by fileType, with category-specific weight emphasis.
func DimensionConfigFor(fileType string) []DimensionConfig {
	cfg := DefaultStandardFor(CategoryForFileType(fileType))
	out := make([]DimensionConfig, len(cfg.Dimensions))
	copy(out, cfg.Dimensions)
	return out
}
