package quality

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// standardSchemaJSON is the JSON schema a team-supplied standard override
// must satisfy before semantic weight validation runs. Schema failures are
// structural (wrong types, missing required fields); weight-sum failures are
// caught afterwards by ValidateConfig.
const standardSchemaJSON = `{
  "type": "object",
  "required": ["name", "dimensions"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "category": {"type": "string"},
    "file_types": {"type": "array", "items": {"type": "string"}},
    "compliance_rules": {"type": "array", "items": {"type": "string"}},
    "compliance_threshold": {"type": "number", "minimum": 0, "maximum": 100},
    "dimensions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "weight", "checks"],
        "properties": {
          "name": {"type": "string"},
          "weight": {"type": "number", "minimum": 0, "maximum": 1},
          "minimum_score": {"type": "number", "minimum": 0, "maximum": 100},
          "checks": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "type", "weight"],
              "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "weight": {"type": "number", "minimum": 0, "maximum": 1},
                "config": {"type": "object"}
              }
            }
          }
        }
      }
    },
    "scoring_weights": {
      "type": "object",
      "properties": {
        "static_analysis": {"type": "number"},
        "semantic_validation": {"type": "number"},
        "format_compliance": {"type": "number"},
        "content_quality": {"type": "number"}
      }
    },
    "improvement_thresholds": {
      "type": "object",
      "properties": {
        "excellent": {"type": "number"},
        "good": {"type": "number"},
        "acceptable": {"type": "number"},
        "poor": {"type": "number"}
      }
    }
  }
}`

var standardSchemaLoader = gojsonschema.NewStringLoader(standardSchemaJSON)

// ParseStandardJSON parses and validates a team-supplied standard override.
// Schema violations and weight invariant violations are both reported
// through a ConfigurationError so callers see the full list at once.
func ParseStandardJSON(data []byte) (*StandardConfig, error) {
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(standardSchemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validate standard config: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return nil, &ConfigurationError{Violations: violations}
	}

	var cfg StandardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse standard config: %w", err)
	}

	if report := ValidateConfig(&cfg); !report.Valid {
		return nil, &ConfigurationError{Name: cfg.Name, Violations: report.Errors}
	}

	return &cfg, nil
}
