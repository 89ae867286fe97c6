package quality

import (
	"fmt"
	"math"
)

// ValidationReport accumulates every invariant violation found in a config.
type ValidationReport struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateConfig checks the structural invariants of a standard
// configuration and accumulates ALL violations rather than failing fast:
//
//  1. at least one dimension is present
//  2. dimension weights sum to 1.0 (within WeightSumTolerance)
//  3. every dimension has at least one check
//  4. within each dimension, check weights sum to 1.0 (within tolerance)
//  5. scoring weights sum to 1.0 (within tolerance)
//
// Missing arrays are treated as empty and reported as validation errors;
// the function never panics on malformed input.
func ValidateConfig(cfg *StandardConfig) ValidationReport {
	report := ValidationReport{Errors: []string{}}

	if cfg == nil {
		report.Errors = append(report.Errors, "configuration is missing")
		return report
	}

	if len(cfg.Dimensions) == 0 {
		report.Errors = append(report.Errors, "configuration must define at least one dimension")
	} else {
		var dimSum float64
		for _, d := range cfg.Dimensions {
			dimSum += d.Weight
		}
		if math.Abs(dimSum-1.0) > WeightSumTolerance {
			report.Errors = append(report.Errors,
				fmt.Sprintf("Dimension weights must sum to 1.0 (got %.3f)", dimSum))
		}

		for _, d := range cfg.Dimensions {
			if len(d.Checks) == 0 {
				report.Errors = append(report.Errors,
					fmt.Sprintf("dimension %q must define at least one check", d.Name))
				continue
			}
			var checkSum float64
			for _, c := range d.Checks {
				checkSum += c.Weight
			}
			if math.Abs(checkSum-1.0) > WeightSumTolerance {
				report.Errors = append(report.Errors,
					fmt.Sprintf("check weights in dimension %q must sum to 1.0 (got %.3f)", d.Name, checkSum))
			}
		}
	}

	if math.Abs(cfg.ScoringWeights.Sum()-1.0) > WeightSumTolerance {
		report.Errors = append(report.Errors,
			fmt.Sprintf("scoring weights must sum to 1.0 (got %.3f)", cfg.ScoringWeights.Sum()))
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// ConfigurationError is returned when an invalid configuration reaches the
// assessment engine. It carries the full violation list, not just a boolean.
type ConfigurationError struct {
	Name       string
	Violations []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid quality standard config %q: %s", e.Name, e.Violations[0])
	}
	return fmt.Sprintf("invalid quality standard config %q: %d violations", e.Name, len(e.Violations))
}
