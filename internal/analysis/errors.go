package analysis

import (
	"fmt"
	"strings"
)

// InvalidTargetError indicates the target column is absent or not numeric.
type InvalidTargetError struct {
	Target string
	// Present is true when the column exists but is not numeric.
	Present bool
}

func (e *InvalidTargetError) Error() string {
	if e.Present {
		return fmt.Sprintf("target column '%s' must be numeric", e.Target)
	}
	return fmt.Sprintf("target column '%s' not found among numeric columns", e.Target)
}

// NoNumericFeaturesError indicates no numeric columns remain after exclusions.
type NoNumericFeaturesError struct {
	Excluded []string
}

func (e *NoNumericFeaturesError) Error() string {
	if len(e.Excluded) > 0 {
		return fmt.Sprintf("no numerical features found in dataset (excluded: %s)", strings.Join(e.Excluded, ", "))
	}
	return "no numerical features found in dataset"
}

// InvalidThresholdError indicates a correlation threshold outside [0, 1].
type InvalidThresholdError struct {
	Threshold float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("threshold must be between 0 and 1, got %g", e.Threshold)
}

// MissingColumnsError indicates an importance table without the expected columns.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("importance table must have '%s' and '%s' columns (missing: %s)",
		FeatureColumn, ScoreColumn, strings.Join(e.Missing, ", "))
}
