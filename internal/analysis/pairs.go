package analysis

import "math"

// Pair is a highly correlated feature pair; A precedes B in matrix column order.
type Pair struct {
	A string  `json:"a" yaml:"a"`
	B string  `json:"b" yaml:"b"`
	R float64 `json:"r" yaml:"r"`
}

// ValidateThreshold rejects NaN and values outside [0, 1].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return &InvalidThresholdError{Threshold: threshold}
	}
	return nil
}

// FindCorrelatedPairs scans the upper triangle of m and returns every pair with
// |r| >= threshold, outer loop over earlier columns. NaN cells never match.
func FindCorrelatedPairs(m *CorrMatrix, threshold float64) ([]Pair, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	pairs := []Pair{}
	n := m.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) || math.Abs(r) < threshold {
				continue
			}
			pairs = append(pairs, Pair{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	return pairs, nil
}
