// Package analysis ranks features by their linear correlation with a target
// column and finds groups of mutually correlated features.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// FeatureScore is one row of an importance table.
type FeatureScore struct {
	Feature string  `json:"feature" yaml:"feature"`
	Score   float64 `json:"importance_score" yaml:"importance_score"`
}

// ImportanceTable lists non-target features by descending absolute correlation.
type ImportanceTable []FeatureScore

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric
// columns. Diagonal cells and undefined pairs are NaN.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// NewCorrMatrix copies columns and values into a matrix, checking that it is square.
func NewCorrMatrix(columns []string, values [][]float64) (*CorrMatrix, error) {
	n := len(columns)
	if len(values) != n {
		return nil, fmt.Errorf("corr matrix: %d columns but %d rows", n, len(values))
	}
	seen := make(map[string]struct{}, n)
	m := &CorrMatrix{Columns: append([]string(nil), columns...), Values: make([][]float64, n)}
	for i, row := range values {
		if len(row) != n {
			return nil, fmt.Errorf("corr matrix: row %d has %d values, want %d", i, len(row), n)
		}
		if _, dup := seen[columns[i]]; dup {
			return nil, fmt.Errorf("corr matrix: duplicate column %q", columns[i])
		}
		seen[columns[i]] = struct{}{}
		m.Values[i] = append([]float64(nil), row...)
	}
	return m, nil
}

// Len returns the number of columns.
func (m *CorrMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Columns)
}

// At returns the correlation between columns a and b.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

func (m *CorrMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ComputeTargetScores correlates every numeric column with target and returns
// absolute coefficients in descending order. A dataset without rows yields an
// empty table. Undefined correlations (constant columns, fewer than two
// paired samples) score 0.
func ComputeTargetScores(ds *dataset.Dataset, target string) (ImportanceTable, error) {
	out := ImportanceTable{}
	if ds == nil || ds.Rows == 0 {
		return out, nil
	}
	tcol, ok := ds.Column(target)
	if !ok || !tcol.IsNumeric() {
		return nil, &InvalidTargetError{Target: target, Present: ok}
	}
	for _, c := range ds.NumericColumns(target) {
		var score float64
		if r := pearson(c, tcol); !math.IsNaN(r) {
			score = math.Abs(r)
		}
		out = append(out, FeatureScore{Feature: c.Name, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// BuildCorrelationMatrix computes pairwise Pearson correlations among numeric
// columns not listed in exclude.
func BuildCorrelationMatrix(ds *dataset.Dataset, exclude ...string) (*CorrMatrix, error) {
	var cols []*dataset.Column
	if ds != nil {
		cols = ds.NumericColumns(exclude...)
	}
	if len(cols) == 0 {
		return nil, &NoNumericFeaturesError{Excluded: append([]string(nil), exclude...)}
	}
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		m.Values[a][a] = math.NaN()
		for b := a + 1; b < n; b++ {
			r := pearson(cols[a], cols[b])
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m, nil
}

// pearson correlates x and y over the rows where both hold a finite value. It
// returns NaN when fewer than two rows pair up or either side is constant.
func pearson(x, y *dataset.Column) float64 {
	n := x.Len()
	if y.Len() < n {
		n = y.Len()
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if finiteAt(x, i) && finiteAt(y, i) {
			xs = append(xs, x.Num[i])
			ys = append(ys, y.Num[i])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func finiteAt(c *dataset.Column, i int) bool {
	v := c.Num[i]
	return c.Valid[i] && !math.IsNaN(v) && !math.IsInf(v, 0)
}
