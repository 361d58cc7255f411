// Package preprocess holds the column-level transformations applied to a
// dataset before correlation analysis: missing-value pruning, type detection,
// one-hot encoding and min-max normalization. Every function returns a new
// dataset and leaves its input untouched.
package preprocess

import "github.com/madferreiro/collumn-predictor/internal/dataset"

// DefaultMissingThreshold is the largest tolerated fraction of missing values.
const DefaultMissingThreshold = 0.5

// HandleMissingValues drops every column whose missing fraction is strictly
// greater than threshold and returns the dropped names in column order.
func HandleMissingValues(ds *dataset.Dataset, threshold float64) (*dataset.Dataset, []string) {
	removed := []string{}
	for i := range ds.Columns {
		c := &ds.Columns[i]
		if c.MissingFraction() > threshold {
			removed = append(removed, c.Name)
		}
	}
	return ds.Drop(removed...), removed
}
