package preprocess

import (
	"strconv"

	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"gonum.org/v1/gonum/floats"
)

// NormalizeFeatures min-max scales every numeric column into [0, 1]. Constant
// columns become 0 and missing values stay missing. With normalize false the
// input is returned as is.
func NormalizeFeatures(ds *dataset.Dataset, normalize bool) *dataset.Dataset {
	if !normalize {
		return ds
	}
	out := ds.Clone()
	for i := range out.Columns {
		c := &out.Columns[i]
		if !c.IsNumeric() {
			continue
		}
		scaleColumn(c)
	}
	return out
}

func scaleColumn(c *dataset.Column) {
	idx := make([]int, 0, c.Len())
	vals := make([]float64, 0, c.Len())
	for i, ok := range c.Valid {
		if ok {
			idx = append(idx, i)
			vals = append(vals, c.Num[i])
		}
	}
	if len(vals) == 0 {
		return
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if span := hi - lo; span == 0 {
		for j := range vals {
			vals[j] = 0
		}
	} else {
		floats.AddConst(-lo, vals)
		for j := range vals {
			vals[j] /= span
		}
	}
	for j, i := range idx {
		c.Num[i] = vals[j]
		c.Raw[i] = strconv.FormatFloat(vals[j], 'g', -1, 64)
	}
}
