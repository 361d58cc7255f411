package preprocess

import "github.com/madferreiro/collumn-predictor/internal/dataset"

// FeatureType is the coarse type used to decide how a column is prepared.
type FeatureType string

const (
	Numerical   FeatureType = "numerical"
	Categorical FeatureType = "categorical"
)

// DetectFeatureTypes reports each column's FeatureType in column order.
// Categorical and free-text columns are categorical; anything else, datetime
// included, is treated as numerical.
func DetectFeatureTypes(ds *dataset.Dataset) ([]string, []FeatureType) {
	names := ds.Names()
	types := make([]FeatureType, len(ds.Columns))
	for i := range ds.Columns {
		types[i] = typeOf(ds.Columns[i].Kind)
	}
	return names, types
}

func typeOf(k dataset.Kind) FeatureType {
	switch k {
	case dataset.KindCategorical, dataset.KindText:
		return Categorical
	default:
		return Numerical
	}
}
