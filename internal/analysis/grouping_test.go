package analysis

import (
	"testing"

	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupFeaturesTwoGroups(t *testing.T) {
	m := matrix(t, []string{"A", "B", "C", "D"},
		[]float64{nan, 0.9, 0.2, 0.1},
		[]float64{0.9, nan, 0.3, 0.2},
		[]float64{0.2, 0.3, nan, 0.95},
		[]float64{0.1, 0.2, 0.95, nan},
	)

	groups, err := GroupFeatures(m, DefaultGroupThreshold)
	require.NoError(t, err)
	assert.Equal(t, []FeatureGroup{{"A", "B"}, {"C", "D"}}, groups)
}

func TestGroupFeaturesNoCorrelations(t *testing.T) {
	m := matrix(t, []string{"A", "B", "C"},
		[]float64{nan, 0.3, 0.2},
		[]float64{0.3, nan, 0.1},
		[]float64{0.2, 0.1, nan},
	)

	groups, err := GroupFeatures(m, DefaultGroupThreshold)
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupFeaturesChainIsTransitive(t *testing.T) {
	m := matrix(t, []string{"A", "B", "C"},
		[]float64{nan, 0.9, 0.7},
		[]float64{0.9, nan, 0.85},
		[]float64{0.7, 0.85, nan},
	)

	groups, err := GroupFeatures(m, 0.8)
	require.NoError(t, err)
	assert.Equal(t, []FeatureGroup{{"A", "B", "C"}}, groups)
}

func TestGroupFeaturesEmptyAndSingle(t *testing.T) {
	empty := matrix(t, []string{"A", "B"}, []float64{nan, nan}, []float64{nan, nan})
	groups, err := GroupFeatures(empty, DefaultGroupThreshold)
	require.NoError(t, err)
	assert.Empty(t, groups)

	single := matrix(t, []string{"A"}, []float64{nan})
	groups, err = GroupFeatures(single, DefaultGroupThreshold)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupFeaturesOverlappingMerge(t *testing.T) {
	m := matrix(t, []string{"A", "B", "C", "D", "E"},
		[]float64{nan, 0.85, 0.85, 0.2, 0.1},
		[]float64{0.85, nan, 0.85, 0.3, 0.2},
		[]float64{0.85, 0.85, nan, 0.85, 0.85},
		[]float64{0.2, 0.3, 0.85, nan, 0.85},
		[]float64{0.1, 0.2, 0.85, 0.85, nan},
	)

	groups, err := GroupFeatures(m, 0.8)
	require.NoError(t, err)
	assert.Equal(t, []FeatureGroup{{"A", "B", "C", "D", "E"}}, groups)
}

func TestGroupFeaturesDisjointClustersStaySeparate(t *testing.T) {
	m := matrix(t, []string{"A", "B", "C", "D", "E"},
		[]float64{nan, 0.85, 0.85, 0.2, 0.1},
		[]float64{0.85, nan, 0.85, 0.3, 0.2},
		[]float64{0.85, 0.85, nan, 0.1, 0.3},
		[]float64{0.2, 0.3, 0.1, nan, 0.85},
		[]float64{0.1, 0.2, 0.3, 0.85, nan},
	)

	groups, err := GroupFeatures(m, 0.8)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Contains(t, groups, FeatureGroup{"A", "B", "C"})
	assert.Contains(t, groups, FeatureGroup{"D", "E"})
}

// A late pair bridging two earlier groups must merge them, whatever order the
// pairs arrive in.
func TestGroupFeaturesLateBridge(t *testing.T) {
	m := matrix(t, []string{"A", "B", "C", "D"},
		[]float64{nan, 0.1, 0.1, 0.9},
		[]float64{0.1, nan, 0.9, 0.1},
		[]float64{0.1, 0.9, nan, 0.9},
		[]float64{0.9, 0.1, 0.9, nan},
	)

	groups, err := GroupFeatures(m, 0.8)
	require.NoError(t, err)
	assert.Equal(t, []FeatureGroup{{"A", "B", "C", "D"}}, groups)
}

func TestGroupFeaturesFromDataset(t *testing.T) {
	ds, err := dataset.New("redundant",
		dataset.Numeric("height_cm", 150, 160, 170, 180, 190),
		dataset.Numeric("height_in", 59, 63, 67, 71, 75),
		dataset.Numeric("noise", 1, -1, 1, -1, 1),
		dataset.Numeric("target", 2, 1, 4, 3, 5),
	)
	require.NoError(t, err)

	m, err := BuildCorrelationMatrix(ds, "target")
	require.NoError(t, err)
	groups, err := GroupFeatures(m, DefaultGroupThreshold)
	require.NoError(t, err)
	assert.Equal(t, []FeatureGroup{{"height_cm", "height_in"}}, groups)
}
