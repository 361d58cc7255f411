package preprocess

import (
	"math"
	"testing"

	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func newDataset(t *testing.T, cols ...dataset.Column) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("test", cols...)
	require.NoError(t, err)
	return ds
}

func column(t *testing.T, ds *dataset.Dataset, name string) *dataset.Column {
	t.Helper()
	c, ok := ds.Column(name)
	require.True(t, ok, "column %s", name)
	return c
}

func TestHandleMissingValuesNoMissing(t *testing.T) {
	ds := newDataset(t,
		dataset.Numeric("A", 1, 2, 3),
		dataset.Numeric("B", 4, 5, 6),
		dataset.Numeric("C", 7, 8, 9),
	)

	cleaned, removed := HandleMissingValues(ds, DefaultMissingThreshold)
	assert.Empty(t, removed)
	assert.Equal(t, ds, cleaned)
}

func TestHandleMissingValuesAboveThreshold(t *testing.T) {
	ds := newDataset(t,
		dataset.Numeric("A", 1, 2, nan),
		dataset.Numeric("B", 4, nan, nan),
		dataset.Numeric("C", 7, 8, 9),
	)

	cleaned, removed := HandleMissingValues(ds, DefaultMissingThreshold)
	assert.Equal(t, []string{"B"}, removed)
	assert.Equal(t, []string{"A", "C"}, cleaned.Names())
	assert.Equal(t, []string{"A", "B", "C"}, ds.Names())
}

func TestHandleMissingValuesAllColumns(t *testing.T) {
	ds := newDataset(t,
		dataset.Numeric("A", 1, nan, nan),
		dataset.Numeric("B", nan, nan, nan),
		dataset.Categorical("C", "", "", ""),
	)

	cleaned, removed := HandleMissingValues(ds, DefaultMissingThreshold)
	assert.Equal(t, []string{"A", "B", "C"}, removed)
	assert.Empty(t, cleaned.Columns)
}

func TestHandleMissingValuesThresholdIsExclusive(t *testing.T) {
	ds := newDataset(t, dataset.Numeric("half", 1, nan, 3, nan))

	_, removed := HandleMissingValues(ds, 0.5)
	assert.Empty(t, removed)
	_, removed = HandleMissingValues(ds, 0.49)
	assert.Equal(t, []string{"half"}, removed)
}

func TestDetectFeatureTypes(t *testing.T) {
	date := dataset.Categorical("date", "2024-01-01", "2024-01-02", "2024-01-03")
	date.Kind = dataset.KindDatetime
	notes := dataset.Categorical("notes", "a long remark", "another", "more")
	notes.Kind = dataset.KindText

	ds := newDataset(t,
		dataset.Numeric("age", 25, 30, 35),
		dataset.Categorical("gender", "M", "F", "M"),
		date,
		notes,
	)

	names, types := DetectFeatureTypes(ds)
	assert.Equal(t, []string{"age", "gender", "date", "notes"}, names)
	assert.Equal(t, []FeatureType{Numerical, Categorical, Numerical, Categorical}, types)
}

func TestApplyOneHotEncodingBasic(t *testing.T) {
	ds := newDataset(t,
		dataset.Categorical("gender", "M", "F", "M"),
		dataset.Categorical("education", "BS", "MS", "BS"),
	)

	encoded, cats := ApplyOneHotEncoding(ds, 10)
	assert.Equal(t, []string{"gender", "education"}, cats)
	assert.Equal(t, []string{"gender_F", "gender_M", "education_BS", "education_MS"}, encoded.Names())
	assert.Equal(t, []float64{0, 1, 0}, column(t, encoded, "gender_F").Num)
	assert.Equal(t, []float64{1, 0, 1}, column(t, encoded, "gender_M").Num)
	assert.True(t, column(t, encoded, "education_MS").IsNumeric())
}

func TestApplyOneHotEncodingWithLimit(t *testing.T) {
	ds := newDataset(t, dataset.Categorical("category",
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"))

	encoded, _ := ApplyOneHotEncoding(ds, 5)
	assert.Len(t, encoded.Columns, 6)
	other := column(t, encoded, "category_other")
	assert.Equal(t, 6.0, sum(other.Num))
	for _, name := range []string{"category_A", "category_B", "category_C", "category_D", "category_E"} {
		column(t, encoded, name)
	}
}

func TestApplyOneHotEncodingKeepsMostFrequent(t *testing.T) {
	ds := newDataset(t, dataset.Categorical("city", "x", "y", "y", "z", "z", "z"))

	encoded, _ := ApplyOneHotEncoding(ds, 2)
	assert.Equal(t, []string{"city_other", "city_y", "city_z"}, encoded.Names())
	assert.Equal(t, []float64{1, 0, 0, 0, 0, 0}, column(t, encoded, "city_other").Num)
}

func TestApplyOneHotEncodingMixedData(t *testing.T) {
	ds := newDataset(t,
		dataset.Numeric("age", 25, 30, 35),
		dataset.Categorical("gender", "M", "F", "M"),
		dataset.Categorical("education", "BS", "MS", ""),
	)

	encoded, cats := ApplyOneHotEncoding(ds, 10)
	assert.Equal(t, []string{"gender", "education"}, cats)
	assert.Equal(t, "age", encoded.Columns[0].Name)
	assert.Equal(t, []float64{25, 30, 35}, column(t, encoded, "age").Num)
	bs := column(t, encoded, "education_BS")
	assert.Equal(t, []float64{1, 0, 0}, bs.Num)
	assert.Equal(t, []bool{true, true, true}, bs.Valid)
	assert.Len(t, ds.Columns, 3)
}

func TestApplyOneHotEncodingNameClash(t *testing.T) {
	ds := newDataset(t,
		dataset.Numeric("color_red", 1, 0),
		dataset.Categorical("color", "red", "blue"),
	)

	encoded, _ := ApplyOneHotEncoding(ds, 0)
	assert.Equal(t, []string{"color_red", "color_blue", "color_red.1"}, encoded.Names())
}

func TestApplyOneHotEncodingNothingToEncode(t *testing.T) {
	ds := newDataset(t, dataset.Numeric("a", 1, 2))

	encoded, cats := ApplyOneHotEncoding(ds, 10)
	assert.Empty(t, cats)
	assert.Equal(t, ds, encoded)
}

func TestNormalizeFeaturesBasic(t *testing.T) {
	ds := newDataset(t,
		dataset.Numeric("age", 20, 30, 40),
		dataset.Numeric("salary", 50000, 75000, 100000),
	)

	out := NormalizeFeatures(ds, true)
	assert.Equal(t, []float64{0, 0.5, 1}, column(t, out, "age").Num)
	assert.Equal(t, []float64{0, 0.5, 1}, column(t, out, "salary").Num)
	assert.Equal(t, []float64{20, 30, 40}, column(t, ds, "age").Num)
}

func TestNormalizeFeaturesWithConstant(t *testing.T) {
	ds := newDataset(t,
		dataset.Numeric("age", 30, 30, 30),
		dataset.Numeric("salary", 50000, 75000, 100000),
	)

	out := NormalizeFeatures(ds, true)
	assert.Equal(t, []float64{0, 0, 0}, column(t, out, "age").Num)
	assert.Equal(t, []float64{0, 0.5, 1}, column(t, out, "salary").Num)
}

func TestNormalizeFeaturesMixedTypesAndMissing(t *testing.T) {
	ds := newDataset(t,
		dataset.Numeric("age", 20, nan, 40),
		dataset.Categorical("name", "John", "Jane", "Bob"),
	)

	out := NormalizeFeatures(ds, true)
	age := column(t, out, "age")
	assert.Equal(t, []bool{true, false, true}, age.Valid)
	assert.Equal(t, 0.0, age.Num[0])
	assert.Equal(t, 1.0, age.Num[2])
	assert.Equal(t, []string{"John", "Jane", "Bob"}, column(t, out, "name").Raw)
}

func TestNormalizeFeaturesDisabled(t *testing.T) {
	ds := newDataset(t, dataset.Numeric("age", 20, 30, 40))

	out := NormalizeFeatures(ds, false)
	assert.Same(t, ds, out)
}

func sum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}
