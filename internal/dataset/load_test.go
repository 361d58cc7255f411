package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSVInfersKinds(t *testing.T) {
	p := writeFile(t, "hop_harvest.csv", strings.Join([]string{
		"date,plot,alpha_acids,moisture,notes",
		"2024-08-10,A1,12.5%,74," + strings.Repeat("x", 70),
		"2024-08-12,A1,11.8%,NA,short",
		"2024-08-15,B3,10.2%,68,",
	}, "\n"))

	ds, err := LoadCSV(p, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "hop_harvest.csv", ds.Name)
	assert.Equal(t, 3, ds.Rows)

	date, _ := ds.Column("date")
	assert.Equal(t, KindDatetime, date.Kind)
	plot, _ := ds.Column("plot")
	assert.Equal(t, KindCategorical, plot.Kind)
	notes, _ := ds.Column("notes")
	assert.Equal(t, KindText, notes.Kind)

	alpha, _ := ds.Column("alpha_acids")
	assert.Equal(t, KindNumeric, alpha.Kind)
	assert.Equal(t, "%", alpha.Unit)
	assert.InDelta(t, 12.5, alpha.Num[0], 1e-9)

	moisture, _ := ds.Column("moisture")
	assert.Equal(t, KindNumeric, moisture.Kind)
	assert.Equal(t, []bool{true, false, true}, moisture.Valid)
	assert.Equal(t, 1, moisture.MissingCount())
	assert.Empty(t, ds.Warnings)
}

func TestLoadCSVLocaleAndMaxRows(t *testing.T) {
	p := writeFile(t, "metrics.csv", strings.Join([]string{
		"Group;Score;LocaleNumber",
		"A;10,0;1.000,0",
		"A;11,0;1.100,0",
		"B;9,5;0.900,0",
	}, "\n"))
	opt := DefaultOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	opt.MaxRows = 2

	ds, err := LoadCSV(p, opt)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Rows)
	locale, _ := ds.Column("LocaleNumber")
	assert.Equal(t, []float64{1000, 1100}, locale.Num)
	assert.Equal(t, []string{"processed only 2/3 rows due to MaxRows"}, ds.Warnings)
}

func TestLoadTSVByExtension(t *testing.T) {
	p := writeFile(t, "data.tsv", "a\tb\n1\t2\n3\t4\n")
	ds, err := Load(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Names())
	b, _ := ds.Column("b")
	assert.Equal(t, []float64{2, 4}, b.Num)
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	p := writeFile(t, "empty.csv", "A,B\n")
	ds, err := LoadCSV(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Rows)
	for _, c := range ds.Columns {
		assert.Equal(t, KindUnknown, c.Kind)
	}
	assert.Empty(t, ds.NumericColumns())
}

func TestLoadCSVShortRowsArePadded(t *testing.T) {
	p := writeFile(t, "short.csv", "a,b,c\n1,2\n4,5,6\n")
	ds, err := LoadCSV(p, DefaultOptions())
	require.NoError(t, err)
	c, _ := ds.Column("c")
	assert.Equal(t, []bool{false, true}, c.Valid)
}

func TestHeaderNames(t *testing.T) {
	opt := DefaultOptions()
	names, units := headerNames([]string{"x", "", "x", "Mass [mg/L]"}, opt)
	assert.Equal(t, []string{"x", "Unnamed: 1", "x.1", "Mass [mg/L]"}, names)
	assert.Equal(t, []string{"", "", "", ""}, units)

	opt.SplitUnits = true
	names, units = headerNames([]string{"Mass [mg/L]", "Brix_Brix", "Alpha (%)"}, opt)
	assert.Equal(t, []string{"Mass", "Brix", "Alpha"}, names)
	assert.Equal(t, []string{"mg/L", "Brix", "%"}, units)
}

func TestParseNumeric(t *testing.T) {
	auto := Options{}
	tests := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"42", auto, 42, true},
		{"1,234.5", auto, 1234.5, true},
		{"1.234,5", auto, 1234.5, true},
		{"0,5", auto, 0.5, true},
		{"12.5%", auto, 12.5, true},
		{"1e3", auto, 1000, true},
		{"1 000", Options{DecimalSeparator: '.', ThousandsSeparator: ' '}, 1000, true},
		{"abc", auto, 0, false},
		{"%", auto, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumeric(tt.in, tt.opt)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, tt.in)
		}
	}
}

func TestReadCSVNonFiniteSpellingsAreMissing(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a,b,target\n1,inf,1\nNAN,2,2\n3,-Infinity,3\n4,4,4\n"), "odd.csv", ',', DefaultOptions())
	require.NoError(t, err)

	a, _ := ds.Column("a")
	assert.Equal(t, KindNumeric, a.Kind)
	assert.Equal(t, []bool{true, false, true, true}, a.Valid)
	assert.Equal(t, []float64{1, 0, 3, 4}, a.Num)
	assert.Equal(t, "", a.Raw[1])

	b, _ := ds.Column("b")
	assert.Equal(t, []bool{false, true, false, true}, b.Valid)
	assert.Empty(t, ds.Warnings)
}

func TestReadCSVNumericColumnWithStrayText(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("dose,target\n1,1\n2,2\nx,3\n"), "stray.csv", ',', DefaultOptions())
	require.NoError(t, err)

	dose, _ := ds.Column("dose")
	assert.Equal(t, KindNumeric, dose.Kind)
	assert.Equal(t, []bool{true, true, false}, dose.Valid)
	assert.Equal(t, []string{`column "dose": 1 non-numeric value(s) treated as missing`}, ds.Warnings)
}
