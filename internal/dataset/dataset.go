package dataset

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the inferred semantic type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	KindUnknown     Kind = "unknown"
)

// Column is a named, typed column. Valid[i] reports whether row i holds a
// value; Num[i] is only meaningful for numeric columns where Valid[i] is true.
type Column struct {
	Name  string
	Kind  Kind
	Unit  string
	Num   []float64
	Raw   []string
	Valid []bool
}

// Len returns the number of rows held by the column.
func (c *Column) Len() int { return len(c.Valid) }

// IsNumeric reports whether the column takes part in correlation analysis.
func (c *Column) IsNumeric() bool { return c.Kind == KindNumeric }

// MissingCount counts rows without a value.
func (c *Column) MissingCount() int {
	n := 0
	for _, ok := range c.Valid {
		if !ok {
			n++
		}
	}
	return n
}

// MissingFraction is MissingCount divided by the row count (0 for empty columns).
func (c *Column) MissingFraction() float64 {
	if len(c.Valid) == 0 {
		return 0
	}
	return float64(c.MissingCount()) / float64(len(c.Valid))
}

func (c Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind, Unit: c.Unit}
	out.Num = append([]float64(nil), c.Num...)
	out.Raw = append([]string(nil), c.Raw...)
	out.Valid = append([]bool(nil), c.Valid...)
	return out
}

// Numeric builds a numeric column. NaN inputs are recorded as missing.
func Numeric(name string, vals ...float64) Column {
	c := Column{
		Name:  name,
		Kind:  KindNumeric,
		Num:   make([]float64, len(vals)),
		Raw:   make([]string, len(vals)),
		Valid: make([]bool, len(vals)),
	}
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		c.Num[i] = v
		c.Raw[i] = strconv.FormatFloat(v, 'g', -1, 64)
		c.Valid[i] = true
	}
	return c
}

// Categorical builds a categorical column. Empty strings are recorded as missing.
func Categorical(name string, vals ...string) Column {
	c := Column{
		Name:  name,
		Kind:  KindCategorical,
		Num:   make([]float64, len(vals)),
		Raw:   make([]string, len(vals)),
		Valid: make([]bool, len(vals)),
	}
	for i, v := range vals {
		c.Raw[i] = v
		c.Valid[i] = v != ""
	}
	return c
}

// Dataset is an ordered collection of uniquely named columns of equal length.
type Dataset struct {
	Name     string
	Rows     int
	Columns  []Column
	Warnings []string
}

// New assembles a dataset, checking that names are unique and lengths agree.
func New(name string, cols ...Column) (*Dataset, error) {
	d := &Dataset{Name: name}
	seen := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if len(c.Num) != len(c.Valid) || len(c.Raw) != len(c.Valid) {
			return nil, fmt.Errorf("column %q: inconsistent value slices", c.Name)
		}
		if i == 0 {
			d.Rows = c.Len()
		} else if c.Len() != d.Rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), d.Rows)
		}
		d.Columns = append(d.Columns, c.clone())
	}
	return d, nil
}

// Index returns the position of the named column or -1.
func (d *Dataset) Index(name string) int {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return i
		}
	}
	return -1
}

// Column looks up a column by name. The returned column must not be modified.
func (d *Dataset) Column(name string) (*Column, bool) {
	if i := d.Index(name); i >= 0 {
		return &d.Columns[i], true
	}
	return nil, false
}

// Names returns column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.Columns))
	for i := range d.Columns {
		out[i] = d.Columns[i].Name
	}
	return out
}

// NumericColumns returns the numeric columns in order, skipping any named in exclude.
func (d *Dataset) NumericColumns(exclude ...string) []*Column {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}
	var out []*Column
	for i := range d.Columns {
		c := &d.Columns[i]
		if !c.IsNumeric() {
			continue
		}
		if _, ok := skip[c.Name]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Name: d.Name, Rows: d.Rows}
	out.Warnings = append([]string(nil), d.Warnings...)
	out.Columns = make([]Column, len(d.Columns))
	for i, c := range d.Columns {
		out.Columns[i] = c.clone()
	}
	return out
}

// Drop returns a copy without the named columns. Unknown names are ignored.
func (d *Dataset) Drop(names ...string) *Dataset {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	out := &Dataset{Name: d.Name, Rows: d.Rows}
	out.Warnings = append([]string(nil), d.Warnings...)
	for _, c := range d.Columns {
		if _, ok := skip[c.Name]; ok {
			continue
		}
		out.Columns = append(out.Columns, c.clone())
	}
	return out
}

// WithColumns returns a copy of d's metadata holding cols. Callers hand over ownership of cols.
func (d *Dataset) WithColumns(cols []Column) *Dataset {
	out := &Dataset{Name: d.Name, Rows: d.Rows, Columns: cols}
	out.Warnings = append([]string(nil), d.Warnings...)
	return out
}
