package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how tabular files are read into a Dataset.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// SplitUnits strips unit suffixes like "Mass [mg/L]" from header names.
	SplitUnits bool
	// UnitNormalize converts values of split-off units using UnitTargets.
	UnitNormalize bool
	UnitTargets   map[string]string // map[fromUnit]toUnit
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for loading datasets.
func DefaultOptions() Options {
	return Options{
		MaxRows:       100000,
		UnitNormalize: true,
		UnitTargets: map[string]string{
			"g/L":  "mg/L",
			"ug/L": "mg/L",
			"°F":   "°C",
		},
		SheetIndex: 1,
	}
}

// Load reads a CSV/TSV or XLSX file, choosing the reader by extension.
func Load(path string, opt Options) (*Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	return LoadCSV(path, opt)
}

// LoadCSV reads a delimited text file. A file without a header yields an empty dataset.
func LoadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, filepath.Base(path), delimiterFor(path, opt), opt)
}

// ReadCSV reads delimited records from r.
func ReadCSV(r io.Reader, name string, delim rune, opt Options) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{Name: name}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	b := newBuilder(name, header, opt)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", b.total+1, err)
		}
		b.add(rec)
	}
	return b.build(), nil
}

func delimiterFor(path string, opt Options) rune {
	if opt.Delimiter != 0 {
		return opt.Delimiter
	}
	return sniffDelimiter(path)
}

// colAcc collects raw cells for one column and counts how each one parsed.
type colAcc struct {
	name     string
	unit     string
	origUnit string
	raw      []string
	num      []float64
	isNum    []bool
	present  []bool
	numCnt   int
	dtCnt    int
	txtCnt   int
}

type builder struct {
	name    string
	opt     Options
	cols    []*colAcc
	rows    int
	total   int
	maxRows int
}

func newBuilder(name string, header []string, opt Options) *builder {
	names, units := headerNames(header, opt)
	b := &builder{name: name, opt: opt, maxRows: opt.MaxRows}
	if b.maxRows <= 0 {
		b.maxRows = math.MaxInt
	}
	b.cols = make([]*colAcc, len(names))
	for i := range names {
		b.cols[i] = &colAcc{name: names[i], unit: units[i], origUnit: units[i]}
	}
	return b
}

func (b *builder) add(rec []string) {
	b.total++
	if b.rows >= b.maxRows {
		return
	}
	b.rows++
	for j, c := range b.cols {
		v := ""
		if j < len(rec) {
			v = strings.TrimSpace(rec[j])
		}
		x, ok := parseNumeric(v, b.opt)
		// ParseFloat accepts spellings like "NAN" or "Inf" that isMissing does not list.
		if isMissing(v) || (ok && (math.IsNaN(x) || math.IsInf(x, 0))) {
			c.addMissing()
			continue
		}
		c.raw = append(c.raw, v)
		c.present = append(c.present, true)
		if strings.Contains(v, "%") && c.unit == "" {
			c.unit = "%"
		}
		if ok {
			if b.opt.UnitNormalize && c.origUnit != "" {
				if nx, nu, okc := normalizeUnit(x, c.origUnit, b.opt); okc {
					x = nx
					c.unit = nu
				}
			}
			c.numCnt++
			c.num = append(c.num, x)
			c.isNum = append(c.isNum, true)
			continue
		}
		c.num = append(c.num, 0)
		c.isNum = append(c.isNum, false)
		if _, ok := parseTimeMaybe(v); ok {
			c.dtCnt++
			continue
		}
		c.txtCnt++
	}
}

func (c *colAcc) addMissing() {
	c.raw = append(c.raw, "")
	c.num = append(c.num, 0)
	c.isNum = append(c.isNum, false)
	c.present = append(c.present, false)
}

func (b *builder) build() *Dataset {
	d := &Dataset{Name: b.name, Rows: b.rows}
	d.Columns = make([]Column, len(b.cols))
	for i, c := range b.cols {
		col := Column{Name: c.name, Unit: c.unit, Num: c.num, Raw: c.raw}
		if col.Num == nil {
			col.Num, col.Raw = []float64{}, []string{}
		}
		// Decide kind by predominant parsed type.
		switch {
		case c.numCnt >= c.dtCnt && c.numCnt >= c.txtCnt && c.numCnt > 0:
			col.Kind = KindNumeric
			col.Valid = append([]bool{}, c.isNum...)
			if dropped := c.dtCnt + c.txtCnt; dropped > 0 {
				d.Warnings = append(d.Warnings, fmt.Sprintf("column %q: %d non-numeric value(s) treated as missing", c.name, dropped))
			}
		case c.dtCnt >= c.txtCnt && c.dtCnt > 0:
			col.Kind = KindDatetime
		case c.txtCnt > 0 && looksCategorical(c):
			col.Kind = KindCategorical
		case c.txtCnt > 0:
			col.Kind = KindText
		default:
			col.Kind = KindUnknown
		}
		if col.Valid == nil {
			col.Valid = append([]bool{}, c.present...)
		}
		d.Columns[i] = col
	}
	if b.rows < b.total {
		d.Warnings = append(d.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", b.rows, b.total))
	}
	return d
}

// looksCategorical treats a column of short tokens as categorical and long free text as text.
func looksCategorical(c *colAcc) bool {
	for i, v := range c.raw {
		if c.present[i] && !c.isNum[i] && len(v) > 64 {
			return false
		}
	}
	return true
}
