package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrSheetNotFound is returned when the requested XLSX sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// LoadXLSX reads the sheet selected by opt.SheetName, or by the 1-based
// opt.SheetIndex when no name is given, into a Dataset.
func LoadXLSX(p string, opt Options) (*Dataset, error) {
	name := filepath.Base(p)
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", name, err)
	}
	defer zr.Close()

	wb, err := readWorkbook(zr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	part, err := resolveSheet(wb.sheets, wb.rels, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	data, err := fs.ReadFile(zr, part)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w: no worksheet part %s", name, ErrSheetNotFound, part)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", name, part, err)
	}

	rows := newSheetRows(data, wb.shared)
	header, err := rows.Next()
	if errors.Is(err, io.EOF) || (err == nil && len(header) == 0) {
		return &Dataset{Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	bld := newBuilder(name, header, opt)
	for {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		bld.add(row)
	}
	return bld.build(), nil
}

func resolveSheet(sheets []wbSheet, rels map[string]string, opt Options) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, opt.SheetName) {
				if rel, ok := rels[s.RID]; ok {
					return normalizeRelPath(rel), nil
				}
				break
			}
		}
		available := make([]string, len(sheets))
		for i, s := range sheets {
			available[i] = s.Name
		}
		return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, opt.SheetName, strings.Join(available, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	for _, s := range sheets {
		if s.SheetID == idx {
			if rel, ok := rels[s.RID]; ok {
				return normalizeRelPath(rel), nil
			}
		}
	}
	return path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx)), nil
}

type wbSheet struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	RID     string `xml:"id,attr"`
}

// workbook is what LoadXLSX needs from the package parts around a worksheet.
type workbook struct {
	sheets []wbSheet
	rels   map[string]string // relationship id -> target
	shared []string
}

// readWorkbook decodes xl/workbook.xml, its relationships and the shared
// string table. Only the workbook part is mandatory.
func readWorkbook(fsys fs.FS) (*workbook, error) {
	var doc struct {
		Sheets []wbSheet `xml:"sheets>sheet"`
	}
	if err := decodePart(fsys, "xl/workbook.xml", &doc); err != nil {
		return nil, fmt.Errorf("not a valid xlsx workbook: %w", err)
	}
	wb := &workbook{sheets: doc.Sheets, rels: map[string]string{}}

	var rels struct {
		Items []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := decodePart(fsys, "xl/_rels/workbook.xml.rels", &rels); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, r := range rels.Items {
		if r.ID != "" && r.Target != "" {
			wb.rels[r.ID] = r.Target
		}
	}

	var sst struct {
		Items []richText `xml:"si"`
	}
	if err := decodePart(fsys, "xl/sharedStrings.xml", &sst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	wb.shared = make([]string, len(sst.Items))
	for i, it := range sst.Items {
		wb.shared[i] = it.String()
	}
	return wb, nil
}

func decodePart(fsys fs.FS, part string, v any) error {
	data, err := fs.ReadFile(fsys, part)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", part, err)
	}
	return nil
}

// richText is a string item that is either plain <t> or a run of <r><t> pieces.
type richText struct {
	T    string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (rt richText) String() string {
	if len(rt.Runs) == 0 {
		return rt.T
	}
	var b strings.Builder
	b.WriteString(rt.T)
	for _, r := range rt.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

type sheetCell struct {
	Ref    string   `xml:"r,attr"`
	Type   string   `xml:"t,attr"`
	Value  string   `xml:"v"`
	Inline richText `xml:"is"`
}

// sheetRows yields the rows of a worksheet as string cells, placing each
// cell at the column its reference names.
type sheetRows struct {
	dec    *xml.Decoder
	shared []string
}

func newSheetRows(data []byte, shared []string) *sheetRows {
	return &sheetRows{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

// Next returns the next row, or io.EOF once the sheet is exhausted.
func (r *sheetRows) Next() ([]string, error) {
	var row []string
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) && inRow {
				return nil, fmt.Errorf("read worksheet: %w", io.ErrUnexpectedEOF)
			}
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read worksheet: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case el.Name.Local == "row":
				inRow, row = true, []string{}
			case inRow && el.Name.Local == "c":
				var c sheetCell
				if err := r.dec.DecodeElement(&c, &el); err != nil {
					return nil, fmt.Errorf("read worksheet cell %s: %w", c.Ref, err)
				}
				col := colIndexFromRef(c.Ref)
				if col < 0 {
					col = len(row)
				}
				for len(row) <= col {
					row = append(row, "")
				}
				row[col] = r.cellText(c)
			}
		case xml.EndElement:
			if inRow && el.Name.Local == "row" {
				return row, nil
			}
		}
	}
}

func (r *sheetRows) cellText(c sheetCell) string {
	switch c.Type {
	case "s":
		if i, err := strconv.Atoi(strings.TrimSpace(c.Value)); err == nil && i >= 0 && i < len(r.shared) {
			return r.shared[i]
		}
		return ""
	case "inlineStr":
		return c.Inline.String()
	default:
		return c.Value
	}
}

// colIndexFromRef maps refs like "C12" to a 0-based column index, or -1 without letters.
func colIndexFromRef(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			i++
			continue
		}
		break
	}
	s := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(s); j++ {
		idx = idx*26 + int(s[j]-'A'+1)
	}
	return idx - 1
}

// normalizeRelPath converts relationship targets like "/xl/worksheets/sheet1.xml"
// or "worksheets/sheet1.xml" into ZIP entry names.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
