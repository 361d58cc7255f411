package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrFileNotFound indicates the dataset file does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrEmptyFile indicates a file without any header row.
	ErrEmptyFile = errors.New("file is empty")
	// ErrInvalidCSV indicates the file could not be parsed as CSV.
	ErrInvalidCSV = errors.New("not a valid CSV file")
	// ErrColumnNotFound indicates a requested column is absent.
	ErrColumnNotFound = errors.New("column not found")
)

// ResolvePath joins a bare file name onto dataDir. Absolute paths and an
// empty dataDir leave filename untouched.
func ResolvePath(dataDir, filename string) string {
	if dataDir == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(dataDir, filename)
}

// FileExists checks that path names an existing regular file.
func FileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	return nil
}

// ValidateCSV reads the whole file and reports empty files, malformed quoting
// and rows carrying more fields than the header.
func ValidateCSV(path string, opt Options) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delimiterFor(path, opt)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s", ErrEmptyFile, filepath.Base(path))
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalidCSV, filepath.Base(path), err)
	}
	ncol := len(header)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: %s: %v", ErrInvalidCSV, filepath.Base(path), err)
		}
		if len(rec) > ncol {
			return fmt.Errorf("%w: %s: expected %d fields in line %d, saw %d", ErrInvalidCSV, filepath.Base(path), ncol, line, len(rec))
		}
	}
}

// HasTargetColumn checks that the dataset carries the named column.
func HasTargetColumn(d *Dataset, target string) error {
	if d == nil || d.Index(target) < 0 {
		name := ""
		if d != nil {
			name = d.Name
		}
		return fmt.Errorf("%w: %q in %q", ErrColumnNotFound, target, name)
	}
	return nil
}
