package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"github.com/madferreiro/collumn-predictor/internal/predictor"
	"github.com/spf13/cobra"
)

// loadFlags are the file-reading flags shared by every command that opens a dataset.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	sheetName  string
	sheetIndex int
	splitUnits bool
}

func (lf *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	cmd.Flags().StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cmd.Flags().StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	cmd.Flags().IntVar(&lf.maxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited)")
	cmd.Flags().StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	cmd.Flags().IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().BoolVar(&lf.splitUnits, "split-units", false, "read units from headers like 'Mass [g/L]' and convert known ones (g/L, ug/L -> mg/L, °F -> °C)")
}

func (lf *loadFlags) options(cmd *cobra.Command) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	opt.MaxRows = cfg.MaxRows
	if cmd.Flags().Changed("max-rows") {
		opt.MaxRows = lf.maxRows
	}
	opt.SplitUnits = cfg.SplitUnits
	if cmd.Flags().Changed("split-units") {
		opt.SplitUnits = lf.splitUnits
	}
	switch lf.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(lf.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", lf.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(lf.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", lf.thousands)
	}
	opt.SheetName = lf.sheetName
	if lf.sheetIndex > 0 {
		opt.SheetIndex = lf.sheetIndex
	}
	return opt, nil
}

// analysisFlags extend loadFlags with the preprocessing and grouping knobs of a full run.
type analysisFlags struct {
	load             loadFlags
	missingThreshold float64
	corrThreshold    float64
	encode           bool
	maxCategories    int
	normalize        bool
	top              int
}

func (af *analysisFlags) register(cmd *cobra.Command) {
	af.load.register(cmd)
	cmd.Flags().Float64Var(&af.missingThreshold, "missing-threshold", 0.5, "drop columns whose missing fraction exceeds this value (0-1)")
	cmd.Flags().Float64Var(&af.corrThreshold, "corr-threshold", 0.8, "|r| at or above which two features count as redundant (0-1)")
	cmd.Flags().BoolVar(&af.encode, "encode", false, "one-hot encode categorical columns instead of ignoring them")
	cmd.Flags().IntVar(&af.maxCategories, "max-categories", 10, "with --encode: keep at most this many categories per column (0 = all)")
	cmd.Flags().BoolVar(&af.normalize, "normalize", false, "min-max scale numeric columns before scoring")
	cmd.Flags().IntVar(&af.top, "top", 0, "show only the N best features (0 = all)")
}

// options layers built-in defaults, the loaded config and explicitly set flags.
func (af *analysisFlags) options(cmd *cobra.Command) (predictor.Options, error) {
	opts := predictor.DefaultOptions()
	load, err := af.load.options(cmd)
	if err != nil {
		return opts, err
	}
	opts.Load = load
	opts.Logger = logger
	opts.MissingThreshold = cfg.MissingThreshold
	opts.CorrelationThreshold = cfg.CorrelationThreshold
	opts.Encode = cfg.Encode
	opts.MaxCategories = cfg.MaxCategories
	opts.Normalize = cfg.Normalize
	opts.TopN = cfg.TopN

	f := cmd.Flags()
	if f.Changed("missing-threshold") {
		opts.MissingThreshold = af.missingThreshold
	}
	if f.Changed("corr-threshold") {
		opts.CorrelationThreshold = af.corrThreshold
	}
	if f.Changed("encode") {
		opts.Encode = af.encode
	}
	if f.Changed("max-categories") {
		opts.MaxCategories = af.maxCategories
	}
	if f.Changed("normalize") {
		opts.Normalize = af.normalize
	}
	if f.Changed("top") {
		opts.TopN = af.top
	}
	return opts, nil
}

// resolveInput uses name as given when it exists, otherwise looks it up in the data directory.
func resolveInput(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return dataset.ResolvePath(cfg.DataDir, name)
}
