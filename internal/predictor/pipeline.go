// Package predictor wires loading, preprocessing and correlation analysis into
// a single run that answers "which columns best predict the target".
package predictor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/madferreiro/collumn-predictor/internal/analysis"
	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"github.com/madferreiro/collumn-predictor/internal/preprocess"
	"go.uber.org/zap"
)

// Options configures a single analysis run.
type Options struct {
	// Path to the CSV/TSV/XLSX file, already resolved against the data directory.
	Path   string
	Target string
	Load   dataset.Options

	MissingThreshold     float64
	CorrelationThreshold float64
	Encode               bool
	// MaxCategories caps dummy columns per encoded column; <= 0 keeps all.
	MaxCategories int
	Normalize     bool
	// TopN truncates the ranking; 0 keeps every feature.
	TopN int

	Logger *zap.Logger
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Load:                 dataset.DefaultOptions(),
		MissingThreshold:     preprocess.DefaultMissingThreshold,
		CorrelationThreshold: analysis.DefaultGroupThreshold,
		MaxCategories:        10,
		Logger:               zap.NewNop(),
	}
}

// AnalyzeFeatures validates and loads opts.Path, then runs Analyze on it.
func AnalyzeFeatures(opts Options) (*Report, error) {
	if err := dataset.FileExists(opts.Path); err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(opts.Path), ".xlsx") {
		if err := dataset.ValidateCSV(opts.Path, opts.Load); err != nil {
			return nil, err
		}
	}
	ds, err := dataset.Load(opts.Path, opts.Load)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(opts.Path), err)
	}
	return Analyze(ds, opts)
}

// Analyze runs missing-value pruning, optional encoding and normalization,
// target scoring, ranking and redundancy grouping on an in-memory dataset.
func Analyze(ds *dataset.Dataset, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	if opts.MissingThreshold < 0 || opts.MissingThreshold > 1 {
		return nil, fmt.Errorf("missing threshold must be between 0 and 1, got %g", opts.MissingThreshold)
	}
	if err := analysis.ValidateThreshold(opts.CorrelationThreshold); err != nil {
		return nil, err
	}
	if err := dataset.HasTargetColumn(ds, opts.Target); err != nil {
		return nil, err
	}
	if c, _ := ds.Column(opts.Target); !c.IsNumeric() && ds.Rows > 0 {
		return nil, &analysis.InvalidTargetError{Target: opts.Target, Present: true}
	}

	rep := &Report{
		RunID:                uuid.NewString(),
		Name:                 ds.Name,
		Target:               opts.Target,
		Rows:                 ds.Rows,
		Columns:              len(ds.Columns),
		CorrelationThreshold: opts.CorrelationThreshold,
		Notes:                append([]string(nil), ds.Warnings...),
	}

	units := columnUnits(ds)

	ds, rep.RemovedColumns = preprocess.HandleMissingValues(ds, opts.MissingThreshold)
	if len(rep.RemovedColumns) > 0 {
		log.Debug("removed sparse columns",
			zap.Strings("columns", rep.RemovedColumns),
			zap.Float64("threshold", opts.MissingThreshold))
	}
	if ds.Index(opts.Target) < 0 {
		return nil, fmt.Errorf("target column '%s' has more than %.0f%% missing values", opts.Target, opts.MissingThreshold*100)
	}

	if opts.Encode {
		ds, rep.EncodedColumns = preprocess.ApplyOneHotEncoding(ds, opts.MaxCategories)
		log.Debug("one-hot encoded columns",
			zap.Strings("columns", rep.EncodedColumns),
			zap.Int("max_categories", opts.MaxCategories))
	} else if skipped := categoricalColumns(ds); len(skipped) > 0 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("ignored %d non-numeric column(s): %s (use --encode to include them)",
			len(skipped), strings.Join(skipped, ", ")))
	}
	ds = preprocess.NormalizeFeatures(ds, opts.Normalize)

	scores, err := analysis.ComputeTargetScores(ds, opts.Target)
	if err != nil {
		return nil, err
	}
	rep.Ranking = analysis.Rank(scores)
	if opts.TopN > 0 && len(rep.Ranking) > opts.TopN {
		rep.Ranking = rep.Ranking[:opts.TopN]
	}
	for _, f := range rep.Ranking {
		if u, ok := units[f.Feature]; ok {
			if rep.Units == nil {
				rep.Units = make(map[string]string)
			}
			rep.Units[f.Feature] = u
		}
	}

	rep.Pairs, rep.Groups = []analysis.Pair{}, []analysis.FeatureGroup{}
	m, err := analysis.BuildCorrelationMatrix(ds, opts.Target)
	var noNumeric *analysis.NoNumericFeaturesError
	switch {
	case errors.As(err, &noNumeric):
		rep.Notes = append(rep.Notes, "no numeric features besides the target; grouping skipped")
	case err != nil:
		return nil, err
	default:
		if rep.Pairs, err = analysis.FindCorrelatedPairs(m, opts.CorrelationThreshold); err != nil {
			return nil, err
		}
		if rep.Groups, err = analysis.GroupFeatures(m, opts.CorrelationThreshold); err != nil {
			return nil, err
		}
	}

	log.Debug("analysis complete",
		zap.String("run_id", rep.RunID),
		zap.String("dataset", rep.Name),
		zap.Int("features", len(scores)),
		zap.Int("groups", len(rep.Groups)),
		zap.Duration("elapsed", time.Since(start)))
	return rep, nil
}

func categoricalColumns(ds *dataset.Dataset) []string {
	names, types := preprocess.DetectFeatureTypes(ds)
	var out []string
	for i, t := range types {
		if t == preprocess.Categorical {
			out = append(out, names[i])
		}
	}
	return out
}

// columnUnits maps column names to their non-empty units as loaded.
func columnUnits(ds *dataset.Dataset) map[string]string {
	out := make(map[string]string)
	for _, c := range ds.Columns {
		if c.Unit != "" {
			out[c.Name] = c.Unit
		}
	}
	return out
}
