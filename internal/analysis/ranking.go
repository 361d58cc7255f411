package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/madferreiro/collumn-predictor/internal/dataset"
)

// Column names of a serialized importance table.
const (
	FeatureColumn = "feature"
	ScoreColumn   = "importance_score"
	RankColumn    = "rank"
)

// RankedFeature is an importance table row with its competition rank.
type RankedFeature struct {
	Feature string  `json:"feature" yaml:"feature"`
	Score   float64 `json:"importance_score" yaml:"importance_score"`
	Rank    int     `json:"rank" yaml:"rank"`
}

// Rank assigns each feature 1 + the number of strictly higher scores, so ties
// share a rank ([0.9 0.9 0.6] -> [1 1 3]). NaN scores rank below every number
// and tie with each other. Output is ordered by rank, then by feature name.
// The input is left untouched.
func Rank(scores ImportanceTable) []RankedFeature {
	out := make([]RankedFeature, len(scores))
	for i, s := range scores {
		out[i] = RankedFeature{Feature: s.Feature, Score: s.Score}
	}
	sort.SliceStable(out, func(i, j int) bool { return scoreAbove(out[i].Score, out[j].Score) })
	for i := range out {
		if i > 0 && sameScore(out[i].Score, out[i-1].Score) {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}

func scoreAbove(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	return math.IsNaN(b) || a > b
}

func sameScore(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// ImportanceTableFromDataset reads the feature and importance_score columns of
// a tabular importance table, e.g. one loaded from CSV.
func ImportanceTableFromDataset(ds *dataset.Dataset) (ImportanceTable, error) {
	var missing []string
	var feat, score *dataset.Column
	if ds != nil {
		feat, _ = ds.Column(FeatureColumn)
		score, _ = ds.Column(ScoreColumn)
	}
	if feat == nil {
		missing = append(missing, FeatureColumn)
	}
	if score == nil || (score.Kind != dataset.KindNumeric && ds.Rows > 0) {
		missing = append(missing, ScoreColumn)
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}
	out := make(ImportanceTable, 0, ds.Rows)
	for i := 0; i < ds.Rows; i++ {
		if !feat.Valid[i] {
			return nil, fmt.Errorf("row %d: missing %s", i+1, FeatureColumn)
		}
		if v := score.Num[i]; !score.Valid[i] || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("row %d: missing or non-numeric %s for %q", i+1, ScoreColumn, feat.Raw[i])
		}
		out = append(out, FeatureScore{Feature: feat.Raw[i], Score: score.Num[i]})
	}
	return out, nil
}

// RankDataset ranks an importance table held in a dataset.
func RankDataset(ds *dataset.Dataset) ([]RankedFeature, error) {
	scores, err := ImportanceTableFromDataset(ds)
	if err != nil {
		return nil, err
	}
	return Rank(scores), nil
}
