package predictor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/madferreiro/collumn-predictor/internal/analysis"
	"github.com/madferreiro/collumn-predictor/internal/utils"
	"gopkg.in/yaml.v3"
)

// Report is the outcome of one analysis run.
type Report struct {
	RunID                string                   `json:"run_id" yaml:"run_id"`
	Name                 string                   `json:"name" yaml:"name"`
	Target               string                   `json:"target" yaml:"target"`
	Rows                 int                      `json:"rows" yaml:"rows"`
	Columns              int                      `json:"columns" yaml:"columns"`
	RemovedColumns       []string                 `json:"removed_columns" yaml:"removed_columns"`
	EncodedColumns       []string                 `json:"encoded_columns,omitempty" yaml:"encoded_columns,omitempty"`
	Ranking              []analysis.RankedFeature `json:"ranking" yaml:"ranking"`
	Units                map[string]string        `json:"units,omitempty" yaml:"units,omitempty"`
	CorrelationThreshold float64                  `json:"correlation_threshold" yaml:"correlation_threshold"`
	Pairs                []analysis.Pair          `json:"pairs" yaml:"pairs"`
	Groups               []analysis.FeatureGroup  `json:"groups" yaml:"groups"`
	Notes                []string                 `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Features lists the ranked feature names, best predictor first.
func (r *Report) Features() []string {
	out := make([]string, len(r.Ranking))
	for i, f := range r.Ranking {
		out[i] = f.Feature
	}
	return out
}

// List renders the plain feature list printed by the analyze command.
func (r *Report) List() string {
	var b strings.Builder
	b.WriteString("Most relevant features:\n")
	for _, f := range r.Features() {
		b.WriteString(fmt.Sprintf("- %s\n", f))
	}
	return b.String()
}

// Markdown renders the report as sectioned plain text suitable for a .md file.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Target: %s\n", r.Target))
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.Columns))
	b.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))

	writeList(&b, "REMOVED COLUMNS", r.RemovedColumns)
	if len(r.EncodedColumns) > 0 {
		writeList(&b, "ENCODED COLUMNS", r.EncodedColumns)
	}

	b.WriteString("[FEATURE RANKING]\n")
	if len(r.Ranking) == 0 {
		b.WriteString("(no numeric features)\n\n")
	} else {
		b.WriteString("| rank | feature | importance_score |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, f := range r.Ranking {
			b.WriteString(fmt.Sprintf("| %d | %s | %.4f |\n", f.Rank, safeCell(r.featureLabel(f.Feature)), f.Score))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("[CORRELATED GROUPS] (|r| >= %.2f)\n", r.CorrelationThreshold))
	if len(r.Groups) == 0 {
		b.WriteString("- none\n")
	}
	for _, g := range r.Groups {
		b.WriteString(fmt.Sprintf("- %s\n", strings.Join(g, ", ")))
	}
	if len(r.Pairs) > 0 {
		b.WriteString("Top pairs:\n")
		for i, p := range r.Pairs {
			if i == 10 {
				b.WriteString(fmt.Sprintf("  ... %d more\n", len(r.Pairs)-i))
				break
			}
			b.WriteString(fmt.Sprintf("  %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n")
		writeList(&b, "NOTES", r.Notes)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeList(b *strings.Builder, title string, items []string) {
	b.WriteString(fmt.Sprintf("[%s]\n", title))
	if len(items) == 0 {
		b.WriteString("- none\n")
	}
	for _, it := range items {
		b.WriteString(fmt.Sprintf("- %s\n", it))
	}
	b.WriteString("\n")
}

// featureLabel appends the feature's unit, if known: "mass [mg/L]".
func (r *Report) featureLabel(name string) string {
	if u := r.Units[name]; u != "" {
		return fmt.Sprintf("%s [%s]", name, u)
	}
	return name
}

func safeCell(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return utils.PrettyJSON(r)
}

// YAML renders the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

// Render dispatches on an output format name: markdown, json, yaml or list.
func (r *Report) Render(format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "list":
		return []byte(r.List()), nil
	case "markdown", "md":
		return []byte(r.Markdown()), nil
	case "json":
		return r.JSON()
	case "yaml", "yml":
		return r.YAML()
	default:
		return nil, fmt.Errorf("unsupported format: %s (use markdown|json|yaml|list)", format)
	}
}

// WriteRankingCSV writes a ranked importance table with a
// feature,importance_score,rank header.
func WriteRankingCSV(w io.Writer, ranking []analysis.RankedFeature) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{analysis.FeatureColumn, analysis.ScoreColumn, analysis.RankColumn}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, f := range ranking {
		rec := []string{f.Feature, strconv.FormatFloat(f.Score, 'g', -1, 64), strconv.Itoa(f.Rank)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
