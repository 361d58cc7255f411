package cmd

import (
	"fmt"
	"strings"

	"github.com/madferreiro/collumn-predictor/internal/analysis"
	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	grpLoad      loadFlags
	grpThreshold float64
	grpExclude   []string
	grpPairs     bool
)

var groupsCmd = &cobra.Command{
	Use:   "groups <file>",
	Short: "List groups of mutually correlated (redundant) numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := grpLoad.options(cmd)
		if err != nil {
			return err
		}
		threshold := cfg.CorrelationThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = grpThreshold
		}
		path := resolveInput(args[0])
		if err := dataset.FileExists(path); err != nil {
			return err
		}
		ds, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}

		m, err := analysis.BuildCorrelationMatrix(ds, grpExclude...)
		if err != nil {
			return err
		}
		pairs, err := analysis.FindCorrelatedPairs(m, threshold)
		if err != nil {
			return err
		}
		groups, err := analysis.GroupFeatures(m, threshold)
		if err != nil {
			return err
		}
		logger.Debug("grouped features",
			zap.String("dataset", ds.Name),
			zap.Int("columns", m.Len()),
			zap.Int("pairs", len(pairs)),
			zap.Int("groups", len(groups)))

		out := cmd.OutOrStdout()
		if len(groups) == 0 {
			fmt.Fprintf(out, "No correlated groups found (|r| >= %.2f).\n", threshold)
		} else {
			fmt.Fprintf(out, "Correlated groups (|r| >= %.2f):\n", threshold)
			for _, g := range groups {
				fmt.Fprintf(out, "- %s\n", strings.Join(g, ", "))
			}
		}
		if grpPairs && len(pairs) > 0 {
			fmt.Fprintln(out, "\nPairs:")
			for _, p := range pairs {
				fmt.Fprintf(out, "- %s ~ %s: r=%.3f\n", p.A, p.B, p.R)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	grpLoad.register(groupsCmd)
	groupsCmd.Flags().Float64Var(&grpThreshold, "threshold", analysis.DefaultGroupThreshold, "|r| at or above which two columns are grouped (0-1)")
	groupsCmd.Flags().StringSliceVar(&grpExclude, "exclude", nil, "columns to leave out, e.g. the target (repeatable)")
	groupsCmd.Flags().BoolVar(&grpPairs, "pairs", false, "also list every correlated pair")
}
