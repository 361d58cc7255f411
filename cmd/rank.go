package cmd

import (
	"bytes"
	"fmt"

	"github.com/madferreiro/collumn-predictor/internal/analysis"
	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"github.com/madferreiro/collumn-predictor/internal/predictor"
	"github.com/madferreiro/collumn-predictor/internal/utils"
	"github.com/spf13/cobra"
)

var (
	rankLoad       loadFlags
	rankOutputPath string
)

var rankCmd = &cobra.Command{
	Use:   "rank <scores.csv>",
	Short: "Add competition ranks to a feature,importance_score table",
	Long: `Read a table with "feature" and "importance_score" columns and write it back
ordered by score with a "rank" column. Tied scores share the same rank.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := rankLoad.options(cmd)
		if err != nil {
			return err
		}
		path := resolveInput(args[0])
		if err := dataset.FileExists(path); err != nil {
			return err
		}
		ds, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}
		ranked, err := analysis.RankDataset(ds)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := predictor.WriteRankingCSV(&buf, ranked); err != nil {
			return err
		}
		if rankOutputPath != "" {
			if err := utils.SafeWriteFile(rankOutputPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d ranked features to %s\n", len(ranked), rankOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankLoad.register(rankCmd)
	rankCmd.Flags().StringVarP(&rankOutputPath, "output", "o", "", "optional path to write the ranked CSV to")
}
