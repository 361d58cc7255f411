package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/madferreiro/collumn-predictor/internal/dataset"
	"github.com/madferreiro/collumn-predictor/internal/predictor"
	"github.com/madferreiro/collumn-predictor/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaFlags      analysisFlags
	anaFormat     string
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file> <target>",
	Short: "Rank the columns of a dataset by how well they predict a target column",
	Long: `Rank the numeric columns of a CSV/TSV/XLSX file by absolute Pearson correlation
with <target>. A bare file name is looked up in the data directory.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := anaFlags.options(cmd)
		if err != nil {
			return err
		}
		opts.Path = resolveInput(args[0])
		opts.Target = args[1]

		format := cfg.OutputFormat
		if cmd.Flags().Changed("format") {
			format = anaFormat
		}

		rep, err := predictor.AnalyzeFeatures(opts)
		if err != nil {
			if isInputError(err) {
				printInputHints(cmd.ErrOrStderr())
			}
			return err
		}
		out, err := rep.Render(format)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		if len(out) > 0 && out[len(out)-1] != '\n' {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "list", "output format: list | markdown | json | yaml")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis to")
}

func isInputError(err error) bool {
	for _, target := range []error{dataset.ErrFileNotFound, dataset.ErrEmptyFile, dataset.ErrInvalidCSV, dataset.ErrColumnNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func printInputHints(w io.Writer) {
	fmt.Fprintln(w, "Please check if:")
	fmt.Fprintln(w, "- The file exists in the data directory")
	fmt.Fprintln(w, "- The file is a valid CSV")
	fmt.Fprintln(w, "- The target column exists in the file")
}
