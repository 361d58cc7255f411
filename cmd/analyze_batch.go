package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/madferreiro/collumn-predictor/internal/predictor"
	"github.com/madferreiro/collumn-predictor/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	abFlags  analysisFlags
	abTarget string
	abOutDir string
	abQuiet  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files against the same target column",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opts, err := abFlags.options(cmd)
		if err != nil {
			return err
		}
		opts.Target = abTarget

		if abOutDir != "" {
			if err := utils.EnsureDir(abOutDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			opts.Path = path
			rep, err := predictor.AnalyzeFeatures(opts)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			logger.Debug("batch item analyzed",
				zap.String("file", path),
				zap.String("run_id", rep.RunID),
				zap.Int("features", len(rep.Ranking)))
			md := rep.Markdown()

			if abOutDir == "" {
				if !abQuiet {
					fmt.Fprintln(out, md)
				}
				continue
			}
			base := utils.BaseName(path)
			outFile := utils.UniquePath(abOutDir, base, ".report.md")
			if filepath.Base(outFile) != base+".report.md" && !abQuiet {
				fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, []byte(md)); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abTarget, "target", "t", "", "target column present in every file")
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory to write <name>.report.md files (default: print to stdout)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	_ = analyzeBatchCmd.MarkFlagRequired("target")
}

// expandInputs resolves glob patterns and literal paths into a sorted, de-duplicated file list.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if p := resolveInput(arg); fileExists(p) {
				matches = []string{p}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
