package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/paperlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abOutDir    string
	abMaxRows   int
	abStrict    bool
	abTop       int
	abJSON      bool
	abNoProfile bool
	abQuiet     bool
	abKeepGoing bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze several metadata snapshots and write one report per file",
	Long: `Expands the given paths and globs, runs the analyze pipeline on each file and writes
<name>.report.txt (or .report.json with --json) into --out-dir. Existing reports are never
overwritten; a __2, __3, ... suffix is added instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}

		c := currentConfig()
		f := cmd.Flags()
		if f.Changed("max-rows") {
			c.MaxRows = abMaxRows
		}
		if f.Changed("strict") {
			c.Strict = abStrict
		}
		if f.Changed("top") {
			c.TopN = abTop
		}
		if err := c.Validate(); err != nil {
			return err
		}
		lopt, err := loadOptions(c)
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(abOutDir); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}

		out := cmd.OutOrStdout()
		ext := ".report.txt"
		if abJSON {
			ext = ".report.json"
		}
		total, failed := len(files), 0
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			var buf bytes.Buffer
			if err := runAnalyze(&buf, path, lopt, c, reportOptions{JSON: abJSON, NoProfile: abNoProfile}); err != nil {
				if !abKeepGoing {
					return fmt.Errorf("%s: %w", path, err)
				}
				failed++
				logger.Warn("analysis failed", "path", path, "error", err)
				fmt.Fprintf(out, "⚠ %s: %v\n", filepath.Base(path), err)
				continue
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outFile := uniquePath(abOutDir, base, ext)
			if filepath.Base(outFile) != base+ext && !abQuiet {
				fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, buf.Bytes()); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
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
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// uniquePath returns dir/base+ext, or the first free dir/base__N+ext.
func uniquePath(dir, base, ext string) string {
	p := filepath.Join(dir, base+ext)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "reports", "directory for the per-file reports")
	analyzeBatchCmd.Flags().IntVar(&abMaxRows, "max-rows", 50000, "maximum rows to read from the start of each file")
	analyzeBatchCmd.Flags().BoolVar(&abStrict, "strict", false, "fail on malformed rows instead of skipping them")
	analyzeBatchCmd.Flags().IntVar(&abTop, "top", 10, "entries in the journal and word rankings")
	analyzeBatchCmd.Flags().BoolVar(&abJSON, "json", false, "write JSON reports instead of text")
	analyzeBatchCmd.Flags().BoolVar(&abNoProfile, "no-profile", false, "skip the raw column profile")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	analyzeBatchCmd.Flags().BoolVar(&abKeepGoing, "keep-going", false, "continue with the next file when one fails")
}
