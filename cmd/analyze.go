package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/paperlens/internal/analysis"
	"github.com/KaramelBytes/paperlens/internal/chart"
	cfgpkg "github.com/KaramelBytes/paperlens/internal/config"
	"github.com/KaramelBytes/paperlens/internal/dataset"
	"github.com/KaramelBytes/paperlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaMaxRows    int
	anaStrict     bool
	anaTop        int
	anaDelimiter  string
	anaSheet      string
	anaSampleRows int
	anaWidth      int
	anaNoProfile  bool
	anaJSON       bool
	anaOutputPath string
	anaStopwords  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Load, clean and summarize a paper-metadata table in the terminal",
	Long: `Reads up to --max-rows rows of a CSV/TSV/XLSX metadata table, profiles the raw columns,
drops rows without an abstract or with an unparseable publish_time, and prints the top journals,
publications per year and most frequent title/abstract words as text charts.

The file defaults to the configured source_path (metadata.csv).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		applyAnalyzeFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		path := c.SourcePath
		if len(args) == 1 {
			path = args[0]
		}
		lopt, err := loadOptions(c)
		if err != nil {
			return err
		}

		var out bytes.Buffer
		if err := runAnalyze(&out, path, lopt, c, reportOptions{JSON: anaJSON, NoProfile: anaNoProfile}); err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		_, err = out.WriteTo(cmd.OutOrStdout())
		return err
	},
}

func applyAnalyzeFlags(cmd *cobra.Command, c *cfgpkg.Global) {
	f := cmd.Flags()
	if f.Changed("max-rows") {
		c.MaxRows = anaMaxRows
	}
	if f.Changed("strict") {
		c.Strict = anaStrict
	}
	if f.Changed("top") {
		c.TopN = anaTop
	}
	if f.Changed("delimiter") {
		c.Delimiter = anaDelimiter
	}
	if f.Changed("sheet") {
		c.Sheet = anaSheet
	}
	if f.Changed("sample-rows") {
		c.SampleRows = anaSampleRows
	}
	if f.Changed("width") {
		c.ChartWidth = anaWidth
	}
	if f.Changed("stopwords") {
		for _, w := range strings.Split(anaStopwords, ",") {
			if w = strings.TrimSpace(w); w != "" {
				c.ExtraStopwords = append(c.ExtraStopwords, w)
			}
		}
	}
}

// loadOptions converts config values into loader options.
func loadOptions(c *cfgpkg.Global) (dataset.LoadOptions, error) {
	opt := dataset.LoadOptions{MaxRows: c.MaxRows, Strict: c.Strict, Sheet: c.Sheet}
	switch c.Delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported delimiter: %q (use ',' | ';' | '|' | 'tab')", c.Delimiter)
	}
	return opt, nil
}

func summaryOptions(c *cfgpkg.Global) analysis.SummaryOptions {
	sw := analysis.DefaultStopwords()
	sw.Add(c.ExtraStopwords...)
	return analysis.SummaryOptions{TopN: c.TopN, Stopwords: sw}
}

// reportOptions selects the report layout.
type reportOptions struct {
	JSON      bool
	NoProfile bool
}

// runAnalyze is the batch pipeline: load, profile, clean, aggregate, present.
func runAnalyze(w io.Writer, path string, lopt dataset.LoadOptions, c *cfgpkg.Global, ro reportOptions) error {
	frame, err := dataset.Load(path, lopt)
	if err != nil {
		return err
	}
	logger.Debug("source loaded", "path", path, "rows", frame.Len(), "skipped", frame.Skipped, "truncated", frame.Truncated)

	sopt := summaryOptions(c)
	if ro.JSON {
		tbl, st, err := dataset.Clean(frame)
		if err != nil {
			return err
		}
		return writeJSON(w, path, frame, tbl, st, sopt)
	}

	fmt.Fprintf(w, "✓ Loaded %s: %d rows x %d columns\n", frame.Name, frame.Len(), len(frame.Header))
	if frame.Skipped > 0 {
		fmt.Fprintf(w, "⚠ Skipped %d malformed rows\n", frame.Skipped)
	}
	if frame.Truncated {
		fmt.Fprintf(w, "⚠ Row cap reached: only the first %d rows were read\n", frame.Len())
	}
	if !ro.NoProfile {
		fmt.Fprintln(w)
		fmt.Fprintln(w, analysis.Profile(frame, c.SampleRows).Markdown())
	}

	tbl, st, err := dataset.Clean(frame)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Cleaned: dropped %d rows without abstract and %d with unparseable publish_time\n",
		st.DroppedNoAbstract, st.DroppedBadDate)
	fmt.Fprintf(w, "✓ Cleaned shape: %d rows x %d columns\n\n", st.Output, len(frame.Header))

	sum := analysis.Summarize(tbl, sopt)
	if sum.Empty() {
		fmt.Fprintln(w, "⚠ No papers left after cleaning; nothing to chart.")
	} else {
		fmt.Fprintf(w, "Analyzing %d papers from %d to %d\n\n", sum.Papers, sum.MinYear, sum.MaxYear)
	}
	r := chart.TextRenderer{Width: c.ChartWidth}
	if err := r.RenderBar(w, chart.FromFrequency("Top Journals", "Number of papers", "Journal", sum.Journals)); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := r.RenderLine(w, chart.FromSeries("Publications by Year", "Year", "Papers", sum.Years)); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := r.RenderBar(w, chart.FromFrequency("Most Frequent Words", "Occurrences", "Word", sum.Words)); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "✓ Analysis complete")
	return nil
}

type analyzeJSON struct {
	Source    string             `json:"source"`
	Rows      int                `json:"rows_loaded"`
	Skipped   int                `json:"rows_skipped"`
	Truncated bool               `json:"truncated"`
	Clean     dataset.CleanStats `json:"clean"`
	Summary   *analysis.Summary  `json:"summary"`
}

func writeJSON(w io.Writer, path string, f *dataset.Frame, tbl *dataset.Table, st dataset.CleanStats, sopt analysis.SummaryOptions) error {
	s, err := utils.PrettyJSON(analyzeJSON{
		Source:    path,
		Rows:      f.Len(),
		Skipped:   f.Skipped,
		Truncated: f.Truncated,
		Clean:     st,
		Summary:   analysis.Summarize(tbl, sopt),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", s)
	return err
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", dataset.DefaultMaxRows, "maximum rows to read from the start of the file")
	analyzeCmd.Flags().BoolVar(&anaStrict, "strict", false, "fail on malformed rows instead of skipping them")
	analyzeCmd.Flags().IntVar(&anaTop, "top", analysis.DefaultTopN, "entries in the journal and word rankings")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default: by extension)")
	analyzeCmd.Flags().StringVar(&anaSheet, "sheet", "", "XLSX: sheet name (default: first sheet)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 10, "sample rows shown in the column profile")
	analyzeCmd.Flags().IntVar(&anaWidth, "width", 60, "width of the text charts in cells")
	analyzeCmd.Flags().BoolVar(&anaNoProfile, "no-profile", false, "skip the raw column profile")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print the results as JSON instead of charts")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report to")
	analyzeCmd.Flags().StringVar(&anaStopwords, "stopwords", "", "comma-separated extra stopwords")
}
