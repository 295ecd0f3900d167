package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/paperlens/internal/dataset"
	"github.com/KaramelBytes/paperlens/internal/utils"
)

// Report describes a loaded frame column by column, with a few sample rows.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
}

// ColumnSummary captures inferred type and fill statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text|empty
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	// Categorical top values
	TopValues    []CategoryCount
	ExampleTexts []string
}

// maxCategoryLen bounds which values are tracked as categories.
const maxCategoryLen = 64

// Profile summarizes every column of f. sampleRows <= 0 defaults to 5.
func Profile(f *dataset.Frame, sampleRows int) *Report {
	rep := &Report{}
	if f == nil {
		return rep
	}
	rep.Name = f.Name
	rep.Rows = f.Len()
	if sampleRows <= 0 {
		sampleRows = 5
	}

	type colAcc struct {
		nonNil, miss          int
		numCnt, dtCnt, txtCnt int
		n                     int
		sum, min, max         float64
		cats                  map[string]int
		exText                []string
	}
	cols := make([]*colAcc, len(f.Header))
	for i := range cols {
		cols[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: map[string]int{}}
	}

	for ri, row := range f.Rows {
		if ri < sampleRows {
			rep.Samples = append(rep.Samples, row)
		}
		for j, c := range cols {
			v := ""
			if j < len(row) {
				v = row[j]
			}
			if dataset.IsMissing(v) {
				c.miss++
				continue
			}
			v = strings.TrimSpace(v)
			c.nonNil++
			if x, err := strconv.ParseFloat(v, 64); err == nil {
				c.numCnt++
				c.n++
				c.sum += x
				c.min = math.Min(c.min, x)
				c.max = math.Max(c.max, x)
				continue
			}
			if _, ok := dataset.ParseDate(v); ok {
				c.dtCnt++
				continue
			}
			c.txtCnt++
			if len(c.cats) <= 10000 && len(v) <= maxCategoryLen {
				c.cats[v]++
			}
			if len(c.exText) < 3 {
				c.exText = append(c.exText, v)
			}
		}
	}

	rep.Cols = make([]ColumnSummary, 0, len(cols))
	for j, c := range cols {
		s := ColumnSummary{Name: f.Header[j], NonNull: c.nonNil, Missing: c.miss}
		switch {
		case c.nonNil == 0:
			s.Kind = "empty"
		case c.numCnt >= c.dtCnt && c.numCnt >= c.txtCnt:
			s.Kind = "numeric"
			s.Min, s.Max, s.Mean = c.min, c.max, c.sum/float64(c.n)
		case c.dtCnt >= c.txtCnt:
			s.Kind = "datetime"
		case len(c.cats) > 0 && len(c.cats)*2 <= c.txtCnt:
			// values repeat often enough to be a category
			s.Kind = "categorical"
			tops := make([]CategoryCount, 0, len(c.cats))
			for k, v := range c.cats {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(i, j int) bool {
				if tops[i].Count == tops[j].Count {
					return tops[i].Value < tops[j].Value
				}
				return tops[i].Count > tops[j].Count
			})
			if len(tops) > 5 {
				tops = tops[:5]
			}
			s.TopValues = tops
			s.Unique = len(c.cats)
		default:
			s.Kind = "text"
			s.ExampleTexts = c.exText
		}
		rep.Cols = append(rep.Cols, s)
	}

	if f.Truncated {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("row cap reached: only the first %d rows were loaded", f.Len()))
	}
	if f.Skipped > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("skipped %d malformed rows", f.Skipped))
	}
	return rep
}

// Markdown renders a compact report for terminal output.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Shape: %d rows and %d columns\n\n", r.Rows, len(r.Cols)))

	b.WriteString("[COLUMNS]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" - min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
		case "categorical":
			b.WriteString(" - top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		case "text":
			if len(c.ExampleTexts) > 0 {
				b.WriteString(" - e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(utils.Clip(ex, 40)))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[FIRST ROWS]\n| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n|")
		for range r.Cols {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				b.WriteString(safeVal(utils.Clip(val, 30)))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
