package analysis

import "github.com/KaramelBytes/paperlens/internal/dataset"

// SummaryOptions controls the three analyses.
type SummaryOptions struct {
	TopN      int
	Stopwords Stopwords
}

// DefaultSummaryOptions returns top-10 results with the built-in stopwords.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{TopN: DefaultTopN, Stopwords: DefaultStopwords()}
}

// Summary bundles the analyses of one (possibly year-filtered) table.
type Summary struct {
	Papers   int             `json:"papers"`
	MinYear  int             `json:"min_year,omitempty"`
	MaxYear  int             `json:"max_year,omitempty"`
	Journals []CategoryCount `json:"top_journals"`
	Years    TimeSeries      `json:"publications_by_year"`
	Words    []CategoryCount `json:"top_words"`
}

// Empty reports whether there was nothing to analyze.
func (s *Summary) Empty() bool { return s == nil || s.Papers == 0 }

// Summarize runs TopJournals, YearlySeries and TopTokens over t.
func Summarize(t *dataset.Table, opt SummaryOptions) *Summary {
	s := &Summary{
		Papers:   t.Len(),
		Journals: TopJournals(t, opt.TopN),
		Years:    YearlySeries(t),
		Words:    TopTokens(t, opt.TopN, opt.Stopwords),
	}
	if lo, hi, ok := t.YearBounds(); ok {
		s.MinYear, s.MaxYear = lo, hi
	}
	return s
}
