package analysis

import (
	"sort"

	"github.com/KaramelBytes/paperlens/internal/dataset"
)

// DefaultTopN is used when a non-positive N is requested.
const DefaultTopN = 10

// CategoryCount is one (key, count) pair of a frequency result.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// YearCount is one point of a time series.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// TimeSeries is ordered by year ascending and holds only years present in the data.
type TimeSeries []YearCount

// Total returns the sum of all counts.
func (ts TimeSeries) Total() int {
	n := 0
	for _, p := range ts {
		n += p.Count
	}
	return n
}

// counter tallies keys and remembers the order in which they were first seen.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter { return &counter{counts: make(map[string]int)} }

func (c *counter) add(k string) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// top returns the n highest counts; equal counts keep first-seen order.
func (c *counter) top(n int) []CategoryCount {
	if n <= 0 {
		n = DefaultTopN
	}
	out := make([]CategoryCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, CategoryCount{Value: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopCategorical counts distinct values of field, never counting sentinel or
// empty values, and returns the n most frequent.
func TopCategorical(t *dataset.Table, field dataset.Field, n int, sentinel string) []CategoryCount {
	c := newCounter()
	if t != nil {
		for i := range t.Records {
			v := t.Records[i].Value(field)
			if v == "" || v == sentinel {
				continue
			}
			c.add(v)
		}
	}
	return c.top(n)
}

// TopJournals is TopCategorical over journal, excluding the unknown-journal sentinel.
func TopJournals(t *dataset.Table, n int) []CategoryCount {
	return TopCategorical(t, dataset.FieldJournal, n, dataset.UnknownJournal)
}

// YearlySeries counts records per publication year.
func YearlySeries(t *dataset.Table) TimeSeries {
	if t.Len() == 0 {
		return TimeSeries{}
	}
	counts := map[int]int{}
	for _, r := range t.Records {
		counts[r.PublicationYear]++
	}
	out := make(TimeSeries, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopTokens counts vocabulary over each record's title and abstract and
// returns the n most frequent tokens not in stopwords. Records without a
// title are skipped whole.
func TopTokens(t *dataset.Table, n int, stopwords Stopwords) []CategoryCount {
	c := newCounter()
	if t != nil {
		for i := range t.Records {
			r := &t.Records[i]
			if r.TitleMissing {
				continue
			}
			for _, tok := range Tokenize(r.Title + " " + r.Abstract) {
				if stopwords.Contains(tok) {
					continue
				}
				c.add(tok)
			}
		}
	}
	return c.top(n)
}
