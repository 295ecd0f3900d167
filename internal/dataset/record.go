package dataset

import "time"

// Sentinels substituted for missing optional categorical values.
const (
	UnknownAuthor  = "Unknown Author"
	UnknownJournal = "Unknown Journal"
)

// Record is one paper's metadata row. Fields missing in the source are empty
// strings except Authors and Journal, which carry the sentinels after cleaning.
// TitleMissing marks a row whose title cell was absent; such rows have no
// FullText and take no part in word counts.
type Record struct {
	Title       string `json:"title"`
	Abstract    string `json:"abstract"`
	PublishTime string `json:"publish_time"`
	Authors     string `json:"authors"`
	Journal     string `json:"journal"`
	SourceX     string `json:"source_x"`
	URL         string `json:"url"`

	Published       time.Time `json:"published"`
	PublicationYear int       `json:"publication_year"`
	FullText        string    `json:"-"`
	TitleMissing    bool      `json:"-"`
}

// Value returns the string value of a schema field.
func (r *Record) Value(f Field) string {
	switch f {
	case FieldTitle:
		return r.Title
	case FieldAbstract:
		return r.Abstract
	case FieldPublishTime:
		return r.PublishTime
	case FieldAuthors:
		return r.Authors
	case FieldJournal:
		return r.Journal
	case FieldSourceX:
		return r.SourceX
	case FieldURL:
		return r.URL
	}
	return ""
}

// Table is an ordered sequence of cleaned records.
type Table struct {
	Records []Record
}

// Len returns the number of records; a nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Clone returns an independent copy. Record holds only value fields, so a
// slice copy is a deep copy.
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}
	recs := make([]Record, len(t.Records))
	copy(recs, t.Records)
	return &Table{Records: recs}
}

// FilterYears returns a new table holding records with minYear <= year <= maxYear.
func (t *Table) FilterYears(minYear, maxYear int) *Table {
	out := &Table{}
	if t == nil {
		return out
	}
	for _, r := range t.Records {
		if r.PublicationYear >= minYear && r.PublicationYear <= maxYear {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Head returns up to n leading records.
func (t *Table) Head(n int) []Record {
	if t == nil || n <= 0 {
		return nil
	}
	if n > len(t.Records) {
		n = len(t.Records)
	}
	out := make([]Record, n)
	copy(out, t.Records[:n])
	return out
}

// YearBounds returns the smallest and largest publication year; ok is false
// for an empty table.
func (t *Table) YearBounds() (minYear, maxYear int, ok bool) {
	if t.Len() == 0 {
		return 0, 0, false
	}
	minYear, maxYear = t.Records[0].PublicationYear, t.Records[0].PublicationYear
	for _, r := range t.Records[1:] {
		if r.PublicationYear < minYear {
			minYear = r.PublicationYear
		}
		if r.PublicationYear > maxYear {
			maxYear = r.PublicationYear
		}
	}
	return minYear, maxYear, true
}
