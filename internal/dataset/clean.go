package dataset

import "strings"

// CleanStats records the row count after each cleaning step.
type CleanStats struct {
	Input             int `json:"input"`
	DroppedNoAbstract int `json:"dropped_no_abstract"`
	DroppedBadDate    int `json:"dropped_bad_date"`
	Output            int `json:"output"`
}

// Clean projects f onto PaperSchema, fills sentinel values, drops rows
// without an abstract or with an unparseable publish_time and derives the
// publication year. It never adds rows and never fails on row content.
func Clean(f *Frame) (*Table, CleanStats, error) {
	var st CleanStats
	if f == nil {
		return &Table{}, st, nil
	}
	idx, err := PaperSchema.Resolve(f.Header)
	if err != nil {
		return nil, st, err
	}
	st.Input = len(f.Rows)

	cell := func(row []string, field Field) (string, bool) {
		i := idx[field]
		if i >= len(row) || IsMissing(row[i]) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	t := &Table{Records: make([]Record, 0, len(f.Rows))}
	for _, row := range f.Rows {
		var r Record
		var hasTitle bool
		r.Title, hasTitle = cell(row, FieldTitle)
		r.TitleMissing = !hasTitle
		r.PublishTime, _ = cell(row, FieldPublishTime)
		r.SourceX, _ = cell(row, FieldSourceX)
		r.URL, _ = cell(row, FieldURL)

		// Sentinel fill happens before any drop.
		var ok bool
		if r.Authors, ok = cell(row, FieldAuthors); !ok {
			r.Authors = UnknownAuthor
		}
		if r.Journal, ok = cell(row, FieldJournal); !ok {
			r.Journal = UnknownJournal
		}

		abstract, ok := cell(row, FieldAbstract)
		if !ok {
			st.DroppedNoAbstract++
			continue
		}
		r.Abstract = abstract

		published, ok := ParseDate(r.PublishTime)
		if !ok {
			st.DroppedBadDate++
			continue
		}
		r.Published = published
		r.PublicationYear = published.Year()
		if hasTitle {
			r.FullText = r.Title + " " + r.Abstract
		}
		t.Records = append(t.Records, r)
	}
	st.Output = len(t.Records)
	return t, st, nil
}

// LoadAndClean runs Load followed by Clean.
func LoadAndClean(path string, opt LoadOptions) (*Frame, *Table, CleanStats, error) {
	f, err := Load(path, opt)
	if err != nil {
		return nil, nil, CleanStats{}, err
	}
	t, st, err := Clean(f)
	if err != nil {
		return f, nil, st, err
	}
	return f, t, st, nil
}
