package dataset

import "strings"

// Kind is the semantic type of a schema column.
type Kind int

const (
	// Text must be present for a row to be analyzed.
	Text Kind = iota
	// OptionalText may be missing; missing values are kept or sentinel-filled.
	OptionalText
	// Date is parsed leniently into a calendar date.
	Date
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case OptionalText:
		return "optional text"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// Field names a column of the paper schema.
type Field string

const (
	FieldTitle       Field = "title"
	FieldAbstract    Field = "abstract"
	FieldPublishTime Field = "publish_time"
	FieldAuthors     Field = "authors"
	FieldJournal     Field = "journal"
	FieldSourceX     Field = "source_x"
	FieldURL         Field = "url"
)

// Column is one entry of a Schema.
type Column struct {
	Name Field
	Kind Kind
}

// Schema is an ordered, fixed mapping from column name to semantic type.
type Schema []Column

// PaperSchema is the column subset every analysis works on.
var PaperSchema = Schema{
	{Name: FieldTitle, Kind: OptionalText},
	{Name: FieldAbstract, Kind: Text},
	{Name: FieldPublishTime, Kind: Date},
	{Name: FieldAuthors, Kind: OptionalText},
	{Name: FieldJournal, Kind: OptionalText},
	{Name: FieldSourceX, Kind: OptionalText},
	{Name: FieldURL, Kind: OptionalText},
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = string(c.Name)
	}
	return out
}

// Resolve maps every schema column to its index in header. Header names are
// compared after trimming spaces, quotes and a UTF-8 BOM. A *SchemaError
// listing the absent columns is returned if any is missing.
func (s Schema) Resolve(header []string) (map[Field]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}
	idx := make(map[Field]int, len(s))
	var missing []string
	for _, c := range s {
		i, ok := pos[string(c.Name)]
		if !ok {
			missing = append(missing, string(c.Name))
			continue
		}
		idx[c.Name] = i
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return idx, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	h = strings.ReplaceAll(h, `"`, "")
	return h
}

// naLiterals are cell values read as missing, mirroring common dataframe readers.
var naLiterals = map[string]struct{}{
	"NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "<NA>": {},
}

// IsMissing reports whether a raw cell value counts as absent: an empty cell
// or an exact NA literal. Whitespace-only cells are present values.
func IsMissing(v string) bool {
	if v == "" {
		return true
	}
	_, ok := naLiterals[v]
	return ok
}
