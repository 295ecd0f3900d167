package analysis

import (
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/paperlens/internal/dataset"
)

func rec(title, abstract, journal string, year int) dataset.Record {
	return dataset.Record{Title: title, Abstract: abstract, Journal: journal, Authors: dataset.UnknownAuthor, PublicationYear: year}
}

func TestTopTokens_Scenario(t *testing.T) {
	tbl := &dataset.Table{Records: []dataset.Record{
		rec("The virus spreads.", "THE VIRUS IS NEW.", "J", 2020),
	}}
	got := TopTokens(tbl, 2, NewStopwords("the", "is", "new"))
	want := []CategoryCount{{Value: "virus", Count: 2}, {Value: "spreads", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopTokens=%v, want %v", got, want)
	}
}

func TestTopTokens_Invariants(t *testing.T) {
	tbl := &dataset.Table{Records: []dataset.Record{
		rec("COVID-19 and SARS-CoV-2 in 2020", "We found an ACE2 receptor; it is key. Of to be", "J", 2020),
		rec("Receptor binding", "binding binding of the receptor", "J", 2021),
	}}
	sw := DefaultStopwords()
	got := TopTokens(tbl, 3, sw)
	if len(got) > 3 {
		t.Fatalf("len=%d > 3", len(got))
	}
	for _, kv := range got {
		if len(kv.Value) < MinTokenLen {
			t.Errorf("short token %q", kv.Value)
		}
		if sw.Contains(kv.Value) {
			t.Errorf("stopword %q returned", kv.Value)
		}
		if strings.ToLower(kv.Value) != kv.Value {
			t.Errorf("token not lowercase %q", kv.Value)
		}
	}
	// receptor and binding tie at 3; receptor is seen first
	want := []CategoryCount{{"receptor", 3}, {"binding", 3}, {"sarscov", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTopTokens_TiesKeepFirstSeenOrder(t *testing.T) {
	tbl := &dataset.Table{Records: []dataset.Record{
		rec("zeta alpha", "mu", "J", 2020),
		rec("alpha zeta", "mu", "J", 2020),
	}}
	got := TopTokens(tbl, 10, nil)
	want := []CategoryCount{{"zeta", 2}, {"alpha", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTopTokens_SkipsRecordsWithoutTitle(t *testing.T) {
	f := &dataset.Frame{
		Header: []string{"title", "abstract", "publish_time", "authors", "journal", "source_x", "url"},
		Rows: [][]string{
			{"", "virus virus spreads", "2020", "Doe", "Lancet", "PMC", "u1"},
		},
	}
	tbl, _, err := dataset.Clean(f)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("untitled row should survive cleaning, len=%d", tbl.Len())
	}
	if got := TopTokens(tbl, 10, nil); len(got) != 0 {
		t.Fatalf("untitled row counted: %v", got)
	}

	f.Rows = append(f.Rows, []string{"Bats", "virus in bats", "2021", "Doe", "Lancet", "PMC", "u2"})
	tbl, _, err = dataset.Clean(f)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	want := []CategoryCount{{"bats", 2}, {"virus", 1}}
	if got := TopTokens(tbl, 10, NewStopwords("in")); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("COVID-19: a Novel\tcoronavirus (2019-nCoV)! café")
	want := []string{"covid", "novel", "coronavirus", "ncov", "caf"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize=%v, want %v", got, want)
	}
}

func TestTopCategorical_ExcludesSentinel(t *testing.T) {
	tbl := &dataset.Table{Records: []dataset.Record{
		rec("a", "x", dataset.UnknownJournal, 2020),
		rec("b", "x", dataset.UnknownJournal, 2020),
		rec("c", "x", dataset.UnknownJournal, 2020),
		rec("d", "x", "BMJ", 2020),
		rec("e", "x", "Lancet", 2020),
		rec("f", "x", "Lancet", 2020),
		rec("g", "x", "Nature", 2020),
	}}
	got := TopJournals(tbl, 2)
	want := []CategoryCount{{"Lancet", 2}, {"BMJ", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, kv := range TopCategorical(tbl, dataset.FieldJournal, 0, dataset.UnknownJournal) {
		if kv.Value == dataset.UnknownJournal {
			t.Fatalf("sentinel returned")
		}
	}
	if got := TopCategorical(tbl, dataset.FieldJournal, 0, dataset.UnknownJournal); len(got) != 3 {
		t.Fatalf("default N: len=%d, want 3", len(got))
	}
}

func TestTopCategorical_SkipsEmptyValues(t *testing.T) {
	tbl := &dataset.Table{Records: []dataset.Record{
		{SourceX: "PMC"}, {SourceX: ""}, {SourceX: ""}, {SourceX: "PMC"}, {SourceX: "Elsevier"},
	}}
	got := TopCategorical(tbl, dataset.FieldSourceX, 10, "")
	want := []CategoryCount{{"PMC", 2}, {"Elsevier", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestYearlySeries(t *testing.T) {
	tbl := &dataset.Table{Records: []dataset.Record{
		rec("a", "x", "J", 2021),
		rec("b", "x", "J", 2019),
		rec("c", "x", "J", 2021),
		rec("d", "x", "J", 2015),
	}}
	got := YearlySeries(tbl)
	want := TimeSeries{{2015, 1}, {2019, 1}, {2021, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Total() != tbl.Len() {
		t.Fatalf("total=%d, rows=%d", got.Total(), tbl.Len())
	}
}

func TestEmptyTableYieldsEmptyResults(t *testing.T) {
	for _, tbl := range []*dataset.Table{nil, {}, (&dataset.Table{Records: []dataset.Record{rec("a", "b", "J", 2020)}}).FilterYears(1990, 1991)} {
		s := Summarize(tbl, DefaultSummaryOptions())
		if !s.Empty() || len(s.Journals) != 0 || len(s.Years) != 0 || len(s.Words) != 0 {
			t.Fatalf("expected empty summary, got %+v", s)
		}
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	tbl := &dataset.Table{Records: []dataset.Record{
		rec("Virus transmission", "Transmission of virus in bats", "Virology", 2019),
		rec("Bats and virus", "Reservoir hosts", "Nature", 2020),
		rec("Vaccine", "Vaccine trial transmission", "Virology", 2020),
	}}
	a := Summarize(tbl, DefaultSummaryOptions())
	b := Summarize(tbl, DefaultSummaryOptions())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("summaries differ:\n%+v\n%+v", a, b)
	}
	if a.MinYear != 2019 || a.MaxYear != 2020 || a.Papers != 3 {
		t.Fatalf("unexpected header fields %+v", a)
	}
}
