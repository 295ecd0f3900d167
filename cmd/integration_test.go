package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/paperlens/internal/dataset"
	"github.com/spf13/pflag"
)

const metadataCSV = `cord_uid,title,abstract,publish_time,authors,journal,source_x,url
a,Bat coronavirus reservoirs,Coronavirus reservoirs in bats,2019-05-01,Smith J,Virology,PMC,u1
b,Receptor binding domain,Receptor binding of spike protein,2020-02-11,,Nature,PMC,u2
c,Spike protein structure,Spike structure resolved,2020,Lee K,Nature,Elsevier,u3
d,Vaccine trial,Vaccine trial outcomes,2021-07-01,Doe A,,medRxiv,u4
e,No abstract here,,2020-01-01,X,Lancet,PMC,u5
`

// resetFlags restores defaults on every command; cobra keeps flag state
// between Execute calls in one process.
func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
		for _, sub := range c.Commands() {
			reset(sub.Flags())
		}
	}
	cfg = nil
}

// execCmd runs the root command with args and returns its stdout.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// runCmd is a helper to execute the root command with args, failing on error.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeMetadata(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "metadata.csv")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(metadataCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestCLI_AnalyzeReport(t *testing.T) {
	home := isolateHome(t)
	p := writeMetadata(t, home)

	out := runCmd(t, "analyze", p, "--width", "20")
	for _, want := range []string{
		"✓ Loaded metadata.csv: 5 rows x 8 columns",
		"[DATASET SUMMARY]",
		"dropped 1 rows without abstract and 0 with unparseable publish_time",
		"✓ Cleaned shape: 4 rows x 8 columns",
		"Analyzing 4 papers from 2019 to 2021",
		"Top Journals",
		"Publications by Year",
		"Most Frequent Words",
		"✓ Analysis complete",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, dataset.UnknownJournal+" ") {
		t.Errorf("sentinel journal should not be ranked:\n%s", out)
	}
}

func TestCLI_AnalyzeJSON(t *testing.T) {
	home := isolateHome(t)
	p := writeMetadata(t, home)

	out := runCmd(t, "analyze", p, "--json", "--top", "1")
	var got struct {
		Rows    int `json:"rows_loaded"`
		Summary struct {
			Papers   int `json:"papers"`
			Journals []struct {
				Value string `json:"value"`
				Count int    `json:"count"`
			} `json:"top_journals"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Rows != 5 || got.Summary.Papers != 4 {
		t.Fatalf("rows=%d papers=%d", got.Rows, got.Summary.Papers)
	}
	if len(got.Summary.Journals) != 1 || got.Summary.Journals[0].Value != "Nature" {
		t.Fatalf("unexpected journals %+v", got.Summary.Journals)
	}
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home := isolateHome(t)

	_, err := execCmd(t, "analyze", filepath.Join(home, "missing.csv"))
	if !errors.Is(err, dataset.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}

	bad := filepath.Join(home, "bad.csv")
	if err := os.WriteFile(bad, []byte("title,publish_time\nx,2020\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = execCmd(t, "analyze", bad)
	if !errors.Is(err, dataset.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}

	ragged := filepath.Join(home, "ragged.csv")
	if err := os.WriteFile(ragged, []byte(metadataCSV+"f,T,A,2020,X,J,PMC,u,extra\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execCmd(t, "analyze", ragged, "--strict"); !errors.Is(err, dataset.ErrSourceUnreadable) {
		t.Fatalf("expected ErrSourceUnreadable in strict mode, got %v", err)
	}
	out := runCmd(t, "analyze", ragged, "--no-profile")
	if !strings.Contains(out, "⚠ Skipped 1 malformed rows") {
		t.Fatalf("tolerant mode should report the skip:\n%s", out)
	}
}

func TestCLI_AnalyzeBatch(t *testing.T) {
	home := isolateHome(t)
	writeMetadata(t, filepath.Join(home, "d1"))
	writeMetadata(t, filepath.Join(home, "d2"))
	outDir := filepath.Join(home, "reports")

	out := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metadata.csv"), "--out-dir", outDir, "--no-profile")
	if !strings.Contains(out, "[2/2] Processing metadata.csv...") {
		t.Fatalf("missing progress:\n%s", out)
	}
	for _, name := range []string{"metadata.report.txt", "metadata__2.report.txt"} {
		b, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("missing report %s: %v", name, err)
		}
		if !strings.Contains(string(b), "Analyzing 4 papers from 2019 to 2021") {
			t.Fatalf("%s has unexpected body:\n%s", name, b)
		}
		if strings.Contains(string(b), "[DATASET SUMMARY]") {
			t.Fatalf("%s should skip the profile", name)
		}
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolateHome(t)
	cfgPath := filepath.Join(home, "conf", "paperlens.yaml")

	runCmd(t, "--config", cfgPath, "config", "set", "top_n", "7")
	runCmd(t, "--config", cfgPath, "config", "set", "extra_stopwords", "patients, cells")
	out := runCmd(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(out, "top_n: 7") || !strings.Contains(out, "extra_stopwords: patients,cells") {
		t.Fatalf("unexpected config show:\n%s", out)
	}

	if _, err := execCmd(t, "--config", cfgPath, "config", "set", "top_n", "0"); err == nil {
		t.Fatalf("expected validation error for top_n=0")
	}
	if _, err := execCmd(t, "--config", cfgPath, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
