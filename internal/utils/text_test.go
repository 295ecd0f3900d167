package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/paperlens/internal/utils"
)

func TestClip(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "virus", 10, "virus"},
		{"cut", "coronavirus disease", 10, "coronav..."},
		{"folds whitespace", "a\n\tb", 10, "a b"},
		{"zero", "abc", 0, ""},
		{"wide runes", "新型冠状病毒", 6, "新..."},
	}
	for _, c := range cases {
		if got := utils.Clip(c.in, c.width); got != c.want {
			t.Errorf("%s: Clip(%q,%d)=%q, want %q", c.name, c.in, c.width, got, c.want)
		}
	}
}

func TestPadKeepsCellWidth(t *testing.T) {
	for _, s := range []string{"", "Lancet", "新型冠状病毒肺炎", "a very long journal name indeed"} {
		if w := utils.Width(utils.PadRight(s, 12)); w != 12 {
			t.Errorf("PadRight(%q) width=%d", s, w)
		}
		if w := utils.Width(utils.PadLeft(s, 12)); w != 12 {
			t.Errorf("PadLeft(%q) width=%d", s, w)
		}
	}
}

func TestSafeWriteFileCreatesParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := utils.SafeWriteFile(p, []byte("top_n: 5\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "top_n: 5\n" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
