package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAPERLENS_TOP_N", "7")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.SourcePath != DefaultSourcePath || c.MaxRows != 50000 || c.ListenAddr != DefaultListenAddr {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.TopN != 7 {
		t.Fatalf("env override not applied: top_n=%d", c.TopN)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	c.SourcePath = "/data/cord19/metadata.csv"
	c.ExtraStopwords = []string{"patients", "cells"}
	c.LogLevel = "debug"
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.SourcePath != c.SourcePath || got.LogLevel != "debug" || len(got.ExtraStopwords) != 2 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("top_n: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestValidate_ReportsFields(t *testing.T) {
	c := &Global{SourcePath: "m.csv", TopN: 0, ChartWidth: 60, ListenAddr: DefaultListenAddr, SessionTTLMin: 30, LogLevel: "loud"}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, f := range []string{"TopN", "LogLevel"} {
		if !strings.Contains(err.Error(), f) {
			t.Errorf("error %q does not mention %s", err, f)
		}
	}
}
