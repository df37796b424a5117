package main

import (
	"testing"

	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mathfile"
	"github.com/mathkernel/mm/settings"
)

func TestLoadLibraryMissingArchiveIsEmpty(t *testing.T) {
	dir := t.TempDir()
	lib, err := loadLibrary(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lib.Syntax.Rules) != 0 || len(lib.Axioms) != 0 {
		t.Fatalf("expected an empty library, got %+v", lib)
	}
}

func TestSaveThenLoadLibraryRoundTrips(t *testing.T) {
	dir := t.TempDir()
	lib := library.New()
	if _, err := lib.AddSyntax(&mathfile.MathFile{Kind: mathfile.SyntaxFormula, Name: "Implies", SyntaxPattern: "( 𝛼 → 𝛽 )"}); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if err := saveLibrary(dir, lib); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := loadLibrary(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Syntax.Rules) != 1 || got.Syntax.Rules[0].Name != "Implies" {
		t.Fatalf("unexpected reloaded library: %+v", got.Syntax.Rules)
	}
}

func TestLoadSettingsMissingFileIsZeroValueNotPresent(t *testing.T) {
	dir := t.TempDir()
	s, present, err := loadSettings(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if present {
		t.Fatalf("expected no settings file to be reported as not present")
	}
	if s.Color || s.Safe || s.LibPath != "" {
		t.Fatalf("expected a zero-value Settings, got %+v", s)
	}
}

func TestSaveThenLoadSettingsRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s := settings.Settings{Color: true, Safe: false, LibPath: "lib"}
	if err := saveSettings(dir, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, present, err := loadSettings(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !present {
		t.Fatalf("expected the settings file to be reported as present")
	}
	if got.Color != s.Color || got.Safe != s.Safe || got.LibPath != s.LibPath {
		t.Fatalf("got %+v", got)
	}
}
