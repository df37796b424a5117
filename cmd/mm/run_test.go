package main

import (
	"strings"
	"testing"

	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mathfile"
	"github.com/mathkernel/mm/mmerr"
	"github.com/mathkernel/mm/settings"
	"github.com/mathkernel/mm/termcolor"
)

func TestHintFindsClosestRuleOnUncompilable(t *testing.T) {
	lib := library.New()
	if _, err := lib.AddSyntax(&mathfile.MathFile{Kind: mathfile.SyntaxFormula, Name: "Neg", SyntaxPattern: "¬ 𝛼"}); err != nil {
		t.Fatalf("admit: %v", err)
	}
	err := mmerr.NewUncompilable("¬F0")
	got := hint(err, lib, termcolor.Disabled())
	if !strings.Contains(got, "Neg") {
		t.Fatalf("expected a hint naming Neg, got %q", got)
	}
}

func TestHintEmptyForOtherErrorKinds(t *testing.T) {
	lib := library.New()
	err := mmerr.NewMissingProofLine(2)
	if got := hint(err, lib, termcolor.Disabled()); got != "" {
		t.Fatalf("expected no hint, got %q", got)
	}
}

func TestHintEmptyWithoutLibrary(t *testing.T) {
	err := mmerr.NewUncompilable("¬F0")
	if got := hint(err, nil, termcolor.Disabled()); got != "" {
		t.Fatalf("expected no hint without a library, got %q", got)
	}
}

func TestSettingsIntroReportsAllRecognizedValues(t *testing.T) {
	s := settings.Settings{Color: true, LibPath: "lib", Safe: false, Policy: "Theorems > 0"}
	got := settingsIntro(s)
	for _, want := range []string{"color: true", `lib_path: "lib"`, "safe: false", "policy: Theorems > 0"} {
		if !strings.Contains(got, want) {
			t.Fatalf("settingsIntro() = %q, want it to contain %q", got, want)
		}
	}
}

func TestSettingsIntroOmitsEmptyPolicy(t *testing.T) {
	s := settings.Settings{Color: true, LibPath: "lib", Safe: false}
	if got := settingsIntro(s); strings.Contains(got, "policy:") {
		t.Fatalf("settingsIntro() = %q, expected no policy line when Policy is unset", got)
	}
}

func TestFlagDescriptionReportsValueAndText(t *testing.T) {
	s := settings.Settings{Safe: true}
	got, err := flagDescription(s, "SAFE")
	if err != nil {
		t.Fatalf("flagDescription: %v", err)
	}
	if !strings.Contains(got, "SAFE: true") || !strings.Contains(got, "safe mode") {
		t.Fatalf("flagDescription() = %q, missing value or description", got)
	}
}

func TestFlagDescriptionUnknownKeyIsError(t *testing.T) {
	if _, err := flagDescription(settings.Settings{}, "NOPE"); err == nil {
		t.Fatal("expected an error for an unrecognized key")
	}
}
