package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mmerr"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// TestCompileEndToEnd is scenario S1-S3 from spec §8 wired through a
// real directory: a syntax definition, an axiom, and a theorem proven
// by citing it.
func TestCompileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.txt", "# Syntax Definitions\nimplies.mm\n# Axioms\nmp.mm\n# Theorems\nmp-instance.mm\n")
	writeFile(t, dir, "implies.mm", "## Syntax Definition (formula) Implies\n# Syntax\n( 𝛼 → 𝛽 )\n")
	writeFile(t, dir, "mp.mm", "## Axiom mp\n# Hypotheses\n𝛼\n( 𝛼 → 𝛽 )\n# Assertions\n𝛽\n")
	writeFile(t, dir, "mp-instance.mm", "## Theorem mpinstance\n# Hypotheses\na : 𝛼\nb : ( 𝛼 → 𝛽 )\n# Assertions\n𝛽\n# Proof\n1 ; ; a ; 𝛼\n2 ; ; b ; ( 𝛼 → 𝛽 )\n3 ; 1,2 ; mp ; 𝛽\n")

	lib, err := New(dir).Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(lib.Syntax.Rules) != 1 || len(lib.Axioms) != 1 || len(lib.Theorems) != 1 {
		t.Fatalf("unexpected library shape: rules=%d axioms=%d theorems=%d",
			len(lib.Syntax.Rules), len(lib.Axioms), len(lib.Theorems))
	}
}

func TestMissingOrderFile(t *testing.T) {
	dir := t.TempDir()
	_, err := New(dir).Compile()
	e, ok := err.(*mmerr.Error)
	if !ok || e.Kind != mmerr.OrderFileNotFound {
		t.Fatalf("expected OrderFileNotFound, got %v", err)
	}
}

func TestOutOfOrderManifestSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.txt", "# Axioms\nmp.mm\n# Syntax Definitions\nimplies.mm\n# Theorems\n")
	_, err := New(dir).Compile()
	e, ok := err.(*mmerr.Error)
	if !ok || e.Kind != mmerr.InvalidOrderLine {
		t.Fatalf("expected InvalidOrderLine, got %v", err)
	}
}

func TestPathBeforeAnyHeading(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.txt", "implies.mm\n# Syntax Definitions\n# Axioms\n# Theorems\n")
	_, err := New(dir).Compile()
	e, ok := err.(*mmerr.Error)
	if !ok || e.Kind != mmerr.InvalidOrderLine {
		t.Fatalf("expected InvalidOrderLine, got %v", err)
	}
}

func TestIncorrectFileTypeInManifestSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.txt", "# Syntax Definitions\nmp.mm\n# Axioms\n# Theorems\n")
	writeFile(t, dir, "mp.mm", "## Axiom mp\n# Hypotheses\np\n# Assertions\np\n")
	_, err := New(dir).Compile()
	e, ok := err.(*mmerr.Error)
	if !ok || e.Kind != mmerr.IncorrectFileType {
		t.Fatalf("expected IncorrectFileType, got %v", err)
	}
}

// TestAddSyntaxIncremental exercises the CLI's `add_sd` path: a single
// file admitted against an existing library, with no order.txt
// involved at all.
func TestAddSyntaxIncremental(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "implies.mm", "## Syntax Definition (formula) Implies\n# Syntax\n( 𝛼 → 𝛽 )\n")

	rule, err := New(dir).AddSyntax(library.New(), "implies.mm")
	if err != nil {
		t.Fatalf("add_sd: %v", err)
	}
	if rule.Name != "Implies" {
		t.Fatalf("got rule name %q", rule.Name)
	}
}
