package mathfile

import (
	"strings"
	"testing"

	"github.com/mathkernel/mm/mmerr"
)

func TestParseSyntaxFormula(t *testing.T) {
	src := "## Syntax Definition (formula) Implies\n# Syntax\n( 𝛼 → 𝛽 )\n"
	mf, err := Parse("impl.mf", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mf.Kind != SyntaxFormula || mf.Name != "Implies" {
		t.Fatalf("got %+v", mf)
	}
	if strings.TrimSpace(mf.SyntaxPattern) == "" {
		t.Fatalf("expected non-empty syntax pattern")
	}
}

func TestParseSyntaxWithDefinition(t *testing.T) {
	src := "## Syntax Definition (formula) Neg\n# Syntax\n¬ 𝛼\n# Definition\n( 𝛼 → ⊥ )\n"
	mf, err := Parse("neg.mf", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mf.HasDefinition {
		t.Fatalf("expected HasDefinition")
	}
}

func TestParseAxiom(t *testing.T) {
	src := "## Axiom MP\n# Hypotheses\n𝛼\n( 𝛼 → 𝛽 )\n# Assertions\n𝛽\n"
	mf, err := Parse("mp.mf", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mf.Hypotheses) != 2 || len(mf.Assertions) != 1 {
		t.Fatalf("got %+v", mf)
	}
}

func TestParseTheorem(t *testing.T) {
	src := "## Theorem Test\n" +
		"# Hypotheses\n" +
		"a : p\n" +
		"b : ( p → q )\n" +
		"# Assertions\n" +
		"q\n" +
		"# Proof\n" +
		"1 ; ; a ; p\n" +
		"2 ; ; b ; ( p → q )\n" +
		"3 ; 1,2 ; MP ; q\n"
	mf, err := Parse("test.mf", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mf.NamedHypotheses) != 2 || len(mf.ProofLines) != 3 {
		t.Fatalf("got %+v", mf)
	}
	if mf.ProofLines[2].Uses[0] != 1 || mf.ProofLines[2].Uses[1] != 2 {
		t.Fatalf("got uses %v", mf.ProofLines[2].Uses)
	}
}

func TestInvalidHeader(t *testing.T) {
	_, err := Parse("bad.mf", "## Nonsense Foo\n# Syntax\nx\n")
	if err == nil {
		t.Fatalf("expected error")
	}
	var e *mmerr.Error
	if !asError(err, &e) || e.Kind != mmerr.InvalidHeader {
		t.Fatalf("expected InvalidHeader, got %v", err)
	}
}

func TestDuplicateSectionOrder(t *testing.T) {
	src := "## Axiom Dup\n# Assertions\nx\n# Assertions\ny\n"
	_, err := Parse("dup.mf", src)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestMultilineSyntaxSection(t *testing.T) {
	src := "## Syntax Definition (formula) Bad\n# Syntax\nx\ny\n"
	_, err := Parse("bad.mf", src)
	var e *mmerr.Error
	if !asError(err, &e) || e.Kind != mmerr.MultilineSection {
		t.Fatalf("expected MultilineSection, got %v", err)
	}
}

func asError(err error, target **mmerr.Error) bool {
	e, ok := err.(*mmerr.Error)
	if ok {
		*target = e
	}
	return ok
}
