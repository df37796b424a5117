package verify

import (
	"testing"

	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mathfile"
	"github.com/mathkernel/mm/mmerr"
)

func newLibWithImpliesAndMP(t *testing.T) *library.Library {
	t.Helper()
	l := library.New()
	if _, err := l.AddSyntax(&mathfile.MathFile{Kind: mathfile.SyntaxFormula, Name: "Implies", SyntaxPattern: "( 𝛼 → 𝛽 )"}); err != nil {
		t.Fatalf("admit Implies: %v", err)
	}
	if _, err := l.AddAxiom(&mathfile.MathFile{Name: "mp", Hypotheses: []string{"𝛼", "( 𝛼 → 𝛽 )"}, Assertions: []string{"𝛽"}}); err != nil {
		t.Fatalf("add mp: %v", err)
	}
	return l
}

// TestModusPonensTheoremVerifies is scenario S3 from spec §8: a
// two-hypothesis theorem proven by a single mp citation.
func TestModusPonensTheoremVerifies(t *testing.T) {
	l := newLibWithImpliesAndMP(t)
	mf := &mathfile.MathFile{
		Name: "mp-instance",
		NamedHypotheses: []mathfile.NamedHyp{
			{Name: "a", Formula: "𝛼"},
			{Name: "b", Formula: "( 𝛼 → 𝛽 )"},
		},
		Assertions: []string{"𝛽"},
		ProofLines: []mathfile.ProofLine{
			{Index: 1, Uses: nil, Citation: "a", Formula: "𝛼"},
			{Index: 2, Uses: nil, Citation: "b", Formula: "( 𝛼 → 𝛽 )"},
			{Index: 3, Uses: []int{1, 2}, Citation: "mp", Formula: "𝛽"},
		},
	}
	th, err := Theorem(l, mf)
	if err != nil {
		t.Fatalf("expected theorem to verify: %v", err)
	}
	if len(th.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(th.Steps))
	}
	if th.Steps[2].Citation.Kind != library.CiteAxiom {
		t.Fatalf("expected step 3 to cite an axiom, got %v", th.Steps[2].Citation.Kind)
	}
	if len(l.Theorems) != 1 {
		t.Fatalf("expected theorem to be committed")
	}
}

// TestInaccessibleHypothesis is scenario S4 from spec §8: a proof
// step citing a later/nonexistent step index fails with
// InaccessibleHypothesis, and the theorem is not committed.
func TestInaccessibleHypothesis(t *testing.T) {
	l := newLibWithImpliesAndMP(t)
	mf := &mathfile.MathFile{
		Name: "bad-instance",
		NamedHypotheses: []mathfile.NamedHyp{
			{Name: "a", Formula: "𝛼"},
			{Name: "b", Formula: "( 𝛼 → 𝛽 )"},
		},
		Assertions: []string{"𝛽"},
		ProofLines: []mathfile.ProofLine{
			{Index: 1, Uses: nil, Citation: "a", Formula: "𝛼"},
			{Index: 2, Uses: nil, Citation: "b", Formula: "( 𝛼 → 𝛽 )"},
			{Index: 3, Uses: []int{0, 2}, Citation: "mp", Formula: "𝛽"},
		},
	}
	_, err := Theorem(l, mf)
	e, ok := err.(*mmerr.Error)
	if !ok || e.Kind != mmerr.InaccessibleHypothesis {
		t.Fatalf("expected InaccessibleHypothesis, got %v", err)
	}
	if len(l.Theorems) != 0 {
		t.Fatalf("theorem must not commit on verification failure")
	}
}

func TestMissingProofLineOutOfOrder(t *testing.T) {
	l := newLibWithImpliesAndMP(t)
	mf := &mathfile.MathFile{
		Name:            "skip",
		NamedHypotheses: []mathfile.NamedHyp{{Name: "a", Formula: "𝛼"}},
		Assertions:      []string{"𝛼"},
		ProofLines: []mathfile.ProofLine{
			{Index: 2, Citation: "a", Formula: "𝛼"},
		},
	}
	_, err := Theorem(l, mf)
	e, ok := err.(*mmerr.Error)
	if !ok || e.Kind != mmerr.MissingProofLine {
		t.Fatalf("expected MissingProofLine, got %v", err)
	}
}

func TestIncorrectNumberOfHypothesis(t *testing.T) {
	l := newLibWithImpliesAndMP(t)
	mf := &mathfile.MathFile{
		Name: "wrong-arity",
		NamedHypotheses: []mathfile.NamedHyp{
			{Name: "a", Formula: "𝛼"},
			{Name: "b", Formula: "( 𝛼 → 𝛽 )"},
		},
		Assertions: []string{"𝛽"},
		ProofLines: []mathfile.ProofLine{
			{Index: 1, Citation: "a", Formula: "𝛼"},
			{Index: 2, Citation: "b", Formula: "( 𝛼 → 𝛽 )"},
			{Index: 3, Uses: []int{1}, Citation: "mp", Formula: "𝛽"},
		},
	}
	_, err := Theorem(l, mf)
	e, ok := err.(*mmerr.Error)
	if !ok || e.Kind != mmerr.IncorrectNumberOfHypothesis {
		t.Fatalf("expected IncorrectNumberOfHypothesis, got %v", err)
	}
}

func TestAssertionNotProven(t *testing.T) {
	l := newLibWithImpliesAndMP(t)
	mf := &mathfile.MathFile{
		Name:            "unfinished",
		NamedHypotheses: []mathfile.NamedHyp{{Name: "a", Formula: "𝛼"}},
		Assertions:      []string{"𝛽"},
		ProofLines: []mathfile.ProofLine{
			{Index: 1, Citation: "a", Formula: "𝛼"},
		},
	}
	_, err := Theorem(l, mf)
	e, ok := err.(*mmerr.Error)
	if !ok || e.Kind != mmerr.AssertionNotProven {
		t.Fatalf("expected AssertionNotProven, got %v", err)
	}
}

// TestMultiAssertionAxiomSubIndexCitation is a smoke test that ParseCitation's sub-index
// path reaches SchemaOf correctly through an axiom with two
// assertions.
func TestMultiAssertionAxiomSubIndexCitation(t *testing.T) {
	l := library.New()
	if _, err := l.AddSyntax(&mathfile.MathFile{Kind: mathfile.SyntaxFormula, Name: "Implies", SyntaxPattern: "( 𝛼 → 𝛽 )"}); err != nil {
		t.Fatalf("admit Implies: %v", err)
	}
	if _, err := l.AddAxiom(&mathfile.MathFile{
		Name:       "andElim",
		Hypotheses: []string{},
		Assertions: []string{"𝛼", "𝛽"},
	}); err != nil {
		t.Fatalf("add andElim: %v", err)
	}
	mf := &mathfile.MathFile{
		Name:       "cite-second",
		Assertions: []string{"𝛽"},
		ProofLines: []mathfile.ProofLine{
			{Index: 1, Citation: "andElim.1", Formula: "𝛽"},
		},
	}
	th, err := Theorem(l, mf)
	if err != nil {
		t.Fatalf("expected success citing andElim.1: %v", err)
	}
	if th.Steps[0].Citation.SubIndex != 1 {
		t.Fatalf("expected SubIndex 1, got %d", th.Steps[0].Citation.SubIndex)
	}
}
