package archive

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mathfile"
	"github.com/mathkernel/mm/verify"
)

func buildSampleLibrary(t *testing.T) *library.Library {
	t.Helper()
	l := library.New()
	if _, err := l.AddSyntax(&mathfile.MathFile{Kind: mathfile.SyntaxFormula, Name: "Implies", SyntaxPattern: "( 𝛼 → 𝛽 )"}); err != nil {
		t.Fatalf("admit Implies: %v", err)
	}
	if _, err := l.AddSyntax(&mathfile.MathFile{Kind: mathfile.SyntaxFormula, Name: "Bottom", SyntaxPattern: "⊥"}); err != nil {
		t.Fatalf("admit Bottom: %v", err)
	}
	if _, err := l.AddSyntax(&mathfile.MathFile{
		Kind: mathfile.SyntaxFormula, Name: "Neg", SyntaxPattern: "¬ 𝛼",
		HasDefinition: true, Definition: "( 𝛼 → ⊥ )",
	}); err != nil {
		t.Fatalf("admit Neg: %v", err)
	}
	if _, err := l.AddAxiom(&mathfile.MathFile{Name: "mp", Hypotheses: []string{"𝛼", "( 𝛼 → 𝛽 )"}, Assertions: []string{"𝛽"}}); err != nil {
		t.Fatalf("add mp: %v", err)
	}
	mf := &mathfile.MathFile{
		Name: "mp-instance",
		NamedHypotheses: []mathfile.NamedHyp{
			{Name: "a", Formula: "𝛼"},
			{Name: "b", Formula: "( 𝛼 → 𝛽 )"},
		},
		Assertions: []string{"𝛽"},
		ProofLines: []mathfile.ProofLine{
			{Index: 1, Citation: "a", Formula: "𝛼"},
			{Index: 2, Citation: "b", Formula: "( 𝛼 → 𝛽 )"},
			{Index: 3, Uses: []int{1, 2}, Citation: "mp", Formula: "𝛽"},
		},
	}
	if _, err := verify.Theorem(l, mf); err != nil {
		t.Fatalf("verify theorem: %v", err)
	}
	return l
}

// TestRoundTrip is scenario S5 from spec §8: a library with syntax,
// definition, axiom and theorem entries serializes and deserializes
// back to an equivalent library.
func TestRoundTrip(t *testing.T) {
	orig := buildSampleLibrary(t)

	var buf bytes.Buffer
	if err := Write(&buf, orig); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if diff := cmp.Diff(orig.Syntax.Rules, got.Syntax.Rules); diff != "" {
		t.Errorf("Rules mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(orig.Definitions, got.Definitions); diff != "" {
		t.Errorf("Definitions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(orig.Axioms, got.Axioms); diff != "" {
		t.Errorf("Axioms mismatch (-want +got):\n%s", diff)
	}
	// HypNames are theorem-local display labels, not part of spec
	// §4.7's wire format (only the schema's ASTs/arities and the
	// proof's three parallel vectors are archived), so they don't
	// survive a round trip and are excluded from this comparison.
	ignoreHypNames := cmpopts.IgnoreFields(library.Schema{}, "HypNames")
	if diff := cmp.Diff(orig.Theorems, got.Theorems, ignoreHypNames); diff != "" {
		t.Errorf("Theorems mismatch (-want +got):\n%s", diff)
	}
}

// TestUnknownRecordIsSkipped is scenario S6 from spec §8: a stray,
// unrecognized record tag between two known records does not abort
// the read.
func TestUnknownRecordIsSkipped(t *testing.T) {
	orig := buildSampleLibrary(t)

	var clean bytes.Buffer
	if err := Write(&clean, orig); err != nil {
		t.Fatalf("write: %v", err)
	}
	full := clean.Bytes()

	// Splice an unknown record (tag 0x7A, 3-byte body) in front of the
	// trailing EOF record (last 5 bytes: tag + zero length).
	eofAt := len(full) - 5
	var spliced bytes.Buffer
	spliced.Write(full[:eofAt])
	spliced.WriteByte(0x7A)
	spliced.Write([]byte{0x03, 0x00, 0x00, 0x00})
	spliced.Write([]byte{0xAA, 0xBB, 0xCC})
	spliced.Write(full[eofAt:])

	got, err := Read(&spliced)
	if err != nil {
		t.Fatalf("expected unknown record to be skipped, got error: %v", err)
	}
	if len(got.Theorems) != 1 || len(got.Axioms) != 1 || len(got.Definitions) != 1 {
		t.Fatalf("unexpected library shape after skip: %+v", got)
	}
}
