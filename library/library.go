// Package library implements the schema store (spec §3 "Library"):
// four ordered, append-only sequences (syntaxes, definitions, axioms,
// theorems) plus a name→citation index, external to the on-disk
// archive and re-derived on load. Grounded on schema_registry.go's
// append-only registry: names are assigned once, in file order, and
// never reused or renumbered.
package library

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mathkernel/mm/ast"
	"github.com/mathkernel/mm/atom"
	"github.com/mathkernel/mm/compiler"
	"github.com/mathkernel/mm/mathfile"
	"github.com/mathkernel/mm/mmerr"
	"github.com/mathkernel/mm/syntax"
)

// Definition is a named shorthand: one compiled body with its own
// local metavariable arity, zero hypotheses, a single assertion fixed
// at sub-index 0 (spec §4.6 step 4, Definition case).
type Definition struct {
	Name                      string
	Body                      *ast.Node
	FormulaArity, ObjectArity int
}

// Schema is the shape shared by Axiom and Theorem (spec §3
// "Schema"): a name, its hypotheses and one or more assertions, all
// compiled under one shared metavariable namespace.
type Schema struct {
	Name                      string
	HypNames                  []string // populated for Theorem, empty for Axiom
	Hypotheses                []*ast.Node
	Assertions                []*ast.Node
	FormulaArity, ObjectArity int
}

// CitationKind discriminates the four Citation variants of spec §3.
type CitationKind int

const (
	CiteHypothesis CitationKind = iota
	CiteDefinition
	CiteAxiom
	CiteTheorem
)

func (k CitationKind) String() string {
	switch k {
	case CiteHypothesis:
		return "hypothesis"
	case CiteDefinition:
		return "definition"
	case CiteAxiom:
		return "axiom"
	case CiteTheorem:
		return "theorem"
	}
	return "unknown"
}

// Citation is spec §3's "Citation": Hypothesis(i), Definition(k),
// Axiom(k, s) or Theorem(k, s). HypIndex is only meaningful for
// CiteHypothesis; SchemaIndex/SubIndex only for the other three.
type Citation struct {
	Kind        CitationKind
	HypIndex    int
	SchemaIndex int
	SubIndex    int
}

// Step is one verified proof line (spec §4.6 step 8's `LogicStep`):
// hyp_refs already rebased to 0, the resolved citation, and the
// step's compiled result formula.
type Step struct {
	Uses     []int
	Citation Citation
	Result   *ast.Node
}

// Theorem is a Schema together with the proof that derives it.
type Theorem struct {
	Schema
	Steps []Step
}

type refKind int

const (
	refDefinition refKind = iota
	refAxiom
	refTheorem
)

type nameRef struct {
	kind  refKind
	index int
}

// Library is the schema store: the syntax table plus the three
// append-only schema sequences and the name index that resolves
// citations (spec §3 "Library").
type Library struct {
	Syntax      *syntax.Table
	Definitions []Definition
	Axioms      []Schema
	Theorems    []Theorem

	names map[string]nameRef
}

// New returns an empty library with an empty syntax table.
func New() *Library {
	return &Library{Syntax: &syntax.Table{}, names: map[string]nameRef{}}
}

// checkName enforces spec §3 Invariant 5: schema names are unique
// across all three schema kinds.
func (l *Library) checkName(name string) error {
	if _, exists := l.names[name]; exists {
		return &mmerr.Error{Kind: mmerr.InvalidName, Name: name, Msg: "schema name already registered"}
	}
	return nil
}

// AddSyntax admits mf's pattern as a new rule and, if the file
// carries a Definition section, compiles and registers it under the
// same name (spec §4.3's two paragraphs).
func (l *Library) AddSyntax(mf *mathfile.MathFile) (*syntax.Rule, error) {
	kind := syntax.FormulaRule
	if mf.Kind == mathfile.SyntaxObject {
		kind = syntax.ObjectRule
	}
	rule, err := l.Syntax.Admit(mf.Name, kind, atom.Lex(mf.SyntaxPattern))
	if err != nil {
		return nil, err
	}
	if mf.HasDefinition {
		if err := l.checkName(mf.Name); err != nil {
			return nil, err
		}
		sess := compiler.NewSession(l.Syntax)
		body, err := sess.Compile(atom.Lex(mf.Definition))
		if err != nil {
			return nil, err
		}
		d := Definition{Name: mf.Name, Body: body, FormulaArity: sess.FormulaArity(), ObjectArity: sess.ObjectArity()}
		l.Definitions = append(l.Definitions, d)
		l.names[mf.Name] = nameRef{refDefinition, len(l.Definitions) - 1}
	}
	return rule, nil
}

// AddAxiom compiles mf's hypotheses and assertions under one shared
// session and appends the resulting Schema (spec §3 "Schema").
func (l *Library) AddAxiom(mf *mathfile.MathFile) (Schema, error) {
	if err := l.checkName(mf.Name); err != nil {
		return Schema{}, err
	}
	sess := compiler.NewSession(l.Syntax)
	hyps, err := compileAll(sess, mf.Hypotheses)
	if err != nil {
		return Schema{}, err
	}
	assertions, err := compileAll(sess, mf.Assertions)
	if err != nil {
		return Schema{}, err
	}
	s := Schema{
		Name:         mf.Name,
		Hypotheses:   hyps,
		Assertions:   assertions,
		FormulaArity: sess.FormulaArity(),
		ObjectArity:  sess.ObjectArity(),
	}
	l.Axioms = append(l.Axioms, s)
	l.names[mf.Name] = nameRef{refAxiom, len(l.Axioms) - 1}
	return s, nil
}

func compileAll(sess *compiler.Session, texts []string) ([]*ast.Node, error) {
	out := make([]*ast.Node, len(texts))
	for i, t := range texts {
		n, err := sess.Compile(atom.Lex(t))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// PrepareTheorem compiles a theorem's named hypotheses and declared
// assertions under one shared session, without committing it: the
// theorem is only appended once its proof has verified (spec §3
// "Lifecycles", §4.6 "the theorem is then committed"). The caller
// (package verify) keeps compiling each proof line's result against
// the returned session so every line shares the same metavariable
// namespace, then calls CommitTheorem.
func (l *Library) PrepareTheorem(mf *mathfile.MathFile) (*compiler.Session, Schema, error) {
	if err := l.checkName(mf.Name); err != nil {
		return nil, Schema{}, err
	}
	sess := compiler.NewSession(l.Syntax)
	hypNames := make([]string, len(mf.NamedHypotheses))
	hyps := make([]*ast.Node, len(mf.NamedHypotheses))
	for i, nh := range mf.NamedHypotheses {
		n, err := sess.Compile(atom.Lex(nh.Formula))
		if err != nil {
			return nil, Schema{}, err
		}
		hypNames[i] = nh.Name
		hyps[i] = n
	}
	assertions, err := compileAll(sess, mf.Assertions)
	if err != nil {
		return nil, Schema{}, err
	}
	return sess, Schema{Name: mf.Name, HypNames: hypNames, Hypotheses: hyps, Assertions: assertions}, nil
}

// CommitTheorem appends a proven theorem, freezing its arities from
// the session used to compile it and every one of its proof steps.
func (l *Library) CommitTheorem(sess *compiler.Session, schema Schema, steps []Step) Theorem {
	schema.FormulaArity = sess.FormulaArity()
	schema.ObjectArity = sess.ObjectArity()
	th := Theorem{Schema: schema, Steps: steps}
	l.Theorems = append(l.Theorems, th)
	l.names[schema.Name] = nameRef{refTheorem, len(l.Theorems) - 1}
	return th
}

// AppendDefinition registers an already-built Definition verbatim,
// skipping name-collision checking and compilation. Used only by the
// archive decoder, which reconstructs a library from trusted,
// previously-committed data (spec §3 "archive read reconstructs it").
func (l *Library) AppendDefinition(d Definition) {
	l.Definitions = append(l.Definitions, d)
	l.names[d.Name] = nameRef{refDefinition, len(l.Definitions) - 1}
}

// AppendAxiom registers an already-built Schema as an axiom verbatim.
// See AppendDefinition.
func (l *Library) AppendAxiom(s Schema) {
	l.Axioms = append(l.Axioms, s)
	l.names[s.Name] = nameRef{refAxiom, len(l.Axioms) - 1}
}

// AppendTheorem registers an already-built, already-proven Theorem
// verbatim. See AppendDefinition.
func (l *Library) AppendTheorem(t Theorem) {
	l.Theorems = append(l.Theorems, t)
	l.names[t.Name] = nameRef{refTheorem, len(l.Theorems) - 1}
}

// ParseCitation splits a proof line's raw "name[.sub]" citation text
// (spec §4.6 step 2: "without .sub, sub = 0") without resolving it
// against the library or the enclosing theorem's local hypotheses —
// that resolution is package verify's job, since it also needs the
// current theorem's hypothesis names.
func ParseCitation(raw string) (name string, sub int, err error) {
	name, subStr, hasSub := strings.Cut(raw, ".")
	if !hasSub {
		return name, 0, nil
	}
	sub, convErr := strconv.Atoi(subStr)
	if convErr != nil {
		return "", 0, mmerr.New(mmerr.WeirdReference, fmt.Sprintf("non-numeric assertion sub-index in citation %q", raw))
	}
	return name, sub, nil
}

// Resolve looks up name in the library's name index, independent of
// any sub-index (spec §4.6 step 4: "look up name in the library name
// index").
func (l *Library) Resolve(name string) (Citation, bool) {
	r, ok := l.names[name]
	if !ok {
		return Citation{}, false
	}
	switch r.kind {
	case refDefinition:
		return Citation{Kind: CiteDefinition, SchemaIndex: r.index}, true
	case refAxiom:
		return Citation{Kind: CiteAxiom, SchemaIndex: r.index}, true
	case refTheorem:
		return Citation{Kind: CiteTheorem, SchemaIndex: r.index}, true
	}
	return Citation{}, false
}

// SchemaOf returns the hypotheses, the cited assertion, and the
// arities of whatever c resolves to, or ok=false if c's SchemaIndex
// or SubIndex is out of range (the caller turns that into
// UnknownTheorem).
func (l *Library) SchemaOf(c Citation) (hyps []*ast.Node, assertion *ast.Node, formulaArity, objectArity int, ok bool) {
	switch c.Kind {
	case CiteDefinition:
		if c.SchemaIndex < 0 || c.SchemaIndex >= len(l.Definitions) || c.SubIndex != 0 {
			return nil, nil, 0, 0, false
		}
		d := l.Definitions[c.SchemaIndex]
		return nil, d.Body, d.FormulaArity, d.ObjectArity, true
	case CiteAxiom:
		if c.SchemaIndex < 0 || c.SchemaIndex >= len(l.Axioms) {
			return nil, nil, 0, 0, false
		}
		s := l.Axioms[c.SchemaIndex]
		if c.SubIndex < 0 || c.SubIndex >= len(s.Assertions) {
			return nil, nil, 0, 0, false
		}
		return s.Hypotheses, s.Assertions[c.SubIndex], s.FormulaArity, s.ObjectArity, true
	case CiteTheorem:
		if c.SchemaIndex < 0 || c.SchemaIndex >= len(l.Theorems) {
			return nil, nil, 0, 0, false
		}
		t := l.Theorems[c.SchemaIndex]
		if c.SubIndex < 0 || c.SubIndex >= len(t.Assertions) {
			return nil, nil, 0, 0, false
		}
		return t.Hypotheses, t.Assertions[c.SubIndex], t.FormulaArity, t.ObjectArity, true
	}
	return nil, nil, 0, 0, false
}

// NameOf reports the citable name a resolved Citation points back to.
func (l *Library) NameOf(c Citation) (string, bool) {
	switch c.Kind {
	case CiteDefinition:
		if c.SchemaIndex < 0 || c.SchemaIndex >= len(l.Definitions) {
			return "", false
		}
		return l.Definitions[c.SchemaIndex].Name, true
	case CiteAxiom:
		if c.SchemaIndex < 0 || c.SchemaIndex >= len(l.Axioms) {
			return "", false
		}
		return l.Axioms[c.SchemaIndex].Name, true
	case CiteTheorem:
		if c.SchemaIndex < 0 || c.SchemaIndex >= len(l.Theorems) {
			return "", false
		}
		return l.Theorems[c.SchemaIndex].Name, true
	}
	return "", false
}
