// Package verify implements the proof verifier (spec §4.6): walking a
// theorem's declared proof line by line, resolving each citation
// against the library (or the theorem's own named hypotheses),
// checking the substitution instance, and committing the theorem only
// once every declared assertion has been proven. Grounded in
// *technique* on schema/resolve.go (name resolution
// against an append-only registry, fatal-on-first-error) and
// cycle_detector.go's single forward pass over an ordered step list;
// the math kernel's steps are never cyclic (citations may only
// reference strictly earlier indices), so no cycle detection itself
// is needed.
package verify

import (
	"github.com/mathkernel/mm/ast"
	"github.com/mathkernel/mm/atom"
	"github.com/mathkernel/mm/compiler"
	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mathfile"
	"github.com/mathkernel/mm/mmerr"
	"github.com/mathkernel/mm/subst"
)

// Theorem verifies mf's proof against l and, on success, commits the
// theorem to l and returns it (spec §4.6's full algorithm). l is
// mutated only on success; a failed step never appends anything.
func Theorem(l *library.Library, mf *mathfile.MathFile) (library.Theorem, error) {
	sess, schema, err := l.PrepareTheorem(mf)
	if err != nil {
		return library.Theorem{}, err
	}

	steps := make([]library.Step, 0, len(mf.ProofLines))
	for idx, pl := range mf.ProofLines {
		i := idx + 1
		if pl.Index != i {
			return library.Theorem{}, mmerr.NewMissingProofLine(i)
		}

		step, err := verifyLine(l, sess, schema, steps, pl, i)
		if err != nil {
			return library.Theorem{}, err
		}
		steps = append(steps, step)
	}

	for j, want := range schema.Assertions {
		if !provenBy(steps, want) {
			return library.Theorem{}, mmerr.NewAssertionNotProven(j)
		}
	}

	return l.CommitTheorem(sess, schema, steps), nil
}

// verifyLine implements spec §4.6 steps 2-7 for one proof line.
func verifyLine(l *library.Library, sess *compiler.Session, schema library.Schema, priorSteps []library.Step, pl mathfile.ProofLine, i int) (library.Step, error) {
	name, sub, err := library.ParseCitation(pl.Citation)
	if err != nil {
		return library.Step{}, err
	}

	if hi, ok := hypothesisIndex(schema.HypNames, name); ok {
		return verifyHypothesisStep(sess, schema, pl, i, hi)
	}
	return verifySchemaStep(l, sess, priorSteps, pl, i, name, sub)
}

// verifyHypothesisStep handles spec §4.6 step 3: the citation names a
// local hypothesis, so hyp_refs must be empty and the compiled result
// must equal that hypothesis's formula exactly.
func verifyHypothesisStep(sess *compiler.Session, schema library.Schema, pl mathfile.ProofLine, i, hi int) (library.Step, error) {
	if len(pl.Uses) != 0 {
		return library.Step{}, mmerr.NewIncorrectNumberOfHypothesis(len(pl.Uses), 0, i)
	}
	result, err := sess.Compile(atom.Lex(pl.Formula))
	if err != nil {
		return library.Step{}, err
	}
	if !result.Equal(schema.Hypotheses[hi]) {
		return library.Step{}, mmerr.NewIncorrectResultingFormula(i)
	}
	return library.Step{
		Citation: library.Citation{Kind: library.CiteHypothesis, HypIndex: hi},
		Result:   result,
	}, nil
}

// verifySchemaStep handles spec §4.6 steps 4-7: the citation names a
// definition, axiom or theorem; resolve it, check hyp_refs arity and
// accessibility, compile the declared result, and require it be a
// substitution instance per the subst package.
func verifySchemaStep(l *library.Library, sess *compiler.Session, priorSteps []library.Step, pl mathfile.ProofLine, i int, name string, sub int) (library.Step, error) {
	c, ok := l.Resolve(name)
	if !ok {
		return library.Step{}, mmerr.NewUnknownTheorem(pl.Citation, i)
	}
	c.SubIndex = sub
	hyps, assertion, formulaArity, objectArity, ok := l.SchemaOf(c)
	if !ok {
		return library.Step{}, mmerr.NewUnknownTheorem(pl.Citation, i)
	}

	if len(pl.Uses) != len(hyps) {
		return library.Step{}, mmerr.NewIncorrectNumberOfHypothesis(len(pl.Uses), len(hyps), i)
	}
	concreteHyps := make([]*ast.Node, len(pl.Uses))
	for j, u := range pl.Uses {
		if u < 1 || u > i-1 {
			return library.Step{}, mmerr.NewInaccessibleHypothesis(u, i)
		}
		concreteHyps[j] = priorSteps[u-1].Result
	}

	result, err := sess.Compile(atom.Lex(pl.Formula))
	if err != nil {
		return library.Step{}, err
	}
	if _, ok := subst.Solve(formulaArity, objectArity, hyps, assertion, concreteHyps, result); !ok {
		return library.Step{}, mmerr.NewIncorrectResultingFormula(i)
	}

	return library.Step{Uses: rebase(pl.Uses), Citation: c, Result: result}, nil
}

// rebase converts 1-based hyp_refs to the 0-based step indices
// LogicStep stores (spec §4.6 step 8).
func rebase(uses []int) []int {
	if len(uses) == 0 {
		return nil
	}
	out := make([]int, len(uses))
	for i, u := range uses {
		out[i] = u - 1
	}
	return out
}

func hypothesisIndex(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func provenBy(steps []library.Step, want *ast.Node) bool {
	for _, s := range steps {
		if s.Result.Equal(want) {
			return true
		}
	}
	return false
}
