// Package subst implements the substitution engine (spec §4.5):
// deciding whether a concrete formula (and its cited hypothesis
// formulas) is a substitution instance of a schema's assertion (and
// hypotheses) under one shared substitution map. No alpha-renaming is
// performed — schema slots are opaque metavariables (spec §4.5 final
// paragraph). Grounded in technique on ir.Compare's recursive
// pairwise walk, generalized here to also build up a binding map
// instead of only comparing.
package subst

import "github.com/mathkernel/mm/ast"

// Substitution is the solved binding from schema slot id to concrete
// AST, one array per sort, exactly as spec §4.5 "Procedure" describes.
type Substitution struct {
	Formula []*ast.Node
	Object  []*ast.Node
}

// Solve asks: does there exist sigma such that sigma(hyps[i]) ==
// concreteHyps[i] for all i and sigma(assertion) == concreteResult?
// formulaArity/objectArity size the two binding arrays up front
// (spec: "Allocate two arrays indexed by schema slot id").
func Solve(formulaArity, objectArity int, hyps []*ast.Node, assertion *ast.Node, concreteHyps []*ast.Node, concreteResult *ast.Node) (*Substitution, bool) {
	if len(hyps) != len(concreteHyps) {
		return nil, false
	}
	s := &state{
		formula:    make([]*ast.Node, formulaArity),
		object:     make([]*ast.Node, objectArity),
		formulaSet: make([]bool, formulaArity),
		objectSet:  make([]bool, objectArity),
	}
	for i := range hyps {
		if !s.match(hyps[i], concreteHyps[i]) {
			return nil, false
		}
	}
	if !s.match(assertion, concreteResult) {
		return nil, false
	}
	return &Substitution{Formula: s.formula, Object: s.object}, true
}

type state struct {
	formula    []*ast.Node
	object     []*ast.Node
	formulaSet []bool
	objectSet  []bool
}

// match implements spec §4.5's recursive (schemaPattern, concrete)
// walk: an Atomic schema leaf binds (or checks equality against) the
// slot it names; a Composite requires the same rule index and
// recurses pairwise on Formula args then Object args.
func (s *state) match(pattern, concrete *ast.Node) bool {
	if pattern == nil || concrete == nil {
		return pattern == concrete
	}
	if pattern.Sort != concrete.Sort {
		return false
	}
	if pattern.Atomic {
		if concrete == nil {
			return false
		}
		return s.bind(pattern.Sort, pattern.AtomicID, concrete)
	}
	if concrete.Atomic {
		return false
	}
	if pattern.RuleIndex != concrete.RuleIndex {
		return false
	}
	if len(pattern.FormulaArgs) != len(concrete.FormulaArgs) || len(pattern.ObjectArgs) != len(concrete.ObjectArgs) {
		return false
	}
	for i := range pattern.FormulaArgs {
		if !s.match(pattern.FormulaArgs[i], concrete.FormulaArgs[i]) {
			return false
		}
	}
	for i := range pattern.ObjectArgs {
		if !s.match(pattern.ObjectArgs[i], concrete.ObjectArgs[i]) {
			return false
		}
	}
	return true
}

func (s *state) bind(sort ast.Sort, id int, concrete *ast.Node) bool {
	if sort == ast.Formula {
		if s.formulaSet[id] {
			return s.formula[id].Equal(concrete)
		}
		s.formula[id] = concrete
		s.formulaSet[id] = true
		return true
	}
	if s.objectSet[id] {
		return s.object[id].Equal(concrete)
	}
	s.object[id] = concrete
	s.objectSet[id] = true
	return true
}
