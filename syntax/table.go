package syntax

import (
	"github.com/mathkernel/mm/atom"
	"github.com/mathkernel/mm/mmerr"
)

// Table is the ordered collection of admitted syntax rules (spec
// §4.3/§9: "a pair of flat vectors per schema kind plus a name→index
// map; no back-pointers" — here a single flat vector, since syntax
// rules are not partitioned by kind for lookup purposes, only by the
// Kind field on each Rule).
type Table struct {
	Rules []Rule
}

// Admit renames the raw pattern atoms to a canonical Pattern, checks
// it against every existing rule for ambiguity (§4.3), and — if
// admissible — appends it to the table. It never mutates the table on
// failure.
func (t *Table) Admit(name string, kind Kind, patternAtoms atom.Seq) (*Rule, error) {
	pattern, fArity, oArity, err := rename(patternAtoms)
	if err != nil {
		return nil, err
	}
	for _, existing := range t.Rules {
		if overlaps(pattern, existing.Pattern) {
			return nil, mmerr.NewAmbiguousSyntax(name)
		}
	}
	r := Rule{
		Index:        len(t.Rules),
		Name:         name,
		Kind:         kind,
		Pattern:      pattern,
		FormulaArity: fArity,
		ObjectArity:  oArity,
	}
	t.Rules = append(t.Rules, r)
	return &t.Rules[len(t.Rules)-1], nil
}

// AppendTrusted appends a rule verbatim, skipping renaming and the
// ambiguity check (spec §4.7: archive read "reconstructs" the library
// from already-admitted data, it does not re-derive it). Callers must
// only use this for rules that were themselves produced by Admit at
// some earlier point — the archive decoder is the only caller.
func (t *Table) AppendTrusted(name string, kind Kind, pattern Pattern, formulaArity, objectArity int) *Rule {
	r := Rule{
		Index:        len(t.Rules),
		Name:         name,
		Kind:         kind,
		Pattern:      pattern,
		FormulaArity: formulaArity,
		ObjectArity:  objectArity,
	}
	t.Rules = append(t.Rules, r)
	return &t.Rules[len(t.Rules)-1]
}

// RuleByIndex returns the rule at position i and whether it exists,
// used by the compiler and archive decoder to validate rule_index
// invariants (spec §3 Invariant 2).
func (t *Table) RuleByIndex(i int) (Rule, bool) {
	if i < 0 || i >= len(t.Rules) {
		return Rule{}, false
	}
	return t.Rules[i], true
}
