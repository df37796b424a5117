// Package syntax implements the syntax table and rule admission
// (spec §4.3): an ordered collection of compiled syntax rules, plus
// the ambiguity check run when a new rule is admitted.
package syntax

import (
	"fmt"
	"strings"

	"github.com/mathkernel/mm/atom"
)

// Kind is the AST variant a rule produces when matched.
type Kind int

const (
	FormulaRule Kind = iota
	ObjectRule
)

func (k Kind) String() string {
	if k == ObjectRule {
		return "object"
	}
	return "formula"
}

// PlaceholderKind discriminates the elements of a syntax pattern.
type PlaceholderKind int

const (
	Literal PlaceholderKind = iota
	FormulaSlot
	ObjectSlot
	Repetition
)

// Placeholder is one element of a compiled syntax pattern. Slot is
// the canonical 0-based id assigned at admission time (§4.3); it is
// meaningful only for FormulaSlot/ObjectSlot.
type Placeholder struct {
	Kind PlaceholderKind
	Char rune
	Slot int
}

func (p Placeholder) String() string {
	switch p.Kind {
	case Literal:
		return string(p.Char)
	case FormulaSlot:
		return fmt.Sprintf("F%d", p.Slot)
	case ObjectSlot:
		return fmt.Sprintf("O%d", p.Slot)
	case Repetition:
		return "…"
	}
	return "?"
}

// Equivalent implements the placeholder-equivalence comparison used
// by the ambiguity check: two FormulaSlots are equal regardless of
// id, two ObjectSlots are equal regardless of id, two Literals are
// equal iff their char is equal, Repetition matches Repetition.
func (p Placeholder) Equivalent(o Placeholder) bool {
	if p.Kind != o.Kind {
		return false
	}
	if p.Kind == Literal {
		return p.Char == o.Char
	}
	return true
}

// Pattern is a sequence of placeholders with a human-readable form.
type Pattern []Placeholder

func (p Pattern) String() string {
	var b strings.Builder
	for _, e := range p {
		b.WriteString(e.String())
	}
	return b.String()
}

// Rule is one admitted syntax rule.
type Rule struct {
	Index        int
	Name         string
	Kind         Kind
	Pattern      Pattern
	FormulaArity int
	ObjectArity  int
}

// rename maps a raw atom sequence from a syntax declaration's pattern
// line into a canonical Pattern: each distinct FormulaHole/ObjectHole
// id is mapped to a dense 0-based slot id in first-occurrence order,
// separately per kind (spec §4.3, §9 "Placeholder-vs-slot renaming").
// Repetition atoms are legal here (only here — see compiler package).
func rename(atoms atom.Seq) (Pattern, int, int, error) {
	pattern := make(Pattern, 0, len(atoms))
	fIDs := map[int]int{}
	oIDs := map[int]int{}
	for _, a := range atoms {
		switch a.Kind {
		case atom.LiteralChar:
			pattern = append(pattern, Placeholder{Kind: Literal, Char: a.Char})
		case atom.FormulaHole:
			slot, ok := fIDs[a.ID]
			if !ok {
				slot = len(fIDs)
				fIDs[a.ID] = slot
			}
			pattern = append(pattern, Placeholder{Kind: FormulaSlot, Slot: slot})
		case atom.ObjectHole:
			slot, ok := oIDs[a.ID]
			if !ok {
				slot = len(oIDs)
				oIDs[a.ID] = slot
			}
			pattern = append(pattern, Placeholder{Kind: ObjectSlot, Slot: slot})
		case atom.Repetition:
			pattern = append(pattern, Placeholder{Kind: Repetition})
		}
	}
	return pattern, len(fIDs), len(oIDs), nil
}
