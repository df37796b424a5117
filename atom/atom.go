// Package atom implements the lexical layer (spec §4.1): mapping
// source characters into formula atoms.
package atom

import "fmt"

// Kind discriminates the four atom variants.
type Kind int

const (
	LiteralChar Kind = iota
	FormulaHole
	ObjectHole
	Repetition
)

func (k Kind) String() string {
	switch k {
	case LiteralChar:
		return "LiteralChar"
	case FormulaHole:
		return "FormulaHole"
	case ObjectHole:
		return "ObjectHole"
	case Repetition:
		return "Repetition"
	default:
		return "Unknown"
	}
}

// Atom is one lexed unit. Char is meaningful only for LiteralChar; ID
// is meaningful only for FormulaHole/ObjectHole and is the source
// lexer's 0-based offset within its designated Unicode range.
type Atom struct {
	Kind Kind
	Char rune
	ID   int
}

func (a Atom) String() string {
	switch a.Kind {
	case LiteralChar:
		return string(a.Char)
	case FormulaHole:
		return fmt.Sprintf("𝜑%d", a.ID)
	case ObjectHole:
		return fmt.Sprintf("𝑥%d", a.ID)
	case Repetition:
		return "…"
	}
	return "?"
}

// Seq is a sequence of atoms with a human-readable rendering, used
// both as lexer output and as compiler/diagnostic working state.
type Seq []Atom

func (s Seq) String() string {
	out := make([]rune, 0, len(s))
	for _, a := range s {
		out = append(out, []rune(a.String())...)
	}
	return string(out)
}
