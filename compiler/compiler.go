// Package compiler implements the formula compiler (spec §4.4), the
// hardest algorithm in the kernel: reducing a sequence of atoms into
// a single AST node by repeatedly rewriting the longest-matching
// syntax pattern against the syntax table, leftmost position first,
// table order second. Grounded in *technique* on parse.parseBalanced
// (tokenize once, iteratively reduce against a grammar) though the
// parse.parseBalanced's reduction targets a fixed generic grammar, not a
// user-extensible admitted rule table, so the reduction loop itself
// is written fresh.
package compiler

import (
	"strings"

	"github.com/mathkernel/mm/ast"
	"github.com/mathkernel/mm/atom"
	"github.com/mathkernel/mm/debug"
	"github.com/mathkernel/mm/mmerr"
	"github.com/mathkernel/mm/syntax"
)

// element is one slot in the compiler's working list: either a raw
// literal atom not yet consumed by any rule, or an already-built AST
// node (spec §4.4 "State").
type element struct {
	isNode bool
	lit    rune
	node   *ast.Node
}

func litElem(r rune) element      { return element{lit: r} }
func nodeElem(n *ast.Node) element { return element{isNode: true, node: n} }

func (e element) String() string {
	if e.isNode {
		return e.node.String()
	}
	return string(e.lit)
}

type workingList []element

func (w workingList) String() string {
	var b strings.Builder
	for _, e := range w {
		b.WriteString(e.String())
		b.WriteString(" ")
	}
	return b.String()
}

// Compile reduces atoms against the current syntax table into a
// single Formula AST node, or fails with Uncompilable/RepetitionInBody.
// It allocates a fresh hole-id namespace, suitable for any standalone
// formula text (a definiens, a single proof-step result checked in
// isolation, ad-hoc compiles in tests).
func Compile(tab *syntax.Table, atoms atom.Seq) (*ast.Node, error) {
	return NewSession(tab).Compile(atoms)
}

// Session compiles a sequence of formula texts that must share one
// hole-id namespace: the same source hole glyph always denotes the
// same metavariable across every line of one schema (spec §4.6's
// requirement that a proof step's result can be compared verbatim,
// by Node.Equal, against hypotheses and assertions declared earlier
// in the same file). Use NewSession once per schema (definition,
// axiom or theorem) and call Compile once per formula line it owns,
// in file order.
type Session struct {
	tab  *syntax.Table
	fIDs map[int]int
	oIDs map[int]int
}

// NewSession starts a fresh hole-id namespace against tab.
func NewSession(tab *syntax.Table) *Session {
	return &Session{tab: tab, fIDs: map[int]int{}, oIDs: map[int]int{}}
}

// FormulaArity and ObjectArity report the distinct formula/object
// slot counts accumulated so far (spec §3 Schema's
// distinct_formula_arity / distinct_object_arity).
func (s *Session) FormulaArity() int { return len(s.fIDs) }
func (s *Session) ObjectArity() int  { return len(s.oIDs) }

// Compile reduces one formula text's atoms within this session's
// shared namespace.
func (s *Session) Compile(atoms atom.Seq) (*ast.Node, error) {
	w, err := s.lift(atoms)
	if err != nil {
		return nil, err
	}

	for {
		i, r, bindings, ok := findReduction(s.tab, w)
		if !ok {
			break
		}
		node := buildComposite(r, bindings)
		w = splice(w, i, len(r.Pattern), nodeElem(node))
		if debug.Compile() {
			debug.Logf("compiler: reduced at %d with rule %q -> %s\n", i, r.Name, w.String())
		}
	}

	if len(w) == 1 && w[0].isNode && w[0].node.Sort == ast.Formula {
		return w[0].node, nil
	}
	return nil, mmerr.NewUncompilable(w.String())
}

// lift builds the initial working list, allocating dense per-sort
// atomic ids for repeated occurrences of the same source hole id
// (spec §4.4 "State", §9 "Placeholder-vs-slot renaming" — this
// renaming is per-session and disjoint from the table's per-rule
// slot renaming).
func (s *Session) lift(atoms atom.Seq) (workingList, error) {
	w := make(workingList, 0, len(atoms))
	for _, a := range atoms {
		switch a.Kind {
		case atom.LiteralChar:
			w = append(w, litElem(a.Char))
		case atom.FormulaHole:
			id, ok := s.fIDs[a.ID]
			if !ok {
				id = len(s.fIDs)
				s.fIDs[a.ID] = id
			}
			w = append(w, nodeElem(ast.NewAtomic(ast.Formula, id)))
		case atom.ObjectHole:
			id, ok := s.oIDs[a.ID]
			if !ok {
				id = len(s.oIDs)
				s.oIDs[a.ID] = id
			}
			w = append(w, nodeElem(ast.NewAtomic(ast.Object, id)))
		case atom.Repetition:
			return nil, &mmerr.Error{Kind: mmerr.RepetitionInBody, Msg: "… is only legal in syntax declarations"}
		}
	}
	return w, nil
}

// bindings holds one successful match's slot assignments, in
// ascending slot-id order, ready to become a composite node's
// arguments.
type bindings struct {
	formula []*ast.Node
	object  []*ast.Node
}

// findReduction scans positions left to right and, at each position,
// rules in table order, returning the first (position, rule) whose
// window matches (spec §4.4 "Reduction loop").
func findReduction(tab *syntax.Table, w workingList) (int, syntax.Rule, bindings, bool) {
	for i := range w {
		for _, r := range tab.Rules {
			if i+len(r.Pattern) > len(w) {
				continue
			}
			if b, ok := matchWindow(r.Pattern, w[i:i+len(r.Pattern)]); ok {
				return i, r, b, true
			}
		}
	}
	return 0, syntax.Rule{}, bindings{}, false
}

// matchWindow attempts to unify one rule pattern against one window
// of the working list (spec §4.4 "Matching").
func matchWindow(pattern syntax.Pattern, window workingList) (bindings, bool) {
	fBound := make([]*ast.Node, countSlots(pattern, syntax.FormulaSlot))
	fSet := make([]bool, len(fBound))
	oBound := make([]*ast.Node, countSlots(pattern, syntax.ObjectSlot))
	oSet := make([]bool, len(oBound))

	for i, p := range pattern {
		w := window[i]
		switch p.Kind {
		case syntax.Literal:
			if w.isNode || w.lit != p.Char {
				return bindings{}, false
			}
		case syntax.FormulaSlot:
			if !w.isNode || w.node.Sort != ast.Formula {
				return bindings{}, false
			}
			if !fSet[p.Slot] {
				fBound[p.Slot] = w.node
				fSet[p.Slot] = true
			} else if !fBound[p.Slot].Equal(w.node) {
				return bindings{}, false
			}
		case syntax.ObjectSlot:
			if !w.isNode || w.node.Sort != ast.Object {
				return bindings{}, false
			}
			if !oSet[p.Slot] {
				oBound[p.Slot] = w.node
				oSet[p.Slot] = true
			} else if !oBound[p.Slot].Equal(w.node) {
				return bindings{}, false
			}
		case syntax.Repetition:
			// No algorithm consumes Repetition inside a match (spec
			// §9 Open Questions): an admitted pattern containing it
			// can never be reduced against.
			return bindings{}, false
		}
	}
	for _, ok := range fSet {
		if !ok {
			return bindings{}, false
		}
	}
	for _, ok := range oSet {
		if !ok {
			return bindings{}, false
		}
	}
	return bindings{formula: fBound, object: oBound}, true
}

func countSlots(pattern syntax.Pattern, kind syntax.PlaceholderKind) int {
	max := -1
	for _, p := range pattern {
		if p.Kind == kind && p.Slot > max {
			max = p.Slot
		}
	}
	return max + 1
}

func buildComposite(r syntax.Rule, b bindings) *ast.Node {
	sort := ast.Formula
	if r.Kind == syntax.ObjectRule {
		sort = ast.Object
	}
	return ast.NewComposite(sort, r.Index, b.formula, b.object)
}

func splice(w workingList, at, n int, repl element) workingList {
	out := make(workingList, 0, len(w)-n+1)
	out = append(out, w[:at]...)
	out = append(out, repl)
	out = append(out, w[at+n:]...)
	return out
}
