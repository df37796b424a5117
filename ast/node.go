// Package ast defines the two mutually recursive AST variants (spec
// §3): Formula and Object nodes, either an opaque Atomic leaf or a
// Composite node tagged with a syntax-rule index. Grounded on the
// ir.Node in technique only (parent-free recursive struct,
// a Compare-style structural equality) — ir.Node is a
// single-sorted generic document tree and doesn't fit our two-sorted
// (Formula/Object) shape, so this type is written fresh.
package ast

import (
	"fmt"
	"strings"
)

// Sort distinguishes the Formula and Object AST families.
type Sort int

const (
	Formula Sort = iota
	Object
)

func (s Sort) String() string {
	if s == Object {
		return "object"
	}
	return "formula"
}

// Node is either an Atomic leaf (keyed by a formula-local id) or a
// Composite node referencing a syntax rule by index, with its bound
// Formula and Object arguments in ascending slot order (spec §3
// Invariant 2: child counts must agree with the rule's arities).
type Node struct {
	Sort        Sort
	Atomic      bool
	AtomicID    int
	RuleIndex   int
	FormulaArgs []*Node
	ObjectArgs  []*Node
}

// NewAtomic builds an opaque leaf of the given sort.
func NewAtomic(sort Sort, id int) *Node {
	return &Node{Sort: sort, Atomic: true, AtomicID: id}
}

// NewComposite builds a composite node for the rule at ruleIndex,
// producing a node of the given sort (the rule's own Kind).
func NewComposite(sort Sort, ruleIndex int, formulaArgs, objectArgs []*Node) *Node {
	return &Node{
		Sort:        sort,
		RuleIndex:   ruleIndex,
		FormulaArgs: formulaArgs,
		ObjectArgs:  objectArgs,
	}
}

// Equal is structural equality: same sort, same leaf id or same rule
// index with pairwise-equal arguments. This is the notion of equality
// spec §3 Invariant 4 and §4.6 step 3/7 rely on ("equal verbatim" /
// "equal to hypothesis").
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Sort != o.Sort || n.Atomic != o.Atomic {
		return false
	}
	if n.Atomic {
		return n.AtomicID == o.AtomicID
	}
	if n.RuleIndex != o.RuleIndex {
		return false
	}
	if len(n.FormulaArgs) != len(o.FormulaArgs) || len(n.ObjectArgs) != len(o.ObjectArgs) {
		return false
	}
	for i := range n.FormulaArgs {
		if !n.FormulaArgs[i].Equal(o.FormulaArgs[i]) {
			return false
		}
	}
	for i := range n.ObjectArgs {
		if !n.ObjectArgs[i].Equal(o.ObjectArgs[i]) {
			return false
		}
	}
	return true
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Atomic {
		return fmt.Sprintf("%s#%d", n.Sort, n.AtomicID)
	}
	args := make([]string, 0, len(n.FormulaArgs)+len(n.ObjectArgs))
	for _, a := range n.FormulaArgs {
		args = append(args, a.String())
	}
	for _, a := range n.ObjectArgs {
		args = append(args, a.String())
	}
	return fmt.Sprintf("%s[r%d](%s)", n.Sort, n.RuleIndex, strings.Join(args, ","))
}
