package subst

import (
	"testing"

	"github.com/mathkernel/mm/ast"
)

// modusPonensMeta builds the schema-level ASTs for MP: { h1: a0,
// h2: implies(a0, a1) } => a1, with the Implies rule at index 0.
func modusPonensMeta() (hyps []*ast.Node, assertion *ast.Node) {
	a0 := ast.NewAtomic(ast.Formula, 0)
	a1 := ast.NewAtomic(ast.Formula, 1)
	h1 := a0
	h2 := ast.NewComposite(ast.Formula, 0, []*ast.Node{a0, a1}, nil)
	return []*ast.Node{h1, h2}, a1
}

func TestModusPonensSolves(t *testing.T) {
	hyps, assertion := modusPonensMeta()
	p := ast.NewAtomic(ast.Formula, 100)
	q := ast.NewAtomic(ast.Formula, 101)
	concreteH1 := p
	concreteH2 := ast.NewComposite(ast.Formula, 0, []*ast.Node{p, q}, nil)

	sub, ok := Solve(2, 0, hyps, assertion, []*ast.Node{concreteH1, concreteH2}, q)
	if !ok {
		t.Fatalf("expected solve to succeed")
	}
	if !sub.Formula[0].Equal(p) || !sub.Formula[1].Equal(q) {
		t.Fatalf("got bindings %v", sub.Formula)
	}
}

func TestModusPonensRejectsInconsistentBinding(t *testing.T) {
	hyps, assertion := modusPonensMeta()
	p := ast.NewAtomic(ast.Formula, 100)
	q := ast.NewAtomic(ast.Formula, 101)
	r := ast.NewAtomic(ast.Formula, 102)
	// h2 claims "p -> q" but result asks for r, which never unifies
	// with a1 bound to q above.
	concreteH2 := ast.NewComposite(ast.Formula, 0, []*ast.Node{p, q}, nil)
	_, ok := Solve(2, 0, hyps, assertion, []*ast.Node{p, concreteH2}, r)
	if ok {
		t.Fatalf("expected solve to fail")
	}
}

func TestIdempotence(t *testing.T) {
	hyps, assertion := modusPonensMeta()
	p := ast.NewAtomic(ast.Formula, 100)
	q := ast.NewAtomic(ast.Formula, 101)
	concreteH2 := ast.NewComposite(ast.Formula, 0, []*ast.Node{p, q}, nil)
	sub1, ok1 := Solve(2, 0, hyps, assertion, []*ast.Node{p, concreteH2}, q)
	sub2, ok2 := Solve(2, 0, hyps, assertion, []*ast.Node{p, concreteH2}, q)
	if !ok1 || !ok2 {
		t.Fatalf("expected both solves to succeed")
	}
	for i := range sub1.Formula {
		if !sub1.Formula[i].Equal(sub2.Formula[i]) {
			t.Fatalf("non-idempotent binding at slot %d", i)
		}
	}
}
