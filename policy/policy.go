// Package policy evaluates the settings file's optional POLICY
// expression (spec §10/§11) against library statistics gathered after
// a successful compile or incremental add. Grounded on
// eval/script.go, which likewise compiles a string into an expr-lang
// program via expr.Compile and runs it via expr.Run against an
// environment map — here the environment is a fixed Stats struct
// instead of an arbitrary document environment, since the policy
// expression only ever needs to see library shape.
package policy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Stats is the environment a POLICY expression evaluates against: the
// library's four sequence lengths after a successful compile/add run.
type Stats struct {
	Syntaxes    int
	Definitions int
	Axioms      int
	Theorems    int
}

// Program is a compiled POLICY expression, ready to run against many
// Stats values without recompiling.
type Program struct {
	prg  *vm.Program
	expr string
}

// Compile parses and type-checks a POLICY expression against Stats,
// failing on a malformed expression here rather than deferring the
// error to evaluation time.
func Compile(source string) (*Program, error) {
	prg, err := expr.Compile(source, expr.Env(Stats{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	return &Program{prg: prg, expr: source}, nil
}

// Check runs the compiled expression against stats. A false result is
// a policy violation (§11): it is reported and causes non-zero CLI
// exit status, but it never unwinds an already-committed library —
// the library append happened before Check is ever called.
func (p *Program) Check(stats Stats) (bool, error) {
	res, err := expr.Run(p.prg, stats)
	if err != nil {
		return false, fmt.Errorf("policy %q: %w", p.expr, err)
	}
	ok, isBool := res.(bool)
	if !isBool {
		return false, fmt.Errorf("policy %q: expected bool result, got %T", p.expr, res)
	}
	return ok, nil
}

// String returns the original POLICY source text.
func (p *Program) String() string { return p.expr }
