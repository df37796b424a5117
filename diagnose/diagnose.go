// Package diagnose renders a "closest known rule" hint for the
// compiler's Uncompilable errors (spec §7): given the
// atom sequence the compiler got stuck on, it reports which admitted
// syntax rule's pattern is textually nearest, measured by rune-level
// edit distance. Grounded on libdiff/object.go, which
// aligns two objects' fields with diffmatchpatch's rune diff; here the
// two "documents" being diffed are rendered atom/pattern strings
// rather than object field lists, and the interesting output is a
// single distance number rather than a structural diff tree.
package diagnose

import (
	diffmatchpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mathkernel/mm/syntax"
)

// Hint names the syntax rule whose pattern is closest to the failing
// input, and how close ("closest" is still possibly a bad match —
// callers decide whether Distance is worth showing to a user).
type Hint struct {
	RuleName string
	Pattern  string
	Distance int
}

// Closest finds the admitted rule whose pattern has the smallest
// Levenshtein distance to stuck, the rendered form of the atom
// sequence the compiler could not reduce further. Returns false if
// the table has no rules at all.
func Closest(stuck string, rules []syntax.Rule) (Hint, bool) {
	if len(rules) == 0 {
		return Hint{}, false
	}
	dmp := diffmatchpatch.New()
	best := Hint{}
	bestSet := false
	for _, r := range rules {
		pattern := r.Pattern.String()
		diffs := dmp.DiffMain(stuck, pattern, false)
		dist := dmp.DiffLevenshtein(diffs)
		if !bestSet || dist < best.Distance {
			best = Hint{RuleName: r.Name, Pattern: pattern, Distance: dist}
			bestSet = true
		}
	}
	return best, bestSet
}
