// Package termcolor renders the CLI's success/error/name output in
// color (spec §10/§11), gated by Settings.Color when set explicitly or
// by a TTY check otherwise. Grounded on
// encode/encode_colors.go, which builds a map of category -> color
// function via color.RGB(...).SprintfFunc() and falls back to an
// identity function for anything not in the map; ours has a fixed,
// small set of categories (success/error/name/hint) instead of a
// per-ir.Type map, since the CLI only ever prints a handful of line
// shapes.
package termcolor

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Category names one of the CLI's colorable line roles.
type Category int

const (
	Success Category = iota
	Failure
	Name
	Hint
)

// Palette maps each Category to a Sprint-style function. A disabled
// Palette's functions are all the identity function, so callers never
// need to branch on whether color is active.
type Palette struct {
	fns map[Category]func(a ...any) string
}

func identity(a ...any) string {
	if len(a) == 0 {
		return ""
	}
	s, ok := a[0].(string)
	if !ok {
		return ""
	}
	return s
}

// New builds an enabled Palette, colors matching
// encode_colors.go RGB choices repurposed for this domain: green for
// success, red for failure, a blue-grey for rule/theorem names (the
// TagColor), and a tan for hints.
func New() *Palette {
	return &Palette{fns: map[Category]func(a ...any) string{
		Success: color.RGB(8, 196, 16).SprintFunc(),
		Failure: color.RGB(196, 16, 8).SprintFunc(),
		Name:    color.RGB(74, 92, 138).SprintFunc(),
		Hint:    color.RGB(196, 168, 128).SprintFunc(),
	}}
}

// Disabled builds a Palette that renders everything uncolored.
func Disabled() *Palette {
	return &Palette{}
}

// Paint renders s under category c, or returns s unchanged if the
// palette has no function for that category (including a Disabled
// palette).
func (p *Palette) Paint(c Category, s string) string {
	if p == nil || p.fns == nil {
		return identity(s)
	}
	f, ok := p.fns[c]
	if !ok {
		return s
	}
	return f(s)
}

// ForSetting picks Disabled or New per the settings-file COLOR key
// (spec §6): colorSet is whether COLOR was present in the settings
// file at all, colorValue is its value if so. When COLOR was not set,
// color is auto-detected from whether out is a terminal, the same
// isatty.IsTerminal fallback cmd/o/configs.go uses when
// its own `-color` flag was left unset.
func ForSetting(colorSet, colorValue bool, out io.Writer) *Palette {
	if colorSet {
		if colorValue {
			return New()
		}
		return Disabled()
	}
	f, ok := out.(*os.File)
	if !ok {
		return Disabled()
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return New()
	}
	return Disabled()
}
