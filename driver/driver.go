// Package driver implements the directory-driven orchestration (spec
// §6 "Order manifest", §4.2-4.6 wired end to end): reading order.txt,
// walking its three sections in order, and compiling/verifying each
// named source file against a growing Library. Grounded on
// dirbuild.Dir.Run (chdir into a root, run a fixed pipeline
// over a manifest, chdir back, wrap every stage's error with context)
// — dirbuild's manifest is an implicit directory scan plus patch
// application, ours is the explicit, section-ordered order.txt, so
// the manifest reader itself is written fresh.
package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mathfile"
	"github.com/mathkernel/mm/mmerr"
	"github.com/mathkernel/mm/syntax"
	"github.com/mathkernel/mm/verify"
)

// Manifest is order.txt parsed into its three ordered path lists
// (spec §6 "Order manifest").
type Manifest struct {
	Syntaxes []string
	Axioms   []string
	Theorems []string
}

var manifestHeadings = []string{"# Syntax Definitions", "# Axioms", "# Theorems"}

// Dir drives compilation/verification of a library root: order.txt
// plus every source file order.txt names, all paths relative to Root.
type Dir struct {
	Root string
}

// New returns a Dir rooted at root.
func New(root string) *Dir {
	return &Dir{Root: root}
}

// Compile reads order.txt and builds a fresh Library by walking its
// three sections in order, stopping at the first error (spec §4.6
// "Failure model": no partial commit beyond what already succeeded).
func (d *Dir) Compile() (*library.Library, error) {
	m, err := d.readManifest()
	if err != nil {
		return nil, err
	}
	lib := library.New()
	for _, p := range m.Syntaxes {
		if _, err := d.AddSyntax(lib, p); err != nil {
			return nil, err
		}
	}
	for _, p := range m.Axioms {
		if _, err := d.AddAxiom(lib, p); err != nil {
			return nil, err
		}
	}
	for _, p := range m.Theorems {
		if _, err := d.AddTheorem(lib, p); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// AddSyntax parses and admits one Syntax Definition file (formula or
// object) into lib. Used both by Compile and directly by the CLI's
// `add_sd` subcommand for incremental add (spec §3 "Lifecycles").
func (d *Dir) AddSyntax(lib *library.Library, relPath string) (*syntax.Rule, error) {
	mf, err := d.readMathFile(relPath)
	if err != nil {
		return nil, err
	}
	if mf.Kind != mathfile.SyntaxFormula && mf.Kind != mathfile.SyntaxObject {
		return nil, &mmerr.Error{Kind: mmerr.IncorrectFileType, Path: relPath, Msg: "expected a Syntax Definition file"}
	}
	return lib.AddSyntax(mf)
}

// AddAxiom parses and admits one Axiom file into lib, for Compile and
// the CLI's `add_ax` subcommand.
func (d *Dir) AddAxiom(lib *library.Library, relPath string) (library.Schema, error) {
	mf, err := d.readMathFile(relPath)
	if err != nil {
		return library.Schema{}, err
	}
	if mf.Kind != mathfile.AxiomFile {
		return library.Schema{}, &mmerr.Error{Kind: mmerr.IncorrectFileType, Path: relPath, Msg: "expected an Axiom file"}
	}
	return lib.AddAxiom(mf)
}

// AddTheorem parses and verifies one Theorem file into lib, for
// Compile and the CLI's `add` subcommand.
func (d *Dir) AddTheorem(lib *library.Library, relPath string) (library.Theorem, error) {
	mf, err := d.readMathFile(relPath)
	if err != nil {
		return library.Theorem{}, err
	}
	if mf.Kind != mathfile.TheoremFile {
		return library.Theorem{}, &mmerr.Error{Kind: mmerr.IncorrectFileType, Path: relPath, Msg: "expected a Theorem file"}
	}
	return verify.Theorem(lib, mf)
}

func (d *Dir) readMathFile(relPath string) (*mathfile.MathFile, error) {
	full := filepath.Join(d.Root, relPath)
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &mmerr.Error{Kind: mmerr.IOError, Path: full, Msg: "source file not found"}
		}
		return nil, mmerr.Wrap(mmerr.IOError, fmt.Errorf("reading %s: %w", full, err))
	}
	return mathfile.Parse(full, string(data))
}

func (d *Dir) readManifest() (*Manifest, error) {
	path := filepath.Join(d.Root, "order.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &mmerr.Error{Kind: mmerr.OrderFileNotFound, Path: path}
		}
		return nil, mmerr.Wrap(mmerr.IOError, fmt.Errorf("reading %s: %w", path, err))
	}
	return parseManifest(path, string(data))
}

// parseManifest enforces spec §6's fixed section order: "# Syntax
// Definitions", then "# Axioms", then "# Theorems", each appearing
// exactly once, each path line belonging to whichever section
// heading precedes it.
func parseManifest(path, text string) (*Manifest, error) {
	m := &Manifest{}
	state := -1 // -1 = before any heading
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, raw := range lines {
		lineNo := i + 1
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		if strings.HasPrefix(l, "#") {
			next := headingIndex(l)
			if next == -1 || next != state+1 {
				return nil, mmerr.NewInvalidOrderLine(l, lineNo)
			}
			state = next
			continue
		}
		if state == -1 {
			return nil, mmerr.NewInvalidOrderLine(l, lineNo)
		}
		switch state {
		case 0:
			m.Syntaxes = append(m.Syntaxes, l)
		case 1:
			m.Axioms = append(m.Axioms, l)
		case 2:
			m.Theorems = append(m.Theorems, l)
		}
	}
	return m, nil
}

func headingIndex(l string) int {
	for i, h := range manifestHeadings {
		if l == h {
			return i
		}
	}
	return -1
}
