// Package mmerr collects the kernel's error taxonomy (spec §7) as a
// single typed error, the way cmd/o's eval package types its parse and
// tokenize errors: a small struct carrying position context, an
// Unwrap, and an Error() string, rather than one sentinel per site.
package mmerr

import "fmt"

// Kind names one of the kernel's fatal error categories. Kinds are
// grouped by which component raises them; see spec §7.
type Kind string

const (
	// IO / manifest
	OrderFileNotFound Kind = "OrderFileNotFound"
	IOError           Kind = "IOError"

	// Manifest structure
	InvalidOrderLine Kind = "InvalidOrderLine"

	// Source parse
	UnparsableFile         Kind = "UnparsableFile"
	InvalidHeader          Kind = "InvalidHeader"
	InvalidSectionOrder    Kind = "InvalidSectionOrder"
	EmptySection           Kind = "EmptySection"
	MultilineSection       Kind = "MultilineSection"
	InvalidName            Kind = "InvalidName"
	InvalidNamedHypothesis Kind = "InvalidNamedHypothesis"
	InvalidProofLine       Kind = "InvalidProofLine"

	// Compile
	IncorrectFileType Kind = "IncorrectFileType"
	AmbiguousSyntax   Kind = "AmbiguousSyntax"
	Uncompilable      Kind = "Uncompilable"
	RepetitionInBody  Kind = "RepetitionInBody"

	// Verify
	MissingProofLine            Kind = "MissingProofLine"
	UnknownTheorem               Kind = "UnknownTheorem"
	IncorrectNumberOfHypothesis Kind = "IncorrectNumberOfHypothesis"
	InaccessibleHypothesis      Kind = "InaccessibleHypothesis"
	IncorrectResultingFormula   Kind = "IncorrectResultingFormula"
	AssertionNotProven          Kind = "AssertionNotProven"
	WeirdReference              Kind = "WeirdReference"
)

// Error is the single error type raised by every kernel component.
// All kernel errors are fatal to the current compilation unit (spec
// §4.6 "Failure model" / §7 "Propagation policy"): there is no local
// recovery, so callers are expected to propagate it unchanged up to
// the driver and CLI layer.
type Error struct {
	Kind Kind
	Path string // source file or archive path, if applicable
	Line int    // 1-based line number, 0 if not applicable
	Name string // schema/rule/file name, if applicable
	Index int   // step index / sub-index / other numeric context
	Got   int   // secondary numeric context (e.g. "got" count)
	Want  int   // secondary numeric context (e.g. "want" count)
	Msg   string
	Err   error
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Error() string {
	s := string(e.Kind)
	if e.Path != "" {
		s += " " + e.Path
	}
	if e.Line != 0 {
		s += fmt.Sprintf(":%d", e.Line)
	}
	if e.Name != "" {
		s += fmt.Sprintf(" %q", e.Name)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

func Wrap(k Kind, err error) *Error {
	return &Error{Kind: k, Err: err}
}

func AtLine(path string, line int, k Kind, msg string) *Error {
	return &Error{Kind: k, Path: path, Line: line, Msg: msg}
}

func NewAmbiguousSyntax(name string) *Error {
	return &Error{Kind: AmbiguousSyntax, Name: name, Msg: "overlaps an existing syntax rule as a contiguous sub-sequence"}
}

func NewUncompilable(partial string) *Error {
	return &Error{Kind: Uncompilable, Msg: "no further reduction applies", Err: fmt.Errorf("partial state: %s", partial)}
}

func NewMissingProofLine(i int) *Error {
	return &Error{Kind: MissingProofLine, Index: i, Msg: fmt.Sprintf("expected line number %d", i)}
}

func NewUnknownTheorem(ref string, step int) *Error {
	return &Error{Kind: UnknownTheorem, Name: ref, Index: step, Msg: "citation does not resolve"}
}

func NewIncorrectNumberOfHypothesis(got, want, step int) *Error {
	return &Error{Kind: IncorrectNumberOfHypothesis, Got: got, Want: want, Index: step}
}

func NewInaccessibleHypothesis(ref, step int) *Error {
	return &Error{Kind: InaccessibleHypothesis, Got: ref, Index: step, Msg: "hypothesis reference out of range"}
}

func NewIncorrectResultingFormula(step int) *Error {
	return &Error{Kind: IncorrectResultingFormula, Index: step}
}

func NewAssertionNotProven(index int) *Error {
	return &Error{Kind: AssertionNotProven, Index: index}
}

func NewInvalidOrderLine(line string, lineNo int) *Error {
	return &Error{Kind: InvalidOrderLine, Line: lineNo, Msg: fmt.Sprintf("out of order: %q", line)}
}
