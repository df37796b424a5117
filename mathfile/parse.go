package mathfile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mathkernel/mm/mmerr"
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func validName(s string) bool {
	return nameRe.MatchString(s)
}

// section is one "# Heading" block: the heading text as written and
// its non-blank body lines, plus the 1-based line number the heading
// appeared on.
type section struct {
	heading string
	lines   []string
	lineNo  int
}

// Parse reads the text of a single source file (path is used only for
// error messages) and returns its discriminated MathFile.
func Parse(path, text string) (*MathFile, error) {
	rawLines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(strings.TrimSpace(text)) == 0 {
		return nil, &mmerr.Error{Kind: mmerr.UnparsableFile, Path: path, Msg: "empty file"}
	}

	headerLine, headerNo := firstNonBlank(rawLines)
	if headerLine == "" {
		return nil, &mmerr.Error{Kind: mmerr.UnparsableFile, Path: path, Msg: "no header line"}
	}
	kind, name, err := parseHeader(path, headerLine, headerNo)
	if err != nil {
		return nil, err
	}
	if !validName(name) {
		return nil, &mmerr.Error{Kind: mmerr.InvalidName, Path: path, Line: headerNo, Name: name}
	}

	secs, err := splitSections(path, rawLines[headerNo:], headerNo+1)
	if err != nil {
		return nil, err
	}

	mf := &MathFile{Kind: kind, Name: name, Path: path}
	switch kind {
	case SyntaxFormula, SyntaxObject:
		err = parseSyntaxSections(path, secs, mf)
	case AxiomFile:
		err = parseAxiomSections(path, secs, mf)
	case TheoremFile:
		err = parseTheoremSections(path, secs, mf)
	}
	if err != nil {
		return nil, err
	}
	return mf, nil
}

func firstNonBlank(lines []string) (string, int) {
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			return strings.TrimSpace(l), i + 1
		}
	}
	return "", 0
}

var headerRe = regexp.MustCompile(`^##\s+(.+)$`)

func parseHeader(path, line string, lineNo int) (Kind, string, error) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", &mmerr.Error{Kind: mmerr.InvalidHeader, Path: path, Line: lineNo, Msg: line}
	}
	rest := strings.TrimSpace(m[1])
	switch {
	case strings.HasPrefix(rest, "Syntax Definition (formula)"):
		return SyntaxFormula, strings.TrimSpace(strings.TrimPrefix(rest, "Syntax Definition (formula)")), nil
	case strings.HasPrefix(rest, "Syntax Definition (object)"):
		return SyntaxObject, strings.TrimSpace(strings.TrimPrefix(rest, "Syntax Definition (object)")), nil
	case strings.HasPrefix(rest, "Axiom"):
		return AxiomFile, strings.TrimSpace(strings.TrimPrefix(rest, "Axiom")), nil
	case strings.HasPrefix(rest, "Theorem"):
		return TheoremFile, strings.TrimSpace(strings.TrimPrefix(rest, "Theorem")), nil
	default:
		return 0, "", &mmerr.Error{Kind: mmerr.InvalidHeader, Path: path, Line: lineNo, Msg: line}
	}
}

var sectionRe = regexp.MustCompile(`^#\s+(.+)$`)

// splitSections walks the remaining lines (starting at startLineNo)
// and groups them into one section per "# Heading" encountered. Blank
// lines are dropped.
func splitSections(path string, lines []string, startLineNo int) ([]section, error) {
	var secs []section
	var cur *section
	for i, raw := range lines {
		lineNo := startLineNo + i
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		if m := sectionRe.FindStringSubmatch(l); m != nil {
			secs = append(secs, section{heading: strings.TrimSpace(m[1]), lineNo: lineNo})
			cur = &secs[len(secs)-1]
			continue
		}
		if cur == nil {
			return nil, &mmerr.Error{Kind: mmerr.UnparsableFile, Path: path, Line: lineNo, Msg: "content before any section heading"}
		}
		cur.lines = append(cur.lines, l)
	}
	return secs, nil
}

// singular/plural heading aliases (spec §4.2: "either heading accepts
// the singular spelling").
func headingIs(h string, names ...string) bool {
	for _, n := range names {
		if strings.EqualFold(h, n) {
			return true
		}
	}
	return false
}

func parseSyntaxSections(path string, secs []section, mf *MathFile) error {
	if len(secs) == 0 {
		return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Msg: "missing # Syntax section"}
	}
	idx := 0
	s := secs[idx]
	if !headingIs(s.heading, "Syntax") {
		return &mmerr.Error{Kind: mmerr.InvalidSectionOrder, Path: path, Line: s.lineNo, Msg: "expected # Syntax first"}
	}
	if len(s.lines) == 0 {
		return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Line: s.lineNo, Msg: "# Syntax"}
	}
	if len(s.lines) > 1 {
		return &mmerr.Error{Kind: mmerr.MultilineSection, Path: path, Line: s.lineNo, Msg: "# Syntax"}
	}
	mf.SyntaxPattern = s.lines[0]
	idx++

	if idx < len(secs) {
		d := secs[idx]
		if !headingIs(d.heading, "Definition") {
			return &mmerr.Error{Kind: mmerr.InvalidSectionOrder, Path: path, Line: d.lineNo, Msg: "unexpected section after # Syntax"}
		}
		if len(d.lines) == 0 {
			return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Line: d.lineNo, Msg: "# Definition"}
		}
		if len(d.lines) > 1 {
			return &mmerr.Error{Kind: mmerr.MultilineSection, Path: path, Line: d.lineNo, Msg: "# Definition"}
		}
		mf.HasDefinition = true
		mf.Definition = d.lines[0]
		idx++
	}
	if idx < len(secs) {
		return &mmerr.Error{Kind: mmerr.InvalidSectionOrder, Path: path, Line: secs[idx].lineNo, Msg: "unexpected trailing section"}
	}
	return nil
}

func parseAxiomSections(path string, secs []section, mf *MathFile) error {
	idx := 0
	if idx < len(secs) && headingIs(secs[idx].heading, "Hypotheses", "Hypothesis") {
		mf.Hypotheses = append([]string(nil), secs[idx].lines...)
		idx++
	}
	if idx >= len(secs) || !headingIs(secs[idx].heading, "Assertions", "Assertion") {
		return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Msg: "missing # Assertions section"}
	}
	a := secs[idx]
	if len(a.lines) == 0 {
		return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Line: a.lineNo, Msg: "# Assertions"}
	}
	mf.Assertions = append([]string(nil), a.lines...)
	idx++
	if idx < len(secs) {
		return &mmerr.Error{Kind: mmerr.InvalidSectionOrder, Path: path, Line: secs[idx].lineNo, Msg: "unexpected trailing section"}
	}
	return nil
}

var namedHypRe = regexp.MustCompile(`^([A-Za-z0-9]+)\s*:\s*(.+)$`)

func parseTheoremSections(path string, secs []section, mf *MathFile) error {
	idx := 0
	if idx < len(secs) && headingIs(secs[idx].heading, "Hypotheses", "Hypothesis") {
		seen := map[string]bool{}
		for _, l := range secs[idx].lines {
			m := namedHypRe.FindStringSubmatch(l)
			if m == nil {
				return &mmerr.Error{Kind: mmerr.InvalidNamedHypothesis, Path: path, Line: secs[idx].lineNo, Msg: l}
			}
			name := m[1]
			if !validName(name) || seen[name] {
				return &mmerr.Error{Kind: mmerr.InvalidNamedHypothesis, Path: path, Line: secs[idx].lineNo, Name: name}
			}
			seen[name] = true
			mf.NamedHypotheses = append(mf.NamedHypotheses, NamedHyp{Name: name, Formula: strings.TrimSpace(m[2])})
		}
		idx++
	}
	if idx >= len(secs) || !headingIs(secs[idx].heading, "Assertions", "Assertion") {
		return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Msg: "missing # Assertions section"}
	}
	if len(secs[idx].lines) == 0 {
		return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Line: secs[idx].lineNo, Msg: "# Assertions"}
	}
	mf.Assertions = append([]string(nil), secs[idx].lines...)
	idx++

	if idx >= len(secs) || !headingIs(secs[idx].heading, "Proof") {
		return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Msg: "missing # Proof section"}
	}
	if len(secs[idx].lines) == 0 {
		return &mmerr.Error{Kind: mmerr.EmptySection, Path: path, Line: secs[idx].lineNo, Msg: "# Proof"}
	}
	for _, l := range secs[idx].lines {
		pl, err := parseProofLine(path, secs[idx].lineNo, l)
		if err != nil {
			return err
		}
		mf.ProofLines = append(mf.ProofLines, *pl)
	}
	idx++
	if idx < len(secs) {
		return &mmerr.Error{Kind: mmerr.InvalidSectionOrder, Path: path, Line: secs[idx].lineNo, Msg: "unexpected trailing section"}
	}
	return nil
}

func parseProofLine(path string, lineNo int, l string) (*ProofLine, error) {
	parts := strings.SplitN(l, ";", 4)
	if len(parts) != 4 {
		return nil, &mmerr.Error{Kind: mmerr.InvalidProofLine, Path: path, Line: lineNo, Msg: l}
	}
	idxStr := strings.TrimSpace(parts[0])
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return nil, &mmerr.Error{Kind: mmerr.InvalidProofLine, Path: path, Line: lineNo, Msg: l}
	}
	usesStr := strings.TrimSpace(parts[1])
	var uses []int
	if usesStr != "" {
		for _, u := range strings.Split(usesStr, ",") {
			u = strings.TrimSpace(u)
			n, err := strconv.Atoi(u)
			if err != nil {
				return nil, &mmerr.Error{Kind: mmerr.InvalidProofLine, Path: path, Line: lineNo, Msg: l}
			}
			uses = append(uses, n)
		}
	}
	citation := strings.TrimSpace(parts[2])
	formula := strings.TrimSpace(parts[3])
	if citation == "" || formula == "" {
		return nil, &mmerr.Error{Kind: mmerr.InvalidProofLine, Path: path, Line: lineNo, Msg: l}
	}
	return &ProofLine{Index: idx, Uses: uses, Citation: citation, Formula: formula}, nil
}
