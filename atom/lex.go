package atom

// The two designated placeholder ranges (spec §4.1) and the ellipsis
// glyph. Object placeholders use the mathematical-italic lower-case
// Latin range; formula placeholders use the mathematical-italic
// lower-case Greek range. Both ranges are treated as contiguous for
// the purpose of this lexer, per spec: the offset within the range is
// the placeholder id.
const (
	objectHoleStart = 0x1D44E // MATHEMATICAL ITALIC SMALL A
	objectHoleEnd   = 0x1D467 // MATHEMATICAL ITALIC SMALL Z

	formulaHoleStart = 0x1D6FC // MATHEMATICAL ITALIC SMALL ALPHA
	formulaHoleEnd   = 0x1D714 // MATHEMATICAL ITALIC SMALL OMEGA

	ellipsisGlyph = 0x2026 // HORIZONTAL ELLIPSIS …
)

// Lex maps a UTF-8 string into an ordered sequence of atoms. It is
// total: every rune produces exactly one atom (spaces are dropped
// entirely and produce none), so Lex never fails.
func Lex(s string) Seq {
	var out Seq
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t':
			continue
		case r == ellipsisGlyph:
			out = append(out, Atom{Kind: Repetition})
		case r >= objectHoleStart && r <= objectHoleEnd:
			out = append(out, Atom{Kind: ObjectHole, ID: int(r - objectHoleStart)})
		case r >= formulaHoleStart && r <= formulaHoleEnd:
			out = append(out, Atom{Kind: FormulaHole, ID: int(r - formulaHoleStart)})
		default:
			out = append(out, Atom{Kind: LiteralChar, Char: r})
		}
	}
	return out
}
