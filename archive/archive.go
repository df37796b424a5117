// Package archive implements the binary serializer (spec §4.7): a
// single flat file holding the whole library as a sequence of tagged,
// length-prefixed records, each self-describing enough that a reader
// can skip a record whose tag it doesn't recognize. Grounded on the
// system/logd/storage/internal/snap/snap.go, which frames
// its own on-disk log the same way — one tag byte, a length, a body —
// specifically so old readers survive new record kinds; that framing
// technique is carried over here even though the surrounding
// storage-daemon machinery is not (spec §5: this kernel has no
// multi-writer log, just one flat write/read of an in-memory library).
package archive

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mathkernel/mm/ast"
	"github.com/mathkernel/mm/library"
	"github.com/mathkernel/mm/mmerr"
	"github.com/mathkernel/mm/syntax"
)

// Record tags (spec §4.7 "record frames"). Any tag this reader does
// not recognize is skipped using the record's own length prefix,
// rather than failing the whole archive.
const (
	recSyntax     byte = 0xF0
	recDefinition byte = 0xF1
	recAxiom      byte = 0xF2
	recTheorem    byte = 0xF3
	recEOF        byte = 0xF4
)

// Block/Placeholder element tags (spec §4.7 "Vectorizable elements").
// Each element is a 5-byte frame: one tag byte, four little-endian
// payload bytes. 0xFE and 0xFF are reserved terminators and can never
// be a valid element's tag.
const (
	elemFormulaAtomic    byte = 0x01
	elemObjectAtomic     byte = 0x02
	elemFormulaComposite byte = 0x03
	elemObjectComposite  byte = 0x04

	elemLiteral      byte = 0x10
	elemFormulaSlot  byte = 0x11
	elemObjectSlot   byte = 0x12
	elemRepetition   byte = 0x13
	elemStepUseIndex byte = 0x20

	vectorEnd byte = 0xFE
)

// Citation frames are fixed 9 bytes: a 1-byte kind tag plus two
// little-endian uint32 indices, wide enough for (SchemaIndex,
// SubIndex) without needing the element-vector machinery.
const citationFrameSize = 9

const (
	citHypothesis byte = 0x00
	citDefinition byte = 0x01
	citAxiom      byte = 0x02
	citTheorem    byte = 0x03
)

// Write serializes lib's four ordered sequences, in order, as one
// record per entry, terminated by a bare EOF record (spec §4.7
// "Archive write is a serialization of the whole library").
func Write(w io.Writer, lib *library.Library) error {
	for _, r := range lib.Syntax.Rules {
		if err := writeRecord(w, recSyntax, encodeSyntaxRule(r)); err != nil {
			return err
		}
	}
	for _, d := range lib.Definitions {
		if err := writeRecord(w, recDefinition, encodeDefinition(d)); err != nil {
			return err
		}
	}
	for _, a := range lib.Axioms {
		if err := writeRecord(w, recAxiom, encodeSchema(a)); err != nil {
			return err
		}
	}
	for _, t := range lib.Theorems {
		if err := writeRecord(w, recTheorem, encodeTheorem(t)); err != nil {
			return err
		}
	}
	return writeRecord(w, recEOF, nil)
}

// Read reconstructs a Library from an archive stream, replaying
// records in file order and re-deriving the name index as it goes
// (spec §3 "Library": "a name→citation index, external to the
// library on disk, re-derivable during load"). Unrecognized record
// tags are skipped using their length prefix (S6).
func Read(r io.Reader) (*library.Library, error) {
	br := bufio.NewReader(r)
	lib := library.New()
	for {
		tag, err := br.ReadByte()
		if err != nil {
			return nil, mmerr.Wrap(mmerr.IOError, fmt.Errorf("reading record tag: %w", err))
		}
		if tag == recEOF {
			// EOF still carries a (zero) length prefix for frame
			// uniformity; consume it before returning.
			if _, err := readLen(br); err != nil {
				return nil, err
			}
			return lib, nil
		}

		body, err := readBody(br)
		if err != nil {
			return nil, err
		}
		bodyR := bufio.NewReader(bytes.NewReader(body))

		switch tag {
		case recSyntax:
			if err := decodeSyntaxRule(bodyR, lib); err != nil {
				return nil, err
			}
		case recDefinition:
			if err := decodeDefinition(bodyR, lib); err != nil {
				return nil, err
			}
		case recAxiom:
			if err := decodeAxiom(bodyR, lib); err != nil {
				return nil, err
			}
		case recTheorem:
			if err := decodeTheorem(bodyR, lib); err != nil {
				return nil, err
			}
		default:
			// Unknown record kind from a newer writer: the length
			// prefix already let us skip its body whole.
			continue
		}
	}
}

func writeRecord(w io.Writer, tag byte, body []byte) error {
	if _, err := w.Write([]byte{tag}); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func readLen(r io.Reader) (uint32, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, mmerr.Wrap(mmerr.IOError, fmt.Errorf("reading record length: %w", err))
	}
	return binary.LittleEndian.Uint32(lenBuf[:]), nil
}

func readBody(r io.Reader) ([]byte, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, mmerr.Wrap(mmerr.IOError, fmt.Errorf("reading record body: %w", err))
	}
	return body, nil
}

func decodeErr(msg string) error {
	return mmerr.New(mmerr.IOError, "archive: "+msg)
}

// --- element (Block/Placeholder) framing ---

func writeElement(w *bytes.Buffer, tag byte, payload uint32) {
	w.WriteByte(tag)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], payload)
	w.Write(b[:])
}

func readElement(r *bufio.Reader) (byte, uint32, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return 0, 0, decodeErr("truncated element")
	}
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, 0, decodeErr("truncated element payload")
	}
	return tag, binary.LittleEndian.Uint32(b[:]), nil
}

// --- strings ---

func writeString(w *bytes.Buffer, s string) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(s)))
	w.Write(b[:])
	w.WriteString(s)
}

func readString(r *bufio.Reader) (string, error) {
	n, err := readLen(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", decodeErr("truncated string")
	}
	return string(buf), nil
}

// --- AST RPN vectors (spec §4.7 "RPN encoding of an AST") ---

func encodeNode(w *bytes.Buffer, n *ast.Node) {
	if n.Atomic {
		tag := elemFormulaAtomic
		if n.Sort == ast.Object {
			tag = elemObjectAtomic
		}
		writeElement(w, tag, uint32(n.AtomicID))
		return
	}
	for _, c := range n.FormulaArgs {
		encodeNode(w, c)
	}
	for _, c := range n.ObjectArgs {
		encodeNode(w, c)
	}
	tag := elemFormulaComposite
	if n.Sort == ast.Object {
		tag = elemObjectComposite
	}
	writeElement(w, tag, uint32(n.RuleIndex))
}

func encodeRPNVector(w *bytes.Buffer, n *ast.Node) {
	encodeNode(w, n)
	w.WriteByte(vectorEnd)
}

// decodeRPNVector replays one post-order Block stream against tab,
// maintaining two stacks exactly as spec §4.7 describes, failing on
// pop-underflow, an out-of-range rule_index, or leftover stack values.
func decodeRPNVector(r *bufio.Reader, tab *syntax.Table) (*ast.Node, error) {
	var formulaStack, objectStack []*ast.Node
	for {
		b, err := r.Peek(1)
		if err != nil {
			return nil, decodeErr("unterminated AST vector")
		}
		if b[0] == vectorEnd {
			r.ReadByte()
			break
		}
		tag, payload, err := readElement(r)
		if err != nil {
			return nil, err
		}
		switch tag {
		case elemFormulaAtomic:
			formulaStack = append(formulaStack, ast.NewAtomic(ast.Formula, int(payload)))
		case elemObjectAtomic:
			objectStack = append(objectStack, ast.NewAtomic(ast.Object, int(payload)))
		case elemFormulaComposite, elemObjectComposite:
			rule, ok := tab.RuleByIndex(int(payload))
			if !ok {
				return nil, decodeErr("composite rule_index out of range")
			}
			if len(formulaStack) < rule.FormulaArity || len(objectStack) < rule.ObjectArity {
				return nil, decodeErr("stack underflow decoding composite")
			}
			// Non-nil even at zero arity, the same shape the compiler
			// builds, so a decoded node equals the one that was encoded.
			fArgs := make([]*ast.Node, rule.FormulaArity)
			copy(fArgs, formulaStack[len(formulaStack)-rule.FormulaArity:])
			formulaStack = formulaStack[:len(formulaStack)-rule.FormulaArity]
			oArgs := make([]*ast.Node, rule.ObjectArity)
			copy(oArgs, objectStack[len(objectStack)-rule.ObjectArity:])
			objectStack = objectStack[:len(objectStack)-rule.ObjectArity]
			sort := ast.Formula
			if tag == elemObjectComposite {
				sort = ast.Object
			}
			node := ast.NewComposite(sort, int(payload), fArgs, oArgs)
			if sort == ast.Formula {
				formulaStack = append(formulaStack, node)
			} else {
				objectStack = append(objectStack, node)
			}
		default:
			return nil, decodeErr("unrecognized Block tag in AST vector")
		}
	}
	if len(formulaStack) != 1 || len(objectStack) != 0 {
		return nil, decodeErr("leftover values after decoding AST vector")
	}
	return formulaStack[0], nil
}

// --- syntax pattern vectors ---

func encodePattern(w *bytes.Buffer, p syntax.Pattern) {
	for _, ph := range p {
		switch ph.Kind {
		case syntax.Literal:
			writeElement(w, elemLiteral, uint32(ph.Char))
		case syntax.FormulaSlot:
			writeElement(w, elemFormulaSlot, uint32(ph.Slot))
		case syntax.ObjectSlot:
			writeElement(w, elemObjectSlot, uint32(ph.Slot))
		case syntax.Repetition:
			writeElement(w, elemRepetition, 0)
		}
	}
	w.WriteByte(vectorEnd)
}

func decodePattern(r *bufio.Reader) (syntax.Pattern, error) {
	var p syntax.Pattern
	for {
		b, err := r.Peek(1)
		if err != nil {
			return nil, decodeErr("unterminated pattern vector")
		}
		if b[0] == vectorEnd {
			r.ReadByte()
			break
		}
		tag, payload, err := readElement(r)
		if err != nil {
			return nil, err
		}
		switch tag {
		case elemLiteral:
			p = append(p, syntax.Placeholder{Kind: syntax.Literal, Char: rune(payload)})
		case elemFormulaSlot:
			p = append(p, syntax.Placeholder{Kind: syntax.FormulaSlot, Slot: int(payload)})
		case elemObjectSlot:
			p = append(p, syntax.Placeholder{Kind: syntax.ObjectSlot, Slot: int(payload)})
		case elemRepetition:
			p = append(p, syntax.Placeholder{Kind: syntax.Repetition})
		default:
			return nil, decodeErr("unrecognized Placeholder tag in pattern vector")
		}
	}
	return p, nil
}

// --- record bodies ---

func encodeSyntaxRule(r syntax.Rule) []byte {
	var w bytes.Buffer
	if r.Kind == syntax.ObjectRule {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
	writeString(&w, r.Name)
	encodePattern(&w, r.Pattern)
	writeUint32(&w, uint32(r.FormulaArity))
	writeUint32(&w, uint32(r.ObjectArity))
	return w.Bytes()
}

func decodeSyntaxRule(r *bufio.Reader, lib *library.Library) error {
	kindByte, err := r.ReadByte()
	if err != nil {
		return decodeErr("truncated syntax record")
	}
	kind := syntax.FormulaRule
	if kindByte == 1 {
		kind = syntax.ObjectRule
	}
	name, err := readString(r)
	if err != nil {
		return err
	}
	pattern, err := decodePattern(r)
	if err != nil {
		return err
	}
	formulaArity, err := readUint32(r)
	if err != nil {
		return err
	}
	objectArity, err := readUint32(r)
	if err != nil {
		return err
	}
	lib.Syntax.AppendTrusted(name, kind, pattern, int(formulaArity), int(objectArity))
	return nil
}

func encodeDefinition(d library.Definition) []byte {
	var w bytes.Buffer
	writeString(&w, d.Name)
	encodeRPNVector(&w, d.Body)
	writeUint32(&w, uint32(d.FormulaArity))
	writeUint32(&w, uint32(d.ObjectArity))
	return w.Bytes()
}

func decodeDefinition(r *bufio.Reader, lib *library.Library) error {
	name, err := readString(r)
	if err != nil {
		return err
	}
	body, err := decodeRPNVector(r, lib.Syntax)
	if err != nil {
		return err
	}
	formulaArity, err := readUint32(r)
	if err != nil {
		return err
	}
	objectArity, err := readUint32(r)
	if err != nil {
		return err
	}
	lib.AppendDefinition(library.Definition{Name: name, Body: body, FormulaArity: int(formulaArity), ObjectArity: int(objectArity)})
	return nil
}

func encodeSchema(s library.Schema) []byte {
	var w bytes.Buffer
	writeString(&w, s.Name)
	writeUint32(&w, uint32(len(s.Hypotheses)))
	for _, h := range s.Hypotheses {
		encodeRPNVector(&w, h)
	}
	writeUint32(&w, uint32(len(s.Assertions)))
	for _, a := range s.Assertions {
		encodeRPNVector(&w, a)
	}
	writeUint32(&w, uint32(s.FormulaArity))
	writeUint32(&w, uint32(s.ObjectArity))
	return w.Bytes()
}

func decodeSchema(r *bufio.Reader, tab *syntax.Table) (library.Schema, error) {
	name, err := readString(r)
	if err != nil {
		return library.Schema{}, err
	}
	hypCount, err := readUint32(r)
	if err != nil {
		return library.Schema{}, err
	}
	hyps := make([]*ast.Node, hypCount)
	for i := range hyps {
		n, err := decodeRPNVector(r, tab)
		if err != nil {
			return library.Schema{}, err
		}
		hyps[i] = n
	}
	assertionCount, err := readUint32(r)
	if err != nil {
		return library.Schema{}, err
	}
	assertions := make([]*ast.Node, assertionCount)
	for i := range assertions {
		n, err := decodeRPNVector(r, tab)
		if err != nil {
			return library.Schema{}, err
		}
		assertions[i] = n
	}
	formulaArity, err := readUint32(r)
	if err != nil {
		return library.Schema{}, err
	}
	objectArity, err := readUint32(r)
	if err != nil {
		return library.Schema{}, err
	}
	return library.Schema{
		Name:         name,
		Hypotheses:   hyps,
		Assertions:   assertions,
		FormulaArity: int(formulaArity),
		ObjectArity:  int(objectArity),
	}, nil
}

func decodeAxiom(r *bufio.Reader, lib *library.Library) error {
	s, err := decodeSchema(r, lib.Syntax)
	if err != nil {
		return err
	}
	lib.AppendAxiom(s)
	return nil
}

// encodeTheorem writes the schema fields followed by the proof's
// three parallel vectors (spec §4.7: "Theorems additionally serialize
// their proof as three parallel vectors (hyp_refs, citations, result
// RPNs)"), sharing one step-count prefix written before the first of
// them rather than being sentinel-terminated, since their length is
// already known.
func encodeTheorem(t library.Theorem) []byte {
	var w bytes.Buffer
	writeString(&w, t.Name)
	writeUint32(&w, uint32(len(t.Hypotheses)))
	for _, h := range t.Hypotheses {
		encodeRPNVector(&w, h)
	}
	writeUint32(&w, uint32(len(t.Assertions)))
	for _, a := range t.Assertions {
		encodeRPNVector(&w, a)
	}
	writeUint32(&w, uint32(t.FormulaArity))
	writeUint32(&w, uint32(t.ObjectArity))

	writeUint32(&w, uint32(len(t.Steps)))
	for _, s := range t.Steps {
		writeUint32(&w, uint32(len(s.Uses)))
		for _, u := range s.Uses {
			writeElement(&w, elemStepUseIndex, uint32(u))
		}
	}
	for _, s := range t.Steps {
		writeCitation(&w, s.Citation)
	}
	for _, s := range t.Steps {
		encodeRPNVector(&w, s.Result)
	}
	return w.Bytes()
}

func decodeTheorem(r *bufio.Reader, lib *library.Library) error {
	schema, err := decodeSchema(r, lib.Syntax)
	if err != nil {
		return err
	}

	stepCount, err := readUint32(r)
	if err != nil {
		return err
	}
	uses := make([][]int, stepCount)
	for i := range uses {
		n, err := readUint32(r)
		if err != nil {
			return err
		}
		// A step with no uses keeps nil Uses, as package verify builds it.
		var u []int
		if n > 0 {
			u = make([]int, n)
		}
		for j := range u {
			tag, payload, err := readElement(r)
			if err != nil {
				return err
			}
			if tag != elemStepUseIndex {
				return decodeErr("expected step-use-index element")
			}
			u[j] = int(payload)
		}
		uses[i] = u
	}
	citations := make([]library.Citation, stepCount)
	for i := range citations {
		c, err := readCitation(r)
		if err != nil {
			return err
		}
		citations[i] = c
	}
	steps := make([]library.Step, stepCount)
	for i := range steps {
		result, err := decodeRPNVector(r, lib.Syntax)
		if err != nil {
			return err
		}
		steps[i] = library.Step{Uses: uses[i], Citation: citations[i], Result: result}
	}

	lib.AppendTheorem(library.Theorem{Schema: schema, Steps: steps})
	return nil
}

func writeCitation(w *bytes.Buffer, c library.Citation) {
	tag := citHypothesis
	switch c.Kind {
	case library.CiteDefinition:
		tag = citDefinition
	case library.CiteAxiom:
		tag = citAxiom
	case library.CiteTheorem:
		tag = citTheorem
	}
	w.WriteByte(tag)
	var a, b [4]byte
	if c.Kind == library.CiteHypothesis {
		binary.LittleEndian.PutUint32(a[:], uint32(c.HypIndex))
	} else {
		binary.LittleEndian.PutUint32(a[:], uint32(c.SchemaIndex))
		binary.LittleEndian.PutUint32(b[:], uint32(c.SubIndex))
	}
	w.Write(a[:])
	w.Write(b[:])
}

func readCitation(r *bufio.Reader) (library.Citation, error) {
	var frame [citationFrameSize]byte
	if _, err := io.ReadFull(r, frame[:]); err != nil {
		return library.Citation{}, decodeErr("truncated citation frame")
	}
	a := binary.LittleEndian.Uint32(frame[1:5])
	b := binary.LittleEndian.Uint32(frame[5:9])
	switch frame[0] {
	case citHypothesis:
		return library.Citation{Kind: library.CiteHypothesis, HypIndex: int(a)}, nil
	case citDefinition:
		return library.Citation{Kind: library.CiteDefinition, SchemaIndex: int(a), SubIndex: int(b)}, nil
	case citAxiom:
		return library.Citation{Kind: library.CiteAxiom, SchemaIndex: int(a), SubIndex: int(b)}, nil
	case citTheorem:
		return library.Citation{Kind: library.CiteTheorem, SchemaIndex: int(a), SubIndex: int(b)}, nil
	}
	return library.Citation{}, decodeErr("unrecognized citation kind")
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func readUint32(r *bufio.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, decodeErr("truncated uint32")
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
