// Package snapshot implements --snapshot-save/--snapshot-load (spec §4.4,
// §6): serializing a compiled function tree and the literal table it
// references into a single portable file, and rehydrating it against a
// fresh heap/arena/literal store without re-running the lexer, parser or
// compiler.
//
// A live CompiledCode's ConstantPool holds raw heap.CompressedPointers
// into the literal store that produced it (internal/compiler's
// localConstIndex stores the cp itself, cast to uint32); those
// pointers are only meaningful against the arena that allocated them.
// Save walks literal.Store.Entries() once, assigns each entry a stable
// ordinal, and rewrites every ConstantPool/Name reference from cp to
// that ordinal. Load runs the reverse: it re-interns each literal-table
// entry into the destination Store (in the same order, so the same
// ordinals work) and rewrites ordinals back into the freshly-assigned
// cps before calling value.Arena.NewCompiledCode.
//
// The file ends with a blake2b-256 checksum footer over the literal table
// bytes. Load verifies it after reading the function tree and returns an
// error on a mismatch; by then the literal entries have already been
// interned into the destination Store and the function records allocated
// in the destination arena.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/jerryscript-project/jerryscript-sub014/internal/bytecode"
	"github.com/jerryscript-project/jerryscript-sub014/internal/heap"
	"github.com/jerryscript-project/jerryscript-sub014/internal/literal"
	"github.com/jerryscript-project/jerryscript-sub014/internal/value"
)

// magic tags the file format; version changes whenever the on-disk
// layout below changes incompatibly.
var magic = [8]byte{'J', 'S', 'N', 'A', 'P', '0', '0', '1'}

const (
	litTagString byte = iota
	litTagNumber
)

const nilIndex = ^uint32(0) // sentinel for CompiledCode.Name == heap.Null

// Save serializes root (and every CompiledCode it transitively closes
// over via Children) plus lits' current literal table into w.
func Save(w io.Writer, lits *literal.Store, root *value.CompiledCode, arena *value.Arena) error {
	entries := lits.Entries()
	index := make(map[heap.CompressedPointer]uint32, len(entries))
	for i, e := range entries {
		index[e.CP] = uint32(i)
	}

	var litBuf bytes.Buffer
	if err := binary.Write(&litBuf, binary.BigEndian, uint32(len(entries))); err != nil {
		return errors.Wrap(err, "snapshot: write literal count")
	}
	for _, e := range entries {
		if err := writeLiteralEntry(&litBuf, e); err != nil {
			return errors.Wrap(err, "snapshot: write literal entry")
		}
	}
	checksum := blake2b.Sum256(litBuf.Bytes())

	var fnBuf bytes.Buffer
	if err := writeFunc(&fnBuf, root, arena, index); err != nil {
		return errors.Wrap(err, "snapshot: write function tree")
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic[:]); err != nil {
		return errors.Wrap(err, "snapshot: write header")
	}
	if _, err := bw.Write(litBuf.Bytes()); err != nil {
		return errors.Wrap(err, "snapshot: write literal table")
	}
	if _, err := bw.Write(fnBuf.Bytes()); err != nil {
		return errors.Wrap(err, "snapshot: write function tree")
	}
	if _, err := bw.Write(checksum[:]); err != nil {
		return errors.Wrap(err, "snapshot: write checksum footer")
	}
	return bw.Flush()
}

// Load reads a snapshot produced by Save, interning its literal table
// into lits and rebuilding its function tree in arena. The returned
// *value.CompiledCode is ready for interp.Interpreter.Run, exactly as
// if it had just come out of the compiler.
func Load(r io.Reader, lits *literal.Store, arena *value.Arena) (*value.CompiledCode, error) {
	br := bufio.NewReader(r)

	var gotMagic [8]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, errors.Wrap(err, "snapshot: read header")
	}
	if gotMagic != magic {
		return nil, errors.New("snapshot: bad magic, not a jerryscript-sub014 snapshot")
	}

	litCount, err := readUint32(br)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: read literal count")
	}

	var litBuf bytes.Buffer
	if err := binary.Write(&litBuf, binary.BigEndian, litCount); err != nil {
		return nil, errors.Wrap(err, "snapshot: rebuild literal header")
	}

	cps := make([]heap.CompressedPointer, 0, litCount)
	for i := uint32(0); i < litCount; i++ {
		cp, raw, err := readLiteralEntry(br, lits)
		if err != nil {
			return nil, errors.Wrapf(err, "snapshot: read literal entry %d", i)
		}
		litBuf.Write(raw)
		cps = append(cps, cp)
	}

	root, _, err := readFunc(br, arena, cps)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: read function tree")
	}

	var wantChecksum [blake2b.Size256]byte
	if _, err := io.ReadFull(br, wantChecksum[:]); err != nil {
		return nil, errors.Wrap(err, "snapshot: read checksum footer")
	}
	gotChecksum := blake2b.Sum256(litBuf.Bytes())
	if !bytes.Equal(gotChecksum[:], wantChecksum[:]) {
		return nil, errors.New("snapshot: literal table checksum mismatch, file is corrupted")
	}

	return root, nil
}

func writeLiteralEntry(w io.Writer, e literal.Entry) error {
	if e.IsNum {
		if _, err := w.Write([]byte{litTagNumber}); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, e.Number)
	}
	if _, err := w.Write([]byte{litTagString}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(e.Text))); err != nil {
		return err
	}
	_, err := io.WriteString(w, e.Text)
	return err
}

// readLiteralEntry reads one entry and re-interns it into lits,
// returning both the freshly-assigned cp and the entry's raw encoded
// bytes (re-collected for the checksum, rather than re-deriving them
// from the cp after the fact).
func readLiteralEntry(r io.Reader, lits *literal.Store) (heap.CompressedPointer, []byte, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return heap.Null, nil, err
	}
	switch tag[0] {
	case litTagNumber:
		var n float64
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return heap.Null, nil, err
		}
		cp, err := lits.FindOrCreateNumber(n)
		if err != nil {
			return heap.Null, nil, err
		}
		var raw bytes.Buffer
		raw.Write(tag[:])
		binary.Write(&raw, binary.BigEndian, n)
		return cp, raw.Bytes(), nil
	case litTagString:
		length, err := readUint32(r)
		if err != nil {
			return heap.Null, nil, err
		}
		text := make([]byte, length)
		if _, err := io.ReadFull(r, text); err != nil {
			return heap.Null, nil, err
		}
		cp, err := lits.FindOrCreateString(string(text))
		if err != nil {
			return heap.Null, nil, err
		}
		var raw bytes.Buffer
		raw.Write(tag[:])
		binary.Write(&raw, binary.BigEndian, length)
		raw.Write(text)
		return cp, raw.Bytes(), nil
	default:
		return heap.Null, nil, errors.Errorf("snapshot: unknown literal tag %d", tag[0])
	}
}

func writeFunc(w io.Writer, code *value.CompiledCode, arena *value.Arena, index map[heap.CompressedPointer]uint32) error {
	if err := binary.Write(w, binary.BigEndian, int32(code.ArgCount)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int32(code.RegCount)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(code.Flags)); err != nil {
		return err
	}
	if err := writeNameIndex(w, code.Name, index); err != nil {
		return err
	}
	if err := writeStringSlice(w, code.ParamNames); err != nil {
		return err
	}
	if err := writeString(w, code.RestParam); err != nil {
		return err
	}

	if err := binary.Write(w, binary.BigEndian, uint32(len(code.ConstantPool))); err != nil {
		return err
	}
	for _, cp := range code.ConstantPool {
		idx, ok := index[heap.CompressedPointer(cp)]
		if !ok {
			return errors.Errorf("snapshot: constant pool entry %d not found in literal table", cp)
		}
		if err := binary.Write(w, binary.BigEndian, idx); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.BigEndian, uint32(len(code.Chunk.Code))); err != nil {
		return err
	}
	if _, err := w.Write(code.Chunk.Code); err != nil {
		return err
	}

	if err := binary.Write(w, binary.BigEndian, uint32(len(code.Children))); err != nil {
		return err
	}
	for _, childCP := range code.Children {
		child, ok := arena.CodeAt(value.FromCompressedPointer(uint32(childCP)))
		if !ok {
			return errors.Errorf("snapshot: child function %d missing from arena", childCP)
		}
		if err := writeFunc(w, child, arena, index); err != nil {
			return err
		}
	}
	return nil
}

// readFunc reads one function record (recursively reading its children
// first, since a CompiledCode's Children table must be fully resolved
// to arena cps before the function itself can be allocated) and returns
// both the rehydrated header and the cp it now lives at, so a parent
// call can record that cp in its own Children table without allocating
// the child a second time.
func readFunc(r io.Reader, arena *value.Arena, cps []heap.CompressedPointer) (*value.CompiledCode, heap.CompressedPointer, error) {
	var argCount, regCount int32
	if err := binary.Read(r, binary.BigEndian, &argCount); err != nil {
		return nil, heap.Null, err
	}
	if err := binary.Read(r, binary.BigEndian, &regCount); err != nil {
		return nil, heap.Null, err
	}
	var flags uint16
	if err := binary.Read(r, binary.BigEndian, &flags); err != nil {
		return nil, heap.Null, err
	}
	name, err := readNameIndex(r, cps)
	if err != nil {
		return nil, heap.Null, err
	}
	paramNames, err := readStringSlice(r)
	if err != nil {
		return nil, heap.Null, err
	}
	restParam, err := readString(r)
	if err != nil {
		return nil, heap.Null, err
	}

	poolLen, err := readUint32(r)
	if err != nil {
		return nil, heap.Null, err
	}
	pool := make([]uint32, poolLen)
	for i := range pool {
		idx, err := readUint32(r)
		if err != nil {
			return nil, heap.Null, err
		}
		if int(idx) >= len(cps) {
			return nil, heap.Null, errors.Errorf("snapshot: constant pool index %d out of range", idx)
		}
		pool[i] = uint32(cps[idx])
	}

	codeLen, err := readUint32(r)
	if err != nil {
		return nil, heap.Null, err
	}
	code := make([]byte, codeLen)
	if _, err := io.ReadFull(r, code); err != nil {
		return nil, heap.Null, err
	}

	childCount, err := readUint32(r)
	if err != nil {
		return nil, heap.Null, err
	}
	children := make([]heap.CompressedPointer, childCount)
	for i := range children {
		_, childCP, err := readFunc(r, arena, cps)
		if err != nil {
			return nil, heap.Null, err
		}
		children[i] = childCP
	}

	chunk := &bytecode.Chunk{Code: code, Debug: make([]bytecode.DebugInfo, len(code))}
	v, err := arena.NewCompiledCode(chunk, pool, children, paramNames, restParam, int(argCount), int(regCount), value.CodeFlags(flags))
	if err != nil {
		return nil, heap.Null, err
	}
	result, ok := arena.CodeAt(v)
	if !ok {
		return nil, heap.Null, errors.New("snapshot: compiled code header missing after allocation")
	}
	result.Name = name
	return result, heap.CompressedPointer(v.AsCompressedPointer()), nil
}

func writeNameIndex(w io.Writer, name heap.CompressedPointer, index map[heap.CompressedPointer]uint32) error {
	if name == heap.Null {
		return binary.Write(w, binary.BigEndian, nilIndex)
	}
	idx, ok := index[name]
	if !ok {
		return errors.New("snapshot: function name not found in literal table")
	}
	return binary.Write(w, binary.BigEndian, idx)
}

func readNameIndex(r io.Reader, cps []heap.CompressedPointer) (heap.CompressedPointer, error) {
	idx, err := readUint32(r)
	if err != nil {
		return heap.Null, err
	}
	if idx == nilIndex {
		return heap.Null, nil
	}
	if int(idx) >= len(cps) {
		return heap.Null, errors.Errorf("snapshot: name index %d out of range", idx)
	}
	return cps[idx], nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	length, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeStringSlice(w io.Writer, ss []string) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func readStringSlice(r io.Reader) ([]string, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i := range out {
		out[i], err = readString(r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
