package wire

import "unicode/utf8"

// Reader provides sequential, sticky-error binary decoding over a byte
// slice. Errors are recorded on first occurrence and every subsequent
// operation becomes a no-op until the caller checks Err. There are no
// field tags on the wire: callers decode in the order the writer schema
// dictates.
type Reader struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int // 0 means unlimited
	err      error
}

// NewReader creates a Reader over data with no recursion limit.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewReaderDepth creates a Reader that fails with ErrRecursionLimit once
// nested Enter/Exit pairs exceed maxDepth. A maxDepth of 0 disables the
// check.
func NewReaderDepth(data []byte, maxDepth int) *Reader {
	return &Reader{data: data, maxDepth: maxDepth}
}

// Reset rebinds the reader to new data and clears position, depth, and
// error state so the Reader can be reused (e.g. pulled from a sync.Pool).
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.pos = 0
	r.depth = 0
	r.err = nil
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}

// Pos returns the current read offset, for error reporting.
func (r *Reader) Pos() int { return r.pos }

// EOF reports whether all data has been consumed.
func (r *Reader) EOF() bool { return r.pos >= len(r.data) }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// SetErr records err as the reader's sticky error if none is set yet.
func (r *Reader) SetErr(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) ensure(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.SetErr(ErrTruncated)
		return false
	}
	return true
}

// EnterNested increments the recursion depth, failing if maxDepth is
// exceeded. Every successful call must be paired with ExitNested.
func (r *Reader) EnterNested() bool {
	if r.err != nil {
		return false
	}
	if r.maxDepth > 0 && r.depth >= r.maxDepth {
		r.SetErr(ErrRecursionLimit)
		return false
	}
	r.depth++
	return true
}

// ExitNested decrements the recursion depth.
func (r *Reader) ExitNested() {
	if r.depth > 0 {
		r.depth--
	}
}

// ReadBool reads a single-byte boolean.
func (r *Reader) ReadBool() bool {
	if !r.ensure(1) {
		return false
	}
	b := r.data[r.pos]
	r.pos++
	return b != 0
}

// ReadInt32 reads a zig-zag varint truncated to int32.
func (r *Reader) ReadInt32() int32 {
	v := r.ReadInt64()
	return int32(v)
}

// ReadInt64 reads a zig-zag varint.
func (r *Reader) ReadInt64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := DecodeSvarint(r.data[r.pos:])
	if err != nil {
		r.SetErr(err)
		return 0
	}
	r.pos += n
	return v
}

// ReadFloat32 reads a little-endian IEEE-754 float32.
func (r *Reader) ReadFloat32() float32 {
	if !r.ensure(Float32Size) {
		return 0
	}
	v, _ := DecodeFloat32(r.data[r.pos:])
	r.pos += Float32Size
	return v
}

// ReadFloat64 reads a little-endian IEEE-754 float64.
func (r *Reader) ReadFloat64() float64 {
	if !r.ensure(Float64Size) {
		return 0
	}
	v, _ := DecodeFloat64(r.data[r.pos:])
	r.pos += Float64Size
	return v
}

// ReadLength reads a non-negative uvarint length, used for bytes/string
// prefixes and fixed-size sanity checks.
func (r *Reader) ReadLength() int {
	if r.err != nil {
		return 0
	}
	v, n, err := DecodeUvarint(r.data[r.pos:])
	if err != nil {
		r.SetErr(err)
		return 0
	}
	if v > uint64(int(^uint(0)>>1)) {
		r.SetErr(ErrVarintOverflow)
		return 0
	}
	r.pos += n
	return int(v)
}

// ReadBytes reads a length-prefixed byte slice, copying it out of the
// reader's backing array so the caller owns the result.
func (r *Reader) ReadBytes() []byte {
	n := r.ReadLength()
	if r.err != nil {
		return nil
	}
	if !r.ensure(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out
}

// ReadBytesNoCopy reads a length-prefixed byte slice aliasing the
// reader's own backing array. Valid only until the reader's data is
// replaced or mutated.
func (r *Reader) ReadBytesNoCopy() []byte {
	n := r.ReadLength()
	if r.err != nil {
		return nil
	}
	if !r.ensure(n) {
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() string {
	b := r.ReadBytesNoCopy()
	if r.err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.SetErr(ErrInvalidUTF8)
		return ""
	}
	return string(b)
}

// ReadFixed reads exactly n raw bytes (for fixed(n) schemas), copying them
// out of the reader's backing array.
func (r *Reader) ReadFixed(n int) []byte {
	if !r.ensure(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out
}

// ReadEnum reads an enum index as a plain non-negative varint.
func (r *Reader) ReadEnum() int {
	return r.ReadLength()
}

// ReadUnionIndex reads a union branch discriminant as a plain varint.
func (r *Reader) ReadUnionIndex() int {
	return r.ReadLength()
}

// ReadBlockCount reads an array/map block header. A positive count means
// that many items follow; the caller calls ReadBlockCount again after
// consuming them to get the next block, until a count of 0 terminates the
// sequence. A negative count (as emitted by Writer.WriteSizedBlockCount)
// is immediately followed by a byte-size varint that allows skipping the
// block without decoding every item; ReadBlockCount consumes and discards
// that size, returning the absolute item count.
func (r *Reader) ReadBlockCount() int64 {
	if r.err != nil {
		return 0
	}
	count := r.ReadInt64()
	if r.err != nil || count >= 0 {
		return count
	}
	// Negative count: a block byte-size follows so skip-decoding is
	// possible. We never skip, but must still consume the size.
	_ = r.ReadLength()
	return -count
}

// Skip advances the reader by n bytes without interpreting them.
func (r *Reader) Skip(n int) {
	if !r.ensure(n) {
		return
	}
	r.pos += n
}
