package wire

// Writer accumulates encoded bytes for the schema-driven wire format.
// It supports only append operations and exposes the growing buffer
// directly so callers can reuse it across encodes via Reset.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterCap creates an empty Writer with a pre-sized buffer.
func NewWriterCap(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Reset clears the buffer contents but keeps the allocated backing array.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// Bytes returns the encoded bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// WriteBool appends a single-byte boolean.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteInt32 appends a zig-zag varint.
func (w *Writer) WriteInt32(v int32) {
	w.buf = AppendSvarint(w.buf, int64(v))
}

// WriteInt64 appends a zig-zag varint.
func (w *Writer) WriteInt64(v int64) {
	w.buf = AppendSvarint(w.buf, v)
}

// WriteFloat32 appends a little-endian IEEE-754 float32.
func (w *Writer) WriteFloat32(v float32) {
	w.buf = AppendFloat32(w.buf, v)
}

// WriteFloat64 appends a little-endian IEEE-754 float64.
func (w *Writer) WriteFloat64(v float64) {
	w.buf = AppendFloat64(w.buf, v)
}

// WriteLength appends a non-negative uvarint length.
func (w *Writer) WriteLength(n int) {
	w.buf = AppendUvarint(w.buf, uint64(n))
}

// WriteBytes appends a length-prefixed byte slice.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteLength(len(b))
	w.buf = append(w.buf, b...)
}

// WriteString appends a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	w.WriteLength(len(s))
	w.buf = append(w.buf, s...)
}

// WriteFixed appends exactly len(b) raw bytes, for fixed(n) schemas. The
// caller is responsible for ensuring len(b) matches the schema's size.
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteEnum appends an enum index as a plain non-negative varint.
func (w *Writer) WriteEnum(index int) {
	w.WriteLength(index)
}

// WriteUnionIndex appends a union branch discriminant as a plain varint.
func (w *Writer) WriteUnionIndex(index int) {
	w.WriteLength(index)
}

// WriteBlockCount appends a plain block header: a positive item count, or
// 0 to terminate the array/map.
func (w *Writer) WriteBlockCount(count int) {
	w.WriteInt64(int64(count))
}

// WriteSizedBlockCount appends a skippable block header: a negative count
// followed by the byte size of the block's encoded items, so a reader
// that doesn't need this block can jump over it.
func (w *Writer) WriteSizedBlockCount(count, byteSize int) {
	w.WriteInt64(int64(-count))
	w.WriteLength(byteSize)
}

// WriteBlockEnd appends the 0 count that terminates an array/map.
func (w *Writer) WriteBlockEnd() {
	w.WriteBlockCount(0)
}
