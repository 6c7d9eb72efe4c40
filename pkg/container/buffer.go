package container

// bufferMode is the storage discipline a ByteBuffer is currently using.
type bufferMode int

const (
	// modeOwned means the buffer allocated and owns its storage.
	modeOwned bufferMode = iota
	// modeGiven means a caller handed over a buffer with a release
	// function to call when the buffer is done with it.
	modeGiven
	// modeAliased means the buffer borrows static/foreign storage that
	// is never released.
	modeAliased
)

// ByteBuffer is a length-carrying byte buffer that may own its storage,
// borrow foreign storage with a release callback, or alias a static
// region. This is the
// carrier behind the value interface's bytes/string `grab`/`give`
// operations (pkg/value).
type ByteBuffer struct {
	data    []byte
	mode    bufferMode
	release func([]byte)
}

// NewByteBuffer creates an empty, owned ByteBuffer.
func NewByteBuffer() *ByteBuffer {
	return &ByteBuffer{mode: modeOwned}
}

// Set copies b into owned storage, replacing any prior content or
// borrow.
func (buf *ByteBuffer) Set(b []byte) {
	buf.releasePrior()
	buf.data = append([]byte(nil), b...)
	buf.mode = modeOwned
	buf.release = nil
}

// Give adopts b directly (no copy), calling release when the buffer no
// longer needs it (on the next Set/Give/Clear-of-given/Done). release
// may be nil if the caller has no cleanup to perform.
func (buf *ByteBuffer) Give(b []byte, release func([]byte)) {
	buf.releasePrior()
	buf.data = b
	buf.mode = modeGiven
	buf.release = release
}

// Alias borrows b without ever copying or releasing it. The caller must
// keep b alive for as long as the ByteBuffer is in use.
func (buf *ByteBuffer) Alias(b []byte) {
	buf.releasePrior()
	buf.data = b
	buf.mode = modeAliased
	buf.release = nil
}

// Bytes returns the current contents. The returned slice must not be
// retained past the buffer's next mutation.
func (buf *ByteBuffer) Bytes() []byte { return buf.data }

// Len returns the number of bytes currently held.
func (buf *ByteBuffer) Len() int { return len(buf.data) }

// Clear resets the logical length to 0. If the buffer owns its storage,
// the backing array is retained for reuse; a given or aliased buffer
// instead drops the borrow (there is no "0-length slice of someone
// else's memory" to keep).
func (buf *ByteBuffer) Clear() {
	switch buf.mode {
	case modeOwned:
		buf.data = buf.data[:0]
	default:
		buf.releasePrior()
		buf.data = nil
		buf.mode = modeOwned
	}
}

// Done releases the buffer's storage according to its current mode:
// owned storage is dropped for the GC, given storage's release
// callback fires, and aliased storage is left untouched.
func (buf *ByteBuffer) Done() {
	buf.releasePrior()
	buf.data = nil
}

func (buf *ByteBuffer) releasePrior() {
	if buf.mode == modeGiven && buf.release != nil {
		buf.release(buf.data)
	}
	buf.release = nil
}

// Equal compares two buffers by content, length first.
func (buf *ByteBuffer) Equal(other *ByteBuffer) bool {
	if len(buf.data) != len(other.data) {
		return false
	}
	for i := range buf.data {
		if buf.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
