package protocol

// ScratchMax is the size of a ScratchOutput line buffer
const ScratchMax = 160

// ScratchOutput accumulates one outgoing text line in a fixed-size buffer.
// Output past ScratchMax is truncated.
type ScratchOutput struct {
	buf [ScratchMax]byte
	pos int
}

// NewScratchOutput creates a new ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{pos: 0}
}

func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
}

// OutputString appends a string without converting it to a byte slice first
func (s *ScratchOutput) OutputString(str string) {
	n := copy(s.buf[s.pos:], str)
	s.pos += n
}

// OutputByte appends a single byte
func (s *ScratchOutput) OutputByte(b byte) {
	if s.pos < len(s.buf) {
		s.buf[s.pos] = b
		s.pos++
	}
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// FifoBuffer is a bounded circular byte queue.
// It holds exactly the capacity it was created with; one extra slot in the
// backing array tells full from empty.
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity+1),
		size: capacity + 1,
	}
}

// PushByte appends one byte. It returns false and leaves the queue untouched when full.
func (f *FifoBuffer) PushByte(b byte) bool {
	nextWrite := (f.write + 1) % f.size
	if nextWrite == f.read {
		return false
	}
	f.buf[f.write] = b
	f.write = nextWrite
	return true
}

// PopByte removes the oldest byte. It returns false when empty.
func (f *FifoBuffer) PopByte() (byte, bool) {
	if f.read == f.write {
		return 0, false
	}
	b := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, true
}

// Write appends data to the FIFO buffer and returns how many bytes fit
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		if !f.PushByte(b) {
			// Buffer full
			break
		}
		written++
	}
	return written
}

// Read reads up to len(data) bytes from the FIFO buffer
func (f *FifoBuffer) Read(data []byte) int {
	read := 0
	for i := range data {
		b, ok := f.PopByte()
		if !ok {
			// Buffer empty
			break
		}
		data[i] = b
		read++
	}
	return read
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	return f.Cap() - f.Available()
}

// Cap returns the number of bytes the queue can hold
func (f *FifoBuffer) Cap() int {
	return f.size - 1
}

// IsEmpty returns true if the buffer is empty
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

// IsFull returns true if another byte would not fit
func (f *FifoBuffer) IsFull() bool {
	return (f.write+1)%f.size == f.read
}

// Snapshot copies the queued bytes, oldest first, without consuming them
func (f *FifoBuffer) Snapshot() []byte {
	out := make([]byte, 0, f.Available())
	for i := f.read; i != f.write; i = (i + 1) % f.size {
		out = append(out, f.buf[i])
	}
	return out
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
