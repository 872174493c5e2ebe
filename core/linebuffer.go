package core

import "unicode/utf8"

// Line editing control codes (teletype conventions)
const (
	CodeLineStart = 0x01 // ^A: cursor to start of line
	CodeLeft      = 0x02 // ^B: cursor left
	CodeLineEnd   = 0x05 // ^E: cursor to end of line
	CodeRight     = 0x06 // ^F: cursor right
	CodeBackspace = 0x08 // ^H: delete before cursor
	CodeKillToEnd = 0x0B // ^K: truncate at cursor
	CodeDelete    = 0x7F // DEL: delete at cursor
)

// DefaultLineCapacity is the console line length used when none is configured
const DefaultLineCapacity = 100

// LineBuffer is a bounded single-line editor fed one byte at a time.
// Invariant: 0 <= cursor <= length <= len(buf), and buf[:length] is ASCII.
// Overflow and non-ASCII input are dropped without touching existing content.
type LineBuffer struct {
	buf    []byte
	length int
	cursor int
}

// NewLineBuffer creates an empty buffer holding at most capacity bytes
func NewLineBuffer(capacity int) *LineBuffer {
	if capacity <= 0 {
		capacity = DefaultLineCapacity
	}
	return &LineBuffer{buf: make([]byte, capacity)}
}

// Process applies exactly one editing action for the byte
func (lb *LineBuffer) Process(c byte) {
	switch c {
	case CodeLineStart:
		lb.cursor = 0
	case CodeLeft:
		if lb.cursor > 0 {
			lb.cursor--
		}
	case CodeLineEnd:
		lb.cursor = lb.length
	case CodeRight:
		if lb.cursor < lb.length {
			lb.cursor++
		}
	case CodeBackspace:
		lb.backspace()
	case CodeKillToEnd:
		lb.length = lb.cursor
	case CodeDelete:
		lb.delete()
	default:
		lb.insert(c)
	}
}

// ProcessRune applies a character; characters that need more than one byte are dropped
func (lb *LineBuffer) ProcessRune(r rune) {
	if r < 0 || r >= utf8.RuneSelf {
		return
	}
	lb.Process(byte(r))
}

// ProcessSequence applies every character of s in order. A sequence that
// overflows part way keeps whatever was applied before the overflow.
func (lb *LineBuffer) ProcessSequence(s string) {
	for _, r := range s {
		lb.ProcessRune(r)
	}
}

// Content returns the current line without any terminator
func (lb *LineBuffer) Content() string {
	return string(lb.buf[:lb.length])
}

// Len returns the number of bytes in the line
func (lb *LineBuffer) Len() int { return lb.length }

// Cursor returns the insertion point
func (lb *LineBuffer) Cursor() int { return lb.cursor }

// Cap returns the maximum line length
func (lb *LineBuffer) Cap() int { return len(lb.buf) }

func (lb *LineBuffer) insert(c byte) {
	if c >= utf8.RuneSelf {
		return
	}
	if lb.length == len(lb.buf) {
		return
	}
	copy(lb.buf[lb.cursor+1:lb.length+1], lb.buf[lb.cursor:lb.length])
	lb.buf[lb.cursor] = c
	lb.cursor++
	lb.length++
}

func (lb *LineBuffer) backspace() {
	if lb.cursor == 0 {
		return
	}
	if lb.cursor < lb.length {
		copy(lb.buf[lb.cursor-1:], lb.buf[lb.cursor:lb.length])
	}
	lb.cursor--
	lb.length--
}

func (lb *LineBuffer) delete() {
	if lb.cursor >= lb.length {
		return
	}
	copy(lb.buf[lb.cursor:], lb.buf[lb.cursor+1:lb.length])
	lb.length--
}
