// internal/framer/framer.go
package framer

import "bytes"

// Framer splits a byte stream into delimiter-terminated lines.
// It owns the unterminated tail of the stream between pushes.
// Not safe for concurrent use; the owner serializes pushes.
type Framer struct {
	delim   byte
	max     int
	buf     []byte
	dropped int
}

// New creates a framer splitting on delim. An unterminated tail longer than
// maxLine bytes is discarded; zero means no limit.
func New(delim byte, maxLine int) *Framer {
	return &Framer{delim: delim, max: maxLine}
}

// Push appends chunk and returns every complete line, in order, without
// delimiters. Two consecutive delimiters yield an empty line.
func (f *Framer) Push(chunk []byte) []string {
	f.buf = append(f.buf, chunk...)

	var lines []string
	offset := 0
	for {
		i := bytes.IndexByte(f.buf[offset:], f.delim)
		if i < 0 {
			break
		}
		lines = append(lines, string(f.buf[offset:offset+i]))
		offset += i + 1
	}

	if offset > 0 {
		// keep only the partial line; copy so the old backing array can go
		rest := make([]byte, len(f.buf)-offset)
		copy(rest, f.buf[offset:])
		f.buf = rest
	}

	if f.max > 0 && len(f.buf) > f.max {
		f.buf = nil
		f.dropped++
	}
	return lines
}

// TakeDropped returns the number of tails discarded for exceeding the line
// limit since the last call, and resets it.
func (f *Framer) TakeDropped() int {
	n := f.dropped
	f.dropped = 0
	return n
}

// Pending is the number of buffered bytes not yet terminated.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// Reset drops any partial line.
func (f *Framer) Reset() {
	f.buf = nil
}
