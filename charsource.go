package csvcore

import (
	"bufio"
	"io"

	"github.com/klauspost/cpuid/v2"
)

// END_OF_STREAM is returned by CharSource.Read/LookAhead once the underlying
// reader is exhausted.
const END_OF_STREAM rune = -1

// UNDEFINED is CharSource.LastReadChar's value before the first Read.
const UNDEFINED rune = -2

const baseBufferSize = 8 * 1024

// defaultBufferSize picks CharSource's internal buffer size, scaled off
// the running CPU's cache geometry: a CPU reporting a roomy L1 data cache
// can comfortably amortize a larger read buffer, cutting the number of
// refill syscalls on a long stream.
func defaultBufferSize() int {
	size := baseBufferSize
	if l1 := cpuid.CPU.Cache.L1D; l1 > 32*1024 {
		size = baseBufferSize * 4
	}
	return size
}

// CharSource is a buffered, single-character-lookahead reader over a
// character stream. It tracks the current line number, the previously
// returned character, and (optionally) the current byte offset into the
// underlying byte stream.
type CharSource struct {
	r          *bufio.Reader
	line       uint64
	lastChar   rune
	trackBytes bool
	byteOffset uint64
	charOffset uint64
}

// NewCharSource wraps r with the default buffer size, derived from the
// running CPU's cache geometry (see defaultBufferSize). Byte-offset tracking
// is disabled; use NewCharSourceTrackingBytes to enable it.
func NewCharSource(r io.Reader) *CharSource {
	return NewCharSourceSize(r, defaultBufferSize(), false)
}

// NewCharSourceTrackingBytes wraps r and maintains a running byte offset,
// assuming r's encoding is UTF-8 (BOM stripping and non-UTF-8 transcoding
// are out of scope — see spec.md §1 — and assumed done by the caller).
func NewCharSourceTrackingBytes(r io.Reader) *CharSource {
	return NewCharSourceSize(r, defaultBufferSize(), true)
}

// NewCharSourceSize wraps r with an explicit buffer size in bytes.
func NewCharSourceSize(r io.Reader, bufSize int, trackBytes bool) *CharSource {
	return &CharSource{
		r:          bufio.NewReaderSize(r, bufSize),
		line:       1,
		lastChar:   UNDEFINED,
		trackBytes: trackBytes,
	}
}

// Read returns the next rune, or END_OF_STREAM once the source is
// exhausted. A non-nil error indicates a genuine I/O failure from the
// underlying reader, distinct from ordinary end of stream.
func (c *CharSource) Read() (rune, error) {
	r, size, err := c.r.ReadRune()
	if err == io.EOF {
		c.lastChar = END_OF_STREAM
		return END_OF_STREAM, nil
	}
	if err != nil {
		return END_OF_STREAM, err
	}
	c.advance(r)
	c.charOffset++
	if c.trackBytes {
		c.byteOffset += uint64(size)
	}
	return r, nil
}

// CharOffset returns the number of characters consumed so far.
func (c *CharSource) CharOffset() int64 {
	return int64(c.charOffset)
}

// advance updates line and lastChar for a consumed rune r. \r\n is a single
// logical terminator: the line count advances on the \r, and the \n that
// follows it is not counted again.
func (c *CharSource) advance(r rune) {
	switch r {
	case '\n':
		if c.lastChar != '\r' {
			c.line++
		}
	case '\r':
		c.line++
	}
	c.lastChar = r
}

// LookAhead returns the next rune without consuming it, or END_OF_STREAM.
func (c *CharSource) LookAhead() (rune, error) {
	r, _, err := c.r.ReadRune()
	if err == io.EOF {
		return END_OF_STREAM, nil
	}
	if err != nil {
		return END_OF_STREAM, err
	}
	if unreadErr := c.r.UnreadRune(); unreadErr != nil {
		return END_OF_STREAM, unreadErr
	}
	return r, nil
}

// LastReadChar returns the most recently returned rune from Read, or
// UNDEFINED before the first call, or END_OF_STREAM once exhausted.
func (c *CharSource) LastReadChar() rune {
	return c.lastChar
}

// ReadLine reads and discards through the next \n, \r\n or EOF, returning
// the line content without its terminator. ok is false only when no
// characters and no terminator were read (immediate EOF).
func (c *CharSource) ReadLine() (line string, ok bool, err error) {
	var buf []rune
	read := false
	for {
		r, rerr := c.Read()
		if rerr != nil {
			return string(buf), read, rerr
		}
		if r == END_OF_STREAM {
			return string(buf), read, nil
		}
		read = true
		if r == '\n' {
			return string(buf), true, nil
		}
		if r == '\r' {
			la, lerr := c.LookAhead()
			if lerr != nil {
				return string(buf), true, lerr
			}
			if la == '\n' {
				c.Read()
			}
			return string(buf), true, nil
		}
		buf = append(buf, r)
	}
}

// Position returns the current 1-based line number and, if byte tracking is
// enabled, the current byte offset (otherwise -1).
func (c *CharSource) Position() (line uint64, byteOffset int64) {
	if !c.trackBytes {
		return c.line, -1
	}
	return c.line, int64(c.byteOffset)
}

// Line returns the current 1-based line number.
func (c *CharSource) Line() uint64 {
	return c.line
}

// ByteOffset returns the current byte offset, or -1 if byte tracking is disabled.
func (c *CharSource) ByteOffset() int64 {
	if !c.trackBytes {
		return -1
	}
	return int64(c.byteOffset)
}
