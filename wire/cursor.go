// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package wire

import "errors"

// ErrShortInput is returned whenever a read runs past the end of the
// buffer. Callers wrap it in enc.DeserializationError{Kind: enc.KindShortInput}.
var ErrShortInput = errors.New("wire: short input")

// Cursor consumes a byte buffer left to right. It never copies the
// underlying array; slices returned by ReadN and Slice alias it.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor wraps buf for sequential consumption starting at offset 0.
func NewCursor(buf []byte) *Cursor { return &Cursor{buf: buf} }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.off }

// Remaining returns the unread tail of the buffer.
func (c *Cursor) Remaining() []byte { return c.buf[c.off:] }

// Slice returns buf[start:end] of the original backing array, regardless
// of the cursor's current position. Used to recover the serialized bytes
// of an already-decoded key for BCS's ordering check.
func (c *Cursor) Slice(start, end int) []byte { return c.buf[start:end] }

// ReadByte consumes and returns the next byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.off >= len(c.buf) {
		return 0, ErrShortInput
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

// ReadN consumes and returns the next n bytes.
func (c *Cursor) ReadN(n int) ([]byte, error) {
	if n < 0 || c.off+n > len(c.buf) {
		return nil, ErrShortInput
	}
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v, nil
}
