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
// Package wire implements the format-agnostic primitive codec table and the
// raw byte buffer/cursor machinery that BCS and BINCODE frame on top of.
//
// Nothing in this package knows about length prefixes, variant indices, or
// map ordering -- those are per-format framing decisions that live in the
// bcs and bincode packages. wire only knows how to lay out fixed-width
// integers, booleans, and raw byte runs.
package wire

import "golang.org/x/exp/slices"

// Buffer is an append-only output byte buffer.
//
// Unlike a self-describing TLV format, BCS and BINCODE know every length
// up front (slice/map lengths are counted before any bytes are written),
// so Buffer never needs to reserve space and patch it in later -- it is a
// plain growable byte slice. The one exception is BCS map-entry sorting,
// which records byte spans as it writes and reorders them in place once
// all entries are on the buffer (see bcs.framing.SortEntries).
type Buffer struct {
	buf []byte
}

// Bytes returns the buffer's current contents. The slice is only valid
// until the next mutating call on b.
func (b *Buffer) Bytes() []byte { return b.buf }

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int { return len(b.buf) }

// Reset empties the buffer without releasing its backing array.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

// Set replaces the buffer's contents wholesale. Used by BCS's map-entry
// sort pass to install the reordered region.
func (b *Buffer) Set(p []byte) { b.buf = p }

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) { b.buf = append(b.buf, c) }

// Write appends p verbatim.
func (b *Buffer) Write(p []byte) { b.buf = append(b.buf, p...) }

// Clone returns an independent copy of b's contents, detached from b's
// internal storage so the caller can keep it past the next mutating call
// on b.
func (b *Buffer) Clone() []byte { return slices.Clone(b.buf) }
