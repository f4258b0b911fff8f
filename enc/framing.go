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
package enc

import "github.com/go-serde/codec/wire"

// EntrySpan records the byte offsets of one already-written map entry so
// that a BCS-style Framing can sort entries in place after the fact,
// without re-buffering: Start is the entry's first byte, [Start,KeyEnd)
// is the serialized key, and End is one past the entry's last byte (the
// next entry's Start, or the buffer length for the last entry).
type EntrySpan struct {
	Start, KeyEnd, End int
}

// Framing is the seam the type-directed walker threads through its
// recursion: the three operations and one scalar that BCS and BINCODE
// disagree on. Everything else -- primitive codecs, depth bookkeeping,
// struct/variant/sequence/tuple/option traversal -- is shared.
type Framing interface {
	// DepthBudget returns the initial recursion budget, or 0 to disable
	// the depth guard entirely (BINCODE).
	DepthBudget() int

	// EncodeLength/DecodeLength frame a byte/string/sequence/map length.
	EncodeLength(buf *wire.Buffer, n int) error
	DecodeLength(cur *wire.Cursor) (int, error)

	// EncodeVariantIndex/DecodeVariantIndex frame a variant's selected
	// arm index.
	EncodeVariantIndex(buf *wire.Buffer, idx uint32) error
	DecodeVariantIndex(cur *wire.Cursor) (uint32, error)

	// SortEntries reorders the map entries described by spans (already
	// written to buf, each in encounter order) into the format's
	// canonical order. A no-op for formats that preserve insertion
	// order.
	SortEntries(buf *wire.Buffer, spans []EntrySpan) error

	// CheckEntryOrder validates that curKey follows prevKey under the
	// format's ordering rule during decode. A no-op for formats that
	// don't enforce one.
	CheckEntryOrder(prevKey, curKey []byte) error
}
