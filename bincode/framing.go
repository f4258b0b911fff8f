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
package bincode

import (
	"github.com/go-serde/codec/enc"
	"github.com/go-serde/codec/wire"
)

// MaxLength is the largest byte/string/sequence/map length BINCODE
// permits, both encoding and decoding. Matches BCS's bound even though
// BINCODE's length field itself is 8 bytes wide.
const MaxLength = 1<<31 - 1

type framing struct{}

// DepthBudget returns 0: BINCODE leaves recursion depth unbounded.
func (framing) DepthBudget() int { return 0 }

// EncodeLength writes n as an 8-byte little-endian unsigned integer.
func (framing) EncodeLength(buf *wire.Buffer, n int) error {
	if n < 0 || uint64(n) > MaxLength {
		return enc.ErrLengthExceeded
	}
	wire.EncodeUint(buf, uint64(n), 8)
	return nil
}

// DecodeLength reads an 8-byte little-endian unsigned integer.
func (framing) DecodeLength(cur *wire.Cursor) (int, error) {
	v, err := wire.DecodeUint(cur, 8)
	if err != nil {
		return 0, err
	}
	if v > MaxLength {
		return 0, enc.ErrLengthExceeded
	}
	return int(v), nil
}

// EncodeVariantIndex writes idx as a 4-byte little-endian unsigned
// integer.
func (framing) EncodeVariantIndex(buf *wire.Buffer, idx uint32) error {
	wire.EncodeUint(buf, uint64(idx), 4)
	return nil
}

// DecodeVariantIndex reads a 4-byte little-endian unsigned integer.
func (framing) DecodeVariantIndex(cur *wire.Cursor) (uint32, error) {
	v, err := wire.DecodeUint(cur, 4)
	return uint32(v), err
}

// SortEntries is a no-op: BINCODE preserves encounter order.
func (framing) SortEntries(buf *wire.Buffer, spans []enc.EntrySpan) error { return nil }

// CheckEntryOrder is a no-op: BINCODE decode accepts entries in any order.
func (framing) CheckEntryOrder(prevKey, curKey []byte) error { return nil }
