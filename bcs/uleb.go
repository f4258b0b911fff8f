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
package bcs

import (
	"github.com/go-serde/codec/enc"
	"github.com/go-serde/codec/wire"
)

// encodeULEB128 writes v as a strictly-minimal ULEB128 group sequence:
// 7 payload bits per byte, continuation in the high bit, no trailing
// all-zero continuation group.
func encodeULEB128(buf *wire.Buffer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			buf.WriteByte(b | 0x80)
			continue
		}
		buf.WriteByte(b)
		return
	}
}

// decodeULEB128 reads at most 5 groups (enough for a 32-bit value),
// rejecting non-minimal encodings and values that don't fit in 32 bits.
// Concretely: "80 00" is rejected (the second group's zero digit is
// entirely redundant, a shorter encoding exists), and "ff ff ff ff 10"
// is rejected (the fifth group's top nibble overflows 32 bits).
func decodeULEB128(cur *wire.Cursor) (uint64, error) {
	var result uint64
	for i := 0; i < 5; i++ {
		b, err := cur.ReadByte()
		if err != nil {
			return 0, enc.ErrShortInput
		}
		digit := uint64(b & 0x7f)
		if i == 4 && digit > 0x0f {
			return 0, enc.ErrOverflow
		}
		if b&0x80 == 0 {
			if i > 0 && digit == 0 {
				return 0, enc.ErrNonCanonical
			}
			result |= digit << uint(7*i)
			return result, nil
		}
		result |= digit << uint(7*i)
	}
	return 0, enc.ErrOverflow
}
