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
// Package bcs implements Binary Canonical Serialization: a ULEB128-framed,
// map-sorted, depth-bounded realization of the shared enc walker.
package bcs

import (
	"bytes"
	"sort"

	"github.com/go-serde/codec/enc"
	"github.com/go-serde/codec/wire"
)

const (
	// MaxLength is the largest byte/string/sequence/map length BCS
	// permits, both encoding and decoding.
	MaxLength = 1<<31 - 1
	// MaxU32 is the largest variant index BCS permits.
	MaxU32 = 1<<32 - 1
	// MaxContainerDepth is the recursion budget the depth guard enforces.
	MaxContainerDepth = 500
)

type framing struct{}

func (framing) DepthBudget() int { return MaxContainerDepth }

func (framing) EncodeLength(buf *wire.Buffer, n int) error {
	if n < 0 || uint64(n) > MaxLength {
		return enc.ErrLengthExceeded
	}
	encodeULEB128(buf, uint64(n))
	return nil
}

func (framing) DecodeLength(cur *wire.Cursor) (int, error) {
	v, err := decodeULEB128(cur)
	if err != nil {
		return 0, err
	}
	if v > MaxLength {
		return 0, enc.ErrLengthExceeded
	}
	return int(v), nil
}

func (framing) EncodeVariantIndex(buf *wire.Buffer, idx uint32) error {
	encodeULEB128(buf, uint64(idx))
	return nil
}

func (framing) DecodeVariantIndex(cur *wire.Cursor) (uint32, error) {
	v, err := decodeULEB128(cur)
	if err != nil {
		return 0, err
	}
	if v > MaxU32 {
		return 0, enc.ErrOverflow
	}
	return uint32(v), nil
}

// SortEntries reorders already-written map entries into ascending
// lexicographic order of their serialized key bytes, rejecting duplicate
// keys (two entries whose keys serialize identically cannot both appear
// in a canonical encoding), without re-encoding: it snapshots each
// entry's byte span, sorts the spans by comparing the [Start,KeyEnd)
// key slice, and writes the reordered bytes back in place.
func (framing) SortEntries(buf *wire.Buffer, spans []enc.EntrySpan) error {
	if len(spans) < 2 {
		return nil
	}
	start := spans[0].Start
	end := spans[len(spans)-1].End
	all := buf.Bytes()

	type entry struct {
		key, raw []byte
	}
	entries := make([]entry, len(spans))
	for i, s := range spans {
		entries[i] = entry{
			key: append([]byte(nil), all[s.Start:s.KeyEnd]...),
			raw: append([]byte(nil), all[s.Start:s.End]...),
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].key, entries[j].key) < 0
	})
	for i := 1; i < len(entries); i++ {
		if bytes.Equal(entries[i-1].key, entries[i].key) {
			return enc.ErrUnorderedMapKeys
		}
	}

	tail := append([]byte(nil), all[end:]...)
	out := append([]byte(nil), all[:start]...)
	for _, e := range entries {
		out = append(out, e.raw...)
	}
	out = append(out, tail...)
	buf.Set(out)
	return nil
}

// CheckEntryOrder requires curKey to be strictly greater than prevKey,
// comparing raw serialized key bytes (never decoded key values, so that
// two distinct keys that happen to decode to equal semantic values still
// can't slip past the check).
func (framing) CheckEntryOrder(prevKey, curKey []byte) error {
	if bytes.Compare(curKey, prevKey) <= 0 {
		return enc.ErrUnorderedMapKeys
	}
	return nil
}
