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
	"bytes"
	"testing"

	"github.com/go-serde/codec/enc"
	"github.com/go-serde/codec/wire"
)

func TestULEB128Vectors(t *testing.T) {
	cases := []struct {
		value   uint64
		encoded []byte
	}{
		{0, []byte{0x00}},
		{0x7f, []byte{0x7f}},
		{0x3f01, []byte{0x81, 0x7e}},
		{0x8001, []byte{0x81, 0x80, 0x02}},
		{MaxU32, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, c := range cases {
		var b wire.Buffer
		encodeULEB128(&b, c.value)
		if !bytes.Equal(b.Bytes(), c.encoded) {
			t.Errorf("encode(%#x): got %x, want %x", c.value, b.Bytes(), c.encoded)
		}
		got, err := decodeULEB128(wire.NewCursor(c.encoded))
		if err != nil {
			t.Fatalf("decode(%x): %v", c.encoded, err)
		}
		if got != c.value {
			t.Errorf("decode(%x): got %#x, want %#x", c.encoded, got, c.value)
		}
	}
}

func TestULEB128NonCanonical(t *testing.T) {
	_, err := decodeULEB128(wire.NewCursor([]byte{0x80, 0x00}))
	if err != enc.ErrNonCanonical {
		t.Fatalf("80 00: got %v, want ErrNonCanonical", err)
	}
}

func TestULEB128Overflow(t *testing.T) {
	_, err := decodeULEB128(wire.NewCursor([]byte{0xff, 0xff, 0xff, 0xff, 0x10}))
	if err != enc.ErrOverflow {
		t.Fatalf("ff ff ff ff 10: got %v, want ErrOverflow", err)
	}
}

func TestULEB128ShortInput(t *testing.T) {
	_, err := decodeULEB128(wire.NewCursor([]byte{0x80}))
	if err != enc.ErrShortInput {
		t.Fatalf("got %v, want ErrShortInput", err)
	}
}
