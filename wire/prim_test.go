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

import (
	"bytes"
	"math/big"
	"testing"
)

func TestEncodeDecodeUint(t *testing.T) {
	cases := []struct {
		value   uint64
		width   int
		encoded []byte
	}{
		{0, 1, []byte{0x00}},
		{1, 2, []byte{0x01, 0x00}},
		{0x0102, 2, []byte{0x02, 0x01}},
		{0x01020304, 4, []byte{0x04, 0x03, 0x02, 0x01}},
		{0xff, 1, []byte{0xff}},
	}
	for _, c := range cases {
		var b Buffer
		EncodeUint(&b, c.value, c.width)
		if !bytes.Equal(b.Bytes(), c.encoded) {
			t.Errorf("EncodeUint(%d, %d): got %x, want %x", c.value, c.width, b.Bytes(), c.encoded)
		}
		cur := NewCursor(c.encoded)
		got, err := DecodeUint(cur, c.width)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.value {
			t.Errorf("DecodeUint(%x): got %d, want %d", c.encoded, got, c.value)
		}
		if cur.Len() != 0 {
			t.Errorf("DecodeUint(%x): %d trailing bytes", c.encoded, cur.Len())
		}
	}
}

func TestEncodeDecodeInt(t *testing.T) {
	cases := []struct {
		value   int64
		width   int
		encoded []byte
	}{
		{0, 1, []byte{0x00}},
		{-1, 1, []byte{0xff}},
		{-1, 2, []byte{0xff, 0xff}},
		{127, 1, []byte{0x7f}},
		{-128, 1, []byte{0x80}},
		{256, 2, []byte{0x00, 0x01}},
		{-256, 2, []byte{0x00, 0xff}},
	}
	for _, c := range cases {
		var b Buffer
		EncodeInt(&b, c.value, c.width)
		if !bytes.Equal(b.Bytes(), c.encoded) {
			t.Errorf("EncodeInt(%d, %d): got %x, want %x", c.value, c.width, b.Bytes(), c.encoded)
		}
		got, err := DecodeInt(NewCursor(c.encoded), c.width)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.value {
			t.Errorf("DecodeInt(%x): got %d, want %d", c.encoded, got, c.value)
		}
	}
}

func TestBool(t *testing.T) {
	var b Buffer
	EncodeBool(&b, true)
	EncodeBool(&b, false)
	if !bytes.Equal(b.Bytes(), []byte{0x01, 0x00}) {
		t.Fatalf("got %x", b.Bytes())
	}
	cur := NewCursor(b.Bytes())
	v, err := DecodeBool(cur)
	if err != nil || v != true {
		t.Fatalf("DecodeBool: got %v, %v", v, err)
	}
	v, err = DecodeBool(cur)
	if err != nil || v != false {
		t.Fatalf("DecodeBool: got %v, %v", v, err)
	}
	if _, err := DecodeBool(NewCursor([]byte{0x02})); err != ErrWrongTag {
		t.Fatalf("DecodeBool(0x02): got err %v, want ErrWrongTag", err)
	}
	if _, err := DecodeBool(NewCursor(nil)); err != ErrShortInput {
		t.Fatalf("DecodeBool(empty): got err %v, want ErrShortInput", err)
	}
}

func TestInt128RoundTrip(t *testing.T) {
	cases := []string{
		"0", "1", "-1", "170141183460469231731687303715884105727", // max i128
		"-170141183460469231731687303715884105728", // min i128
	}
	for _, s := range cases {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			t.Fatalf("bad literal %s", s)
		}
		var b Buffer
		if err := EncodeInt128(&b, v); err != nil {
			t.Fatalf("EncodeInt128(%s): %v", s, err)
		}
		got, err := DecodeInt128(NewCursor(b.Bytes()))
		if err != nil {
			t.Fatalf("DecodeInt128(%s): %v", s, err)
		}
		if got.Cmp(v) != 0 {
			t.Errorf("round trip %s: got %s", s, got)
		}
	}
	overflow := new(big.Int).Lsh(big.NewInt(1), 127)
	var b Buffer
	if err := EncodeInt128(&b, overflow); err != ErrIntegerOutOfRange {
		t.Fatalf("EncodeInt128(2^127): got err %v, want ErrIntegerOutOfRange", err)
	}
}

func TestUint128RoundTrip(t *testing.T) {
	max, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10) // 2^128-1
	var b Buffer
	if err := EncodeUint128(&b, max); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeUint128(NewCursor(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(max) != 0 {
		t.Errorf("got %s", got)
	}
	if err := EncodeUint128(&b, big.NewInt(-1)); err != ErrIntegerOutOfRange {
		t.Fatalf("EncodeUint128(-1): got err %v", err)
	}
}

func TestCharValidation(t *testing.T) {
	EnableFloats()
	defer func() { floatsEnabled = 0 }()
	var b Buffer
	if err := EncodeChar(&b, 'A'); err != nil {
		t.Fatal(err)
	}
	if err := EncodeChar(&b, 0xD800); err != ErrInvalidChar {
		t.Fatalf("surrogate: got err %v, want ErrInvalidChar", err)
	}
	if err := EncodeChar(&b, 0x110000); err != ErrInvalidChar {
		t.Fatalf("out of range: got err %v, want ErrInvalidChar", err)
	}
}
