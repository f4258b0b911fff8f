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

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/go-serde/codec/wire"
)

// testFraming is a minimal Framing used only to exercise the shared
// walker in isolation from bcs/bincode's actual framing rules: 4-byte LE
// lengths, 1-byte variant indices, insertion-order maps, and a
// configurable depth budget.
type testFraming struct{ budget int }

func (f testFraming) DepthBudget() int { return f.budget }

func (testFraming) EncodeLength(buf *wire.Buffer, n int) error {
	wire.EncodeUint(buf, uint64(n), 4)
	return nil
}

func (testFraming) DecodeLength(cur *wire.Cursor) (int, error) {
	v, err := wire.DecodeUint(cur, 4)
	return int(v), err
}

func (testFraming) EncodeVariantIndex(buf *wire.Buffer, idx uint32) error {
	wire.EncodeUint(buf, uint64(idx), 1)
	return nil
}

func (testFraming) DecodeVariantIndex(cur *wire.Cursor) (uint32, error) {
	v, err := wire.DecodeUint(cur, 1)
	return uint32(v), err
}

func (testFraming) SortEntries(buf *wire.Buffer, spans []EntrySpan) error { return nil }
func (testFraming) CheckEntryOrder(prevKey, curKey []byte) error          { return nil }

func roundTrip(t *testing.T, typ Type, value any) any {
	t.Helper()
	c := NewCodec(testFraming{budget: 500})
	b, err := c.Serialize(value, typ)
	if err != nil {
		t.Fatalf("Serialize(%v): %v", value, err)
	}
	got, rest, err := c.Deserialize(b, typ)
	if err != nil {
		t.Fatalf("Deserialize(%x): %v", b, err)
	}
	if len(rest) != 0 {
		t.Fatalf("Deserialize(%x): %d trailing bytes", b, len(rest))
	}
	return got
}

func TestRoundTripPrimitives(t *testing.T) {
	if got := roundTrip(t, Bool, true); got != true {
		t.Errorf("bool: got %v", got)
	}
	if got := roundTrip(t, U16, uint16(0x0102)); got != uint16(0x0102) {
		t.Errorf("u16: got %v", got)
	}
	if got := roundTrip(t, I32, int32(-12345)); got != int32(-12345) {
		t.Errorf("i32: got %v", got)
	}
	if got := roundTrip(t, Unit, struct{}{}); got != (struct{}{}) {
		t.Errorf("unit: got %v", got)
	}
	if got := roundTrip(t, Str, "héllo, 世界"); got != "héllo, 世界" {
		t.Errorf("str: got %v", got)
	}
	if got := roundTrip(t, Bytes, []byte{1, 2, 3}); !bytes.Equal(got.([]byte), []byte{1, 2, 3}) {
		t.Errorf("bytes: got %v", got)
	}
	big127, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	if got := roundTrip(t, I128, big127); got.(*big.Int).Cmp(big127) != 0 {
		t.Errorf("i128: got %v", got)
	}
}

func TestRoundTripSeqAndTuple(t *testing.T) {
	seqType := SeqOf{Elem: U16}
	got := roundTrip(t, seqType, []any{uint16(1), uint16(2), uint16(3)})
	gotSeq := got.([]any)
	if len(gotSeq) != 3 || gotSeq[1] != uint16(2) {
		t.Fatalf("seq: got %v", got)
	}

	tupleType := TupleOf{Elems: []Type{U8, Str, Bool}}
	got = roundTrip(t, tupleType, []any{uint8(9), "x", true})
	gotTuple := got.([]any)
	if gotTuple[0] != uint8(9) || gotTuple[1] != "x" || gotTuple[2] != true {
		t.Fatalf("tuple: got %v", got)
	}
}

func TestRoundTripOption(t *testing.T) {
	optType := OptionOf{Elem: U16}
	if got := roundTrip(t, optType, nil); got != nil {
		t.Errorf("option none: got %v", got)
	}
	if got := roundTrip(t, optType, uint16(6)); got != uint16(6) {
		t.Errorf("option some: got %v", got)
	}
}

func TestRoundTripMap(t *testing.T) {
	mapType := MapOf{Key: U16, Value: U8}
	in := MapValue{{Key: uint16(1), Value: uint8(5)}, {Key: uint16(256), Value: uint8(3)}}
	got := roundTrip(t, mapType, in).(MapValue)
	if len(got) != 2 {
		t.Fatalf("map: got %v", got)
	}
}

func structType() StructOf {
	return StructOf{Name: "Point", Fields: []Field{{Name: "X", Type: I32}, {Name: "Y", Type: I32}}}
}

func TestRoundTripStruct(t *testing.T) {
	st := structType()
	in := map[string]any{"X": int32(1), "Y": int32(-2)}
	got := roundTrip(t, st, in).(map[string]any)
	if got["X"] != int32(1) || got["Y"] != int32(-2) {
		t.Fatalf("struct: got %v", got)
	}
}

func variantType() VariantOf {
	return VariantOf{
		Name: "Shape",
		Arms: []*Arm{
			{Name: "Circle", Fields: []Field{{Name: "Radius", Type: U32}}},
			nil, // gap
			{Name: "Square", Fields: []Field{{Name: "Side", Type: U32}}},
		},
	}
}

func TestRoundTripVariant(t *testing.T) {
	vt := variantType()
	in := VariantValue{Arm: 2, Fields: map[string]any{"Side": uint32(4)}}
	got := roundTrip(t, vt, in).(VariantValue)
	if got.Arm != 2 || got.Fields["Side"] != uint32(4) {
		t.Fatalf("variant: got %+v", got)
	}

	c := NewCodec(testFraming{budget: 500})
	// Arm 1 is a gap: encoding it must fail before any bytes besides the
	// index are meaningful, and decoding index 1 must fail too.
	if _, err := c.Serialize(VariantValue{Arm: 1, Fields: nil}, vt); err == nil {
		t.Fatal("expected error encoding a gap arm")
	}
	b, _ := c.Serialize(VariantValue{Arm: 0, Fields: map[string]any{"Radius": uint32(1)}}, vt)
	b[0] = 1 // overwrite the variant index to point at the gap
	if _, _, err := c.Deserialize(b, vt); err == nil {
		t.Fatal("expected error decoding a gap arm")
	}
}

func TestDeserializeReturnsTrailingBytes(t *testing.T) {
	c := NewCodec(testFraming{budget: 500})
	b, err := c.Serialize(uint16(7), U16)
	if err != nil {
		t.Fatal(err)
	}
	b = append(b, 0xaa, 0xbb)
	_, rest, err := c.Deserialize(b, U16)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, []byte{0xaa, 0xbb}) {
		t.Fatalf("got rest %x", rest)
	}
}

func TestDepthExceeded(t *testing.T) {
	// Option-present consumes budget same as struct entry, so chaining
	// three of them past a budget of two must hit the guard.
	inner := OptionOf{Elem: U8}
	c := NewCodec(testFraming{budget: 2})
	// depth 1: option present (enter) -> depth 2: primitive, fine.
	if _, err := c.Serialize(uint8(1), inner); err != nil {
		t.Fatalf("unexpected error within budget: %v", err)
	}
	nested := OptionOf{Elem: OptionOf{Elem: OptionOf{Elem: U8}}}
	if _, err := c.Serialize(uint8(1), nested); err == nil {
		t.Fatal("expected depth exceeded error")
	} else if de, ok := err.(*SerializationError); !ok || de.Kind != KindDepthExceeded {
		t.Fatalf("got %v, want KindDepthExceeded", err)
	}
}
