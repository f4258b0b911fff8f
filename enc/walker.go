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
	"fmt"
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/go-serde/codec/wire"
)

// Codec pairs a Framing policy with the shared walker to produce the
// per-format façade (bcs.Serialize/Deserialize, bincode.Serialize/
// Deserialize each construct one of these and forward to it).
type Codec struct {
	Framing Framing
}

// NewCodec constructs a Codec around the given per-format Framing.
func NewCodec(f Framing) *Codec { return &Codec{Framing: f} }

// Serialize encodes value against t and returns the resulting bytes.
func (c *Codec) Serialize(value any, t Type) ([]byte, error) {
	var buf wire.Buffer
	e := &encoder{buf: &buf, framing: c.Framing, depth: newDepthGuard(c.Framing.DepthBudget())}
	if err := e.encode(reflect.ValueOf(value), t); err != nil {
		return nil, err
	}
	return buf.Clone(), nil
}

// Deserialize decodes a t-shaped value from the front of data, returning
// the decoded value and any unconsumed tail bytes.
func (c *Codec) Deserialize(data []byte, t Type) (value any, remaining []byte, err error) {
	cur := wire.NewCursor(data)
	d := &decoder{cur: cur, framing: c.Framing, depth: newDepthGuard(c.Framing.DepthBudget())}
	v, err := d.decode(t)
	if err != nil {
		return nil, nil, err
	}
	return v, cur.Remaining(), nil
}

// --- encode side ---

type encoder struct {
	buf     *wire.Buffer
	framing Framing
	depth   depthGuard
}

func mismatch(kind Kind, v reflect.Value) error {
	if !v.IsValid() {
		return serr(KindValueMismatch, fmt.Errorf("value does not inhabit %s: got <nil>", kind))
	}
	return serr(KindValueMismatch, fmt.Errorf("value does not inhabit %s: got %s", kind, v.Type()))
}

// unwrap drops the reflect.Interface layer that shows up when v came
// from indexing a []any, map[string]any, or MapValue entry.
func unwrap(v reflect.Value) reflect.Value {
	if v.IsValid() && v.Kind() == reflect.Interface {
		return reflect.ValueOf(v.Interface())
	}
	return v
}

func (e *encoder) encode(v reflect.Value, t Type) error {
	v = unwrap(v)
	switch tt := t.(type) {
	case LazyOf:
		return e.encode(v, tt.Resolve())
	case primType:
		return e.encodePrim(v, Kind(tt))
	case SeqOf:
		return e.encodeSeq(v, tt)
	case TupleOf:
		return e.encodeTuple(v, tt)
	case OptionOf:
		return e.encodeOption(v, tt)
	case MapOf:
		return e.encodeMap(v, tt)
	case StructOf:
		return e.encodeStruct(v, tt)
	case VariantOf:
		return e.encodeVariant(v, tt)
	default:
		return serr(KindUnexpectedType, fmt.Errorf("unknown Type implementation %T", t))
	}
}

func (e *encoder) encodePrim(v reflect.Value, k Kind) error {
	switch k {
	case KindBool:
		if !v.IsValid() || v.Kind() != reflect.Bool {
			return mismatch(k, v)
		}
		wire.EncodeBool(e.buf, v.Bool())
		return nil
	case KindU8, KindU16, KindU32, KindU64:
		if !v.IsValid() || v.Kind() != uintKindFor(k) {
			return mismatch(k, v)
		}
		wire.EncodeUint(e.buf, v.Uint(), widthFor(k))
		return nil
	case KindI8, KindI16, KindI32, KindI64:
		if !v.IsValid() || v.Kind() != intKindFor(k) {
			return mismatch(k, v)
		}
		wire.EncodeInt(e.buf, v.Int(), widthFor(k))
		return nil
	case KindU128:
		bi, ok := asBigInt(v)
		if !ok {
			return mismatch(k, v)
		}
		if err := wire.EncodeUint128(e.buf, bi); err != nil {
			return serr(KindValueMismatch, err)
		}
		return nil
	case KindI128:
		bi, ok := asBigInt(v)
		if !ok {
			return mismatch(k, v)
		}
		if err := wire.EncodeInt128(e.buf, bi); err != nil {
			return serr(KindValueMismatch, err)
		}
		return nil
	case KindUnit:
		if v.IsValid() {
			if _, ok := v.Interface().(struct{}); !ok {
				return mismatch(k, v)
			}
		}
		return nil
	case KindF32:
		if !wire.FloatsEnabled() {
			return serr(KindUnexpectedType, ErrUnimplemented)
		}
		if !v.IsValid() || v.Kind() != reflect.Float32 {
			return mismatch(k, v)
		}
		wire.EncodeF32(e.buf, float32(v.Float()))
		return nil
	case KindF64:
		if !wire.FloatsEnabled() {
			return serr(KindUnexpectedType, ErrUnimplemented)
		}
		if !v.IsValid() || v.Kind() != reflect.Float64 {
			return mismatch(k, v)
		}
		wire.EncodeF64(e.buf, v.Float())
		return nil
	case KindChar:
		if !wire.FloatsEnabled() {
			return serr(KindUnexpectedType, ErrUnimplemented)
		}
		if !v.IsValid() || v.Kind() != reflect.Int32 {
			return mismatch(k, v)
		}
		if err := wire.EncodeChar(e.buf, rune(v.Int())); err != nil {
			return serr(KindValueMismatch, err)
		}
		return nil
	case KindBytes:
		if !v.IsValid() || v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Uint8 {
			return mismatch(k, v)
		}
		b := v.Bytes()
		if err := e.framing.EncodeLength(e.buf, len(b)); err != nil {
			return serr(KindLengthExceeded, err)
		}
		e.buf.Write(b)
		return nil
	case KindStr:
		if !v.IsValid() || v.Kind() != reflect.String {
			return mismatch(k, v)
		}
		s := v.String()
		if err := e.framing.EncodeLength(e.buf, len(s)); err != nil {
			return serr(KindLengthExceeded, err)
		}
		e.buf.Write([]byte(s))
		return nil
	default:
		return serr(KindUnexpectedType, fmt.Errorf("type tag %s has no primitive codec", k))
	}
}

func asBigInt(v reflect.Value) (*big.Int, bool) {
	if !v.IsValid() {
		return nil, false
	}
	if bi, ok := v.Interface().(*big.Int); ok && bi != nil {
		return bi, true
	}
	if bi, ok := v.Interface().(big.Int); ok {
		return &bi, true
	}
	return nil, false
}

func (e *encoder) encodeSeq(v reflect.Value, t SeqOf) error {
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return mismatch(KindSeq, v)
	}
	n := v.Len()
	if err := e.framing.EncodeLength(e.buf, n); err != nil {
		return serr(KindLengthExceeded, err)
	}
	if err := e.depth.enter(); err != nil {
		return serr(KindDepthExceeded, err)
	}
	defer e.depth.exit()
	for i := 0; i < n; i++ {
		if err := e.encode(v.Index(i), t.Elem); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeTuple(v reflect.Value, t TupleOf) error {
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return mismatch(KindTuple, v)
	}
	if v.Len() != len(t.Elems) {
		return serr(KindValueMismatch, fmt.Errorf("tuple arity %d does not match declared arity %d", v.Len(), len(t.Elems)))
	}
	for i, elemType := range t.Elems {
		if err := e.encode(v.Index(i), elemType); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeOption(v reflect.Value, t OptionOf) error {
	if !v.IsValid() {
		e.buf.WriteByte(0x00)
		return nil
	}
	e.buf.WriteByte(0x01)
	if err := e.depth.enter(); err != nil {
		return serr(KindDepthExceeded, err)
	}
	defer e.depth.exit()
	return e.encode(v, t.Elem)
}

func (e *encoder) encodeMap(v reflect.Value, t MapOf) error {
	if !v.IsValid() {
		return mismatch(KindMap, v)
	}
	mv, ok := v.Interface().(MapValue)
	if !ok {
		return mismatch(KindMap, v)
	}
	if err := e.framing.EncodeLength(e.buf, len(mv)); err != nil {
		return serr(KindLengthExceeded, err)
	}
	if err := e.depth.enter(); err != nil {
		return serr(KindDepthExceeded, err)
	}
	defer e.depth.exit()
	spans := make([]EntrySpan, 0, len(mv))
	for _, entry := range mv {
		start := e.buf.Len()
		if err := e.encode(reflect.ValueOf(entry.Key), t.Key); err != nil {
			return err
		}
		keyEnd := e.buf.Len()
		if err := e.encode(reflect.ValueOf(entry.Value), t.Value); err != nil {
			return err
		}
		spans = append(spans, EntrySpan{Start: start, KeyEnd: keyEnd, End: e.buf.Len()})
	}
	if err := e.framing.SortEntries(e.buf, spans); err != nil {
		return serr(KindUnorderedMapKeys, err)
	}
	return nil
}

func (e *encoder) encodeStruct(v reflect.Value, t StructOf) error {
	fields, ok := asStringMap(v)
	if !ok {
		return mismatch(KindStruct, v)
	}
	if err := e.depth.enter(); err != nil {
		return serr(KindDepthExceeded, err)
	}
	defer e.depth.exit()
	return e.encodeFields(fields, t.Fields, t.Name)
}

func (e *encoder) encodeFields(fields map[string]any, decl []Field, path string) error {
	for _, f := range decl {
		fv, present := fields[f.Name]
		if !present {
			return serr(KindValueMismatch, fmt.Errorf("%s: missing field %q", path, f.Name))
		}
		if err := e.encode(reflect.ValueOf(fv), f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeVariant(v reflect.Value, t VariantOf) error {
	if !v.IsValid() {
		return mismatch(KindVariant, v)
	}
	vv, ok := v.Interface().(VariantValue)
	if !ok {
		return mismatch(KindVariant, v)
	}
	if int(vv.Arm) >= len(t.Arms) || t.Arms[vv.Arm] == nil {
		return serr(KindValueMismatch, fmt.Errorf("%s: arm %d is absent from the arm table", t.Name, vv.Arm))
	}
	if err := e.framing.EncodeVariantIndex(e.buf, vv.Arm); err != nil {
		return serr(KindLengthExceeded, err)
	}
	arm := t.Arms[vv.Arm]
	if err := e.depth.enter(); err != nil {
		return serr(KindDepthExceeded, err)
	}
	defer e.depth.exit()
	return e.encodeFields(vv.Fields, arm.Fields, t.Name+"."+arm.Name)
}

func asStringMap(v reflect.Value) (map[string]any, bool) {
	if !v.IsValid() {
		return nil, false
	}
	m, ok := v.Interface().(map[string]any)
	return m, ok
}

// --- decode side ---

type decoder struct {
	cur     *wire.Cursor
	framing Framing
	depth   depthGuard
}

func (d *decoder) decode(t Type) (any, error) {
	switch tt := t.(type) {
	case LazyOf:
		return d.decode(tt.Resolve())
	case primType:
		return d.decodePrim(Kind(tt))
	case SeqOf:
		return d.decodeSeq(tt)
	case TupleOf:
		return d.decodeTuple(tt)
	case OptionOf:
		return d.decodeOption(tt)
	case MapOf:
		return d.decodeMap(tt)
	case StructOf:
		return d.decodeStruct(tt)
	case VariantOf:
		return d.decodeVariant(tt)
	default:
		return nil, derr(KindUnexpectedType, fmt.Errorf("unknown Type implementation %T", t))
	}
}

func (d *decoder) decodePrim(k Kind) (any, error) {
	switch k {
	case KindBool:
		v, err := wire.DecodeBool(d.cur)
		return v, wrapDecodeErr(err)
	case KindU8:
		v, err := wire.DecodeUint(d.cur, 1)
		return uint8(v), wrapDecodeErr(err)
	case KindU16:
		v, err := wire.DecodeUint(d.cur, 2)
		return uint16(v), wrapDecodeErr(err)
	case KindU32:
		v, err := wire.DecodeUint(d.cur, 4)
		return uint32(v), wrapDecodeErr(err)
	case KindU64:
		v, err := wire.DecodeUint(d.cur, 8)
		return v, wrapDecodeErr(err)
	case KindI8:
		v, err := wire.DecodeInt(d.cur, 1)
		return int8(v), wrapDecodeErr(err)
	case KindI16:
		v, err := wire.DecodeInt(d.cur, 2)
		return int16(v), wrapDecodeErr(err)
	case KindI32:
		v, err := wire.DecodeInt(d.cur, 4)
		return int32(v), wrapDecodeErr(err)
	case KindI64:
		v, err := wire.DecodeInt(d.cur, 8)
		return v, wrapDecodeErr(err)
	case KindU128:
		v, err := wire.DecodeUint128(d.cur)
		return v, wrapDecodeErr(err)
	case KindI128:
		v, err := wire.DecodeInt128(d.cur)
		return v, wrapDecodeErr(err)
	case KindUnit:
		return struct{}{}, nil
	case KindF32:
		if !wire.FloatsEnabled() {
			return nil, derr(KindUnexpectedType, ErrUnimplemented)
		}
		v, err := wire.DecodeF32(d.cur)
		return v, wrapDecodeErr(err)
	case KindF64:
		if !wire.FloatsEnabled() {
			return nil, derr(KindUnexpectedType, ErrUnimplemented)
		}
		v, err := wire.DecodeF64(d.cur)
		return v, wrapDecodeErr(err)
	case KindChar:
		if !wire.FloatsEnabled() {
			return nil, derr(KindUnexpectedType, ErrUnimplemented)
		}
		v, err := wire.DecodeChar(d.cur)
		return v, wrapDecodeErr(err)
	case KindBytes:
		n, err := d.framing.DecodeLength(d.cur)
		if err != nil {
			return nil, wrapLenErr(err)
		}
		raw, err := d.cur.ReadN(n)
		if err != nil {
			return nil, derr(KindShortInput, err)
		}
		return append([]byte(nil), raw...), nil
	case KindStr:
		n, err := d.framing.DecodeLength(d.cur)
		if err != nil {
			return nil, wrapLenErr(err)
		}
		raw, err := d.cur.ReadN(n)
		if err != nil {
			return nil, derr(KindShortInput, err)
		}
		if !utf8.Valid(raw) {
			return nil, derr(KindInvalidUTF8, ErrInvalidUTF8)
		}
		return string(raw), nil
	default:
		return nil, derr(KindUnexpectedType, fmt.Errorf("type tag %s has no primitive codec", k))
	}
}

func (d *decoder) decodeSeq(t SeqOf) (any, error) {
	n, err := d.framing.DecodeLength(d.cur)
	if err != nil {
		return nil, wrapLenErr(err)
	}
	if err := d.depth.enter(); err != nil {
		return nil, derr(KindDepthExceeded, err)
	}
	defer d.depth.exit()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := d.decode(t.Elem)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) decodeTuple(t TupleOf) (any, error) {
	out := make([]any, len(t.Elems))
	for i, elemType := range t.Elems {
		v, err := d.decode(elemType)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) decodeOption(t OptionOf) (any, error) {
	tag, err := d.cur.ReadByte()
	if err != nil {
		return nil, derr(KindShortInput, err)
	}
	switch tag {
	case 0x00:
		return nil, nil
	case 0x01:
		if err := d.depth.enter(); err != nil {
			return nil, derr(KindDepthExceeded, err)
		}
		defer d.depth.exit()
		return d.decode(t.Elem)
	default:
		return nil, derr(KindWrongTag, ErrWrongTag)
	}
}

func (d *decoder) decodeMap(t MapOf) (any, error) {
	n, err := d.framing.DecodeLength(d.cur)
	if err != nil {
		return nil, wrapLenErr(err)
	}
	if err := d.depth.enter(); err != nil {
		return nil, derr(KindDepthExceeded, err)
	}
	defer d.depth.exit()
	out := make(MapValue, 0, n)
	var prevKey []byte
	for i := 0; i < n; i++ {
		keyStart := d.cur.Pos()
		key, err := d.decode(t.Key)
		if err != nil {
			return nil, err
		}
		keyBytes := d.cur.Slice(keyStart, d.cur.Pos())
		if i > 0 {
			if err := d.framing.CheckEntryOrder(prevKey, keyBytes); err != nil {
				return nil, derr(KindUnorderedMapKeys, err)
			}
		}
		prevKey = keyBytes
		value, err := d.decode(t.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, MapEntry{Key: key, Value: value})
	}
	return out, nil
}

func (d *decoder) decodeStruct(t StructOf) (any, error) {
	if err := d.depth.enter(); err != nil {
		return nil, derr(KindDepthExceeded, err)
	}
	defer d.depth.exit()
	return d.decodeFields(t.Fields)
}

func (d *decoder) decodeFields(decl []Field) (map[string]any, error) {
	out := make(map[string]any, len(decl))
	for _, f := range decl {
		v, err := d.decode(f.Type)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (d *decoder) decodeVariant(t VariantOf) (any, error) {
	idx, err := d.framing.DecodeVariantIndex(d.cur)
	if err != nil {
		return nil, wrapLenErr(err)
	}
	if int(idx) >= len(t.Arms) || t.Arms[idx] == nil {
		return nil, derr(KindWrongTag, fmt.Errorf("%s: %w: arm %d is out of range or a gap", t.Name, ErrWrongTag, idx))
	}
	if err := d.depth.enter(); err != nil {
		return nil, derr(KindDepthExceeded, err)
	}
	defer d.depth.exit()
	fields, err := d.decodeFields(t.Arms[idx].Fields)
	if err != nil {
		return nil, err
	}
	return VariantValue{Arm: idx, Fields: fields}, nil
}

// wrapDecodeErr wraps a wire-level sentinel into the matching
// DeserializationError kind for leaf primitive reads.
func wrapDecodeErr(err error) error {
	if err == nil {
		return nil
	}
	switch err {
	case wire.ErrShortInput:
		return derr(KindShortInput, err)
	case wire.ErrWrongTag:
		return derr(KindWrongTag, err)
	case wire.ErrInvalidChar:
		return derr(KindValueMismatch, err)
	default:
		return derr(KindValueMismatch, err)
	}
}

// wrapLenErr classifies an error surfaced by Framing.DecodeLength/
// DecodeVariantIndex into the matching DeserializationError kind.
func wrapLenErr(err error) error {
	if err == nil {
		return nil
	}
	switch err {
	case wire.ErrShortInput, ErrShortInput:
		return derr(KindShortInput, err)
	case ErrNonCanonical:
		return derr(KindNonCanonical, err)
	case ErrOverflow:
		return derr(KindOverflow, err)
	default:
		return derr(KindLengthExceeded, err)
	}
}

func widthFor(k Kind) int {
	switch k {
	case KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32:
		return 4
	case KindU64, KindI64:
		return 8
	default:
		return 0
	}
}

func uintKindFor(k Kind) reflect.Kind {
	switch k {
	case KindU8:
		return reflect.Uint8
	case KindU16:
		return reflect.Uint16
	case KindU32:
		return reflect.Uint32
	case KindU64:
		return reflect.Uint64
	default:
		return reflect.Invalid
	}
}

func intKindFor(k Kind) reflect.Kind {
	switch k {
	case KindI8:
		return reflect.Int8
	case KindI16:
		return reflect.Int16
	case KindI32:
		return reflect.Int32
	case KindI64:
		return reflect.Int64
	default:
		return reflect.Invalid
	}
}
