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

package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-serde/codec/enc"
)

// jsonToValue converts a JSON-decoded value (as produced by
// json.Unmarshal into `any`) into the shape enc.Codec.Serialize expects
// for t: integers become their exact-width Go type, MapOf values become
// enc.MapValue built from a JSON array of [key,value] pairs, and
// VariantOf values become enc.VariantValue built from a JSON object
// {"arm": N, "fields": {...}}.
func jsonToValue(raw any, t enc.Type) (any, error) {
	switch tt := t.(type) {
	case enc.LazyOf:
		return jsonToValue(raw, tt.Resolve())
	}
	switch t.Kind() {
	case enc.KindBool:
		return raw, nil
	case enc.KindU8, enc.KindU16, enc.KindU32, enc.KindU64:
		n, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
		return castUint(uint64(n), t.Kind()), nil
	case enc.KindI8, enc.KindI16, enc.KindI32, enc.KindI64:
		n, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
		return castInt(int64(n), t.Kind()), nil
	case enc.KindU128, enc.KindI128:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected decimal string for 128-bit value, got %T", raw)
		}
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid 128-bit decimal %q", s)
		}
		return bi, nil
	case enc.KindUnit:
		return struct{}{}, nil
	case enc.KindF32:
		n, _ := raw.(float64)
		return float32(n), nil
	case enc.KindF64:
		n, _ := raw.(float64)
		return n, nil
	case enc.KindChar:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected single-rune string, got %T", raw)
		}
		r := []rune(s)
		if len(r) != 1 {
			return nil, fmt.Errorf("expected exactly one rune, got %q", s)
		}
		return r[0], nil
	case enc.KindBytes:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected base64 string, got %T", raw)
		}
		return base64.StdEncoding.DecodeString(s)
	case enc.KindStr:
		return raw, nil
	case enc.KindSeq:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", raw)
		}
		st := t.(enc.SeqOf)
		out := make([]any, len(items))
		for i, item := range items {
			v, err := jsonToValue(item, st.Elem)
			if err != nil {
				return nil, fmt.Errorf("seq[%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case enc.KindTuple:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", raw)
		}
		tt := t.(enc.TupleOf)
		if len(items) != len(tt.Elems) {
			return nil, fmt.Errorf("tuple arity %d does not match declared %d", len(items), len(tt.Elems))
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := jsonToValue(item, tt.Elems[i])
			if err != nil {
				return nil, fmt.Errorf("tuple[%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case enc.KindOption:
		if raw == nil {
			return nil, nil
		}
		ot := t.(enc.OptionOf)
		return jsonToValue(raw, ot.Elem)
	case enc.KindMap:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array of [key,value] pairs, got %T", raw)
		}
		mt := t.(enc.MapOf)
		out := make(enc.MapValue, 0, len(items))
		for i, item := range items {
			pair, ok := item.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("map entry %d: expected [key,value] pair", i)
			}
			k, err := jsonToValue(pair[0], mt.Key)
			if err != nil {
				return nil, fmt.Errorf("map entry %d key: %w", i, err)
			}
			v, err := jsonToValue(pair[1], mt.Value)
			if err != nil {
				return nil, fmt.Errorf("map entry %d value: %w", i, err)
			}
			out = append(out, enc.MapEntry{Key: k, Value: v})
		}
		return out, nil
	case enc.KindStruct:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected object, got %T", raw)
		}
		st := t.(enc.StructOf)
		return jsonToFields(obj, st.Fields)
	case enc.KindVariant:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected object with arm/fields, got %T", raw)
		}
		armF, ok := obj["arm"].(float64)
		if !ok {
			return nil, fmt.Errorf(`variant value missing numeric "arm"`)
		}
		vt := t.(enc.VariantOf)
		arm := uint32(armF)
		if int(arm) >= len(vt.Arms) || vt.Arms[arm] == nil {
			return nil, fmt.Errorf("arm %d is absent from the arm table", arm)
		}
		fieldsRaw, _ := obj["fields"].(map[string]any)
		fields, err := jsonToFields(fieldsRaw, vt.Arms[arm].Fields)
		if err != nil {
			return nil, err
		}
		return enc.VariantValue{Arm: arm, Fields: fields}, nil
	default:
		return nil, fmt.Errorf("unsupported type kind %s", t.Kind())
	}
}

func jsonToFields(obj map[string]any, decl []enc.Field) (map[string]any, error) {
	out := make(map[string]any, len(decl))
	for _, f := range decl {
		raw, present := obj[f.Name]
		if !present {
			return nil, fmt.Errorf("missing field %q", f.Name)
		}
		v, err := jsonToValue(raw, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out[f.Name] = v
	}
	return out, nil
}

// valueToJSON is jsonToValue's inverse: it turns a decoded enc value back
// into a plain JSON-marshalable shape, for the decode/roundtrip
// subcommands' output.
func valueToJSON(v any, t enc.Type) (any, error) {
	if lt, ok := t.(enc.LazyOf); ok {
		return valueToJSON(v, lt.Resolve())
	}
	switch t.Kind() {
	case enc.KindU128, enc.KindI128:
		bi, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("expected *big.Int, got %T", v)
		}
		return bi.String(), nil
	case enc.KindBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("expected []byte, got %T", v)
		}
		return base64.StdEncoding.EncodeToString(b), nil
	case enc.KindChar:
		r, ok := v.(rune)
		if !ok {
			return nil, fmt.Errorf("expected rune, got %T", v)
		}
		return string(r), nil
	case enc.KindSeq:
		st := t.(enc.SeqOf)
		items := v.([]any)
		out := make([]any, len(items))
		for i, item := range items {
			jv, err := valueToJSON(item, st.Elem)
			if err != nil {
				return nil, fmt.Errorf("seq[%d]: %w", i, err)
			}
			out[i] = jv
		}
		return out, nil
	case enc.KindTuple:
		tt := t.(enc.TupleOf)
		items := v.([]any)
		out := make([]any, len(items))
		for i, item := range items {
			jv, err := valueToJSON(item, tt.Elems[i])
			if err != nil {
				return nil, fmt.Errorf("tuple[%d]: %w", i, err)
			}
			out[i] = jv
		}
		return out, nil
	case enc.KindOption:
		if v == nil {
			return nil, nil
		}
		ot := t.(enc.OptionOf)
		return valueToJSON(v, ot.Elem)
	case enc.KindMap:
		mt := t.(enc.MapOf)
		mv := v.(enc.MapValue)
		out := make([]any, len(mv))
		for i, entry := range mv {
			k, err := valueToJSON(entry.Key, mt.Key)
			if err != nil {
				return nil, fmt.Errorf("map entry %d key: %w", i, err)
			}
			val, err := valueToJSON(entry.Value, mt.Value)
			if err != nil {
				return nil, fmt.Errorf("map entry %d value: %w", i, err)
			}
			out[i] = []any{k, val}
		}
		return out, nil
	case enc.KindStruct:
		st := t.(enc.StructOf)
		fields := v.(map[string]any)
		return fieldsToJSON(fields, st.Fields)
	case enc.KindVariant:
		vt := t.(enc.VariantOf)
		vv := v.(enc.VariantValue)
		fieldsJSON, err := fieldsToJSON(vv.Fields, vt.Arms[vv.Arm].Fields)
		if err != nil {
			return nil, err
		}
		return map[string]any{"arm": vv.Arm, "fields": fieldsJSON}, nil
	default:
		return v, nil
	}
}

func fieldsToJSON(fields map[string]any, decl []enc.Field) (map[string]any, error) {
	out := make(map[string]any, len(decl))
	for _, f := range decl {
		jv, err := valueToJSON(fields[f.Name], f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out[f.Name] = jv
	}
	return out, nil
}

func castUint(n uint64, k enc.Kind) any {
	switch k {
	case enc.KindU8:
		return uint8(n)
	case enc.KindU16:
		return uint16(n)
	case enc.KindU32:
		return uint32(n)
	default:
		return n
	}
}

func castInt(n int64, k enc.Kind) any {
	switch k {
	case enc.KindI8:
		return int8(n)
	case enc.KindI16:
		return int16(n)
	case enc.KindI32:
		return int32(n)
	default:
		return n
	}
}

// decodeJSON is a tiny wrapper so callers get a clear error on malformed
// input instead of a bare json package error.
func decodeJSON(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parsing JSON value: %w", err)
	}
	return v, nil
}

func trimNewline(raw []byte) string {
	return strings.TrimSpace(string(raw))
}

func jsonMarshalIndent(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON output: %w", err)
	}
	return string(out), nil
}
