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
	"fmt"
	"os"

	"github.com/go-serde/codec/enc"
	"sigs.k8s.io/yaml"
)

// TypeSpec is the on-disk, YAML-unmarshaled shape of a type description:
// a named type-profile file so repeat CLI invocations don't need to
// rebuild enc.Type values by hand. Unmarshaled through JSON tags via
// sigs.k8s.io/yaml, the same way sneller's own config surfaces round-trip
// YAML through encoding/json.
type TypeSpec struct {
	Kind   string       `json:"kind"`
	Name   string       `json:"name,omitempty"`
	Elem   *TypeSpec    `json:"elem,omitempty"`
	Elems  []TypeSpec   `json:"elems,omitempty"`
	Key    *TypeSpec    `json:"key,omitempty"`
	Value  *TypeSpec    `json:"value,omitempty"`
	Fields []FieldSpec  `json:"fields,omitempty"`
	Arms   []*ArmSpec   `json:"arms,omitempty"`
}

// FieldSpec is one named, typed struct/arm member.
type FieldSpec struct {
	Name string   `json:"name"`
	Type TypeSpec `json:"type"`
}

// ArmSpec is one populated slot of a variant's arm table. A nil *ArmSpec
// in TypeSpec.Arms marks a gap, same as enc.VariantOf.Arms.
type ArmSpec struct {
	Name   string      `json:"name"`
	Fields []FieldSpec `json:"fields,omitempty"`
}

// LoadTypeProfile reads and parses a YAML type-profile file from path.
func LoadTypeProfile(path string) (enc.Type, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading type profile: %w", err)
	}
	var spec TypeSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parsing type profile: %w", err)
	}
	return spec.Build()
}

// Build converts a TypeSpec into the enc.Type it describes.
func (s TypeSpec) Build() (enc.Type, error) {
	switch s.Kind {
	case "bool":
		return enc.Bool, nil
	case "u8":
		return enc.U8, nil
	case "u16":
		return enc.U16, nil
	case "u32":
		return enc.U32, nil
	case "u64":
		return enc.U64, nil
	case "u128":
		return enc.U128, nil
	case "i8":
		return enc.I8, nil
	case "i16":
		return enc.I16, nil
	case "i32":
		return enc.I32, nil
	case "i64":
		return enc.I64, nil
	case "i128":
		return enc.I128, nil
	case "unit":
		return enc.Unit, nil
	case "f32":
		return enc.F32, nil
	case "f64":
		return enc.F64, nil
	case "char":
		return enc.Char, nil
	case "bytes":
		return enc.Bytes, nil
	case "str":
		return enc.Str, nil
	case "seq":
		if s.Elem == nil {
			return nil, fmt.Errorf("seq: missing elem")
		}
		elem, err := s.Elem.Build()
		if err != nil {
			return nil, err
		}
		return enc.SeqOf{Elem: elem}, nil
	case "tuple":
		elems := make([]enc.Type, len(s.Elems))
		for i, e := range s.Elems {
			t, err := e.Build()
			if err != nil {
				return nil, fmt.Errorf("tuple[%d]: %w", i, err)
			}
			elems[i] = t
		}
		return enc.TupleOf{Elems: elems}, nil
	case "option":
		if s.Elem == nil {
			return nil, fmt.Errorf("option: missing elem")
		}
		elem, err := s.Elem.Build()
		if err != nil {
			return nil, err
		}
		return enc.OptionOf{Elem: elem}, nil
	case "map":
		if s.Key == nil || s.Value == nil {
			return nil, fmt.Errorf("map: missing key or value")
		}
		k, err := s.Key.Build()
		if err != nil {
			return nil, err
		}
		v, err := s.Value.Build()
		if err != nil {
			return nil, err
		}
		return enc.MapOf{Key: k, Value: v}, nil
	case "struct":
		fields, err := buildFields(s.Fields)
		if err != nil {
			return nil, fmt.Errorf("struct %s: %w", s.Name, err)
		}
		return enc.StructOf{Name: s.Name, Fields: fields}, nil
	case "variant":
		arms := make([]*enc.Arm, len(s.Arms))
		for i, a := range s.Arms {
			if a == nil {
				continue
			}
			fields, err := buildFields(a.Fields)
			if err != nil {
				return nil, fmt.Errorf("variant %s arm %d: %w", s.Name, i, err)
			}
			arms[i] = &enc.Arm{Name: a.Name, Fields: fields}
		}
		return enc.VariantOf{Name: s.Name, Arms: arms}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", s.Kind)
	}
}

func buildFields(decl []FieldSpec) ([]enc.Field, error) {
	fields := make([]enc.Field, len(decl))
	for i, f := range decl {
		t, err := f.Type.Build()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields[i] = enc.Field{Name: f.Name, Type: t}
	}
	return fields, nil
}
