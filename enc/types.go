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
// Package enc holds the format-parametric core: the closed type
// description sum (Type), the depth-guarded reflective walker that
// traverses a value against a Type, and the Framing seam that bcs and
// bincode each implement to supply their own length/variant-index/map-
// ordering policy.
//
// Runtime values are carried as `any`, paired with their Type at the
// Serialize/Deserialize boundary -- the polymorphism is over the value,
// not over a generated destination type. The natural Go shapes are:
//
//	Bool            bool
//	U8..U64         uint8/uint16/uint32/uint64 (exact width, not uint)
//	I8..I64         int8/int16/int32/int64 (exact width, not int)
//	U128, I128      *big.Int
//	Unit            struct{}{}
//	F32, F64        float32 / float64 (only when wire.EnableFloats was called)
//	Char            rune (likewise)
//	Bytes           []byte
//	Str             string
//	SeqOf, TupleOf  []any
//	OptionOf        any, with a bare nil meaning absent
//	MapOf           MapValue (an ordered slice of key/value pairs)
//	StructOf        map[string]any, keyed by declared field name
//	VariantOf       VariantValue
package enc

// Kind identifies which case of the closed Type sum a value belongs to.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindUnit
	KindF32
	KindF64
	KindChar
	KindBytes
	KindStr
	KindSeq
	KindTuple
	KindOption
	KindMap
	KindStruct
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindU128:
		return "u128"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindI128:
		return "i128"
	case KindUnit:
		return "unit"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindChar:
		return "char"
	case KindBytes:
		return "bytes"
	case KindStr:
		return "str"
	case KindSeq:
		return "seq"
	case KindTuple:
		return "tuple"
	case KindOption:
		return "option"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindVariant:
		return "variant"
	default:
		return "invalid"
	}
}

// Type is the closed sum of type descriptions this module understands.
// Implementations are exhaustively enumerated below; callers must not
// define their own.
type Type interface {
	Kind() Kind
}

// primType is the concrete Type for every case with no further
// structure: primitives, unit, bytes, and string.
type primType Kind

func (p primType) Kind() Kind { return Kind(p) }

var (
	Bool  Type = primType(KindBool)
	U8    Type = primType(KindU8)
	U16   Type = primType(KindU16)
	U32   Type = primType(KindU32)
	U64   Type = primType(KindU64)
	U128  Type = primType(KindU128)
	I8    Type = primType(KindI8)
	I16   Type = primType(KindI16)
	I32   Type = primType(KindI32)
	I64   Type = primType(KindI64)
	I128  Type = primType(KindI128)
	Unit  Type = primType(KindUnit)
	F32   Type = primType(KindF32)
	F64   Type = primType(KindF64)
	Char  Type = primType(KindChar)
	Bytes Type = primType(KindBytes)
	Str   Type = primType(KindStr)
)

// SeqOf describes a length-prefixed homogeneous ordered list.
type SeqOf struct{ Elem Type }

func (SeqOf) Kind() Kind { return KindSeq }

// TupleOf describes a fixed-arity heterogeneous concatenation with no
// framing.
type TupleOf struct{ Elems []Type }

func (TupleOf) Kind() Kind { return KindTuple }

// OptionOf describes a one-byte-tagged optional value.
type OptionOf struct{ Elem Type }

func (OptionOf) Kind() Kind { return KindOption }

// MapOf describes a length-prefixed sequence of (K,V) pairs, ordered per
// the active format's Framing.
type MapOf struct{ Key, Value Type }

func (MapOf) Kind() Kind { return KindMap }

// Field is one named, typed member of a Struct or variant Arm.
type Field struct {
	Name string
	Type Type
}

// StructOf describes a concatenation of named fields in declaration
// order, with no framing.
type StructOf struct {
	Name   string
	Fields []Field
}

func (StructOf) Kind() Kind { return KindStruct }

// LazyOf wraps a thunk that produces a Type on demand. It exists solely
// to let a self-referential type description (a linked-list-shaped
// struct, say) be expressed without building a literal cyclic Go value
// graph: a field's Type is a LazyOf whose Resolve closes over the outer
// type description and is only invoked when the walker actually reaches
// that field, once per visit, never eagerly. LazyOf is not itself a new
// case of the closed Type sum -- its Kind() reports whatever Resolve()
// currently reports, and the walker unwraps it before dispatching.
type LazyOf struct{ Resolve func() Type }

func (l LazyOf) Kind() Kind { return l.Resolve().Kind() }

// Arm is one alternative of a variant's arm table. A nil *Arm at a given
// index marks a gap: the index is reserved but has no valid encoding.
type Arm struct {
	Name   string
	Fields []Field
}

// VariantOf describes a variant-index prefix followed by the selected
// arm's struct encoding. The arm table may be sparse.
type VariantOf struct {
	Name string
	Arms []*Arm
}

func (VariantOf) Kind() Kind { return KindVariant }

// MapEntry is one key/value pair of a MapValue.
type MapEntry struct {
	Key   any
	Value any
}

// MapValue is the runtime value carried for a MapOf type: an ordered
// list of entries. Treating a map as an ordered pair list, rather than a
// native Go map, sidesteps Go's comparable-key restriction (struct and
// []byte keys are both legal wire-format map keys) and mirrors the wire
// format directly: "length-prefixed sequence of (K,V) pairs."
type MapValue []MapEntry

// VariantValue is the runtime value carried for a VariantOf type: which
// arm is selected, and that arm's field values.
type VariantValue struct {
	Arm    uint32
	Fields map[string]any
}
