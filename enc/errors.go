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
	"errors"
	"fmt"
)

// ErrorKind classifies why a Serialize or Deserialize call failed. The
// set is exhaustive: every failure mode of either direction maps to
// exactly one kind.
type ErrorKind uint8

const (
	KindUnexpectedType ErrorKind = iota
	KindValueMismatch
	KindLengthExceeded
	KindNonCanonical
	KindOverflow
	KindShortInput
	KindInvalidUTF8
	KindWrongTag
	KindUnorderedMapKeys
	KindDepthExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnexpectedType:
		return "unexpected type"
	case KindValueMismatch:
		return "value/type mismatch"
	case KindLengthExceeded:
		return "length exceeds maximum"
	case KindNonCanonical:
		return "non-canonical framing"
	case KindOverflow:
		return "overflow"
	case KindShortInput:
		return "short input"
	case KindInvalidUTF8:
		return "invalid utf-8"
	case KindWrongTag:
		return "wrong tag"
	case KindUnorderedMapKeys:
		return "unordered map keys"
	case KindDepthExceeded:
		return "depth exceeded"
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is comparisons against the Err field of a
// SerializationError/DeserializationError.
var (
	ErrUnexpectedType    = errors.New("enc: unexpected type")
	ErrValueMismatch     = errors.New("enc: value does not match declared type")
	ErrLengthExceeded    = errors.New("enc: length exceeds format maximum")
	ErrNonCanonical      = errors.New("enc: non-canonical framing")
	ErrOverflow          = errors.New("enc: varint overflow")
	ErrShortInput        = errors.New("enc: short input")
	ErrInvalidUTF8       = errors.New("enc: invalid utf-8")
	ErrWrongTag          = errors.New("enc: wrong tag")
	ErrUnorderedMapKeys  = errors.New("enc: map keys not strictly increasing")
	ErrDepthExceeded     = errors.New("enc: maximum container depth exceeded")
	ErrUnimplemented     = errors.New("enc: type not implemented")
)

// SerializationError is returned by Codec.Serialize.
type SerializationError struct {
	Kind ErrorKind
	Path string // dotted field/arm path, when known
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("serialize: %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("serialize: %s: %v", e.Kind, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// DeserializationError is returned by Codec.Deserialize.
type DeserializationError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *DeserializationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("deserialize: %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("deserialize: %s: %v", e.Kind, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

func serr(kind ErrorKind, err error) error {
	return &SerializationError{Kind: kind, Err: err}
}

func derr(kind ErrorKind, err error) error {
	return &DeserializationError{Kind: kind, Err: err}
}
