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

import "github.com/go-serde/codec/enc"

var codec = enc.NewCodec(framing{})

// Serialize encodes value against its Type description using BCS framing:
// ULEB128 lengths and variant indices, lexicographically sorted map
// entries, and a 500-level recursion budget over heap-like composites.
func Serialize(value any, t enc.Type) ([]byte, error) {
	return codec.Serialize(value, t)
}

// Deserialize decodes a t-shaped value from the front of data, returning
// the value and any unconsumed tail bytes. Non-canonical input (a
// redundant ULEB128 continuation group, unsorted map keys, a length
// prefix above MaxLength, ...) is rejected rather than silently accepted.
func Deserialize(data []byte, t enc.Type) (value any, remaining []byte, err error) {
	return codec.Deserialize(data, t)
}

// SerializationError is returned by Serialize.
type SerializationError = enc.SerializationError

// DeserializationError is returned by Deserialize.
type DeserializationError = enc.DeserializationError
