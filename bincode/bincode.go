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
// Package bincode implements the BINCODE wire format: 8-byte little-endian
// length framing, 4-byte little-endian variant indices, insertion-order
// maps, and no recursion-depth cap, built on the shared enc walker.
package bincode

import "github.com/go-serde/codec/enc"

var codec = enc.NewCodec(framing{})

// Serialize encodes value against its Type description using BINCODE
// framing.
func Serialize(value any, t enc.Type) ([]byte, error) {
	return codec.Serialize(value, t)
}

// Deserialize decodes a t-shaped value from the front of data, returning
// the value and any unconsumed tail bytes. Unlike BCS, BINCODE applies no
// canonicity check on map ordering and has no depth cap -- only length
// bounds and per-primitive/tag validation can fail.
func Deserialize(data []byte, t enc.Type) (value any, remaining []byte, err error) {
	return codec.Deserialize(data, t)
}

// SerializationError is returned by Serialize.
type SerializationError = enc.SerializationError

// DeserializationError is returned by Deserialize.
type DeserializationError = enc.DeserializationError
