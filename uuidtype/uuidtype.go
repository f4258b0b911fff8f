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

// Package uuidtype carries RFC 4122 UUIDs through the codec as a
// single-field struct wrapping the 16 raw bytes. It is the canonical
// example of layering a domain type on top of a type description:
// conversion happens at the value boundary, the walker only ever sees
// bytes.
package uuidtype

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-serde/codec/enc"
)

// Type is the wire shape of a UUID.
var Type = enc.StructOf{
	Name:   "Uuid",
	Fields: []enc.Field{{Name: "bytes", Type: enc.Bytes}},
}

// ToValue converts id into the value shape Serialize expects for Type.
func ToValue(id uuid.UUID) map[string]any {
	return map[string]any{"bytes": id[:]}
}

// FromValue converts a value decoded against Type back into a UUID.
func FromValue(v any) (uuid.UUID, error) {
	fields, ok := v.(map[string]any)
	if !ok {
		return uuid.Nil, fmt.Errorf("uuidtype: expected struct value, got %T", v)
	}
	raw, ok := fields["bytes"].([]byte)
	if !ok {
		return uuid.Nil, fmt.Errorf("uuidtype: missing bytes field")
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuidtype: %w", err)
	}
	return id, nil
}
