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

// Package sealed composes the codec with nacl/secretbox: a value is
// BCS-encoded, then the whole buffer is sealed into one authenticated
// box. Crypto and codec meet only at the byte-buffer boundary; the
// walker never sees ciphertext.
package sealed

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/go-serde/codec/bcs"
	"github.com/go-serde/codec/enc"
)

// ErrDecrypt is returned when a box fails to authenticate.
var ErrDecrypt = errors.New("sealed: cannot open box")

// ErrTrailingBytes is returned when a box's plaintext holds more than
// one value.
var ErrTrailingBytes = errors.New("sealed: trailing bytes after sealed value")

const nonceSize = 24

// Seal encodes value against t with BCS and seals the resulting bytes
// under key. The random nonce is prepended to the returned box.
func Seal(value any, t enc.Type, key *[32]byte) ([]byte, error) {
	plain, err := bcs.Serialize(value, t)
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plain, &nonce, key), nil
}

// Open authenticates and decrypts box under key, then decodes a
// t-shaped value from the full plaintext.
func Open(box []byte, t enc.Type, key *[32]byte) (any, error) {
	if len(box) < nonceSize {
		return nil, ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrDecrypt
	}
	value, rest, err := bcs.Deserialize(plain, t)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrTrailingBytes
	}
	return value, nil
}
