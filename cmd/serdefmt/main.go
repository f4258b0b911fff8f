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

// Command serdefmt is a small demonstration CLI over the bcs/bincode
// façades: it reads a YAML type profile and a JSON value, and encodes,
// decodes, or round-trips it through the chosen wire format.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/go-serde/codec/bcs"
	"github.com/go-serde/codec/bincode"
	"github.com/go-serde/codec/enc"
	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"
)

var log = logrus.New()

func main() {
	app := cli.NewApp()
	app.Name = "serdefmt"
	app.Usage = "encode/decode values against a type profile using BCS or BINCODE"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "format, f", Value: "bcs", Usage: "wire format: bcs or bincode"},
		cli.StringFlag{Name: "type, t", Usage: "path to a YAML type profile"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "encode",
			Usage: "read a JSON value on stdin, write encoded bytes (hex) on stdout",
			Action: func(c *cli.Context) error {
				return runEncode(c)
			},
		},
		{
			Name:  "decode",
			Usage: "read encoded bytes (hex) on stdin, write a JSON value on stdout",
			Action: func(c *cli.Context) error {
				return runDecode(c)
			},
		},
		{
			Name:  "roundtrip",
			Usage: "encode then decode a JSON value, failing if it doesn't match byte-for-byte",
			Action: func(c *cli.Context) error {
				return runRoundtrip(c)
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("serdefmt failed")
		os.Exit(1)
	}
}

func codecFor(c *cli.Context) (func(any, enc.Type) ([]byte, error), func([]byte, enc.Type) (any, []byte, error), error) {
	switch format(c) {
	case "bcs":
		return bcs.Serialize, bcs.Deserialize, nil
	case "bincode":
		return bincode.Serialize, bincode.Deserialize, nil
	default:
		return nil, nil, fmt.Errorf("unknown format %q: want bcs or bincode", format(c))
	}
}

func format(c *cli.Context) string {
	if f := c.GlobalString("format"); f != "" {
		return f
	}
	return "bcs"
}

func typeProfile(c *cli.Context) (enc.Type, error) {
	path := c.GlobalString("type")
	if path == "" {
		return nil, fmt.Errorf("missing required -type flag")
	}
	return LoadTypeProfile(path)
}

func runEncode(c *cli.Context) error {
	t, err := typeProfile(c)
	if err != nil {
		return err
	}
	serialize, _, err := codecFor(c)
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	jsonVal, err := decodeJSON(raw)
	if err != nil {
		return err
	}
	value, err := jsonToValue(jsonVal, t)
	if err != nil {
		return fmt.Errorf("converting JSON to value: %w", err)
	}
	out, err := serialize(value, t)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	log.WithField("bytes", len(out)).Info("encoded")
	fmt.Fprintln(os.Stdout, hex.EncodeToString(out))
	return nil
}

func runDecode(c *cli.Context) error {
	t, err := typeProfile(c)
	if err != nil {
		return err
	}
	_, deserialize, err := codecFor(c)
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	data, err := hex.DecodeString(trimNewline(raw))
	if err != nil {
		return fmt.Errorf("decoding hex input: %w", err)
	}
	value, rest, err := deserialize(data, t)
	if err != nil {
		return fmt.Errorf("deserialize: %w", err)
	}
	if len(rest) != 0 {
		log.WithField("trailing_bytes", len(rest)).Warn("unconsumed tail")
	}
	jsonVal, err := valueToJSON(value, t)
	if err != nil {
		return fmt.Errorf("converting value to JSON: %w", err)
	}
	out, err := jsonMarshalIndent(jsonVal)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, out)
	return nil
}

func runRoundtrip(c *cli.Context) error {
	t, err := typeProfile(c)
	if err != nil {
		return err
	}
	serialize, deserialize, err := codecFor(c)
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	jsonVal, err := decodeJSON(raw)
	if err != nil {
		return err
	}
	value, err := jsonToValue(jsonVal, t)
	if err != nil {
		return fmt.Errorf("converting JSON to value: %w", err)
	}
	encoded, err := serialize(value, t)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	decoded, rest, err := deserialize(encoded, t)
	if err != nil {
		return fmt.Errorf("deserialize: %w", err)
	}
	if len(rest) != 0 {
		return fmt.Errorf("%d unconsumed trailing bytes", len(rest))
	}
	reencoded, err := serialize(decoded, t)
	if err != nil {
		return fmt.Errorf("re-serialize: %w", err)
	}
	if hex.EncodeToString(encoded) != hex.EncodeToString(reencoded) {
		return fmt.Errorf("roundtrip mismatch:\n  first:  %x\n  second: %x", encoded, reencoded)
	}
	log.WithField("bytes", len(encoded)).Info("roundtrip ok")
	fmt.Fprintln(os.Stdout, hex.EncodeToString(encoded))
	return nil
}
