/*
 * Copyright 2026 The tsbatch Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tsbatch

import (
	"fmt"
	"strings"
)

// DataType is the type tag of a value column.
type DataType int16

const (
	// Boolean is a 1-byte boolean, 0 or 1 on the wire.
	Boolean DataType = 0
	// Int32 is a 4-byte signed integer.
	Int32 DataType = 1
	// Int64 is an 8-byte signed integer.
	Int64 DataType = 2
	// Float is a 4-byte IEEE 754 float.
	Float DataType = 3
	// Double is an 8-byte IEEE 754 float.
	Double DataType = 4
	// Text is a length-prefixed byte string.
	Text DataType = 5
)

// Width returns the encoded byte width of a fixed-width type.
//
// The second result is false for Text and for unknown tags.
func (t DataType) Width() (int, bool) {
	switch t {
	case Boolean:
		return 1, true
	case Int32, Float:
		return 4, true
	case Int64, Double:
		return 8, true
	case Text:
		return 0, false
	default:
		return 0, false
	}
}

// Validate returns an UnsupportedTypeError if t is not a known tag.
func (t DataType) Validate() error {
	switch t {
	case Boolean, Int32, Int64, Float, Double, Text:
		return nil
	default:
		return &UnsupportedTypeError{Type: t}
	}
}

func (t DataType) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Text:
		return "TEXT"
	default:
		return fmt.Sprintf("DataType(%d)", int16(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t DataType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseDataType parses a type name such as "INT64", case-insensitively.
func ParseDataType(name string) (DataType, error) {
	switch strings.ToUpper(name) {
	case "BOOLEAN":
		return Boolean, nil
	case "INT32":
		return Int32, nil
	case "INT64":
		return Int64, nil
	case "FLOAT":
		return Float, nil
	case "DOUBLE":
		return Double, nil
	case "TEXT":
		return Text, nil
	default:
		return 0, fmt.Errorf("unrecognized data type: %s", name)
	}
}

// Encoding is the storage encoding declared for a time series. It is reported
// in FieldSchema and never changes the batch wire format.
type Encoding int16

const (
	Plain Encoding = iota
	PlainDictionary
	RLE
	Diff
	TS2Diff
	BitmapEncoding
	Gorilla
	Regular
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case Diff:
		return "DIFF"
	case TS2Diff:
		return "TS_2DIFF"
	case BitmapEncoding:
		return "BITMAP"
	case Gorilla:
		return "GORILLA"
	case Regular:
		return "REGULAR"
	default:
		return fmt.Sprintf("Encoding(%d)", int16(e))
	}
}

// ParseEncoding parses an encoding name such as "TS_2DIFF".
func ParseEncoding(name string) (Encoding, error) {
	for e := Plain; e <= Regular; e++ {
		if strings.EqualFold(e.String(), name) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unrecognized encoding: %s", name)
}

// MarshalText implements encoding.TextMarshaler.
func (e Encoding) MarshalText() ([]byte, error) {
	if e < Plain || e > Regular {
		return nil, fmt.Errorf("unrecognized encoding: %d", int16(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
