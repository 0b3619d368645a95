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
	"encoding/binary"
	"math"
)

const (
	timeWidth   = 8
	lengthWidth = 4
	tagWidth    = 2
)

// bitmapLen returns the number of bitmap bytes covering rows.
func bitmapLen(rows int) int {
	return (rows + 7) / 8
}

// isPresent reports whether row j is marked present, MSB first.
func isPresent(bitmap []byte, j int) bool {
	return bitmap[j>>3]&(0x80>>(j&7)) != 0
}

func markPresent(bitmap []byte, j int) {
	bitmap[j>>3] |= 0x80 >> (j & 7)
}

// cursor reads big-endian values from an immutable buffer.
type cursor struct {
	buf    []byte
	off    int
	column int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) take(n int) ([]byte, error) {
	if n > c.remaining() {
		return nil, formatErrorf(c.column, "need %d bytes at offset %d, buffer has %d", n, c.off, len(c.buf))
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) readInt16() (int16, error) {
	b, err := c.take(tagWidth)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (c *cursor) readInt64() (int64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (c *cursor) readText() (string, error) {
	b, err := c.take(lengthWidth)
	if err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(b)
	if uint64(n) > uint64(c.remaining()) {
		return "", formatErrorf(c.column, "text of %d bytes at offset %d overruns buffer of %d", n, c.off, len(c.buf))
	}
	b, err = c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readValue reads one present value of type t.
func (c *cursor) readValue(t DataType) (Value, error) {
	if t == Text {
		return c.readText()
	}

	width, ok := t.Width()
	if !ok {
		return nil, &UnsupportedTypeError{Type: t}
	}
	b, err := c.take(width)
	if err != nil {
		return nil, err
	}

	switch t {
	case Boolean:
		return b[0] != 0, nil
	case Int32:
		return int32(binary.BigEndian.Uint32(b)), nil
	case Int64:
		return int64(binary.BigEndian.Uint64(b)), nil
	case Float:
		return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
	case Double:
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	default:
		return nil, &UnsupportedTypeError{Type: t}
	}
}

// appendValue appends v encoded as type t. The bool result is false when the
// runtime type of v does not match t.
func appendValue(dst []byte, column int, t DataType, v Value) ([]byte, bool, error) {
	switch t {
	case Boolean:
		b, ok := v.(bool)
		if !ok {
			return dst, false, nil
		}
		if b {
			return append(dst, 1), true, nil
		}
		return append(dst, 0), true, nil
	case Int32:
		i, ok := v.(int32)
		if !ok {
			return dst, false, nil
		}
		return binary.BigEndian.AppendUint32(dst, uint32(i)), true, nil
	case Int64:
		i, ok := v.(int64)
		if !ok {
			return dst, false, nil
		}
		return binary.BigEndian.AppendUint64(dst, uint64(i)), true, nil
	case Float:
		f, ok := v.(float32)
		if !ok {
			return dst, false, nil
		}
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(f)), true, nil
	case Double:
		f, ok := v.(float64)
		if !ok {
			return dst, false, nil
		}
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(f)), true, nil
	case Text:
		var s []byte
		switch x := v.(type) {
		case string:
			s = []byte(x)
		case []byte:
			s = x
		default:
			return dst, false, nil
		}
		if uint64(len(s)) > math.MaxUint32 {
			return dst, true, formatErrorf(column, "text of %d bytes exceeds the length prefix", len(s))
		}
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(s)))
		return append(dst, s...), true, nil
	default:
		return dst, false, &UnsupportedTypeError{Type: t}
	}
}

func validateTypes(types []DataType) error {
	for _, t := range types {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
