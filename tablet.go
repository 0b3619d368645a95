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
)

// Tablet is the payload of an insert-tablet request: one device, many rows,
// every cell present.
type Tablet struct {
	// Time holds one big-endian int64 per row.
	Time []byte
	// Values holds every column back to back, column-major, without bitmaps.
	Values []byte
	// Types are the declared column types.
	Types []DataType
	// RowCount is the number of rows.
	RowCount int
}

// EncodeTablet encodes column-major data into the insert-tablet layout.
//
// columns[i] holds the values of column i, one per timestamp. Nulls cannot
// be represented in a tablet and are reported as a *FormatError. The caller
// owns the order of times.
func EncodeTablet(times []int64, columns [][]Value, types []DataType) (*Tablet, error) {
	if err := validateTypes(types); err != nil {
		return nil, err
	}
	if len(columns) != len(types) {
		return nil, formatErrorf(WholeBatch, "%d columns for %d types", len(columns), len(types))
	}

	time := make([]byte, 0, len(times)*timeWidth)
	for _, ts := range times {
		time = binary.BigEndian.AppendUint64(time, uint64(ts))
	}

	var values []byte
	for col, typ := range types {
		if len(columns[col]) != len(times) {
			return nil, formatErrorf(col, "%d values for %d rows", len(columns[col]), len(times))
		}
		for j, v := range columns[col] {
			if v == nil {
				return nil, formatErrorf(col, "row %d is null, tablets cannot carry nulls", j)
			}
			var (
				ok  bool
				err error
			)
			values, ok, err = appendValue(values, col, typ, v)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &TypeMismatchError{Row: j, Column: col, Expected: typ, Value: v}
			}
		}
	}

	return &Tablet{
		Time:     time,
		Values:   values,
		Types:    types,
		RowCount: len(times),
	}, nil
}

// DecodeTablet decodes an insert-tablet payload into timestamps and
// column-major values.
func DecodeTablet(t *Tablet) ([]int64, [][]Value, error) {
	if err := validateTypes(t.Types); err != nil {
		return nil, nil, err
	}
	if len(t.Time) != t.RowCount*timeWidth {
		return nil, nil, formatErrorf(TimeColumn, "length %d does not hold %d rows", len(t.Time), t.RowCount)
	}

	times := make([]int64, t.RowCount)
	tc := &cursor{buf: t.Time, column: TimeColumn}
	for i := range times {
		ts, err := tc.readInt64()
		if err != nil {
			return nil, nil, err
		}
		times[i] = ts
	}

	columns := make([][]Value, len(t.Types))
	c := &cursor{buf: t.Values}
	for col, typ := range t.Types {
		c.column = col
		column := make([]Value, t.RowCount)
		for j := range column {
			v, err := c.readValue(typ)
			if err != nil {
				return nil, nil, err
			}
			column[j] = v
		}
		columns[col] = column
	}
	if c.remaining() != 0 {
		return nil, nil, formatErrorf(WholeBatch, "%d trailing bytes after %d columns", c.remaining(), len(t.Types))
	}
	return times, columns, nil
}

// EncodeRecord encodes one row of an insert-record request: for every value
// a 2-byte type tag followed by the value itself.
func EncodeRecord(values []Value, types []DataType) ([]byte, error) {
	if err := validateTypes(types); err != nil {
		return nil, err
	}
	if len(values) != len(types) {
		return nil, formatErrorf(WholeBatch, "%d values for %d types", len(values), len(types))
	}

	var buf []byte
	for col, typ := range types {
		if values[col] == nil {
			return nil, formatErrorf(col, "records cannot carry nulls")
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(typ))
		var (
			ok  bool
			err error
		)
		buf, ok, err = appendValue(buf, col, typ, values[col])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &TypeMismatchError{Column: col, Expected: typ, Value: values[col]}
		}
	}
	return buf, nil
}

// DecodeRecord decodes an insert-record payload. The types are read from the
// payload itself.
func DecodeRecord(buf []byte) ([]Value, []DataType, error) {
	var (
		values []Value
		types  []DataType
	)
	c := &cursor{buf: buf}
	for col := 0; c.remaining() > 0; col++ {
		c.column = col
		tag, err := c.readInt16()
		if err != nil {
			return nil, nil, err
		}
		typ := DataType(tag)
		if err := typ.Validate(); err != nil {
			return nil, nil, err
		}
		v, err := c.readValue(typ)
		if err != nil {
			return nil, nil, err
		}
		values = append(values, v)
		types = append(types, typ)
	}
	return values, types, nil
}
