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

// Encode converts rows into the wire buffers of one batch.
//
// Each row must hold an int64 timestamp followed by one cell per declared
// type; a nil cell is encoded as null. Rows are written in the order given:
// the caller owns the non-decreasing timestamp order of the batch.
//
// A value whose runtime type does not match its column is reported as a
// *TypeMismatchError. Text columns accept both string and []byte.
func Encode(rows []Row, types []DataType) (*DataSet, error) {
	if err := validateTypes(types); err != nil {
		return nil, err
	}

	time := make([]byte, 0, len(rows)*timeWidth)
	for i, row := range rows {
		if len(row) != 1+len(types) {
			return nil, formatErrorf(WholeBatch, "row %d has %d cells, want %d", i, len(row), 1+len(types))
		}
		ts, ok := row[0].(int64)
		if !ok {
			return nil, &TypeMismatchError{Row: i, Column: TimeColumn, Expected: Int64, Value: row[0]}
		}
		time = binary.BigEndian.AppendUint64(time, uint64(ts))
	}

	ds := &DataSet{
		Time:    time,
		Values:  make([][]byte, len(types)),
		Bitmaps: make([][]byte, len(types)),
	}
	for col, typ := range types {
		bitmap := make([]byte, bitmapLen(len(rows)))
		var payload []byte
		if width, ok := typ.Width(); ok {
			payload = make([]byte, 0, len(rows)*width)
		} else {
			payload = make([]byte, 0)
		}

		for j, row := range rows {
			v := row[1+col]
			if v == nil {
				continue
			}
			var (
				ok  bool
				err error
			)
			payload, ok, err = appendValue(payload, col, typ, v)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &TypeMismatchError{Row: j, Column: col, Expected: typ, Value: v}
			}
			markPresent(bitmap, j)
		}

		ds.Values[col] = payload
		ds.Bitmaps[col] = bitmap
	}
	return ds, nil
}
