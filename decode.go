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

// Decode converts the wire buffers of one batch into rows.
//
// The row count is derived from the time buffer, whose length must be a
// multiple of 8. values, bitmaps and types are parallel, one entry per
// column. Each returned row holds the timestamp followed by one cell per
// column, nil for rows absent from the column bitmap.
//
// A bitmap shorter than ceil(rows/8) bytes, a read past the end of a value
// buffer, or bytes left over after the last present value are reported as a
// *FormatError. An unknown type tag is reported as an *UnsupportedTypeError
// before any value buffer is read. No partial result is returned.
func Decode(time []byte, values, bitmaps [][]byte, types []DataType) ([]Row, error) {
	if len(values) != len(types) || len(bitmaps) != len(types) {
		return nil, formatErrorf(WholeBatch, "%d value buffers and %d bitmaps for %d columns", len(values), len(bitmaps), len(types))
	}
	if len(time)%timeWidth != 0 {
		return nil, formatErrorf(TimeColumn, "length %d is not a multiple of %d", len(time), timeWidth)
	}
	if err := validateTypes(types); err != nil {
		return nil, err
	}

	numRows := len(time) / timeWidth
	rows := make([]Row, numRows)
	tc := &cursor{buf: time, column: TimeColumn}
	for i := range rows {
		ts, err := tc.readInt64()
		if err != nil {
			return nil, err
		}
		row := make(Row, 1, 1+len(types))
		row[0] = ts
		rows[i] = row
	}

	for col, typ := range types {
		bitmap := bitmaps[col]
		if len(bitmap) < bitmapLen(numRows) {
			return nil, formatErrorf(col, "bitmap has %d bytes, %d rows need %d", len(bitmap), numRows, bitmapLen(numRows))
		}

		c := &cursor{buf: values[col], column: col}
		for j := 0; j < numRows; j++ {
			if !isPresent(bitmap, j) {
				rows[j] = append(rows[j], nil)
				continue
			}
			v, err := c.readValue(typ)
			if err != nil {
				return nil, err
			}
			rows[j] = append(rows[j], v)
		}
		if c.remaining() != 0 {
			return nil, formatErrorf(col, "%d trailing bytes after %d rows", c.remaining(), numRows)
		}
	}
	return rows, nil
}
