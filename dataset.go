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

// Value stores the contents of a single cell of a decoded row.
//
// A present value is one of bool, int32, int64, float32, float64 or string,
// according to the column type. A null cell is nil.
type Value any

// Row is one decoded row. The first element is the int64 timestamp; the
// remaining elements are the column values in declaration order.
type Row []Value

// Time returns the timestamp of the row.
func (r Row) Time() int64 {
	if len(r) == 0 {
		return 0
	}
	ts, _ := r[0].(int64)
	return ts
}

// Values returns the column values of the row, without the timestamp.
func (r Row) Values() []Value {
	if len(r) == 0 {
		return nil
	}
	return r[1:]
}

// DataSet is the wire representation of one batch of rows.
//
// Time holds one big-endian int64 per row. Values and Bitmaps hold, per
// column, the densely packed present values and the presence bitmap.
type DataSet struct {
	Time    []byte   `json:"time"`
	Values  [][]byte `json:"value_list"`
	Bitmaps [][]byte `json:"bitmap_list"`
}

// RowCount returns the number of rows described by the time buffer.
func (ds *DataSet) RowCount() int {
	return len(ds.Time) / timeWidth
}

// IsEmpty reports whether the data set holds no rows.
func (ds *DataSet) IsEmpty() bool {
	return len(ds.Time) == 0
}

// Decode decodes the data set against the declared column types.
func (ds *DataSet) Decode(types []DataType) ([]Row, error) {
	return Decode(ds.Time, ds.Values, ds.Bitmaps, types)
}
