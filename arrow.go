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
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// TimeFieldName is the name of the timestamp field of Arrow records.
const TimeFieldName = "time"

// ArrowType returns the Arrow data type a column of type t maps to.
func ArrowType(t DataType) (arrow.DataType, error) {
	switch t {
	case Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Float:
		return arrow.PrimitiveTypes.Float32, nil
	case Double:
		return arrow.PrimitiveTypes.Float64, nil
	case Text:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, &UnsupportedTypeError{Type: t}
	}
}

func dataTypeOf(t arrow.DataType) (DataType, error) {
	switch t.ID() {
	case arrow.BOOL:
		return Boolean, nil
	case arrow.INT32:
		return Int32, nil
	case arrow.INT64:
		return Int64, nil
	case arrow.FLOAT32:
		return Float, nil
	case arrow.FLOAT64:
		return Double, nil
	case arrow.STRING:
		return Text, nil
	default:
		return 0, &UnsupportedTypeError{ArrowType: t}
	}
}

// ArrowSchema returns the Arrow schema of rows described by schema: a
// non-nullable int64 time field followed by one nullable field per column.
func ArrowSchema(schema Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, 1+len(schema))
	fields = append(fields, arrow.Field{Name: TimeFieldName, Type: arrow.PrimitiveTypes.Int64})
	for _, fs := range schema {
		typ, err := ArrowType(fs.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: fs.Name, Type: typ, Nullable: true})
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToArrowRecord builds an Arrow record from decoded rows.
//
// The caller must release the returned record.
func ToArrowRecord(mem memory.Allocator, schema Schema, rows []Row) (arrow.Record, error) {
	as, err := ArrowSchema(schema)
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(mem, as)
	defer b.Release()

	tb := b.Field(0).(*array.Int64Builder)
	for i, row := range rows {
		if len(row) != 1+len(schema) {
			return nil, formatErrorf(WholeBatch, "row %d has %d cells, want %d", i, len(row), 1+len(schema))
		}
		ts, ok := row[0].(int64)
		if !ok {
			return nil, &TypeMismatchError{Row: i, Column: TimeColumn, Expected: Int64, Value: row[0]}
		}
		tb.Append(ts)
	}

	for col, fs := range schema {
		fb := b.Field(1 + col)
		for j, row := range rows {
			v := row[1+col]
			if v == nil {
				fb.AppendNull()
				continue
			}
			if !appendArrowValue(fb, fs.Type, v) {
				return nil, &TypeMismatchError{Row: j, Column: col, Expected: fs.Type, Value: v}
			}
		}
	}
	return b.NewRecord(), nil
}

func appendArrowValue(b array.Builder, t DataType, v Value) bool {
	switch t {
	case Boolean:
		x, ok := v.(bool)
		if ok {
			b.(*array.BooleanBuilder).Append(x)
		}
		return ok
	case Int32:
		x, ok := v.(int32)
		if ok {
			b.(*array.Int32Builder).Append(x)
		}
		return ok
	case Int64:
		x, ok := v.(int64)
		if ok {
			b.(*array.Int64Builder).Append(x)
		}
		return ok
	case Float:
		x, ok := v.(float32)
		if ok {
			b.(*array.Float32Builder).Append(x)
		}
		return ok
	case Double:
		x, ok := v.(float64)
		if ok {
			b.(*array.Float64Builder).Append(x)
		}
		return ok
	case Text:
		switch x := v.(type) {
		case string:
			b.(*array.StringBuilder).Append(x)
			return true
		case []byte:
			b.(*array.StringBuilder).Append(string(x))
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// RowsFromArrowRecord converts an Arrow record, laid out as ToArrowRecord
// lays it out, back into a schema and rows.
func RowsFromArrowRecord(rec arrow.Record) (Schema, []Row, error) {
	if rec.NumCols() == 0 {
		return nil, nil, formatErrorf(TimeColumn, "record has no columns")
	}

	times, ok := rec.Column(0).(*array.Int64)
	if !ok {
		return nil, nil, formatErrorf(TimeColumn, "expected int64, got %s", rec.Column(0).DataType())
	}
	if times.NullN() > 0 {
		return nil, nil, formatErrorf(TimeColumn, "%d null timestamps", times.NullN())
	}

	fields := rec.Schema().Fields()
	schema := make(Schema, 0, len(fields)-1)
	for _, f := range fields[1:] {
		typ, err := dataTypeOf(f.Type)
		if err != nil {
			return nil, nil, err
		}
		schema = append(schema, &FieldSchema{Name: f.Name, Type: typ})
	}

	numRows := int(rec.NumRows())
	rows := make([]Row, numRows)
	for i := range rows {
		row := make(Row, 1, 1+len(schema))
		row[0] = times.Value(i)
		rows[i] = row
	}

	for col := range schema {
		arr := rec.Column(1 + col)
		for j := 0; j < numRows; j++ {
			if arr.IsNull(j) {
				rows[j] = append(rows[j], nil)
				continue
			}
			rows[j] = append(rows[j], arrowValue(arr, j))
		}
	}
	return schema, rows, nil
}

func arrowValue(arr arrow.Array, j int) Value {
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(j)
	case *array.Int32:
		return a.Value(j)
	case *array.Int64:
		return a.Value(j)
	case *array.Float32:
		return a.Value(j)
	case *array.Float64:
		return a.Value(j)
	case *array.String:
		return a.Value(j)
	default:
		return nil
	}
}

// EncodeArrowBatches writes record batches sharing schema as a base64
// encoded Arrow IPC stream.
func EncodeArrowBatches(schema *arrow.Schema, batches []arrow.Record) ([]byte, error) {
	if len(batches) == 0 {
		return nil, errors.New("no record batches to encode")
	}

	var buf bytes.Buffer
	encoder := base64.NewEncoder(base64.StdEncoding, &buf)
	writer := ipc.NewWriter(encoder, ipc.WithSchema(schema))
	for i, batch := range batches {
		if err := writer.Write(batch); err != nil {
			return nil, errors.Join(fmt.Errorf("write batch %d: %w", i, err), writer.Close(), encoder.Close())
		}
	}
	// The writer flushes the end-of-stream marker into the encoder.
	if err := errors.Join(writer.Close(), encoder.Close()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeArrowBatches decodes a base64 encoded Arrow IPC stream into record
// batches. The caller must release every returned record.
func DecodeArrowBatches(data []byte) ([]arrow.Record, error) {
	decoder := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(data))
	reader, err := ipc.NewReader(decoder, ipc.WithDelayReadSchema(true))
	if err != nil {
		return nil, err
	}
	defer reader.Release()

	batches := make([]arrow.Record, 0)
	for reader.Next() {
		batch := reader.Record()
		batch.Retain()
		batches = append(batches, batch)
	}
	if err := reader.Err(); err != nil {
		for _, batch := range batches {
			batch.Release()
		}
		return nil, err
	}
	return batches, nil
}
