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

package tsbatch_test

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"
	tsbatch "github.com/tsbatch/tsbatch-go"
	"github.com/tsbatch/tsbatch-go/internal/testkit"
)

func TestArrowRoundTrip(t *testing.T) {
	tk := testkit.NewTestKit(t, tsbatch.Uncompressed)
	defer tk.Close()

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	schema := tk.RandomSchema(8)
	rows := tk.RandomRows(schema, 33)

	rec, err := tsbatch.ToArrowRecord(mem, schema, rows)
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, int64(33), rec.NumRows())
	require.Equal(t, int64(9), rec.NumCols())
	require.Equal(t, tsbatch.TimeFieldName, rec.Schema().Field(0).Name)
	require.False(t, rec.Schema().Field(0).Nullable)

	gotSchema, gotRows, err := tsbatch.RowsFromArrowRecord(rec)
	require.NoError(t, err)
	require.Equal(t, schema, gotSchema)
	require.Equal(t, rows, gotRows)
}

func TestArrowNulls(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	schema := tsbatch.Schema{{Name: "s1", Type: tsbatch.Int64}, {Name: "s6", Type: tsbatch.Text}}
	rec, err := tsbatch.ToArrowRecord(mem, schema, []tsbatch.Row{
		{int64(2), int64(22), "x"},
		{int64(3), nil, []byte("y")},
		{int64(4), int64(44), nil},
	})
	require.NoError(t, err)
	defer rec.Release()

	s1 := rec.Column(1).(*array.Int64)
	require.Equal(t, 1, s1.NullN())
	require.True(t, s1.IsNull(1))
	s6 := rec.Column(2).(*array.String)
	require.Equal(t, "y", s6.Value(1))
	require.True(t, s6.IsNull(2))
}

func TestArrowTypeMismatch(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	_, err := tsbatch.ToArrowRecord(mem, tsbatch.Schema{{Name: "s", Type: tsbatch.Int32}}, []tsbatch.Row{
		{int64(1), int64(1)},
	})
	var mismatch *tsbatch.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)

	_, err = tsbatch.ArrowSchema(tsbatch.Schema{{Name: "s", Type: tsbatch.DataType(7)}})
	var typeErr *tsbatch.UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestRowsFromArrowRecordUnsupported(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: tsbatch.TimeFieldName, Type: arrow.PrimitiveTypes.Int64},
		{Name: "u", Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).Append(1)
	b.Field(1).(*array.Uint8Builder).Append(1)
	rec := b.NewRecord()
	defer rec.Release()

	_, _, err := tsbatch.RowsFromArrowRecord(rec)
	var typeErr *tsbatch.UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, arrow.PrimitiveTypes.Uint8, typeErr.ArrowType)
	require.Equal(t, "unsupported arrow type: uint8", err.Error())
}

func TestArrowBatchesIPC(t *testing.T) {
	schema := tsbatch.Schema{{Name: "s2", Type: tsbatch.Int32}, {Name: "s5", Type: tsbatch.Boolean}}
	rows := []tsbatch.Row{
		{int64(2), int32(22), true},
		{int64(3), nil, false},
	}
	rec, err := tsbatch.ToArrowRecord(memory.DefaultAllocator, schema, rows)
	require.NoError(t, err)
	defer rec.Release()

	payload, err := tsbatch.EncodeArrowBatches(rec.Schema(), []arrow.Record{rec, rec})
	require.NoError(t, err)

	batches, err := tsbatch.DecodeArrowBatches(payload)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	for _, batch := range batches {
		_, got, err := tsbatch.RowsFromArrowRecord(batch)
		require.NoError(t, err)
		require.Equal(t, rows, got)
		batch.Release()
	}

	_, err = tsbatch.EncodeArrowBatches(rec.Schema(), nil)
	require.Error(t, err)
}
