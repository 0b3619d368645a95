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

package memstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tsbatch "github.com/tsbatch/tsbatch-go"
)

func TestQueryAlignsByTime(t *testing.T) {
	s := New(tsbatch.Uncompressed)
	ctx := context.Background()

	tablet, err := tsbatch.EncodeTablet(
		[]int64{1, 3},
		[][]tsbatch.Value{{int64(10), int64(30)}},
		[]tsbatch.DataType{tsbatch.Int64},
	)
	require.NoError(t, err)
	require.NoError(t, s.InsertTablet("root.sg", []string{"b"}, tablet))

	payload, err := tsbatch.EncodeRecord([]tsbatch.Value{"two"}, []tsbatch.DataType{tsbatch.Text})
	require.NoError(t, err)
	require.NoError(t, s.InsertRecord("root.sg", []string{"a"}, 2, payload))

	id, schema, err := s.Query("root.sg")
	require.NoError(t, err)
	require.Equal(t, tsbatch.Schema{
		{Name: "root.sg.a", Type: tsbatch.Text},
		{Name: "root.sg.b", Type: tsbatch.Int64},
	}, schema)

	ds, err := s.FetchDataSet(ctx, &tsbatch.FetchRequest{QueryID: id, FetchSize: 10})
	require.NoError(t, err)
	rows, err := ds.Decode(schema.Types())
	require.NoError(t, err)
	require.Equal(t, []tsbatch.Row{
		{int64(1), nil, int64(10)},
		{int64(2), "two", nil},
		{int64(3), nil, int64(30)},
	}, rows)

	ds, err = s.FetchDataSet(ctx, &tsbatch.FetchRequest{QueryID: id, FetchSize: 10})
	require.NoError(t, err)
	require.True(t, ds.IsEmpty())

	s.CloseQuery(id)
	_, err = s.FetchDataSet(ctx, &tsbatch.FetchRequest{QueryID: id, FetchSize: 10})
	require.ErrorIs(t, err, ErrUnknownQuery)
}

func TestInsertDataSet(t *testing.T) {
	s := New(tsbatch.Gzip)
	schema := tsbatch.Schema{{Name: "s1", Type: tsbatch.Boolean}}
	ds, err := tsbatch.Encode([]tsbatch.Row{{int64(5), true}, {int64(6), nil}}, schema.Types())
	require.NoError(t, err)
	require.NoError(t, s.InsertDataSet("d", schema, ds))

	id, querySchema, err := s.Query("d")
	require.NoError(t, err)
	page, err := s.FetchDataSet(context.Background(), &tsbatch.FetchRequest{QueryID: id, FetchSize: 1})
	require.NoError(t, err)
	page, err = page.Decompress(tsbatch.Gzip)
	require.NoError(t, err)
	rows, err := page.Decode(querySchema.Types())
	require.NoError(t, err)
	require.Equal(t, []tsbatch.Row{{int64(5), true}}, rows)
}

func TestStoreErrors(t *testing.T) {
	s := New(tsbatch.Uncompressed)

	_, _, err := s.Query("missing")
	require.ErrorIs(t, err, ErrUnknownDevice)

	_, err = s.FetchDataSet(context.Background(), &tsbatch.FetchRequest{QueryID: uuid.New(), FetchSize: 0})
	require.Error(t, err)

	payload, err := tsbatch.EncodeRecord([]tsbatch.Value{int32(1)}, []tsbatch.DataType{tsbatch.Int32})
	require.NoError(t, err)
	require.NoError(t, s.InsertRecord("d", []string{"s"}, 1, payload))

	payload, err = tsbatch.EncodeRecord([]tsbatch.Value{int64(1)}, []tsbatch.DataType{tsbatch.Int64})
	require.NoError(t, err)
	require.ErrorIs(t, s.InsertRecord("d", []string{"s"}, 2, payload), ErrTypeConflict)
	require.Error(t, s.InsertRecord("d", []string{"s", "t"}, 2, payload))
}

func TestFailedInsertStoresNothing(t *testing.T) {
	s := New(tsbatch.Uncompressed)
	ctx := context.Background()

	payload, err := tsbatch.EncodeRecord([]tsbatch.Value{int64(7)}, []tsbatch.DataType{tsbatch.Int64})
	require.NoError(t, err)
	require.NoError(t, s.InsertRecord("d", []string{"b"}, 1, payload))

	tablet, err := tsbatch.EncodeTablet(
		[]int64{2},
		[][]tsbatch.Value{{int64(20)}, {int32(21)}},
		[]tsbatch.DataType{tsbatch.Int64, tsbatch.Int32},
	)
	require.NoError(t, err)
	require.ErrorIs(t, s.InsertTablet("d", []string{"a", "b"}, tablet), ErrTypeConflict)

	schema := tsbatch.Schema{{Name: "d.a", Type: tsbatch.Int64}, {Name: "d.b", Type: tsbatch.Int32}}
	ds, err := tsbatch.Encode([]tsbatch.Row{{int64(3), int64(30), int32(31)}}, schema.Types())
	require.NoError(t, err)
	require.ErrorIs(t, s.InsertDataSet("d", tsbatch.Schema{{Name: "a", Type: tsbatch.Int64}, {Name: "b", Type: tsbatch.Int32}}, ds), ErrTypeConflict)

	payload, err = tsbatch.EncodeRecord([]tsbatch.Value{int64(1), int32(2)}, []tsbatch.DataType{tsbatch.Int64, tsbatch.Int32})
	require.NoError(t, err)
	require.ErrorIs(t, s.InsertRecord("d", []string{"c", "c"}, 4, payload), ErrTypeConflict)

	id, schema, err := s.Query("d")
	require.NoError(t, err)
	require.Equal(t, tsbatch.Schema{{Name: "d.b", Type: tsbatch.Int64}}, schema)

	page, err := s.FetchDataSet(ctx, &tsbatch.FetchRequest{QueryID: id, FetchSize: 10})
	require.NoError(t, err)
	rows, err := page.Decode(schema.Types())
	require.NoError(t, err)
	require.Equal(t, []tsbatch.Row{{int64(1), int64(7)}}, rows)
}

func TestCreateTimeseries(t *testing.T) {
	s := New(tsbatch.Uncompressed)

	require.NoError(t, s.CreateTimeseries("d", "s2", tsbatch.Int32, tsbatch.RLE, tsbatch.Gzip))
	require.NoError(t, s.CreateTimeseries("d", "s1", tsbatch.Double, tsbatch.Gorilla, tsbatch.Snappy))
	require.ErrorIs(t, s.CreateTimeseries("d", "s1", tsbatch.Double, tsbatch.Plain, tsbatch.Uncompressed), ErrSeriesExists)
	require.Error(t, s.CreateTimeseries("d", "s3", tsbatch.DataType(9), tsbatch.Plain, tsbatch.Uncompressed))
	require.Error(t, s.CreateTimeseries("d", "s3", tsbatch.Int32, tsbatch.Encoding(9), tsbatch.Uncompressed))
	var compressorErr *tsbatch.UnsupportedCompressorError
	require.ErrorAs(t, s.CreateTimeseries("d", "s3", tsbatch.Int32, tsbatch.Plain, tsbatch.Compressor(9)), &compressorErr)

	payload, err := tsbatch.EncodeRecord([]tsbatch.Value{int32(1)}, []tsbatch.DataType{tsbatch.Int32})
	require.NoError(t, err)
	require.NoError(t, s.InsertRecord("d", []string{"s2"}, 1, payload))
	require.ErrorIs(t, s.InsertRecord("d", []string{"s1"}, 1, payload), ErrTypeConflict)

	listed, err := s.Timeseries("d")
	require.NoError(t, err)
	require.Equal(t, tsbatch.Schema{
		{Name: "d.s1", Type: tsbatch.Double, Encoding: tsbatch.Gorilla, Compressor: tsbatch.Snappy},
		{Name: "d.s2", Type: tsbatch.Int32, Encoding: tsbatch.RLE, Compressor: tsbatch.Gzip},
	}, listed)

	_, err = s.Timeseries("missing")
	require.ErrorIs(t, err, ErrUnknownDevice)
}
