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

// Package memstore is an in-memory time-series store that speaks the batch
// wire formats of package tsbatch. It stands in for a remote server in tests
// and examples.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	tsbatch "github.com/tsbatch/tsbatch-go"
)

var (
	// ErrUnknownDevice is returned when querying a device with no series.
	ErrUnknownDevice = errors.New("unknown device")
	// ErrUnknownQuery is returned when fetching a closed or unknown query.
	ErrUnknownQuery = errors.New("unknown query")
	// ErrSeriesExists is returned when creating a series twice.
	ErrSeriesExists = errors.New("series already exists")
	// ErrTypeConflict is returned when a write disagrees with the type of an
	// existing series.
	ErrTypeConflict = errors.New("series type conflict")
)

type series struct {
	typ        tsbatch.DataType
	encoding   tsbatch.Encoding
	compressor tsbatch.Compressor
	points     map[int64]tsbatch.Value
}

type query struct {
	types []tsbatch.DataType
	rows  []tsbatch.Row
	off   int
}

// Store holds the series of every device and the open queries.
//
// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	devices map[string]map[string]*series
	queries map[uuid.UUID]*query

	compressor tsbatch.Compressor
}

// New creates an empty store. Fetched value buffers are compressed with c.
func New(c tsbatch.Compressor) *Store {
	return &Store{
		devices:    make(map[string]map[string]*series),
		queries:    make(map[uuid.UUID]*query),
		compressor: c,
	}
}

// Ensure Store implements tsbatch.DataSetFetcher.
var _ tsbatch.DataSetFetcher = (*Store)(nil)

// CreateTimeseries declares the measurement of device with its storage
// settings. Series written without being created use PLAIN and UNCOMPRESSED.
func (s *Store) CreateTimeseries(device, measurement string, typ tsbatch.DataType, enc tsbatch.Encoding, c tsbatch.Compressor) error {
	if err := typ.Validate(); err != nil {
		return err
	}
	if enc < tsbatch.Plain || enc > tsbatch.Regular {
		return fmt.Errorf("unrecognized encoding: %s", enc)
	}
	if c < tsbatch.Uncompressed || c > tsbatch.PLA {
		return &tsbatch.UnsupportedCompressorError{Compressor: c}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.device(device)
	if _, ok := d[measurement]; ok {
		return fmt.Errorf("%w: %s.%s", ErrSeriesExists, device, measurement)
	}
	d[measurement] = &series{typ: typ, encoding: enc, compressor: c, points: make(map[int64]tsbatch.Value)}
	return nil
}

// Timeseries lists the series of device ordered by measurement name, with
// their declared storage settings.
func (s *Store) Timeseries(device string) (tsbatch.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[device]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, device)
	}
	return schemaOf(device, d, sortedNames(d)), nil
}

// InsertTablet stores an insert-tablet payload under device. A failed insert
// stores nothing.
func (s *Store) InsertTablet(device string, measurements []string, tablet *tsbatch.Tablet) error {
	if len(measurements) != len(tablet.Types) {
		return fmt.Errorf("%d measurements for %d columns", len(measurements), len(tablet.Types))
	}
	times, columns, err := tsbatch.DecodeTablet(tablet)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.resolve(device, measurements, tablet.Types)
	if err != nil {
		return err
	}
	for col, ser := range all {
		for j, ts := range times {
			ser.points[ts] = columns[col][j]
		}
	}
	return nil
}

// InsertRecord stores an insert-record payload of one row under device.
// A failed insert stores nothing.
func (s *Store) InsertRecord(device string, measurements []string, ts int64, payload []byte) error {
	values, types, err := tsbatch.DecodeRecord(payload)
	if err != nil {
		return err
	}
	if len(measurements) != len(types) {
		return fmt.Errorf("%d measurements for %d values", len(measurements), len(types))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.resolve(device, measurements, types)
	if err != nil {
		return err
	}
	for col, ser := range all {
		ser.points[ts] = values[col]
	}
	return nil
}

// InsertDataSet stores a batch under device. Null cells are skipped. A failed
// insert stores nothing.
func (s *Store) InsertDataSet(device string, schema tsbatch.Schema, ds *tsbatch.DataSet) error {
	rows, err := ds.Decode(schema.Types())
	if err != nil {
		return err
	}
	names := make([]string, len(schema))
	for i, fs := range schema {
		names[i] = fs.Name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.resolve(device, names, schema.Types())
	if err != nil {
		return err
	}
	for col, ser := range all {
		for _, row := range rows {
			if v := row.Values()[col]; v != nil {
				ser.points[row.Time()] = v
			}
		}
	}
	return nil
}

// device returns the series of device, creating the device if needed.
// s.mu must be held.
func (s *Store) device(name string) map[string]*series {
	d, ok := s.devices[name]
	if !ok {
		d = make(map[string]*series)
		s.devices[name] = d
	}
	return d
}

// resolve returns the named series of device, creating the missing ones.
// Every name is checked against existing series and the other names first,
// so on error the store is left unchanged. s.mu must be held.
func (s *Store) resolve(device string, names []string, types []tsbatch.DataType) ([]*series, error) {
	existing := s.devices[device]
	pending := make(map[string]tsbatch.DataType, len(names))
	for i, name := range names {
		want := types[i]
		if ser, ok := existing[name]; ok {
			if ser.typ != want {
				return nil, fmt.Errorf("%w: %s.%s is %s, not %s", ErrTypeConflict, device, name, ser.typ, want)
			}
			continue
		}
		if typ, ok := pending[name]; ok && typ != want {
			return nil, fmt.Errorf("%w: %s.%s written as %s and %s", ErrTypeConflict, device, name, typ, want)
		}
		pending[name] = want
	}

	d := s.device(device)
	all := make([]*series, len(names))
	for i, name := range names {
		ser, ok := d[name]
		if !ok {
			ser = &series{typ: types[i], points: make(map[int64]tsbatch.Value)}
			d[name] = ser
		}
		all[i] = ser
	}
	return all, nil
}

func sortedNames(d map[string]*series) []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func schemaOf(device string, d map[string]*series, names []string) tsbatch.Schema {
	schema := make(tsbatch.Schema, 0, len(names))
	for _, name := range names {
		ser := d[name]
		schema = append(schema, &tsbatch.FieldSchema{
			Name:       device + "." + name,
			Type:       ser.typ,
			Encoding:   ser.encoding,
			Compressor: ser.compressor,
		})
	}
	return schema
}

// DeleteBefore removes every point of device with a timestamp before ts.
func (s *Store) DeleteBefore(device string, ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ser := range s.devices[device] {
		for t := range ser.points {
			if t < ts {
				delete(ser.points, t)
			}
		}
	}
}

// Query opens a query over every series of device, aligned by time. Columns
// are ordered by measurement name; a row is null in the columns that have no
// point at its timestamp.
func (s *Store) Query(device string) (uuid.UUID, tsbatch.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[device]
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("%w: %s", ErrUnknownDevice, device)
	}

	names := sortedNames(d)
	schema := schemaOf(device, d, names)
	seen := make(map[int64]struct{})
	for _, name := range names {
		for ts := range d[name].points {
			seen[ts] = struct{}{}
		}
	}
	times := make([]int64, 0, len(seen))
	for ts := range seen {
		times = append(times, ts)
	}
	slices.Sort(times)

	rows := make([]tsbatch.Row, len(times))
	for i, ts := range times {
		row := make(tsbatch.Row, 1, 1+len(names))
		row[0] = ts
		for _, name := range names {
			row = append(row, d[name].points[ts])
		}
		rows[i] = row
	}

	id := uuid.New()
	s.queries[id] = &query{types: schema.Types(), rows: rows}
	return id, schema, nil
}

// FetchDataSet returns the next page of an open query, encoded and
// compressed. An empty data set marks the end of the query.
func (s *Store) FetchDataSet(ctx context.Context, req *tsbatch.FetchRequest) (*tsbatch.DataSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.FetchSize <= 0 {
		return nil, fmt.Errorf("invalid fetch size: %d", req.FetchSize)
	}

	s.mu.Lock()
	q, ok := s.queries[req.QueryID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuery, req.QueryID)
	}
	end := min(q.off+req.FetchSize, len(q.rows))
	page := q.rows[q.off:end]
	q.off = end
	s.mu.Unlock()

	ds, err := tsbatch.Encode(page, q.types)
	if err != nil {
		return nil, err
	}
	if s.compressor == tsbatch.Uncompressed {
		return ds, nil
	}
	return ds.Compress(s.compressor)
}

// CloseQuery releases an open query.
func (s *Store) CloseQuery(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queries, id)
}
