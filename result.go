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
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/google/uuid"
)

// Schema describes the value columns of a query result, in declaration
// order. The time column is implicit.
type Schema []*FieldSchema

// FieldSchema describes a single column.
type FieldSchema struct {
	// Name is the column name, e.g. the series path.
	Name string `json:"name"`
	// Type is the column data type.
	Type DataType `json:"type"`
	// Encoding is the storage encoding declared for the series.
	Encoding Encoding `json:"encoding"`
	// Compressor is the storage compressor declared for the series.
	Compressor Compressor `json:"compressor"`
}

// Types returns the column types in declaration order.
func (s Schema) Types() []DataType {
	types := make([]DataType, len(s))
	for i, fs := range s {
		types[i] = fs.Type
	}
	return types
}

// ResultSet stores one fetched batch of a query result.
type ResultSet struct {
	// QueryID identifies the query the batch belongs to.
	QueryID uuid.UUID
	// Schema is the schema of the result set.
	Schema Schema
	// DataSet is the undecoded batch.
	DataSet *DataSet
}

// TotalRows returns the number of rows in the batch.
func (rs *ResultSet) TotalRows() int {
	if rs.DataSet == nil {
		return 0
	}
	return rs.DataSet.RowCount()
}

// ToValues decodes the batch and returns its rows.
func (rs *ResultSet) ToValues() ([]Row, error) {
	if rs.DataSet == nil {
		return nil, nil
	}
	return rs.DataSet.Decode(rs.Schema.Types())
}

// ToArrowBatch decodes the batch and returns it as an Arrow record.
//
// The caller must release the returned record.
func (rs *ResultSet) ToArrowBatch(mem memory.Allocator) (arrow.Record, error) {
	rows, err := rs.ToValues()
	if err != nil {
		return nil, err
	}
	return ToArrowRecord(mem, rs.Schema, rows)
}

// ToArrowPayload decodes the batch and returns it as a base64 encoded Arrow
// IPC stream holding one record batch, ready to hand to an Arrow consumer.
func (rs *ResultSet) ToArrowPayload(mem memory.Allocator) ([]byte, error) {
	rec, err := rs.ToArrowBatch(mem)
	if err != nil {
		return nil, err
	}
	defer rec.Release()
	return EncodeArrowBatches(rec.Schema(), []arrow.Record{rec})
}
