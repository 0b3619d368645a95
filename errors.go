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
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

const (
	// TimeColumn is the column index reported by errors about the time buffer.
	TimeColumn = -1
	// WholeBatch is the column index reported by errors not tied to one column.
	WholeBatch = -2
)

// FormatError reports a buffer whose length is inconsistent with the
// declared rows and columns, or a read running past the end of a buffer.
type FormatError struct {
	// Column is the index of the offending value column, TimeColumn or WholeBatch.
	Column int
	// Message describes the inconsistency.
	Message string
}

func (e *FormatError) Error() string {
	switch e.Column {
	case TimeColumn:
		return fmt.Sprintf("malformed batch: time column: %s", e.Message)
	case WholeBatch:
		return fmt.Sprintf("malformed batch: %s", e.Message)
	default:
		return fmt.Sprintf("malformed batch: column %d: %s", e.Column, e.Message)
	}
}

func formatErrorf(column int, format string, args ...any) error {
	return &FormatError{Column: column, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedTypeError reports a type tag outside the known set, or an Arrow
// column type with no DataType counterpart.
type UnsupportedTypeError struct {
	// Type is the offending tag. It is meaningless when ArrowType is set.
	Type DataType
	// ArrowType is the offending Arrow type, if the error came from a record.
	ArrowType arrow.DataType
}

func (e *UnsupportedTypeError) Error() string {
	if e.ArrowType != nil {
		return fmt.Sprintf("unsupported arrow type: %s", e.ArrowType)
	}
	return fmt.Sprintf("unsupported data type: %d", int16(e.Type))
}

// TypeMismatchError reports a value whose runtime type does not match the
// declared type of its column.
type TypeMismatchError struct {
	// Row is the row index of the value.
	Row int
	// Column is the index of the value column, or TimeColumn.
	Column int
	// Expected is the declared column type.
	Expected DataType
	// Value is the offending value.
	Value any
}

func (e *TypeMismatchError) Error() string {
	if e.Column == TimeColumn {
		return fmt.Sprintf("row %d: timestamp must be int64, got %T", e.Row, e.Value)
	}
	return fmt.Sprintf("row %d, column %d: expected %s, got %T", e.Row, e.Column, e.Expected, e.Value)
}

// UnsupportedCompressorError reports a compressor this package cannot apply.
type UnsupportedCompressorError struct {
	Compressor Compressor
}

func (e *UnsupportedCompressorError) Error() string {
	return fmt.Sprintf("unsupported compressor: %s", e.Compressor)
}
