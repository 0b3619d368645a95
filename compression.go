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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
)

// Compressor identifies the compression applied to value buffers.
type Compressor int16

const (
	Uncompressed Compressor = iota
	Snappy
	Gzip
	LZO
	SDT
	PAA
	PLA
)

func (c Compressor) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case LZO:
		return "LZO"
	case SDT:
		return "SDT"
	case PAA:
		return "PAA"
	case PLA:
		return "PLA"
	default:
		return fmt.Sprintf("Compressor(%d)", int16(c))
	}
}

// ParseCompressor parses a compressor name such as "SNAPPY".
func ParseCompressor(name string) (Compressor, error) {
	for c := Uncompressed; c <= PLA; c++ {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unrecognized compressor: %s", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Compressor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compressor) UnmarshalText(text []byte) error {
	parsed, err := ParseCompressor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Compress returns src compressed with c. The result never aliases src.
func (c Compressor) Compress(src []byte) ([]byte, error) {
	switch c {
	case Uncompressed:
		return bytes.Clone(src), nil
	case Snappy:
		return snappy.Encode(nil, src), nil
	case Gzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(src); err != nil {
			return nil, errors.Join(err, w.Close())
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case LZO, SDT, PAA, PLA:
		return nil, &UnsupportedCompressorError{Compressor: c}
	default:
		return nil, &UnsupportedCompressorError{Compressor: c}
	}
}

// Decompress reverses Compress.
func (c Compressor) Decompress(src []byte) ([]byte, error) {
	switch c {
	case Uncompressed:
		return bytes.Clone(src), nil
	case Snappy:
		return snappy.Decode(nil, src)
	case Gzip:
		r, err := gzip.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, err
		}
		out, err := io.ReadAll(r)
		if err = errors.Join(err, r.Close()); err != nil {
			return nil, err
		}
		return out, nil
	case LZO, SDT, PAA, PLA:
		return nil, &UnsupportedCompressorError{Compressor: c}
	default:
		return nil, &UnsupportedCompressorError{Compressor: c}
	}
}

// Compress returns a copy of the data set with every value buffer compressed
// with c. Time and bitmap buffers are shared with ds.
func (ds *DataSet) Compress(c Compressor) (*DataSet, error) {
	return ds.mapValues(c.Compress)
}

// Decompress returns a copy of the data set with every value buffer
// decompressed with c. Time and bitmap buffers are shared with ds.
func (ds *DataSet) Decompress(c Compressor) (*DataSet, error) {
	return ds.mapValues(c.Decompress)
}

func (ds *DataSet) mapValues(f func([]byte) ([]byte, error)) (*DataSet, error) {
	values := make([][]byte, len(ds.Values))
	for i, v := range ds.Values {
		out, err := f(v)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		values[i] = out
	}
	return &DataSet{
		Time:    ds.Time,
		Values:  values,
		Bitmaps: ds.Bitmaps,
	}, nil
}
