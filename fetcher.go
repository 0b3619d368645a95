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
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// DataSetFetcher is the transport a ResultIterator pulls batches from,
// typically the fetch-results RPC of a session.
type DataSetFetcher interface {
	// FetchDataSet returns the next batch of the query. An empty or nil data
	// set marks the end of the result.
	FetchDataSet(ctx context.Context, req *FetchRequest) (*DataSet, error)
}

// FetchRequest describes one fetch of a query result.
type FetchRequest struct {
	// QueryID identifies the query.
	QueryID uuid.UUID
	// FetchSize is the maximum number of rows to return.
	FetchSize int
}

// ResultIterator pulls the batches of one query result until the fetcher
// returns an empty batch.
//
// A ResultIterator is not safe for concurrent use.
type ResultIterator struct {
	fetcher DataSetFetcher
	queryID uuid.UUID
	schema  Schema
	config  *Config

	done bool
}

// NewResultIterator creates an iterator over the result of the given query.
// A nil config means DefaultConfig, and a non-positive FetchSize means the
// default fetch size.
func NewResultIterator(fetcher DataSetFetcher, queryID uuid.UUID, schema Schema, config *Config) *ResultIterator {
	if config == nil {
		config = DefaultConfig()
	}
	c := *config
	if c.FetchSize <= 0 {
		c.FetchSize = defaultFetchSize
	}
	return &ResultIterator{
		fetcher: fetcher,
		queryID: queryID,
		schema:  schema,
		config:  &c,
	}
}

// Done returns true once the iterator has seen the end of the result.
func (it *ResultIterator) Done() bool {
	return it.done
}

// Next fetches the next batch once.
//
// It returns io.EOF after the end of the result. Fetch errors are returned
// as is and leave the iterator usable, so that the caller can combine Next
// with its own retry policy.
func (it *ResultIterator) Next(ctx context.Context) (*ResultSet, error) {
	if it.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := it.fetcher.FetchDataSet(ctx, &FetchRequest{
		QueryID:   it.queryID,
		FetchSize: it.config.FetchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch query %s: %w", it.queryID, err)
	}
	if ds == nil || ds.IsEmpty() {
		it.done = true
		return nil, io.EOF
	}

	if it.config.Compressor != Uncompressed {
		ds, err = ds.Decompress(it.config.Compressor)
		if err != nil {
			return nil, err
		}
	}
	return &ResultSet{
		QueryID: it.queryID,
		Schema:  it.schema,
		DataSet: ds,
	}, nil
}

// All fetches and decodes every remaining batch.
//
// A batch that fails to decode ends the iteration; no rows of that batch are
// returned.
func (it *ResultIterator) All(ctx context.Context) ([]Row, error) {
	var rows []Row
	for {
		rs, err := it.Next(ctx)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		batch, err := rs.ToValues()
		if err != nil {
			it.done = true
			return nil, err
		}
		rows = append(rows, batch...)
	}
}
