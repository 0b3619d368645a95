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

package testkit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/lucasepe/codename"
	"github.com/stretchr/testify/require"
	tsbatch "github.com/tsbatch/tsbatch-go"
	"github.com/tsbatch/tsbatch-go/internal/memstore"
)

// AllTypes lists every supported column type.
var AllTypes = []tsbatch.DataType{
	tsbatch.Boolean,
	tsbatch.Int32,
	tsbatch.Int64,
	tsbatch.Float,
	tsbatch.Double,
	tsbatch.Text,
}

type TestKit struct {
	t testing.TB

	Store *memstore.Store
	Faker *gofakeit.Faker

	queries []uuid.UUID
}

// NewTestKit creates a test kit around an empty store. Fetched value buffers
// are compressed with c.
func NewTestKit(t testing.TB, c tsbatch.Compressor) *TestKit {
	return &TestKit{
		t:     t,
		Store: memstore.New(c),
		Faker: gofakeit.New(11),
	}
}

func (tk *TestKit) Close() {
	for _, id := range tk.queries {
		tk.Store.CloseQuery(id)
	}
}

// RandomName generates a random name.
func (tk *TestKit) RandomName() string {
	rng, err := codename.DefaultRNG()
	require.NoError(tk.t, err)
	return strings.ReplaceAll(codename.Generate(rng, 10), "-", "_")
}

// RandomString generates a random string of n bytes.
func (tk *TestKit) RandomString(n int) string {
	require.Greater(tk.t, n, 0)

	bytes := make([]byte, n)
	_, err := rand.Read(bytes)
	require.NoError(tk.t, err)

	return hex.EncodeToString(bytes)[:n]
}

// RandomSchema generates n columns with random names and types.
func (tk *TestKit) RandomSchema(n int) tsbatch.Schema {
	schema := make(tsbatch.Schema, n)
	for i := range schema {
		schema[i] = &tsbatch.FieldSchema{
			Name: tk.RandomName(),
			Type: AllTypes[tk.Faker.IntRange(0, len(AllTypes)-1)],
		}
	}
	return schema
}

// RandomRows generates n rows with strictly increasing timestamps, roughly one null
// cell in four.
func (tk *TestKit) RandomRows(schema tsbatch.Schema, n int) []tsbatch.Row {
	rows := make([]tsbatch.Row, n)
	ts := tk.Faker.Int64()
	if ts > 0 {
		ts = -ts
	}
	for i := range rows {
		ts += int64(tk.Faker.IntRange(1, 1000))
		row := make(tsbatch.Row, 1, 1+len(schema))
		row[0] = ts
		for _, fs := range schema {
			if tk.Faker.IntRange(0, 3) == 0 {
				row = append(row, nil)
				continue
			}
			row = append(row, tk.RandomValue(fs.Type))
		}
		rows[i] = row
	}
	return rows
}

// RandomValue generates a present value of type t.
func (tk *TestKit) RandomValue(t tsbatch.DataType) tsbatch.Value {
	switch t {
	case tsbatch.Boolean:
		return tk.Faker.Bool()
	case tsbatch.Int32:
		return tk.Faker.Int32()
	case tsbatch.Int64:
		return tk.Faker.Int64()
	case tsbatch.Float:
		return tk.Faker.Float32Range(-1e6, 1e6)
	case tsbatch.Double:
		return tk.Faker.Float64Range(-1e12, 1e12)
	case tsbatch.Text:
		if tk.Faker.Bool() {
			return ""
		}
		return tk.Faker.Word()
	default:
		tk.t.Fatalf("unexpected type: %s", t)
		return nil
	}
}

// Query opens a query on the store and tracks it for close.
func (tk *TestKit) Query(device string) (uuid.UUID, tsbatch.Schema) {
	id, schema, err := tk.Store.Query(device)
	require.NoError(tk.t, err)
	tk.queries = append(tk.queries, id)
	return id, schema
}

// FetchAll drains the query through a ResultIterator.
func (tk *TestKit) FetchAll(ctx context.Context, id uuid.UUID, schema tsbatch.Schema, config *tsbatch.Config) []tsbatch.Row {
	rows, err := tsbatch.NewResultIterator(tk.Store, id, schema, config).All(ctx)
	require.NoError(tk.t, err)
	return rows
}
