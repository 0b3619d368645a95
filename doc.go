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

/*
Package tsbatch encodes and decodes the columnar row batches exchanged with a
time-series database over RPC.

# Wire Format

A batch is a time buffer plus, per column, a value buffer and a bitmap:

	time:   rows x 8 bytes, big-endian int64
	bitmap: ceil(rows/8) bytes, row j present iff bitmap[j>>3] & (0x80>>(j&7)) != 0
	values: present values only, big-endian; TEXT is a 4-byte length and the bytes

Use Decode to turn a batch into rows and Encode to build one:

	rows, err := tsbatch.Decode(ds.Time, ds.Values, ds.Bitmaps, schema.Types())
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Println(row.Time(), row.Values())
	}

Both functions are pure: they share no state and may be called concurrently.

# Fetch Results

A ResultIterator pulls batches from a DataSetFetcher, the transport of the
caller, until the first empty batch:

	it := tsbatch.NewResultIterator(fetcher, queryID, schema, tsbatch.DefaultConfig())
	rows, err := it.All(ctx)

# Insert Data

EncodeTablet and EncodeRecord build the payloads of the insert-tablet and
insert-record requests. ToArrowRecord converts decoded rows to Arrow.
*/
package tsbatch
