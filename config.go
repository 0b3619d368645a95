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

// Config defines how result batches are fetched and unpacked.
type Config struct {
	// FetchSize is the maximum number of rows requested per batch.
	FetchSize int `json:"fetch_size"`
	// Compressor is applied by the server to every value buffer.
	Compressor Compressor `json:"compressor"`
}

const defaultFetchSize = 1024

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		FetchSize:  defaultFetchSize,
		Compressor: Uncompressed,
	}
}
