// Copyright 2025 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import "errors"

var (
	// ErrResolverRequired is returned when a resource resolver is not provided.
	ErrResolverRequired = errors.New("resource resolver required")

	// ErrRegistryRequired is returned when a strategy registry is not provided.
	ErrRegistryRequired = errors.New("strategy registry required")

	// ErrLedgerRequired is returned when an ingestion ledger is not provided.
	ErrLedgerRequired = errors.New("ingestion ledger required")

	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrSplitterRequired is returned when a splitter is not provided.
	ErrSplitterRequired = errors.New("splitter required")

	// ErrDuplicateStrategy indicates two strategies registered the same key.
	ErrDuplicateStrategy = errors.New("strategy key already registered")

	// ErrMalformedRow indicates a CSV row with too few columns.
	ErrMalformedRow = errors.New("malformed row")
)
