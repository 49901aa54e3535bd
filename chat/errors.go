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

package chat

import "errors"

var (
	// ErrModelRequired indicates the assistant was built without a chat model.
	ErrModelRequired = errors.New("chat model is required")

	// ErrStoreRequired indicates retrieval was requested without a vector store.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrMemoryRequired indicates the assistant was built without a memory store.
	ErrMemoryRequired = errors.New("memory store is required")

	// ErrInvalidLimit indicates a non-positive retrieval limit.
	ErrInvalidLimit = errors.New("retrieval limit must be positive")

	// ErrInvalidThreshold indicates a similarity threshold outside [0, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be in [0, 1]")
)
