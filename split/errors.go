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


package split

import "errors"

var (
	// ErrOverlapTooLarge indicates the window overlap is >= the window size,
	// which would make the window step non-positive.
	ErrOverlapTooLarge = errors.New("overlap must be smaller than window size")

	// ErrInvalidWindowSize indicates a non-positive window size.
	ErrInvalidWindowSize = errors.New("window size must be positive")

	// ErrInvalidTokenBudget indicates a non-positive token budget.
	ErrInvalidTokenBudget = errors.New("token budget must be positive")

	// ErrTokenizerRequired indicates no tokenizer was provided.
	ErrTokenizerRequired = errors.New("tokenizer required")
)
