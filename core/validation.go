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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace only
//
// NOT validated:
//   - Metadata (strategy-defined keys; consumers tolerate missing keys)
func ValidateDocument(doc Document) error {
	if doc.Blank() {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}
	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}

// ValidateTurn validates a conversation Turn.
func ValidateTurn(turn Turn) error {
	if turn.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, ErrEmptyText)
	}
	if err := ValidateRole(turn.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTurn, err)
	}
	return nil
}

// ValidateQueryRequest validates a QueryRequest before it is served.
func ValidateQueryRequest(req QueryRequest) error {
	if req.Prompt == "" {
		return ErrEmptyPrompt
	}
	return nil
}
