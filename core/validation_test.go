package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{
			name: "valid document",
			doc:  Document{Text: "RESOLUCIÓN: R-001"},
		},
		{
			name:    "empty text",
			doc:     Document{Text: ""},
			wantErr: ErrEmptyText,
		},
		{
			name:    "whitespace only text",
			doc:     Document{Text: "   \n  "},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole(RoleUser))
	assert.NoError(t, ValidateRole(RoleAssistant))
	assert.ErrorIs(t, ValidateRole(Role(0)), ErrInvalidRole)
	assert.ErrorIs(t, ValidateRole(Role(99)), ErrInvalidRole)
}

func TestValidateTurn(t *testing.T) {
	assert.NoError(t, ValidateTurn(Turn{Role: RoleUser, Content: "hola"}))
	assert.ErrorIs(t, ValidateTurn(Turn{Role: RoleUser}), ErrInvalidTurn)
	assert.ErrorIs(t, ValidateTurn(Turn{Role: Role(7), Content: "x"}), ErrInvalidTurn)
}

func TestValidateQueryRequest(t *testing.T) {
	assert.NoError(t, ValidateQueryRequest(QueryRequest{Prompt: "¿cuántas sanciones hubo en 2023?"}))
	assert.ErrorIs(t, ValidateQueryRequest(QueryRequest{}), ErrEmptyPrompt)
}
