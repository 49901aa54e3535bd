package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("resolución R-SIMV-2024-07-IV-R")
		id2 := IDFromContent("resolución R-SIMV-2024-07-IV-R")
		assert.Equal(t, id1, id2)
	})

	t.Run("distinct content distinct ids", func(t *testing.T) {
		id1 := IDFromContent("sanción a Entidad A")
		id2 := IDFromContent("sanción a Entidad B")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content has an id", func(t *testing.T) {
		assert.NotPanics(t, func() { _ = IDFromContent("") })
	})
}

func TestDocumentID(t *testing.T) {
	base := map[string]string{
		MetaSourceID:   "resoluciones/2024.pdf",
		MetaChunkStart: "0",
	}

	doc := NewDocument("same text", base)
	same := NewDocument("same text", base)
	require.Equal(t, doc.ID(), same.ID())

	otherSource := NewDocument("same text", map[string]string{
		MetaSourceID:   "resoluciones/2023.pdf",
		MetaChunkStart: "0",
	})
	assert.NotEqual(t, doc.ID(), otherSource.ID(),
		"same text from a different source must get a different id")

	otherOffset := NewDocument("same text", map[string]string{
		MetaSourceID:   "resoluciones/2024.pdf",
		MetaChunkStart: "450",
	})
	assert.NotEqual(t, doc.ID(), otherOffset.ID(),
		"same text at a different offset must get a different id")
}

func TestNewDocumentCopiesMetadata(t *testing.T) {
	md := map[string]string{"resolucion": "R-001"}
	doc := NewDocument("text", md)

	md["resolucion"] = "mutated"
	assert.Equal(t, "R-001", doc.Meta("resolucion"))
}

func TestDocumentMeta(t *testing.T) {
	doc := NewDocument("text", map[string]string{"entidad": "Entity A"})
	assert.Equal(t, "Entity A", doc.Meta("entidad"))
	assert.Equal(t, "", doc.Meta("unknown"), "missing keys read as empty")

	var zero Document
	assert.Equal(t, "", zero.Meta("anything"), "nil metadata is tolerated")
}

func TestDocumentBlank(t *testing.T) {
	assert.True(t, Document{Text: ""}.Blank())
	assert.True(t, Document{Text: " \n\t "}.Blank())
	assert.False(t, Document{Text: "x"}.Blank())
}
