package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veridian-labs/vigia/core"
)

func TestPDFStrategyKey(t *testing.T) {
	assert.Equal(t, "pdf", NewPDFStrategy().Key())
}

func TestPageMetadata(t *testing.T) {
	md := pageMetadata("resoluciones-2024.pdf", map[string]any{
		"page":        3,
		"total_pages": 12,
	})

	assert.Equal(t, "resoluciones-2024.pdf", md[core.MetaSource])
	assert.Equal(t, "PDF", md[core.MetaSourceType])
	assert.Equal(t, "3", md[core.MetaPage])
	assert.Equal(t, "12", md["total_pages"])
}

func TestPageMetadataWithoutPageNumbers(t *testing.T) {
	md := pageMetadata("escaneado.pdf", nil)

	assert.Equal(t, "escaneado.pdf", md[core.MetaSource])
	_, hasPage := md[core.MetaPage]
	assert.False(t, hasPage, "absent loader metadata must not fabricate a page number")
}
