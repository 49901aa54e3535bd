package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolve(t *testing.T) {
	registry, err := NewRegistry(NewCSVStrategy(), NewPDFStrategy())
	require.NoError(t, err)

	s, ok := registry.Resolve("sanciones.csv")
	require.True(t, ok)
	assert.Equal(t, "csv", s.Key())

	s, ok = registry.Resolve("resoluciones/2024.pdf")
	require.True(t, ok)
	assert.Equal(t, "pdf", s.Key())
}

func TestRegistryResolveCaseInsensitive(t *testing.T) {
	registry, err := NewRegistry(NewCSVStrategy())
	require.NoError(t, err)

	for _, name := range []string{"SANCIONES.CSV", "Sanciones.Csv", "sanciones.csv"} {
		_, ok := registry.Resolve(name)
		assert.True(t, ok, "extension matching must be case-insensitive: %s", name)
	}
}

func TestRegistryResolveUnknownExtension(t *testing.T) {
	registry, err := NewRegistry(NewCSVStrategy())
	require.NoError(t, err)

	_, ok := registry.Resolve("notes.md")
	assert.False(t, ok)

	_, ok = registry.Resolve("no-extension")
	assert.False(t, ok)
}

func TestRegistryDuplicateKey(t *testing.T) {
	registry, err := NewRegistry(NewCSVStrategy())
	require.NoError(t, err)

	err = registry.Register(NewCSVStrategy())
	assert.ErrorIs(t, err, ErrDuplicateStrategy)
}

func TestRegistryKeys(t *testing.T) {
	registry, err := NewRegistry(NewCSVStrategy(), NewPDFStrategy())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"csv", "pdf"}, registry.Keys())
}
