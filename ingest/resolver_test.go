package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceID(t *testing.T) {
	res := memResource{name: "2024.pdf", path: "/data/simv/resoluciones/2024.pdf"}
	assert.Equal(t, "resoluciones/2024.pdf", SourceID(res))

	res = memResource{name: "sanciones.csv", path: "data/sanciones/sanciones.csv"}
	assert.Equal(t, "sanciones/sanciones.csv", SourceID(res))
}

func TestFileResolver(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "resoluciones")
	require.NoError(t, os.Mkdir(sub, 0o755))

	for _, name := range []string{"a.csv", "b.csv", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(sub, name), []byte("data"), 0o644))
	}

	resources, err := FileResolver{}.Resolve(filepath.Join(dir, "*", "*.csv"))
	require.NoError(t, err)
	require.Len(t, resources, 2)

	names := []string{resources[0].Name(), resources[1].Name()}
	assert.ElementsMatch(t, []string{"a.csv", "b.csv"}, names)
	assert.Equal(t, "resoluciones/a.csv", SourceID(resources[0]))

	rc, err := resources[0].Open()
	require.NoError(t, err)
	defer rc.Close()
}

func TestFileResolverNoMatches(t *testing.T) {
	resources, err := FileResolver{}.Resolve(filepath.Join(t.TempDir(), "*.pdf"))
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestFileResolverSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.csv"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.csv"), []byte("x"), 0o644))

	resources, err := FileResolver{}.Resolve(filepath.Join(dir, "*.csv"))
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "real.csv", resources[0].Name())
}
