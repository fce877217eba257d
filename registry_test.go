package tinyvecdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOpenSharesEntryAcrossCallers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	cfg := DefaultConfig()

	e1, err := globalRegistry.open(path, 128, cfg)
	require.NoError(t, err)
	e2, err := globalRegistry.open(path, 999, cfg) // ignored: entry already live
	require.NoError(t, err)

	assert.Same(t, e1, e2)
	assert.Equal(t, uint32(128), e2.dims())

	require.NoError(t, globalRegistry.close(path))
	require.NoError(t, globalRegistry.close(path))
}

func TestRegistryOpenCreatesFileOnFirstCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	cfg := DefaultConfig()

	_, err := globalRegistry.open(path, 64, cfg)
	require.NoError(t, err)
	defer globalRegistry.close(path)

	h, err := readHeader(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), h.VectorCount)
	assert.Equal(t, uint32(64), h.Dimensions)
}

func TestRegistryRefDoesNotDropUntilLastClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	cfg := DefaultConfig()

	_, err := globalRegistry.open(path, 32, cfg)
	require.NoError(t, err)
	_, err = globalRegistry.open(path, 32, cfg)
	require.NoError(t, err)

	require.NoError(t, globalRegistry.close(path))

	// Still one live reference; reopening must reuse, not recreate.
	e, err := globalRegistry.open(path, 999, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint32(32), e.dims())

	require.NoError(t, globalRegistry.close(path))
	require.NoError(t, globalRegistry.close(path))
}

func TestRegistryCloseOnAbsentPathIsSafe(t *testing.T) {
	assert.NoError(t, globalRegistry.close(filepath.Join(t.TempDir(), "never-opened.db")))
}
