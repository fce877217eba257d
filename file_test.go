package tinyvecdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyvecdb/tinyvecdb/internal/encoding"
)

func TestCreateFileNeverOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, createFile(path, 4))
	err := createFile(path, 4)
	assert.Error(t, err)
}

func TestTempWriterFinishRenamesOverOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, createFile(path, 2))

	w, err := newTempWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(2))
	require.NoError(t, w.WriteRecord(encoding.Record{ID: 0, Vector: []float32{1, 0}, Metadata: []byte("null")}, 2))
	require.NoError(t, w.Finish(1))

	_, err = os.Stat(tempPath(path))
	assert.True(t, os.IsNotExist(err))

	h, err := readHeader(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), h.VectorCount)
	assert.Equal(t, uint32(2), h.Dimensions)
}

func TestTempWriterAbortLeavesOriginalIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, createFile(path, 2))

	w, err := newTempWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(2))
	w.Abort()

	_, err = os.Stat(tempPath(path))
	assert.True(t, os.IsNotExist(err))

	h, err := readHeader(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), h.VectorCount)
}

func TestCleanupStaleTempRemovesOrphanedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, os.WriteFile(tempPath(path), []byte("garbage"), 0o644))

	cleanupStaleTemp(path)

	_, err := os.Stat(tempPath(path))
	assert.True(t, os.IsNotExist(err))
}

func TestScanRecordsStreamsInOnDiskOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, createFile(path, 1))

	w, err := newTempWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(1))
	for i := uint32(0); i < 3; i++ {
		require.NoError(t, w.WriteRecord(encoding.Record{ID: i, Vector: []float32{float32(i)}, Metadata: []byte("null")}, 1))
	}
	require.NoError(t, w.Finish(3))

	var ids []uint32
	err = scanRecords(path, func(rec encoding.Record) (bool, error) {
		ids = append(ids, rec.ID)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, ids)
}
