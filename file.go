package tinyvecdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tinyvecdb/tinyvecdb/internal/encoding"
)

// tempSuffix is the sibling file used by the temp-and-swap protocol.
const tempSuffix = ".temp"

func tempPath(path string) string { return path + tempSuffix }

// createFile creates a brand-new database file with the given header
// and fsyncs it before returning. It never overwrites an existing file.
func createFile(path string, dims uint32) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	if _, err := f.Write(encoding.EncodeHeader(encoding.Header{VectorCount: 0, Dimensions: dims})); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrIO, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: fsync %s: %v", ErrIO, path, err)
	}
	return nil
}

// readHeader reads and validates the 8-byte header at the start of path.
func readHeader(path string) (encoding.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return encoding.Header{}, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	buf := make([]byte, encoding.HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return encoding.Header{}, fmt.Errorf("%w: header truncated in %s: %v", ErrHeaderCorrupt, path, err)
	}
	h, err := encoding.DecodeHeader(buf)
	if err != nil {
		return encoding.Header{}, fmt.Errorf("%w: %v", ErrHeaderCorrupt, err)
	}
	if h.VectorCount > 0 && h.Dimensions == 0 {
		return encoding.Header{}, fmt.Errorf("%w: %d records with zero dimensions in %s", ErrHeaderCorrupt, h.VectorCount, path)
	}
	return h, nil
}

// recordReader opens path for streaming record scans starting just past
// the header. The caller must Close the returned file.
func recordReader(path string) (*os.File, *bufio.Reader, encoding.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, encoding.Header{}, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	buf := make([]byte, encoding.HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, nil, encoding.Header{}, fmt.Errorf("%w: header truncated in %s: %v", ErrHeaderCorrupt, path, err)
	}
	h, err := encoding.DecodeHeader(buf)
	if err != nil {
		f.Close()
		return nil, nil, encoding.Header{}, fmt.Errorf("%w: %v", ErrHeaderCorrupt, err)
	}
	return f, bufio.NewReaderSize(f, 64*1024), h, nil
}

// scanRecords calls fn for every record in path in on-disk order,
// stopping early if fn returns false or an error.
func scanRecords(path string, fn func(encoding.Record) (bool, error)) error {
	f, r, h, err := recordReader(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i := uint32(0); i < h.VectorCount; i++ {
		rec, err := encoding.ReadRecord(r, h.Dimensions)
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("%w: expected %d records, found %d", ErrHeaderCorrupt, h.VectorCount, i)
			}
			return fmt.Errorf("%w: %v", ErrHeaderCorrupt, err)
		}
		cont, err := fn(rec)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

// tempWriter streams a rewritten copy of a database into <path>.temp.
// Callers write a header (via WriteHeader) and then records in order,
// then call Finish to fsync and atomically rename over path.
type tempWriter struct {
	path string
	temp string
	f    *os.File
	dims uint32
}

func newTempWriter(path string) (*tempWriter, error) {
	temp := tempPath(path)
	f, err := os.OpenFile(temp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrIO, temp, err)
	}
	return &tempWriter{path: path, temp: temp, f: f}, nil
}

// WriteHeader writes the placeholder header; vectorCount is patched in
// by Finish once the final count is known.
func (t *tempWriter) WriteHeader(dims uint32) error {
	if _, err := t.f.Write(encoding.EncodeHeader(encoding.Header{VectorCount: 0, Dimensions: dims})); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrIO, err)
	}
	t.dims = dims
	return nil
}

// WriteRecord appends one record's on-disk bytes.
func (t *tempWriter) WriteRecord(rec encoding.Record, dims uint32) error {
	if err := encoding.Write(t.f, rec, dims); err != nil {
		return err
	}
	return nil
}

// Abort unlinks the temp file without touching the original.
func (t *tempWriter) Abort() {
	t.f.Close()
	os.Remove(t.temp)
}

// Finish patches the header's vector_count, fsyncs the temp file,
// fsyncs its directory, atomically renames it over path, and fsyncs
// the directory again to durably commit the rename.
func (t *tempWriter) Finish(vectorCount uint32) error {
	hdrBuf := encoding.EncodeHeader(encoding.Header{VectorCount: vectorCount, Dimensions: t.dims})
	if _, err := t.f.WriteAt(hdrBuf, 0); err != nil {
		t.Abort()
		return fmt.Errorf("%w: patch header: %v", ErrIO, err)
	}

	if err := t.f.Sync(); err != nil {
		t.Abort()
		return fmt.Errorf("%w: fsync %s: %v", ErrIO, t.temp, err)
	}
	if err := t.f.Close(); err != nil {
		os.Remove(t.temp)
		return fmt.Errorf("%w: close %s: %v", ErrIO, t.temp, err)
	}

	if err := fsyncDir(filepath.Dir(t.temp)); err != nil {
		os.Remove(t.temp)
		return fmt.Errorf("%w: fsync dir before rename: %v", ErrIO, err)
	}

	if err := os.Rename(t.temp, t.path); err != nil {
		os.Remove(t.temp)
		return fmt.Errorf("%w: rename %s -> %s: %v", ErrIO, t.temp, t.path, err)
	}

	// Best-effort: commit the rename's directory entry. Non-fatal if
	// the platform doesn't support fsync on directories.
	_ = fsyncDir(filepath.Dir(t.path))

	return nil
}

// fsyncDir fsyncs a directory so a preceding rename is durably
// committed, not just visible. Best-effort: some platforms (notably
// Windows) do not support opening a directory for Sync, so errors here
// are swallowed by callers that treat it as advisory.
func fsyncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

// cleanupStaleTemp removes a leftover <path>.temp from an aborted
// mutation, as spec.md §6 directs: "existence after a crash indicates
// an aborted write; cleanup by unlink on the next open."
func cleanupStaleTemp(path string) {
	_ = os.Remove(tempPath(path))
}
