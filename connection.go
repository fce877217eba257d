package tinyvecdb

import (
	"context"
	"sync/atomic"
)

// Connection is a handle to one open database file. It is safe to call
// methods on a Connection from multiple goroutines, but spec.md §5
// requires operations on a single file to be serialized by the caller;
// Connection does not itself parallelize or reorder calls.
type Connection struct {
	path   string
	cfg    Config
	e      *entry
	closed atomic.Bool
}

// Open resolves or creates the process-wide connection for path,
// creating the file with the given dimensions if it does not already
// exist. dims is used only when the file is created; an existing file
// keeps the dimensions recorded in its header.
func Open(path string, dims uint32) (*Connection, error) {
	return OpenWithConfig(path, dims, DefaultConfig())
}

// OpenWithConfig is Open with explicit tuning; see Config.
func OpenWithConfig(path string, dims uint32, cfg Config) (*Connection, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, wrapError("open", err)
	}

	e, err := globalRegistry.open(path, dims, cfg)
	if err != nil {
		return nil, wrapError("open", err)
	}

	cfg.Logger.Info("connection opened", "path", e.path, "dimensions", e.dims())
	return &Connection{path: e.path, cfg: cfg, e: e}, nil
}

// Path returns the absolute path this connection was opened against.
func (c *Connection) Path() string { return c.path }

// Dimensions returns the file's current committed dimension count (0 if
// no record has been written yet and the file was opened with dims=0).
func (c *Connection) Dimensions() uint32 { return c.e.dims() }

// Close releases this handle's reference to the shared connection. The
// underlying registry entry is only removed once every Connection
// sharing it has been closed.
func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := globalRegistry.close(c.path); err != nil {
		return wrapError("close", err)
	}
	c.cfg.Logger.Info("connection closed", "path", c.path)
	return nil
}

func (c *Connection) checkOpen() error {
	if c.closed.Load() {
		return wrapError("", ErrConnectionClosed)
	}
	return nil
}

// Stats returns the file's header-derived statistics.
func (c *Connection) Stats(_ context.Context) (IndexStats, error) {
	if err := c.checkOpen(); err != nil {
		return IndexStats{}, err
	}
	return indexStats(c.path)
}

// Search finds the k most similar records to query, with no filter.
func (c *Connection) Search(ctx context.Context, query []float32, k int) ([]Result, error) {
	return c.SearchWithFilter(ctx, query, k, nil)
}

// SearchWithFilter finds the k most similar records to query whose
// metadata satisfies filterJSON (nil/empty matches every record).
func (c *Connection) SearchWithFilter(_ context.Context, query []float32, k int, filterJSON []byte) ([]Result, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return search(c.path, c.e, query, k, filterJSON)
}

// Insert appends records, normalizing their vectors, and returns the
// count actually inserted.
func (c *Connection) Insert(_ context.Context, records []InsertRecord) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	n, err := insert(c.path, c.e, c.cfg, records)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteByIDs removes records whose id is in ids, returning the count
// removed.
func (c *Connection) DeleteByIDs(_ context.Context, ids []uint32) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return deleteByIDs(c.path, c.e, c.cfg, ids)
}

// DeleteByFilter removes every record whose metadata matches filterJSON,
// returning the count removed. Matching zero records is a soft failure:
// (0, false), with the file left untouched.
func (c *Connection) DeleteByFilter(_ context.Context, filterJSON []byte) (int, bool, error) {
	if err := c.checkOpen(); err != nil {
		return 0, false, err
	}
	return deleteByFilter(c.path, c.e, c.cfg, filterJSON)
}

// UpdateByID rewrites the vector and/or metadata of each matching item,
// returning the count actually changed. Items whose id is not found are
// silently skipped.
func (c *Connection) UpdateByID(_ context.Context, items []UpdateItem) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	return updateByID(c.path, c.e, c.cfg, items)
}

// GetPaginated returns up to limit records starting at skip, in
// on-disk (insertion) order.
func (c *Connection) GetPaginated(_ context.Context, skip, limit int) ([]PaginatedRecord, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return getPaginated(c.path, skip, limit)
}
