package tinyvecdb

import (
	"github.com/google/uuid"

	"github.com/tinyvecdb/tinyvecdb/internal/encoding"
)

// insert implements spec.md §4.7 Insert: records whose vector is
// invalid (wrong length against the committed dimensions, NaN, or Inf)
// are silently dropped from the batch rather than failing it, unless
// the file is still dimensionless (0), in which case the first valid
// record's length commits it. Ids start at current_max_id + 1.
func insert(path string, e *entry, cfg Config, records []InsertRecord) (int, error) {
	log := cfg.Logger.With("trace_id", uuid.NewString(), "op", "insert", "path", path)

	if len(records) == 0 {
		return 0, wrapError("insert", ErrEmptyBatch)
	}
	if len(records) > cfg.MaxBatchSize {
		return 0, wrapError("insert", ErrInvalidVector)
	}

	var inserted int
	err := e.withLock(func() error {
		dims := e.dims()

		maxID, found, err := maxRecordID(path)
		if err != nil {
			return err
		}

		w, err := newTempWriter(path)
		if err != nil {
			return err
		}

		// effectiveDims starts at the file's committed dimensions (0 if
		// unknown); the first record of the batch fixes it for every
		// subsequent record in the same batch when the file was
		// dimensionless (spec.md §4.7).
		effectiveDims := dims
		nextID := uint32(0)
		if found {
			nextID = maxID + 1
		}
		var newRecords []encoding.Record

		for _, rec := range records {
			d := effectiveDims
			if d == 0 && len(rec.Vector) > 0 {
				d = uint32(len(rec.Vector))
			}
			if err := validateVector(rec.Vector, d); err != nil {
				continue
			}
			if effectiveDims == 0 {
				effectiveDims = d
			}
			newRecords = append(newRecords, encoding.Record{
				ID:       nextID,
				Vector:   normalize(rec.Vector),
				Metadata: canonicalMetadata(rec.Metadata),
			})
			nextID++
		}
		if len(newRecords) == 0 {
			w.Abort()
			return nil
		}
		finishDims := effectiveDims

		if err := w.WriteHeader(finishDims); err != nil {
			w.Abort()
			return err
		}
		count := 0
		err = scanRecords(path, func(old encoding.Record) (bool, error) {
			count++
			return true, w.WriteRecord(old, finishDims)
		})
		if err != nil {
			w.Abort()
			return err
		}
		for _, rec := range newRecords {
			if err := w.WriteRecord(rec, finishDims); err != nil {
				w.Abort()
				return err
			}
			count++
		}

		if err := w.Finish(uint32(count)); err != nil {
			return err
		}
		inserted = len(newRecords)
		return globalRegistry.refresh(path)
	})
	if err != nil {
		return 0, wrapError("insert", err)
	}
	log.Debug("insert committed", "count", inserted)
	return inserted, nil
}

// maxRecordID scans the file and returns the highest id present and
// whether any record was found. An empty file reports found=false so
// the caller can start ids at 0 rather than max+1 (spec.md §3: ids
// start at 0, and subsequent inserts use max(id)+1).
func maxRecordID(path string) (max uint32, found bool, err error) {
	err = scanRecords(path, func(rec encoding.Record) (bool, error) {
		if !found || rec.ID > max {
			max = rec.ID
		}
		found = true
		return true, nil
	})
	return max, found, err
}

// canonicalMetadata normalizes a caller-supplied metadata byte slice to
// the on-disk "null" literal when empty, so every stored record carries
// parseable JSON (spec.md §6).
func canonicalMetadata(m []byte) []byte {
	if len(m) == 0 {
		return []byte("null")
	}
	return m
}

// deleteByIDs implements spec.md §4.7 Delete_by_ids: streams the
// original file, keeping every record whose id is not in ids.
func deleteByIDs(path string, e *entry, cfg Config, ids []uint32) (int, error) {
	log := cfg.Logger.With("trace_id", uuid.NewString(), "op", "delete_by_ids", "path", path)

	if len(ids) == 0 {
		return 0, wrapError("delete_by_ids", ErrEmptyBatch)
	}

	drop := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	var deleted int
	err := e.withLock(func() error {
		dims := e.dims()
		w, err := newTempWriter(path)
		if err != nil {
			return err
		}
		if err := w.WriteHeader(dims); err != nil {
			w.Abort()
			return err
		}

		count := 0
		err = scanRecords(path, func(rec encoding.Record) (bool, error) {
			if _, drop := drop[rec.ID]; drop {
				deleted++
				return true, nil
			}
			count++
			return true, w.WriteRecord(rec, dims)
		})
		if err != nil {
			w.Abort()
			return err
		}

		if deleted == 0 {
			w.Abort()
			return nil
		}

		if err := w.Finish(uint32(count)); err != nil {
			return err
		}
		return globalRegistry.refresh(path)
	})
	if err != nil {
		return 0, wrapError("delete_by_ids", err)
	}
	log.Debug("delete_by_ids committed", "deleted", deleted)
	return deleted, nil
}

// deleteByFilter implements spec.md §4.7 Delete_by_filter: same
// streaming structure as deleteByIDs, but the predicate is the
// metadata filter evaluator. Zero matches leaves the file untouched
// and reports (0, false) rather than an error (spec.md §7 NothingMatched).
func deleteByFilter(path string, e *entry, cfg Config, filterJSON []byte) (int, bool, error) {
	log := cfg.Logger.With("trace_id", uuid.NewString(), "op", "delete_by_filter", "path", path)

	filter, err := parseFilter(filterJSON)
	if err != nil {
		return 0, false, wrapError("delete_by_filter", err)
	}

	var deleted int
	err = e.withLock(func() error {
		dims := e.dims()
		w, err := newTempWriter(path)
		if err != nil {
			return err
		}
		if err := w.WriteHeader(dims); err != nil {
			w.Abort()
			return err
		}

		count := 0
		err = scanRecords(path, func(rec encoding.Record) (bool, error) {
			match, err := evalFilter(filter, rec.Metadata)
			if err != nil {
				return false, err
			}
			if match {
				deleted++
				return true, nil
			}
			count++
			return true, w.WriteRecord(rec, dims)
		})
		if err != nil {
			w.Abort()
			return err
		}

		if deleted == 0 {
			w.Abort()
			return nil
		}

		if err := w.Finish(uint32(count)); err != nil {
			return err
		}
		return globalRegistry.refresh(path)
	})
	if err != nil {
		return 0, false, wrapError("delete_by_filter", err)
	}
	log.Debug("delete_by_filter committed", "deleted", deleted)
	return deleted, deleted > 0, nil
}

// updateByID implements spec.md §4.7 Update_by_id: for each item,
// rewrites its vector and/or metadata in place, passing every other
// field through unchanged. Items not found in the file are silently
// skipped; every item must specify at least one of Vector or Metadata
// or the whole batch is rejected before any file is touched.
func updateByID(path string, e *entry, cfg Config, items []UpdateItem) (int, error) {
	log := cfg.Logger.With("trace_id", uuid.NewString(), "op", "update_by_id", "path", path)

	if len(items) == 0 {
		return 0, wrapError("update_by_id", ErrEmptyBatch)
	}

	byID := make(map[uint32]UpdateItem, len(items))
	for _, it := range items {
		if len(it.Vector) == 0 && !it.HasMetadata && len(it.Metadata) == 0 {
			return 0, wrapError("update_by_id", ErrInvalidUpdateItem)
		}
		byID[it.ID] = it
	}

	var updated int
	err := e.withLock(func() error {
		dims := e.dims()
		w, err := newTempWriter(path)
		if err != nil {
			return err
		}
		if err := w.WriteHeader(dims); err != nil {
			w.Abort()
			return err
		}

		count := 0
		err = scanRecords(path, func(rec encoding.Record) (bool, error) {
			count++
			it, ok := byID[rec.ID]
			if !ok {
				return true, w.WriteRecord(rec, dims)
			}

			out := rec
			if len(it.Vector) > 0 {
				if verr := validateVector(it.Vector, dims); verr != nil {
					return false, verr
				}
				out.Vector = normalize(it.Vector)
			}
			if it.HasMetadata || len(it.Metadata) > 0 {
				out.Metadata = canonicalMetadata(it.Metadata)
			}
			updated++
			return true, w.WriteRecord(out, dims)
		})
		if err != nil {
			w.Abort()
			return err
		}

		if updated == 0 {
			w.Abort()
			return nil
		}

		if err := w.Finish(uint32(count)); err != nil {
			return err
		}
		return globalRegistry.refresh(path)
	})
	if err != nil {
		return 0, wrapError("update_by_id", err)
	}
	log.Debug("update_by_id committed", "updated", updated)
	return updated, nil
}
