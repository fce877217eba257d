package tinyvecdb

import (
	"encoding/json"

	"github.com/tinyvecdb/tinyvecdb/internal/encoding"
)

// search implements spec.md §4.6: normalize the query, verify its
// dimension, stream every record applying an optional filter, and
// drain a bounded top-k heap into a descending-sorted result list.
func search(path string, e *entry, query []float32, k int, filterJSON []byte) ([]Result, error) {
	if k <= 0 || len(query) == 0 {
		return nil, nil
	}

	dims := e.dims()
	if dims != 0 && uint32(len(query)) != dims {
		return nil, wrapError("search", ErrDimensionMismatch)
	}

	filter, err := parseFilter(filterJSON)
	if err != nil {
		return nil, wrapError("search", err)
	}

	q := normalize(query)

	heap := newTopKHeap(k)

	err = scanRecords(path, func(rec encoding.Record) (bool, error) {
		if filter != nil {
			ok, err := evalFilter(filter, rec.Metadata)
			if err != nil {
				return false, err
			}
			if !ok {
				return true, nil
			}
		}

		sim := similarity(q, rec.Vector)
		heap.Offer(scoredID{similarity: sim, id: rec.ID, metadata: rec.Metadata})
		return true, nil
	})
	if err != nil {
		return nil, wrapError("search", err)
	}

	drained := heap.Drain()
	results := make([]Result, len(drained))
	for i, d := range drained {
		results[i] = Result{ID: d.id, Similarity: d.similarity, Metadata: decodeMetadata(d.metadata)}
	}
	return results, nil
}

// decodeMetadata normalizes a record's stored metadata bytes to the
// canonical JSON null when empty, matching spec.md §6's "metadata may
// be the 4 bytes 'null'" on-disk convention.
func decodeMetadata(raw []byte) []byte {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

// indexStats reads path's header without going through a streaming scan.
func indexStats(path string) (IndexStats, error) {
	h, err := readHeader(path)
	if err != nil {
		return IndexStats{}, wrapError("index_stats", err)
	}
	return IndexStats{VectorCount: h.VectorCount, Dimensions: h.Dimensions}, nil
}

// getPaginated returns up to limit records in on-disk (insertion) order
// starting at skip, carrying vector and metadata but no similarity
// score (spec.md §6, §12).
func getPaginated(path string, skip, limit int) ([]PaginatedRecord, error) {
	if limit <= 0 || skip < 0 {
		return nil, nil
	}

	out := make([]PaginatedRecord, 0, limit)
	i := 0
	err := scanRecords(path, func(rec encoding.Record) (bool, error) {
		if i < skip {
			i++
			return true, nil
		}
		vec := make([]float32, len(rec.Vector))
		copy(vec, rec.Vector)
		out = append(out, PaginatedRecord{ID: rec.ID, Vector: vec, Metadata: decodeMetadata(rec.Metadata)})
		i++
		return len(out) < limit, nil
	})
	if err != nil {
		return nil, wrapError("get_paginated", err)
	}
	return out, nil
}
