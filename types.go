package tinyvecdb

// InsertRecord is one caller-supplied vector to append on Insert.
// Metadata is raw JSON (any value, including `null`); a nil Metadata is
// stored as the JSON literal null.
type InsertRecord struct {
	Vector   []float32
	Metadata []byte
}

// UpdateItem describes one record to mutate in UpdateByID. At least one
// of Vector or Metadata must be set; supplying neither is rejected at
// the API boundary (ErrInvalidUpdateItem) before any file is touched.
type UpdateItem struct {
	ID       uint32
	Vector   []float32 // nil means "leave unchanged"
	Metadata []byte    // nil means "leave unchanged"; see HasMetadata
	// HasMetadata distinguishes "no change" from "set to JSON null",
	// since both are represented by a nil/empty Metadata byte slice.
	HasMetadata bool
}

// Result is one scored hit from Search or SearchWithFilter.
type Result struct {
	ID         uint32
	Similarity float32
	Metadata   []byte
}

// PaginatedRecord is one row from GetPaginated: unlike Result it
// includes the raw vector and carries no similarity score.
type PaginatedRecord struct {
	ID       uint32
	Vector   []float32
	Metadata []byte
}

// IndexStats is the derived view of a file's header.
type IndexStats struct {
	VectorCount uint32
	Dimensions  uint32
}
