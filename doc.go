// Package tinyvecdb is an embedded, single-file vector database.
//
// It stores fixed-dimension float32 vectors with attached JSON
// metadata in one file per database and serves approximate-exact
// k-nearest-neighbor search with millisecond latency, without a server
// or network hop: Open takes the database's path and resolves (or
// opens) a shared, process-wide connection for its absolute form, and
// every operation is a method on the returned Connection.
//
// # Quick start
//
//	conn, err := tinyvecdb.Open("vectors.db", 128)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	n, err := conn.Insert(ctx, []tinyvecdb.InsertRecord{
//	    {Vector: embedding, Metadata: []byte(`{"title":"hello"}`)},
//	})
//
//	results, err := conn.Search(ctx, embedding, 10)
//
// # Scope
//
// TinyVecDB implements brute-force exact search over the vector
// region (with a SIMD-accelerated dot-product kernel), a small JSON
// query language for filtering on stored metadata, and a crash-safe
// temp-and-swap mutation protocol. It does not implement approximate
// indexing (HNSW/IVF), replication, multi-file transactions,
// concurrent writers on a single file, or vector quantization — see
// SPEC_FULL.md for the full non-goal list.
package tinyvecdb
