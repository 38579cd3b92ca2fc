// Package reindex rebuilds the modality indexes from stored embedding sets.
//
// Indexes are append-only, so entries for resolved reports linger until a
// rebuild compacts them away. The rebuilder streams every stored embedding
// set, keeps those whose report is still open, and inserts them into a fresh
// target index with retry and progress reporting.
package reindex
