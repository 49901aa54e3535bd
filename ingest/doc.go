// Package ingest provides batch ingestion of source documents.
//
// A Runner discovers resources matching a pattern, dispatches each to the
// Strategy registered for its file extension, splits the parsed documents
// into retrieval-sized chunks, and persists them to the vector store.
// The ingestion Ledger makes re-runs idempotent: a source whose identifier
// already has a ledger record is skipped.
//
// Parsing is performed concurrently using a worker pool; each resource is
// independent. A failure to parse one resource is logged and isolated, it
// never aborts the rest of the batch. The ledger record for a source is
// written only after its chunks are durably persisted, so a crash between
// the two results in a safe re-ingest on the next run (at-least-once per
// source).
package ingest
