// Package storage defines the persistence contracts of the system.
//
// Two collaborators are abstracted here:
//
//   - VectorStore: holds retrieval-sized chunks and answers similarity
//     queries. The index structure is implementation-defined; only Add and
//     Search are assumed by the rest of the system.
//   - Ledger: the durable idempotency record of already-ingested sources.
//
// Implementations live in sub-packages (storage/postgres) and must be safe
// for concurrent use.
package storage
