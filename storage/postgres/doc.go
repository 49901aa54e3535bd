// Package postgres implements the storage interfaces on PostgreSQL.
//
// The vector store keeps one row per chunk with its pgvector embedding and
// searches by cosine similarity; the ledger is a plain table keyed by
// source identifier. Both share a pgx connection pool and create their
// schema on startup.
package postgres
