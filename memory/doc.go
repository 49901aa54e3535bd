// Package memory provides bounded per-conversation message windows.
//
// A Store maps conversation identifiers to their recent turns. Windows are
// created lazily on first use and bounded by turn count: once full, the
// oldest turns are evicted first. Each conversation is locked
// independently, so concurrent queries on different conversations never
// block each other while appends within one conversation stay strictly
// ordered.
//
// The default KeyedStore is in-memory and not persisted across restarts;
// badgerstore provides a durable implementation of the same interface.
package memory
