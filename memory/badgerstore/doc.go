// Package badgerstore provides a BadgerDB-backed conversation memory store.
//
// Each conversation window is stored under a single key and rewritten on
// append, which keeps reads cheap and lets the bound be enforced at write
// time. Use it when chat memory must survive process restarts; the in-memory
// mode exists for tests.
package badgerstore
