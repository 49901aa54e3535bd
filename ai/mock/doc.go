// Package mock provides deterministic test doubles for the ai interfaces.
//
// The mocks work without any network access: the embedder derives vectors
// from a hash of the input text and the chat model replays scripted chunks.
// Behavior can be overridden per-test through function fields.
package mock
