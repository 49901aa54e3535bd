// Package split provides pure document splitting policies.
//
// Two independent splitters are available:
//
//   - TokenSplitter: packs text into chunks bounded by an estimated token
//     budget, preferring sentence boundaries and dropping fragments too
//     small to be worth embedding.
//   - WindowSplitter: slides a fixed-size word window with overlap across
//     the text, recording word offsets for traceability.
//
// Both splitters are stateless and deterministic for a fixed configuration:
// splitting the same document twice yields identical chunks.
package split
