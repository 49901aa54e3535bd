// Package ai defines the interfaces and configuration for the AI services
// the assistant depends on: text embedding and streamed chat completion.
//
// Implementations live in subpackages. The openai subpackage talks to any
// OpenAI-compatible API (Ollama, LocalAI, vLLM, OpenAI itself); the mock
// subpackage provides deterministic test doubles.
package ai
