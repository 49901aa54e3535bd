// Package openai implements the ai interfaces against any OpenAI-compatible
// API: OpenAI itself, or local services such as Ollama, LocalAI and vLLM.
package openai
