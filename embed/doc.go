// Package embed defines the embedding capability consumed by the semantic
// strategy adapter, with an OpenAI-compatible implementation in the openai
// subpackage and a deterministic test double in mock.
package embed
