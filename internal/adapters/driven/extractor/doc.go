// Package extractor groups the entity extraction adapters.
//
// Backends:
//   - huggingface: hosted token-classification inference API
//   - ollama: local LLM prompted for JSON entities
//   - dictionary: YAML gazetteer matched against the text
//
// Decorators:
//   - chunked: splits long texts into token windows and merges the results
//   - cache: LRU cache keyed by model and text
package extractor
