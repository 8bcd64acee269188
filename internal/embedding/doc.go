// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package embedding turns text into dense vectors with a frozen encoder.

# Providers

  - ONNXEmbedder runs a sentence-transformer export in-process through
    onnxruntime, tokenizing with a HuggingFace tokenizer.json. Token states
    are mean-pooled over the attention mask.
  - HTTPEmbedder calls an OpenAI-compatible /embeddings endpoint (Ollama,
    vLLM, text-embeddings-inference). Calls go through a gobreaker circuit
    breaker so a dead endpoint fails fast.
  - HashEmbedder hashes word and character trigram features into a fixed
    number of buckets with xxhash. It needs no model files and is used in
    tests and air-gapped deployments.

Every provider returns L2-normalised vectors, so cosine similarity reduces
to a dot product. Input text is NFKC-normalised and whitespace-collapsed
before encoding.

# Query Cache

CachedEmbedder wraps any provider with an LRU keyed by normalised text so
repeated free-text queries skip the encoder.
*/
package embedding
