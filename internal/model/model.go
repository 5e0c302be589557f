// Package model maps model names to server endpoints and known embedding
// dimensions.
package model

import (
	"sort"
	"strings"
)

// Server endpoints by operation.
const (
	GenerateEndpoint   = "/api/generate"
	ChatEndpoint       = "/api/chat"
	EmbeddingsEndpoint = "/api/embeddings"
)

// embeddingDimensions lists the vector sizes of model families commonly
// served by Ollama-compatible backends, keyed by base model name.
var embeddingDimensions = map[string]int{
	"all-minilm":             384,
	"nomic-embed-text":       768,
	"snowflake-arctic-embed": 1024,
	"mxbai-embed-large":      1024,
	"bge-m3":                 1024,
	"gemma":                  2048,
	"phi3":                   3072,
	"llama2":                 4096,
	"llama3":                 4096,
	"mistral":                4096,
	"mixtral":                4096,
	"codellama":              4096,
}

// BaseName strips the tag from a model reference, so "llama3:8b-instruct"
// becomes "llama3".
func BaseName(name string) string {
	base, _, _ := strings.Cut(name, ":")
	return base
}

// EmbeddingDimension reports the embedding vector size for a model. The tag
// is ignored and unknown variants fall back to a known family prefix
// ("llama3.1" matches "llama3").
func EmbeddingDimension(name string) (int, bool) {
	base := BaseName(name)
	if dim, ok := embeddingDimensions[base]; ok {
		return dim, true
	}

	for family, dim := range embeddingDimensions {
		if strings.HasPrefix(base, family) {
			return dim, true
		}
	}
	return 0, false
}

// Known returns the base model names with a known embedding dimension, in
// lexical order.
func Known() []string {
	names := make([]string, 0, len(embeddingDimensions))
	for name := range embeddingDimensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
