package model

import (
	"slices"
	"testing"
)

func TestEmbeddingDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		model  string
		want   int
		wantOK bool
	}{
		{name: "exact", model: "nomic-embed-text", want: 768, wantOK: true},
		{name: "with_tag", model: "nomic-embed-text:latest", want: 768, wantOK: true},
		{name: "family_prefix", model: "llama3.1:70b", want: 4096, wantOK: true},
		{name: "minilm", model: "all-minilm:l6-v2", want: 384, wantOK: true},
		{name: "unknown", model: "totally-new-model", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := EmbeddingDimension(tt.model)
			if ok != tt.wantOK {
				t.Fatalf("EmbeddingDimension(%q) ok = %v, want %v", tt.model, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("EmbeddingDimension(%q) = %d, want %d", tt.model, got, tt.want)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	t.Parallel()

	if got := BaseName("llama3:8b-instruct"); got != "llama3" {
		t.Errorf("BaseName() = %q, want llama3", got)
	}
	if got := BaseName("mistral"); got != "mistral" {
		t.Errorf("BaseName() = %q, want mistral", got)
	}
}

func TestKnownIsSorted(t *testing.T) {
	t.Parallel()

	names := Known()
	if len(names) == 0 {
		t.Fatal("Known() returned no models")
	}
	if !slices.IsSorted(names) {
		t.Errorf("Known() not sorted: %v", names)
	}
}
