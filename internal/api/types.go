// Package api defines the wire types exchanged with Ollama-compatible
// model servers.
package api

import "time"

// Options holds model parameters accepted by generate, chat and embeddings
// requests. Zero values are omitted so the server applies its own defaults.
type Options struct {
	Temperature float64  `json:"temperature,omitempty"`
	TopP        float64  `json:"top_p,omitempty"`
	TopK        int      `json:"top_k,omitempty"`
	Seed        int      `json:"seed,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
	NumCtx      int      `json:"num_ctx,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// GenerateRequest is the body of a completion request.
type GenerateRequest struct {
	Model    string   `json:"model"`
	Prompt   string   `json:"prompt"`
	System   string   `json:"system,omitempty"`
	Template string   `json:"template,omitempty"`
	Context  []int    `json:"context,omitempty"`
	Raw      bool     `json:"raw,omitempty"`
	Format   string   `json:"format,omitempty"`
	Stream   *bool    `json:"stream,omitempty"`
	Options  *Options `json:"options,omitempty"`
}

// GenerateResponse is one streamed chunk of a completion. While streaming,
// only Model, CreatedAt and Response are populated; the final chunk has
// Done set and carries the conversation context and timing counters.
type GenerateResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Response  string    `json:"response"`
	Done      bool      `json:"done"`
	Context   []int     `json:"context,omitempty"`

	Metrics
}

// Message is a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a chat completion request.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Format   string    `json:"format,omitempty"`
	Stream   *bool     `json:"stream,omitempty"`
	Options  *Options  `json:"options,omitempty"`
}

// ChatResponse is one streamed chunk of a chat completion.
type ChatResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Message   Message   `json:"message"`
	Done      bool      `json:"done"`

	Metrics
}

// EmbeddingsRequest is the body of an embeddings request.
type EmbeddingsRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Options *Options `json:"options,omitempty"`
}

// EmbeddingsResponse carries the embedding vector for one prompt.
type EmbeddingsResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Metrics holds the token accounting and timing counters reported on the
// final chunk of a stream. Durations are nanoseconds on the wire.
type Metrics struct {
	TotalDuration      time.Duration `json:"total_duration,omitempty"`
	LoadDuration       time.Duration `json:"load_duration,omitempty"`
	PromptEvalCount    int           `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration time.Duration `json:"prompt_eval_duration,omitempty"`
	EvalCount          int           `json:"eval_count,omitempty"`
	EvalDuration       time.Duration `json:"eval_duration,omitempty"`
}

// TokensPerSecond reports the generation rate, or 0 before any tokens were
// evaluated.
func (m Metrics) TokensPerSecond() float64 {
	if m.EvalDuration <= 0 {
		return 0
	}
	return float64(m.EvalCount) / m.EvalDuration.Seconds()
}

// TotalTokens reports prompt plus generated token counts.
func (m Metrics) TotalTokens() int {
	return m.PromptEvalCount + m.EvalCount
}
