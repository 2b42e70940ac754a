package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/llmquant/quantmind/pkg/httpclient"
)

const defaultOllamaBaseURL = "http://localhost:11434"

type ollamaProvider struct {
	client *httpclient.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string           `json:"model"`
	Messages []ollamaMessage  `json:"messages"`
	Stream   bool             `json:"stream"`
	Format   any              `json:"format,omitempty"`
	Options  ollamaChatOptions `json:"options,omitempty"`
}

type ollamaChatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error"`
}

func (p *ollamaProvider) GenerateText(ctx context.Context, messages []Message, opts CallOptions) (string, error) {
	body := ollamaChatRequest{
		Model:    opts.Model,
		Messages: toOllamaMessages(messages),
		Stream:   false,
		Options: ollamaChatOptions{
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			NumPredict:  opts.MaxTokens,
		},
	}
	if opts.ResponseSchema != nil {
		body.Format = opts.ResponseSchema
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llms: ollama: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llms: ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llms: ollama: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llms: ollama: read response: %w", err)
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("llms: ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("llms: ollama: %s", parsed.Error)
	}

	return parsed.Message.Content, nil
}

type ollamaEmbeddingRequest struct {
	Model string `json:"model"`
	Input any    `json:"input"`
}

type ollamaEmbeddingResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Error      string      `json:"error"`
}

func (p *ollamaProvider) GenerateEmbeddings(ctx context.Context, texts []string, opts CallOptions) ([][]float64, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	payload, err := json.Marshal(ollamaEmbeddingRequest{Model: opts.Model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("llms: ollama: encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("llms: ollama: build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llms: ollama: embedding request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llms: ollama: read embedding response: %w", err)
	}

	var parsed ollamaEmbeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("llms: ollama: decode embedding response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("llms: ollama: %s", parsed.Error)
	}

	return parsed.Embeddings, nil
}

func toOllamaMessages(messages []Message) []ollamaMessage {
	out := make([]ollamaMessage, len(messages))
	for i, m := range messages {
		out[i] = ollamaMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
