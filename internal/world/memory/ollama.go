package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaEmbedder implements EmbeddingProvider against Ollama's embedding
// API, the same endpoint shape as cklxx-elephant.ai's
// internal/infra/memory.OllamaEmbedder. This is the one concrete adapter
// the world process wires by default for the embedding model runtime spec
// §1 names as an external collaborator — swapping it for another provider
// means satisfying EmbeddingProvider, not changing anything in this
// package.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaEmbedder(model, baseURL string) *OllamaEmbedder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &OllamaEmbedder{baseURL: baseURL, model: strings.TrimSpace(model), client: &http.Client{Timeout: 60 * time.Second}}
}

func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	out, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (o *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if o.model == "" {
		return nil, fmt.Errorf("ollama embedder requires a model name")
	}
	status, body, err := o.postJSON(ctx, "/api/embed", map[string]any{"model": o.model, "input": texts})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("ollama /api/embed failed: %s", strings.TrimSpace(body))
	}
	var resp struct {
		Embeddings [][]float64 `json:"embeddings"`
		Error      string      `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama /api/embed error: %s", resp.Error)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama /api/embed returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// OllamaLLM implements the Store.LLM surface against Ollama's chat API,
// grounded the same way as OllamaEmbedder.
type OllamaLLM struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaLLM(model, baseURL string) *OllamaLLM {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &OllamaLLM{baseURL: baseURL, model: strings.TrimSpace(model), client: &http.Client{Timeout: 120 * time.Second}}
}

func (o *OllamaLLM) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	if o.model == "" {
		return "", fmt.Errorf("ollama llm requires a model name")
	}
	payload := map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"stream": false,
		"options": map[string]any{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	}
	status, body, err := o.postJSON(ctx, "/api/chat", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("ollama /api/chat failed: %s", strings.TrimSpace(body))
	}
	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama /api/chat error: %s", resp.Error)
	}
	return resp.Message.Content, nil
}

func postJSONWith(ctx context.Context, client *http.Client, baseURL, path string, payload any) (int, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("ollama request failed: %w (try `ollama serve`)", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(respBody), nil
}

func (o *OllamaEmbedder) postJSON(ctx context.Context, path string, payload any) (int, string, error) {
	return postJSONWith(ctx, o.client, o.baseURL, path, payload)
}

func (o *OllamaLLM) postJSON(ctx context.Context, path string, payload any) (int, string, error) {
	return postJSONWith(ctx, o.client, o.baseURL, path, payload)
}
