package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/shopspring/decimal"
)

// OpenRouterService talks to an OpenRouter-compatible chat-completion API.
// Without an API key it answers in demo mode instead of failing.
type OpenRouterService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *modelCatalog
}

func NewOpenRouterService(apiKey, baseURL string) *OpenRouterService {
	return &OpenRouterService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		cache:      newModelCatalog(config.ModelCacheDuration, nil),
	}
}

// HasCredential reports whether real model calls are possible.
func (s *OpenRouterService) HasCredential() bool {
	return s.apiKey != ""
}

type ChatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// ChatResult is the assistant reply plus its token usage and estimated cost.
type ChatResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cost             decimal.Decimal
	Demo             bool
}

// Chat sends the message history and returns the generated reply. API
// failures map to instructive errors; the caller decides how to surface
// them.
func (s *OpenRouterService) Chat(ctx context.Context, messages []ChatMessage, model string, temperature *float64) (*ChatResult, error) {
	if !s.HasCredential() {
		return s.demoReply(messages), nil
	}

	// Gemini models reject explicit temperature
	if strings.Contains(strings.ToLower(model), "gemini") {
		temperature = nil
	}

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("X-Title", "Bogdan AI")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int     `json:"prompt_tokens"`
			CompletionTokens int     `json:"completion_tokens"`
			TotalTokens      int     `json:"total_tokens"`
			TotalCost        float64 `json:"total_cost"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, domain.ErrEmptyResponse
	}

	cost := decimal.NewFromFloat(parsed.Usage.TotalCost)
	if cost.IsZero() {
		if m, err := s.GetModel(ctx, model); err == nil {
			cost = CalculateCost(parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens, m.PromptPrice, m.CompletionPrice)
		}
	}

	return &ChatResult{
		Content:          parsed.Choices[0].Message.Content,
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
		TotalTokens:      parsed.Usage.TotalTokens,
		Cost:             cost,
	}, nil
}

// statusError maps upstream HTTP statuses to instructive errors.
func statusError(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("invalid API key (401)")
	case http.StatusPaymentRequired:
		return fmt.Errorf("insufficient credits (402)")
	case http.StatusNotFound:
		return fmt.Errorf("model not found (404)")
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited by upstream (429)")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("upstream unavailable (503)")
	default:
		if code >= 400 {
			return fmt.Errorf("upstream error (HTTP %d)", code)
		}
		return nil
	}
}

// demoReply echoes the last user question with setup instructions, matching
// the behavior of running without a configured key.
func (s *OpenRouterService) demoReply(messages []ChatMessage) *ChatResult {
	question := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			if text, ok := messages[i].Content.(string); ok {
				question = text
			}
			break
		}
	}
	return &ChatResult{
		Content: fmt.Sprintf(
			"Я получил ваш вопрос: «%s». Система работает в демо-режиме. "+
				"Задайте OPENROUTER_API_KEY для полной функциональности.", question),
		Demo: true,
	}
}

// ListModels fetches the available models, served from a TTL cache.
func (s *OpenRouterService) ListModels(ctx context.Context) ([]domain.AIModel, error) {
	if cached, ok := s.cache.Cached(); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Data []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Pricing struct {
				Prompt     string `json:"prompt"`
				Completion string `json:"completion"`
			} `json:"pricing"`
			ContextLength int `json:"context_length"`
			Architecture  struct {
				Modality string `json:"modality"`
			} `json:"architecture"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	models := make([]domain.AIModel, 0, len(result.Data))
	for _, m := range result.Data {
		var promptPrice, completionPrice float64
		fmt.Sscanf(m.Pricing.Prompt, "%f", &promptPrice)
		fmt.Sscanf(m.Pricing.Completion, "%f", &completionPrice)

		// Upstream prices are per token; store per 1M tokens.
		models = append(models, domain.AIModel{
			ID:              m.ID,
			Name:            m.Name,
			PromptPrice:     promptPrice * 1_000_000,
			CompletionPrice: completionPrice * 1_000_000,
			ContextLength:   m.ContextLength,
			Vision:          detectVision(m.ID, m.Architecture.Modality),
		})
	}

	s.cache.Store(models)
	return models, nil
}

// GetModel looks a model up by id.
func (s *OpenRouterService) GetModel(ctx context.Context, modelID string) (*domain.AIModel, error) {
	models, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		if m.ID == modelID {
			return &m, nil
		}
	}
	return nil, domain.ErrModelNotFound
}

func detectVision(modelID, modality string) bool {
	id := strings.ToLower(modelID)
	return strings.Contains(id, "vision") || strings.Contains(id, "gpt-4o") ||
		strings.Contains(id, "claude") || strings.Contains(id, "gemini") ||
		strings.Contains(id, "llava") || strings.Contains(modality, "image")
}

// CalculateCost estimates the request cost in USD from per-1M-token prices.
func CalculateCost(promptTokens, completionTokens int, promptPrice, completionPrice float64) decimal.Decimal {
	million := decimal.NewFromInt(1_000_000)
	prompt := decimal.NewFromInt(int64(promptTokens)).
		Mul(decimal.NewFromFloat(promptPrice)).Div(million)
	completion := decimal.NewFromInt(int64(completionTokens)).
		Mul(decimal.NewFromFloat(completionPrice)).Div(million)
	return prompt.Add(completion)
}
