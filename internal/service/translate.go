package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/bogdan-labs/bogdanai/internal/config"
)

// TranslateService calls the public machine-translation endpoint. Failures
// degrade to the untranslated source text at the call site; translations of
// repeated text are served from an in-process cache.
type TranslateService struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	cache map[string]string
}

func NewTranslateService(baseURL string) *TranslateService {
	return &TranslateService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: config.TranslateTimeout},
		cache:      make(map[string]string),
	}
}

// Translate translates text from Russian to the target language code.
// The source language text is returned unchanged for target "ru".
func (s *TranslateService) Translate(ctx context.Context, text, target string) (string, error) {
	if target == "" || target == "ru" || strings.TrimSpace(text) == "" {
		return text, nil
	}

	cacheKey := text + ":" + target
	s.mu.RLock()
	cached, ok := s.cache[cacheKey]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "ru")
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate failed (HTTP %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	translated, err := parseTranslation(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[cacheKey] = translated
	s.mu.Unlock()
	return translated, nil
}

// ClearCache drops all cached translations; called on language change.
func (s *TranslateService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]string)
}

// parseTranslation extracts the joined translated segments from the
// endpoint's nested-array response: [[["segment", "source", ...], ...], ...].
func parseTranslation(body []byte) (string, error) {
	var data []json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("parse translation: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(data[0], &segments); err != nil {
		return "", fmt.Errorf("parse translation segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("translation response held no segments")
	}
	return sb.String(), nil
}
