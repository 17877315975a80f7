package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"horse.fit/polyglot/internal/language"
)

// DefaultGoogleEndpoint is the Cloud Translation v2 REST base URL.
const DefaultGoogleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// GoogleProvider calls the Google Cloud Translation v2 REST API.
type GoogleProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewGoogleProviderFromEnv builds a Google provider from env vars.
//   - GOOGLE_TRANSLATE_API_KEY (required at call time, not at construction)
//   - GOOGLE_TRANSLATE_ENDPOINT (default: the public v2 endpoint)
func NewGoogleProviderFromEnv() *GoogleProvider {
	endpoint := strings.TrimSpace(os.Getenv("GOOGLE_TRANSLATE_ENDPOINT"))
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	return NewGoogleProvider(endpoint, os.Getenv("GOOGLE_TRANSLATE_API_KEY"))
}

// NewGoogleProvider builds a Google provider for the given endpoint and key.
func NewGoogleProvider(endpoint, apiKey string) *GoogleProvider {
	trimmedEndpoint := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if trimmedEndpoint == "" {
		trimmedEndpoint = DefaultGoogleEndpoint
	}
	return &GoogleProvider{
		endpoint: trimmedEndpoint,
		apiKey:   strings.TrimSpace(apiKey),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil {
		return nil, fmt.Errorf("google provider is nil")
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_TRANSLATE_API_KEY is not set")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	targetLang := language.NormalizeCode(req.TargetLang)
	if targetLang == "" {
		return nil, fmt.Errorf("target language is required")
	}
	sourceLang := language.NormalizeCode(req.SourceLang)

	body, err := json.Marshal(googleTranslateRequest{
		Q:      []string{text},
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	started := time.Now()
	respBody, err := p.post(ctx, p.endpoint, body)
	if err != nil {
		return nil, err
	}

	var parsed googleTranslateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	if len(parsed.Data.Translations) == 0 {
		return nil, fmt.Errorf("translation response missing translations")
	}

	translated := strings.TrimSpace(parsed.Data.Translations[0].TranslatedText)
	if translated == "" {
		return nil, fmt.Errorf("translation response was empty")
	}
	if sourceLang == "" {
		sourceLang = language.NormalizeCode(parsed.Data.Translations[0].DetectedSourceLanguage)
	}

	return &TranslateResponse{
		Text:         translated,
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

// Languages lists the provider's supported languages with English display
// names. Every listed language is accepted both as source and target by the
// v2 API.
func (p *GoogleProvider) Languages(ctx context.Context) ([]Language, error) {
	if p == nil {
		return nil, fmt.Errorf("google provider is nil")
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_TRANSLATE_API_KEY is not set")
	}

	endpoint := p.endpoint + "/languages?target=en&key=" + url.QueryEscape(p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build languages request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send languages request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read languages response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, googleStatusError("languages", resp.StatusCode, respBody)
	}

	var parsed googleLanguagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode languages response: %w", err)
	}

	languages := make([]Language, 0, len(parsed.Data.Languages))
	for _, entry := range parsed.Data.Languages {
		code := language.NormalizeCode(entry.Language)
		if code == "" {
			continue
		}
		displayName := strings.TrimSpace(entry.Name)
		if displayName == "" {
			displayName = DisplayName(code)
		}
		languages = append(languages, Language{
			Code:           code,
			DisplayName:    displayName,
			SupportsSource: true,
			SupportsTarget: true,
		})
	}
	return languages, nil
}

func (p *GoogleProvider) post(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+url.QueryEscape(p.apiKey), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, googleStatusError("translation", resp.StatusCode, respBody)
	}
	return respBody, nil
}

func googleStatusError(operation string, status int, body []byte) error {
	var errPayload googleErrorResponse
	if err := json.Unmarshal(body, &errPayload); err == nil {
		if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
			return fmt.Errorf("%s endpoint status %d: %s", operation, status, msg)
		}
	}
	return fmt.Errorf("%s endpoint status %d: %s", operation, status, strings.TrimSpace(string(body)))
}

type googleTranslateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target"`
	Format string   `json:"format,omitempty"`
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

type googleLanguagesResponse struct {
	Data struct {
		Languages []struct {
			Language string `json:"language"`
			Name     string `json:"name"`
		} `json:"languages"`
	} `json:"data"`
}

type googleErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
