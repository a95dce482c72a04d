// Package translate orchestrates calls to the external text-translation
// backend: input validation, circuit-breaker health gating, bounded-timeout
// requests, failure classification and call logging.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Backend is the consumed contract of the translation service.
type Backend interface {
	Health(ctx context.Context) bool
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, int, error)
}

// Client talks to the backend over HTTP:
//
//	GET  /health    -> {model_loaded: bool}
//	POST /translate {text, source_lang, target_lang} -> {translated_text, sentence_count}
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Per-call deadlines come from the caller's context; the transport
		// itself stays unbounded.
		http: &http.Client{},
	}
}

// Health reports whether the backend has its model loaded. Any transport
// error, non-200 status or absent field counts as unhealthy.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var body struct {
		ModelLoaded *bool `json:"model_loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.ModelLoaded != nil && *body.ModelLoaded
}

// Translate issues a single request. Errors are pre-classified:
// ErrTimeout on deadline, ErrBadRequest on a 4xx with backend detail,
// ErrUnavailable on anything else.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, int, error) {
	payload, err := json.Marshal(struct {
		Text       string `json:"text"`
		SourceLang string `json:"source_lang"`
		TargetLang string `json:"target_lang"`
	}{text, sourceLang, targetLang})
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", 0, ErrTimeout
		}
		return "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := backendDetail(resp.Body)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", 0, fmt.Errorf("%w: %s", ErrBadRequest, detail)
		}
		return "", 0, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, detail)
	}

	var body struct {
		TranslatedText string `json:"translated_text"`
		SentenceCount  int    `json:"sentence_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, fmt.Errorf("%w: bad response body: %v", ErrUnavailable, err)
	}
	return body.TranslatedText, body.SentenceCount, nil
}

func backendDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil || body.Detail == "" {
		return "no detail"
	}
	return body.Detail
}

// BaseLang strips a region suffix from a language tag: "en-US" and
// "en_US" both become "en".
func BaseLang(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

// ensure Client satisfies the contract
var _ Backend = (*Client)(nil)

// withTimeout is a tiny helper shared by the orchestrator and the gate.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
