package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the public Google Translate web endpoint.
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleBackend calls the Google Translate web endpoint.
type GoogleBackend struct {
	Endpoint  string
	Client    *http.Client
	UserAgent string
}

// NewGoogleBackend returns a backend with the given endpoint and timeout.
func NewGoogleBackend(endpoint string, timeout time.Duration) *GoogleBackend {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GoogleBackend{
		Endpoint:  endpoint,
		Client:    &http.Client{Timeout: timeout},
		UserAgent: "screen-translator/1.0",
	}
}

// Translate implements Backend.
func (g *GoogleBackend) Translate(ctx context.Context, text, src, dst string) (*Result, error) {
	sl := src
	if sl == "" {
		sl = Auto
	}
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", sl)
	q.Set("tl", dst)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build translation request: %w", err)
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read translation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translation service returned %s", resp.Status)
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse reads the nested-array response:
// [[["translated","original",...],...],null,"detected-lang",...]
func parseGoogleResponse(body []byte) (*Result, error) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("malformed translation response: %w", err)
	}
	if len(root) == 0 {
		return nil, ErrEmptyResult
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return nil, fmt.Errorf("malformed translation segments: %w", err)
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

	res := &Result{Text: sb.String()}
	if len(root) > 2 {
		_ = json.Unmarshal(root[2], &res.Source)
	}
	if res.Text == "" {
		return nil, ErrEmptyResult
	}
	return res, nil
}
