// Package remote provides a [g2p.Backend] that delegates grapheme-to-phoneme
// conversion to an espeak-ng phonemization server over HTTP.
//
// One POST request is issued per content segment:
//
//	POST /phonemize
//	{"text": "hello world", "voice": "en-us"}
//
// and the server answers with the phoneme string:
//
//	{"phonemes": "həlˈoʊ wˈɜːld"}
//
// The backend performs no retries: a failed request fails the segment, and
// with it the whole phonemize call. Callers that want resilience should wrap
// the backend themselves.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

// Compile-time interface assertion.
var _ g2p.Backend = (*Backend)(nil)

const (
	defaultTimeout    = 10 * time.Second
	phonemizeEndpoint = "/phonemize"
)

// Option is a functional option for configuring a remote Backend.
type Option func(*Backend)

// WithTimeout sets the per-request HTTP timeout. Defaults to 10 s.
func WithTimeout(d time.Duration) Option {
	return func(b *Backend) {
		b.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client, e.g. to inject transport
// middleware or a test client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) {
		b.httpClient = c
	}
}

// Backend is an HTTP-backed [g2p.Backend]. It is safe for concurrent use;
// the pipeline dispatches several segments of one utterance in parallel.
type Backend struct {
	serverURL  string
	httpClient *http.Client
}

// New creates a Backend targeting the phonemization server at serverURL
// (e.g., "http://localhost:7979"). serverURL must be non-empty.
func New(serverURL string, opts ...Option) (*Backend, error) {
	if serverURL == "" {
		return nil, errors.New("remote: serverURL must not be empty")
	}
	b := &Backend{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// phonemizeRequest is the JSON body sent to POST /phonemize.
type phonemizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// phonemizeResponse is the JSON body returned by the server.
type phonemizeResponse struct {
	Phonemes string `json:"phonemes"`
}

// Convert phonemizes text by calling the remote server with the espeak voice
// for the given dialect. Cancelling ctx aborts the request.
func (b *Backend) Convert(ctx context.Context, text string, dialect g2p.Dialect) (string, error) {
	body := phonemizeRequest{
		Text:  text,
		Voice: dialect.EspeakVoice(),
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("remote: marshal phonemize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.serverURL+phonemizeEndpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("remote: create phonemize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("remote: POST %s: %w", phonemizeEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("remote: POST %s returned status %d", phonemizeEndpoint, resp.StatusCode)
	}

	var out phonemizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("remote: decode phonemize response: %w", err)
	}
	return out.Phonemes, nil
}
