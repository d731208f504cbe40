// Package server exposes the Phonoglyph pipeline over HTTP and WebSocket.
//
// Endpoints:
//
//	POST /phonemize  — one-shot phonemization (JSON in, JSON out)
//	GET  /stream     — WebSocket: one JSON request per message, one JSON
//	                   response per message, connection stays open
//	GET  /healthz    — liveness probe
//	GET  /readyz     — readiness probe (configured checkers)
//	GET  /metrics    — Prometheus scrape endpoint
//
// The server is a thin JSON shell: all pipeline semantics live in
// [phoneme.Phonemizer]. Request-level metrics (latency, segment counts,
// error counters) are recorded here so the pipeline packages stay free of
// observability concerns.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/MrWong99/phonoglyph/internal/health"
	"github.com/MrWong99/phonoglyph/internal/observe"
	"github.com/MrWong99/phonoglyph/pkg/g2p"
	"github.com/MrWong99/phonoglyph/pkg/phoneme"
)

// maxRequestBytes bounds the accepted request body / message size.
const maxRequestBytes = 1 << 20

// Config holds the server settings.
type Config struct {
	// ListenAddr is the TCP address to listen on (e.g., ":8080").
	ListenAddr string

	// DefaultVoice is the voice selector assumed when a request names none.
	DefaultVoice string

	// Checkers are evaluated by the /readyz readiness probe.
	Checkers []health.Checker
}

// Server serves the phonemization API. Create it with [New], start it with
// [Server.Run].
type Server struct {
	cfg        Config
	phonemizer *phoneme.Phonemizer
	metrics    *observe.Metrics
	httpServer *http.Server
}

// New creates a Server around the given pipeline. metrics may not be nil;
// use [observe.DefaultMetrics] when no custom meter provider is needed.
func New(cfg Config, p *phoneme.Phonemizer, metrics *observe.Metrics) *Server {
	s := &Server{
		cfg:        cfg,
		phonemizer: p,
		metrics:    metrics,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler serving all endpoints. Exposed for tests
// (httptest.NewServer) and for callers embedding the API in a larger mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /phonemize", s.handlePhonemize)
	mux.HandleFunc("GET /stream", s.handleStream)
	health.New(s.cfg.Checkers...).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.withRequestMetrics(mux)
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. On cancellation it shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	slog.Info("server listening", "addr", s.cfg.ListenAddr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen on %s: %w", s.cfg.ListenAddr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return ctx.Err()
	}
}

// phonemizeRequest is the JSON body accepted by POST /phonemize and by each
// /stream message.
type phonemizeRequest struct {
	// Text is the raw input text. Required.
	Text string `json:"text"`

	// Voice is a voice selector like "am_michael"; only its dialect prefix
	// affects phonemization. Empty means the server default.
	Voice string `json:"voice,omitempty"`

	// Normalize toggles the normalization stage. nil means true.
	Normalize *bool `json:"normalize,omitempty"`
}

// phonemizeResponse is the JSON body returned for a successful request.
type phonemizeResponse struct {
	Phonemes string `json:"phonemes"`
	Dialect  string `json:"dialect"`
}

// errorResponse is the JSON body returned for a failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePhonemize(w http.ResponseWriter, r *http.Request) {
	var req phonemizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	resp, status, err := s.phonemize(r.Context(), req)
	if err != nil {
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// phonemize runs one request through the pipeline, recording metrics. The
// returned status is only meaningful when err is non-nil.
func (s *Server) phonemize(ctx context.Context, req phonemizeRequest) (*phonemizeResponse, int, error) {
	if req.Text == "" {
		return nil, http.StatusBadRequest, errors.New("text must not be empty")
	}

	voiceID := req.Voice
	if voiceID == "" {
		voiceID = s.cfg.DefaultVoice
	}
	dialect := g2p.DialectForVoice(voiceID)

	preq := phoneme.Request{
		Text:          req.Text,
		Dialect:       dialect,
		SkipNormalize: req.Normalize != nil && !*req.Normalize,
	}

	start := time.Now()
	res, err := s.phonemizer.PhonemizeResult(ctx, preq)
	s.metrics.PhonemizeDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		// Backend error counts are recorded by the observe.TimedBackend
		// decorator, not here.
		s.metrics.RecordPhonemizeRequest(ctx, string(dialect), "error")
		slog.Error("phonemize failed", "dialect", dialect, "err", err)
		return nil, http.StatusBadGateway, err
	}

	s.metrics.RecordPhonemizeRequest(ctx, string(dialect), "ok")
	s.metrics.SegmentsPerCall.Record(ctx, int64(res.Segments))

	return &phonemizeResponse{
		Phonemes: res.Phonemes,
		Dialect:  string(res.Dialect),
	}, 0, nil
}

// handleStream upgrades to WebSocket and serves one phonemize request per
// text message until the client closes the connection or ctx ends.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")
	conn.SetReadLimit(maxRequestBytes)

	ctx := r.Context()
	s.metrics.ActiveStreams.Add(ctx, 1)
	defer s.metrics.ActiveStreams.Add(context.WithoutCancel(ctx), -1)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			// Normal closure and cancellation both end the loop quietly.
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "")
			}
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "text messages only")
			return
		}

		var req phonemizeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if err := writeWS(ctx, conn, errorResponse{Error: "invalid JSON message: " + err.Error()}); err != nil {
				return
			}
			continue
		}

		resp, _, err := s.phonemize(ctx, req)
		if err != nil {
			if err := writeWS(ctx, conn, errorResponse{Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		if err := writeWS(ctx, conn, resp); err != nil {
			return
		}
	}
}

// withRequestMetrics records the HTTP request duration histogram around next.
func (s *Server) withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.metrics.HTTPRequestDuration.Record(r.Context(), time.Since(start).Seconds(),
			metric.WithAttributes(
				attribute.String("method", r.Method),
				attribute.String("path", r.URL.Path),
			),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "err", err)
	}
}

func writeWS(ctx context.Context, conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
