// Package server exposes the extract, highlight, clear and analyze
// operations over HTTP so a browser extension or script can drive them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/crimson-sun/pagepulse/internal/config"
	"github.com/crimson-sun/pagepulse/internal/connector"
	"github.com/crimson-sun/pagepulse/internal/dom"
	"github.com/crimson-sun/pagepulse/internal/engine"
	"github.com/crimson-sun/pagepulse/internal/engine/classifier"
	"github.com/crimson-sun/pagepulse/internal/model"
	"github.com/crimson-sun/pagepulse/internal/pipeline"
)

const defaultMaxBody = 10 << 20

// Option configures a Server.
type Option func(*Server)

// WithRate throttles /v1/analyze to perMinute requests with the given burst.
// perMinute <= 0 disables throttling.
func WithRate(perMinute float64, burst int) Option {
	return func(s *Server) {
		if perMinute <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perMinute/60), burst)
	}
}

// WithMaxBody bounds request bodies. Default: 10 MiB.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// Server routes HTTP requests to the engine and pipeline.
type Server struct {
	engine   *engine.Engine
	pipeline *pipeline.Pipeline
	limiter  *rate.Limiter
	maxBody  int64
	mux      *http.ServeMux
}

// New creates a Server. p runs /v1/analyze and shares eng's components.
func New(eng *engine.Engine, p *pipeline.Pipeline, opts ...Option) *Server {
	s := &Server{
		engine:   eng,
		pipeline: p,
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 5),
		maxBody:  defaultMaxBody,
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /v1/extract", s.handleExtract)
	s.mux.HandleFunc("POST /v1/highlight", s.handleHighlight)
	s.mux.HandleFunc("POST /v1/clear", s.handleClear)
	s.mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the root handler with request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		writeError(w, err)
		return
	}
	doc, err := parsePage(req.HTML)
	if err != nil {
		writeError(w, err)
		return
	}

	eng := s.engine
	if req.IDMode != nil {
		mode := model.MatchText
		if *req.IDMode {
			mode = model.MatchID
		}
		eng = eng.WithMode(mode)
	}
	ext := eng.Extract(doc)

	resp := extractResponse{Text: ext.Payload, Segments: ext.Segments, Truncated: ext.Truncated}
	if resp.Segments == nil {
		resp.Segments = []model.Segment{}
	}
	if eng.Mode() == model.MatchID {
		if resp.HTML, err = doc.HTML(); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		writeError(w, err)
		return
	}
	doc, err := parsePage(req.HTML)
	if err != nil {
		writeError(w, err)
		return
	}
	count := s.engine.Highlight(doc, req.Spans)
	s.writePage(w, doc, count)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		writeError(w, err)
		return
	}
	doc, err := parsePage(req.HTML)
	if err != nil {
		writeError(w, err)
		return
	}
	count := s.engine.Clear(doc)
	s.writePage(w, doc, count)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		w.Header().Set("Retry-After", "2")
		writeError(w, &httpError{Code: http.StatusTooManyRequests, Message: "too many analysis requests"})
		return
	}

	var req analyzeRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		writeError(w, err)
		return
	}

	var (
		report model.Report
		err    error
	)
	switch {
	case req.HTML != "" && req.URL != "":
		writeError(w, &httpError{Code: http.StatusBadRequest, Message: "send either html or url, not both"})
		return
	case req.URL != "":
		// Restricted pages fall through so the report says why; other
		// non-web targets would read local files on the caller's behalf.
		if connector.CheckTarget(req.URL) == nil && connector.Scheme(req.URL) != "http" && connector.Scheme(req.URL) != "https" {
			writeError(w, &httpError{Code: http.StatusBadRequest, Message: "url must be http or https"})
			return
		}
		report, err = s.pipeline.Analyze(r.Context(), req.URL)
	case req.HTML != "":
		doc, perr := parsePage(req.HTML)
		if perr != nil {
			writeError(w, perr)
			return
		}
		report, err = s.pipeline.AnalyzeDocument(r.Context(), "inline", doc)
	default:
		writeError(w, &httpError{Code: http.StatusBadRequest, Message: "html or url is required"})
		return
	}

	writeJSON(w, statusFor(err), report)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   config.Version,
		Providers: classifier.Providers(),
	})
}

func (s *Server) writePage(w http.ResponseWriter, doc *dom.Document, count int) {
	out, err := doc.HTML()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{HTML: out, Count: count})
}

func parsePage(src string) (*dom.Document, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &httpError{Code: http.StatusBadRequest, Message: "html is required"}
	}
	doc, err := dom.ParseString(src)
	if err != nil {
		return nil, &httpError{Code: http.StatusBadRequest, Message: "invalid html: " + err.Error()}
	}
	return doc, nil
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	switch pipeline.Kind(err) {
	case "":
		return http.StatusOK
	case pipeline.KindBusy:
		return http.StatusConflict
	case pipeline.KindRestricted:
		return http.StatusForbidden
	case pipeline.KindExtractionEmpty:
		return http.StatusUnprocessableEntity
	case pipeline.KindTransport, pipeline.KindParse:
		return http.StatusBadGateway
	case pipeline.KindNoAPIKey:
		return http.StatusServiceUnavailable
	case pipeline.KindCanceled:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests tags each request with an id and logs it once served.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start))
	})
}
