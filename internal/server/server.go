// Package server exposes analysis and derivation over HTTP.
//
// Routes:
//
//	GET /healthz                           build info
//	GET /v1/shapes/{code}                  structural analysis
//	GET /v1/shapes/{code}/derivation       derivation chain as JSON
//	GET /v1/shapes/{code}/derivation.svg   derivation chart
//	GET /metrics                           Prometheus metrics
//
// {code} is a shape code or a 0x-prefixed index. Errors are JSON objects
// with "code" and "error" fields and a status from errors.HTTPStatus.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/shapereach/pkg/buildinfo"
	"github.com/matzehuels/shapereach/pkg/cache"
	"github.com/matzehuels/shapereach/pkg/derive"
	errs "github.com/matzehuels/shapereach/pkg/errors"
	"github.com/matzehuels/shapereach/pkg/render"
	"github.com/matzehuels/shapereach/pkg/shape"
)

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 10 * time.Second

// Config wires a Server.
type Config struct {
	Addr    string
	Service *derive.Service

	// Gatherer backs /metrics. Nil uses prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	svc      *derive.Service
	addr     string
	gatherer prometheus.Gatherer
	logger   *log.Logger
	router   chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	s := &Server{
		svc:      cfg.Service,
		addr:     cfg.Addr,
		gatherer: cfg.Gatherer,
		logger:   cfg.Logger,
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1/shapes/{code}", func(r chi.Router) {
		r.Get("/", s.analyze)
		r.Get("/derivation", s.derivation)
		r.Get("/derivation.svg", s.chart)
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"width":  s.svc.Walker.Codec.Width,
		"height": s.svc.Walker.Codec.MaxHeight,
	})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	sh, err := s.parse(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, hit, err := s.svc.Analyze(r.Context(), sh)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) derivation(w http.ResponseWriter, r *http.Request) {
	sh, err := s.parse(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, hit, err := s.svc.Derive(r.Context(), sh)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, res)
}

// chart serves the rendered derivation, cached as an artifact keyed by the
// shape index.
func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sh, err := s.parse(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	idx, err := sh.Encode()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	key := s.svc.Keyer.ArtifactKey(idx, render.FormatSVG, s.svc.KeyOpts)
	svg, hit, err := s.svc.Cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "err", err)
	}
	if !hit {
		res, _, err := s.svc.Derive(ctx, sh)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if svg, err = render.Chart(res, render.FormatSVG, render.Options{Detailed: true}); err != nil {
			s.fail(w, r, err)
			return
		}
		if err := s.svc.Cache.Set(ctx, key, svg, cache.TTLArtifact); err != nil {
			s.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}

	setCacheHeader(w, hit)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) parse(r *http.Request) (shape.Shape, error) {
	raw := chi.URLParam(r, "code")
	code, err := url.PathUnescape(raw)
	if err != nil {
		return shape.Shape{}, errs.Wrap(errs.ErrCodeInvalidShape, err, "bad shape code %q", raw)
	}
	return s.svc.Parse(code)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
	}
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{"code": string(code), "error": errs.UserMessage(err)})
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
