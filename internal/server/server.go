package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/RiftRunner_Go/internal/handler"
	"github.com/osse101/RiftRunner_Go/internal/leaderboard"
	"github.com/osse101/RiftRunner_Go/internal/logger"
	"github.com/osse101/RiftRunner_Go/internal/meta"
	"github.com/osse101/RiftRunner_Go/internal/metrics"
	"github.com/osse101/RiftRunner_Go/internal/run"
	"github.com/osse101/RiftRunner_Go/internal/state"
)

// Options holds listener and middleware settings
type Options struct {
	Port             int
	APIKey           string
	TrustedProxies   []string
	RateLimit        RateLimit
	LeaderboardLimit int
}

// Services are the domain services exposed over HTTP
type Services struct {
	Store       handler.Pinger
	Meta        meta.Service
	Run         run.Service
	Leaderboard leaderboard.Service
	State       state.Service
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
			ReadTimeout:       ReadTimeout,
			WriteTimeout:      WriteTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter builds the middleware stack and routes.
// Chi middleware executes in order defined (outermost to innermost)
func NewRouter(opts Options, svc Services) http.Handler {
	r := chi.NewRouter()

	detector := NewSuspiciousActivityDetector(opts.RateLimit)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.Store))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	metaHandler := handler.NewMetaHandler(svc.Meta, opts.LeaderboardLimit)
	runHandler := handler.NewRunHandler(svc.Run)
	boardHandler := handler.NewLeaderboardHandler(svc.Leaderboard, opts.LeaderboardLimit)
	stateHandler := handler.NewStateHandler(svc.State)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handler.IdentityMiddleware)

		r.Route("/meta", func(r chi.Router) {
			r.Get("/", metaHandler.HandleGetMeta)
			r.Post("/perk/equip", metaHandler.HandleEquipPerk)
		})

		r.Route("/run", func(r chi.Router) {
			r.Post("/start", runHandler.HandleStartRun)
			r.Post("/complete", runHandler.HandleCompleteRun)
		})

		r.Get("/leaderboard", boardHandler.HandleGetLeaderboard)
		r.Get("/leaderboard/challenge", boardHandler.HandleGetChallengeLeaderboard)
		r.Post("/score", boardHandler.HandleSubmitScore)

		r.Get("/state", stateHandler.HandleGetState)
		r.Post("/state", stateHandler.HandlePutState)
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func skipLogging(path string) bool {
	for _, prefix := range unloggedPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start blocks serving until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	logger.Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for in-process tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
