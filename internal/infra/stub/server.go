// File: internal/infra/stub/server.go
package stub

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/capgarrick/deepfake-detector/internal/domain/model"
	"github.com/capgarrick/deepfake-detector/internal/infra/metrics"
	redisinfra "github.com/capgarrick/deepfake-detector/internal/infra/redis"
)

const (
	chatRateLimit  = 30
	chatRateWindow = time.Minute
)

// Server is the development backend: GuardBot behind the chat routes and the
// canned analyzer behind the analysis routes. Cache and limiter are optional;
// without Redis the stub simply recomputes and never throttles.
type Server struct {
	bot      *GuardBot
	analyzer *Analyzer
	sessions *SessionStore
	cache    *redisinfra.ResultCache
	limiter  *redisinfra.RateLimiter
	log      *zerolog.Logger
}

func NewServer(bot *GuardBot, analyzer *Analyzer, sessions *SessionStore, cache *redisinfra.ResultCache, limiter *redisinfra.RateLimiter, logger *zerolog.Logger) *Server {
	return &Server{
		bot:      bot,
		analyzer: analyzer,
		sessions: sessions,
		cache:    cache,
		limiter:  limiter,
		log:      logger,
	}
}

// Routes assembles the router with the shared middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID(s.log))
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))
	r.Use(Timeout(2 * time.Minute))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/chat/welcome", s.handleWelcome)
	r.Get("/api/chat/tips", s.handleTips)
	r.With(RateLimit(s.limiter, chatRateLimit, chatRateWindow, s.log)).
		Post("/api/chat", s.handleChat)

	r.Post("/api/analyze/full", s.handleAnalyze("full", s.analyzer.Full))
	r.Post("/api/analyze/video", s.handleAnalyze("video", s.analyzer.Video))
	r.Post("/api/analyze/audio", s.handleAnalyze("audio", s.analyzer.Audio))

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     s.bot.Greeting(),
		"suggestions": suggestionsFor(""),
		"quick_tips":  s.bot.QuickTips(),
	})
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"tips":    s.bot.QuickTips(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "message is required",
		})
		return
	}

	reply := s.bot.Respond(req.Message)
	count := s.sessions.Touch(clientID(r))
	metrics.SetActiveSessions(s.sessions.Len())

	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"response":           reply.Text,
		"topic":              reply.Topic,
		"conversation_count": count,
		"suggestions":        reply.Suggestions,
	})
}

// handleAnalyze wraps one analyzer pipeline: multipart in, canned JSON out,
// with the result cached per content digest when Redis is around.
func (s *Server) handleAnalyze(route string, run func(string, []byte) (map[string]any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "file field is required"})
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, model.MaxUploadBytes+1))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to read upload"})
			return
		}

		key := route + ":" + Digest(data)
		if s.cache != nil {
			if payload, ok := s.cache.Get(r.Context(), key); ok {
				writeJSON(w, http.StatusOK, payload)
				return
			}
		}

		// A short pause so clients exercise their progress display.
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
			return
		}

		payload, err := run(hdr.Filename, data)
		if err != nil {
			var ae *apiError
			if errors.As(err, &ae) {
				if ae.Reason != "" {
					metrics.IncAnalysisRejection(ae.Reason)
				}
				writeJSON(w, ae.Status, map[string]any{"error": ae.Msg})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "analysis failed"})
			return
		}

		if s.cache != nil {
			if err := s.cache.Store(r.Context(), key, payload); err != nil {
				s.log.Warn().Err(err).Msg("Result cache store failed")
			}
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
