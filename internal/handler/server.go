package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wedding-invitation/internal/config"
	"wedding-invitation/internal/imagecache"
	"wedding-invitation/internal/messaging"
	"wedding-invitation/internal/origin"
	"wedding-invitation/internal/platform"
	"wedding-invitation/internal/urlparams"
)

// Server exposes the invitation sessions over HTTP and WebSocket
type Server struct {
	cfg      *config.Config
	origins  *origin.Validator
	parser   *urlparams.Parser
	store    platform.DemoStore
	notifier platform.Notifier
	images   *imagecache.Cache
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// Deps are the collaborators shared by every session
type Deps struct {
	Store    platform.DemoStore
	Notifier platform.Notifier
	Images   *imagecache.Cache
}

// NewServer creates a server for the given configuration
func NewServer(cfg *config.Config, deps Deps, log zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		origins:  origin.NewValidator(cfg.TrustedOrigins),
		parser:   urlparams.NewParser(log),
		store:    deps.Store,
		notifier: deps.Notifier,
		images:   deps.Images,
		log:      log.With().Str("component", "HTTP").Logger(),
	}
	if s.images == nil {
		s.images = imagecache.New(cfg.ImageCacheSize)
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

// TargetOrigin is the origin outbound messages are addressed to
func (s *Server) TargetOrigin() string {
	return s.origins.Target()
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/api/session", s.session)
	r.Get("/ws", s.bridge)
	r.Get("/images/{key}", s.image)
	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("Request completed")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// checkOrigin accepts trusted page origins and same-host pages. Clients that
// send no Origin header are not browsers and are let through.
func (s *Server) checkOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	if o == "" {
		return true
	}
	if s.origins.Trusted(o, s.cfg.CurrentOrigin) {
		return true
	}
	host := o
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	return strings.EqualFold(host, r.Host)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.cfg.TemplateVersion})
}

// session parses the query once and returns the standalone view
func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	res := s.parser.Parse(r.URL.RawQuery)
	ch := messaging.NewChannel(standalone{}, s.origins, s.cfg.CurrentOrigin, s.log)
	agg, err := platform.New(res.PlatformData, ch, platform.WithLogger(s.log))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	defer agg.Close()

	body := map[string]any{"state": agg.State()}
	if res.Err != nil {
		body["warning"] = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) image(w http.ResponseWriter, r *http.Request) {
	img, ok := s.images.Get(chi.URLParam(r, "key"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(img.Data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
