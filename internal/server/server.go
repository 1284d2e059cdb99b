// Package server is the browser frontend: one builder session per browser,
// rendered with html/template.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/preset"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CookieName holds the browser's session id.
const CookieName = "vizzu_session"

// maxUpload bounds dataset uploads.
const maxUpload = 32 << 20

type entry struct {
	mu      sync.Mutex
	session *vizzubuilder.Session
	notice  string
	isError bool
	closed  bool

	// lastSeen is guarded by Server.mu.
	lastSeen time.Time
}

// close tears the session down once; requests still queued on the entry
// see closed and fetch a fresh session.
func (e *entry) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		e.session.Close()
	}
}

func closeEntries(entries []*entry) {
	for _, e := range entries {
		e.close()
	}
}

// flash stores a one-shot message shown on the next page render.
func (e *entry) flash(msg string, isError bool) {
	e.notice, e.isError = msg, isError
}

type dataset struct {
	source string
	data   *models.Dataset
}

// Server serves the builder UI.
type Server struct {
	opts    vizzubuilder.Options
	presets *preset.Set
	logger  *zap.Logger
	mux     *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*entry
	initial  *dataset
	now      func() time.Time
}

// New creates a server. presets is shared by every session.
func New(opts vizzubuilder.Options, presets *preset.Set, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		opts:     opts,
		presets:  presets,
		logger:   logger,
		mux:      http.NewServeMux(),
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.withSession(s.handleIndex))
	s.mux.HandleFunc("POST /upload", s.withSession(s.handleUpload))
	s.mux.HandleFunc("POST /filters", s.withSession(s.handleFilters))
	s.mux.HandleFunc("POST /select", s.withSession(s.handleSelect))
	s.mux.HandleFunc("GET /chart/{i}", s.withSession(s.handleChart))
	s.mux.HandleFunc("GET /chart/{i}/code", s.withSession(s.handleChartCode))
	s.mux.HandleFunc("POST /story/add/{i}", s.withSession(s.handleStoryAdd))
	s.mux.HandleFunc("POST /story/delete", s.withSession(s.handleStoryDelete))
	s.mux.HandleFunc("GET /story", s.withSession(s.handleStory))
	s.mux.HandleFunc("GET /story/download", s.withSession(s.handleStoryDownload))
	s.mux.HandleFunc("POST /story/share", s.withSession(s.handleStoryShare))
	s.mux.HandleFunc("GET /story/code", s.withSession(s.handleStoryCode))
	s.mux.HandleFunc("GET /api/charts.json", s.withSession(s.handleAPICharts))
	s.mux.HandleFunc("GET /api/story.json", s.withSession(s.handleAPIStory))
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// SetDataset makes ds the dataset of new sessions and reloads it into the
// existing ones. Sessions keep their story when the content is unchanged.
func (s *Server) SetDataset(source string, ds *models.Dataset) {
	s.mu.Lock()
	s.initial = &dataset{source: source, data: ds}
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		if !e.closed && e.session.LoadDataset(source, ds) {
			e.flash("Dataset "+source+" changed on disk; the story was reset.", false)
		}
		e.mu.Unlock()
	}
	s.logger.Info("Dataset published", zap.String("source", source), zap.Int("sessions", len(entries)))
}

// session returns the entry for the request's cookie, creating one (and
// setting the cookie) when needed. Creating a session first drops idle ones
// and, at the MaxSessions limit, the least recently used.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*entry, error) {
	var id string
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}

	s.mu.Lock()
	now := s.now()
	if e, ok := s.sessions[id]; ok {
		e.lastSeen = now
		s.mu.Unlock()
		return e, nil
	}

	victims := s.expireLocked(now)
	if limit := s.opts.Server.MaxSessions; limit > 0 {
		for len(s.sessions) >= limit {
			victims = append(victims, s.evictOldestLocked())
		}
	}
	sess, err := vizzubuilder.NewSession(s.opts, s.presets, s.logger)
	if err != nil {
		s.mu.Unlock()
		closeEntries(victims)
		return nil, err
	}
	if s.initial != nil {
		sess.LoadDataset(s.initial.source, s.initial.data)
	}
	id = uuid.NewString()
	e := &entry{session: sess, lastSeen: now}
	s.sessions[id] = e
	s.mu.Unlock()
	closeEntries(victims)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("Session created", zap.String("id", id), zap.Int("evicted", len(victims)))
	return e, nil
}

// expireLocked unlinks the sessions idle for longer than SessionTTL.
func (s *Server) expireLocked(now time.Time) []*entry {
	ttl := s.opts.Server.SessionTTL
	if ttl <= 0 {
		return nil
	}
	var out []*entry
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > ttl {
			out = append(out, e)
			delete(s.sessions, id)
		}
	}
	return out
}

func (s *Server) evictOldestLocked() *entry {
	var oldestID string
	var oldest *entry
	for id, e := range s.sessions {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	delete(s.sessions, oldestID)
	return oldest
}

// sweep closes the sessions idle for longer than SessionTTL.
func (s *Server) sweep() int {
	s.mu.Lock()
	victims := s.expireLocked(s.now())
	s.mu.Unlock()
	closeEntries(victims)
	if len(victims) > 0 {
		s.logger.Debug("Idle sessions closed", zap.Int("count", len(victims)))
	}
	return len(victims)
}

func (s *Server) sweepLoop(ctx context.Context) {
	interval := s.opts.Server.SessionTTL / 2
	if interval <= 0 {
		return
	}
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, e *entry)

// withSession serializes the requests of one browser.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for {
			e, err := s.session(w, r)
			if err != nil {
				s.logger.Error("Failed to create session", zap.Error(err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			e.mu.Lock()
			if e.closed {
				// Evicted while waiting; the next lookup creates a new session.
				e.mu.Unlock()
				continue
			}
			func() {
				defer e.mu.Unlock()
				h(w, r, e)
			}()
			return
		}
	}
}

// Close tears down every session.
func (s *Server) Close() {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.sessions))
	for id, e := range s.sessions {
		entries = append(entries, e)
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	closeEntries(entries)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		s.sweepLoop(sweepCtx)
	}()
	defer func() {
		stopSweep()
		<-sweepDone
	}()

	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("Listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if serveErr := <-errCh; !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}
	s.Close()
	return err
}
