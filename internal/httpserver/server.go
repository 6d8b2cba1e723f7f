// Package httpserver serves Topical Guide pages over HTTP. Every browser
// session owns a page shell; requests drive the shell's router and the
// settled page is rendered as HTML.
package httpserver

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/router"
	"github.com/tinytelemetry/topicalguide/internal/shell"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

// Options configure a Server.
type Options struct {
	Addr     string
	Registry *view.Registry
	Feed     *feed.Client
	// Shell builds the page options for a session backed by store.
	Shell func(store model.KVStore) shell.Options
	// State returns the persistent state of a session. Nil keeps state in
	// memory for the life of the session.
	State func(sessionID string) model.KVStore

	RenderTimeout time.Duration
	SessionTTL    time.Duration
	MaxSessions   int
}

// Server provides the web front end.
type Server struct {
	opts      Options
	sessions  *sessions
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a web server.
func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = "0.0.0.0:8080"
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = model.DefaultRenderTimeout
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = model.DefaultSessionTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = model.DefaultMaxSessions
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	s.sessions = newSessions(opts.MaxSessions, opts.SessionTTL, s.newShell)
	return s
}

func (s *Server) newShell(id string) (*shell.Shell, error) {
	var store model.KVStore
	if s.opts.State != nil {
		store = s.opts.State(id)
	} else {
		store = state.NewMemoryStore()
	}
	state.ClearSettings(store)
	return shell.New(s.opts.Shell(store))
}

// Handler builds the gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(pageTemplates)

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/menu", s.handleMenu)
	r.GET("/api/route", s.handleRoute)

	pages := r.Group("/", s.withSession)
	pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/v/") })
	pages.GET("/v/*route", s.handlePage)
	pages.GET("/help", s.handleHelp)
	pages.POST("/select", s.handleSelect)
	pages.POST("/favorites/toggle", s.handleFavorite)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop shuts the server down and closes every session.
func (s *Server) Stop() error {
	s.cancel()
	var err error
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.server.Shutdown(ctx)
	}
	s.sessions.purge()
	return err
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"sessions": s.sessions.len(),
	})
}

func (s *Server) handleMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"root":  s.opts.Registry.Root().Name,
		"items": s.opts.Registry.BuildMenu(),
	})
}

func (s *Server) handleRoute(c *gin.Context) {
	frag := c.Query("fragment")
	r, err := router.Parse(frag)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	known := func(name string) bool { return s.opts.Registry.Resolve(name).Found() }
	c.JSON(http.StatusOK, gin.H{
		"kind":            r.Kind(known).String(),
		"view":            r.View,
		"dataset":         r.Dataset,
		"analysis":        r.Analysis,
		"params":          r.Params,
		"topic":           r.Topic,
		"document":        r.Document,
		"topicNameScheme": r.TopicNameScheme,
		"settings":        r.Settings,
		"canonical":       router.Format(r),
	})
}

// settle waits for the session's page to finish outstanding work. Pages
// still loading after the render timeout are shown as they are.
func (s *Server) settle(c *gin.Context, sess *session) (shell.Snapshot, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.RenderTimeout)
	defer cancel()
	if err := sess.shell.Idle(ctx); err != nil {
		log.Printf("httpserver: session %s: page not settled: %v", sess.id, err)
	}
	return sess.shell.Snapshot()
}

func (s *Server) handlePage(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	frag := "#" + c.Param("route")
	if q := c.Request.URL.RawQuery; q != "" {
		frag += "?" + q
	}
	sess.shell.Navigate(frag)
	snap, err := s.settle(c, sess)
	if err != nil {
		s.unavailable(c, err)
		return
	}
	body, err := rewriteLinks(snap.HTML)
	if err != nil {
		c.String(http.StatusInternalServerError, "render page: %v", err)
		return
	}
	c.HTML(http.StatusOK, "page", gin.H{
		"Title":    snap.Title,
		"Body":     template.HTML(body),
		"Fragment": snap.Fragment,
	})
}

func (s *Server) handleHelp(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	var help, title, frag string
	err := sess.shell.Do(func(p *shell.Page) {
		help = p.Help()
		title = p.Title()
		frag = p.Router().Fragment()
	})
	if err != nil {
		s.unavailable(c, err)
		return
	}
	c.HTML(http.StatusOK, "help", gin.H{
		"Title": title,
		"Body":  template.HTML(help),
		"Back":  pageURL(frag),
	})
}

var selectFields = []state.Field{
	state.FieldDataset, state.FieldAnalysis, state.FieldTopic,
	state.FieldDocument, state.FieldTopicNameScheme, state.FieldView,
}

func (s *Server) handleSelect(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	u := state.Update{}
	for _, f := range selectFields {
		if v, ok := c.GetPostForm(string(f)); ok {
			u[f] = v
		}
	}
	var setErr error
	err := sess.shell.Do(func(p *shell.Page) { setErr = p.App().Selection.Set(u) })
	if err != nil {
		s.unavailable(c, err)
		return
	}
	if setErr != nil {
		c.String(http.StatusConflict, "select: %v", setErr)
		return
	}
	s.redirectToPage(c, sess)
}

func (s *Server) handleFavorite(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	kind := state.Kind(c.PostForm("kind"))
	id := c.PostForm("id")
	if id == "" {
		c.String(http.StatusBadRequest, "missing id")
		return
	}
	var favErr error
	err := sess.shell.Do(func(p *shell.Page) { _, favErr = p.App().Favorites.Toggle(kind, id) })
	if err != nil {
		s.unavailable(c, err)
		return
	}
	switch {
	case errors.Is(favErr, state.ErrNoContext), errors.Is(favErr, state.ErrUnknownKind):
		c.String(http.StatusBadRequest, "favorite: %v", favErr)
		return
	case favErr != nil:
		c.String(http.StatusInternalServerError, "favorite: %v", favErr)
		return
	}
	s.redirectToPage(c, sess)
}

// redirectToPage sends the browser to the page's current fragment.
func (s *Server) redirectToPage(c *gin.Context, sess *session) {
	snap, err := s.settle(c, sess)
	if err != nil {
		s.unavailable(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, pageURL(snap.Fragment))
}

func (s *Server) unavailable(c *gin.Context, err error) {
	log.Printf("httpserver: %v", err)
	c.String(http.StatusServiceUnavailable, "the page is no longer available, please reload")
}

// pageURL maps a fragment onto the /v/ path space.
func pageURL(fragment string) string {
	return "/v/" + strings.TrimPrefix(strings.TrimPrefix(fragment, "#"), "/")
}
