package httpserver

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tinytelemetry/topicalguide/internal/shell"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "tg_session"

const sessionKey = "tg.session"

// session is one browser's page. mu serializes the requests of a session so
// a navigation and the snapshot that follows it see the same page state.
type session struct {
	id    string
	shell *shell.Shell
	mu    sync.Mutex
}

type sessions struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *session]
	ttl   time.Duration
	open  func(id string) (*shell.Shell, error)
}

func newSessions(max int, ttl time.Duration, open func(string) (*shell.Shell, error)) *sessions {
	evict := func(id string, sess *session) {
		log.Printf("httpserver: closing session %s", id)
		// Closing waits for the page loop; never block the LRU lock on it.
		go sess.shell.Close()
	}
	return &sessions{
		cache: expirable.NewLRU[string, *session](max, evict, ttl),
		ttl:   ttl,
		open:  open,
	}
}

// get returns the session id, creating its page when it is new or expired.
// Every access extends the session's lifetime.
func (ss *sessions) get(id string) (*session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if sess, ok := ss.cache.Get(id); ok {
		ss.cache.Add(id, sess)
		return sess, nil
	}
	sh, err := ss.open(id)
	if err != nil {
		return nil, err
	}
	sess := &session{id: id, shell: sh}
	ss.cache.Add(id, sess)
	return sess, nil
}

func (ss *sessions) len() int { return ss.cache.Len() }

func (ss *sessions) purge() { ss.cache.Purge() }

// withSession attaches the caller's session, issuing a cookie when the
// request carries none or a malformed one.
func (s *Server) withSession(c *gin.Context) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(s.opts.SessionTTL.Seconds()), "/", "", false, true)

	sess, err := s.sessions.get(id)
	if err != nil {
		log.Printf("httpserver: open session %s: %v", id, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func sessionFrom(c *gin.Context) *session {
	return c.MustGet(sessionKey).(*session)
}
