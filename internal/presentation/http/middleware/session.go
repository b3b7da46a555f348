package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/unquiedeveloper/sg-store2/internal/config"
	"github.com/unquiedeveloper/sg-store2/pkg/utils"
)

// Context keys set by SessionMiddleware
const (
	ContextSessionID = "session_id"
	contextSession   = "session"
)

const sessionIDKey = "sid"

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// NewSessionStore creates the signed cookie store holding session ids and
// flash messages.
func NewSessionStore(cfg *config.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SessionMiddleware loads the cookie session and makes sure it carries a
// session id, which keys the per-session bill list state.
func SessionMiddleware(store sessions.Store, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A cookie that fails verification yields a fresh session.
		sess, _ := store.Get(c.Request, name)

		sid, _ := sess.Values[sessionIDKey].(string)
		if !utils.IsUUID(sid) {
			sid = utils.NewID()
			sess.Values[sessionIDKey] = sid
			if err := sess.Save(c.Request, c.Writer); err != nil {
				_ = c.Error(err)
			}
		}

		c.Set(ContextSessionID, sid)
		c.Set(contextSession, sess)
		c.Next()
	}
}

// GetSessionID returns the id of the caller's session.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

func getSession(c *gin.Context) *sessions.Session {
	v, ok := c.Get(contextSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*sessions.Session)
	return sess
}

// AddFlash queues a notification for the next page render.
func AddFlash(c *gin.Context, kind, message string) {
	sess := getSession(c)
	if sess == nil {
		return
	}
	sess.AddFlash(message, kind)
	if err := sess.Save(c.Request, c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// Flashes pops all queued notifications, errors last.
func Flashes(c *gin.Context) []Flash {
	sess := getSession(c)
	if sess == nil {
		return nil
	}

	var out []Flash
	for _, kind := range []string{FlashSuccess, FlashError} {
		for _, f := range sess.Flashes(kind) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(c.Request, c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
	return out
}
