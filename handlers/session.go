package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessionCookieName = "rssz_session"
	sessionIDKey      = "id"
	sessionContextKey = "session_id"
)

// NewSessionStore creates the cookie store that identifies browser sessions.
func NewSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 7)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// SessionMiddleware makes sure every request carries a session id, issuing a
// cookie when the browser has none.
func SessionMiddleware(store sessions.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A cookie that fails to decode yields a fresh session.
		sess, _ := store.Get(c.Request, sessionCookieName)

		id, _ := sess.Values[sessionIDKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[sessionIDKey] = id
			if err := sess.Save(c.Request, c.Writer); err != nil {
				logger.Warn("Failed to save session", zap.Error(err))
			}
		}

		c.Set(sessionContextKey, id)
		c.Next()
	}
}

// sessionID returns the id set by SessionMiddleware. Requests without one share
// an anonymous session.
func sessionID(c *gin.Context) string {
	if id := c.GetString(sessionContextKey); id != "" {
		return id
	}
	return "anonymous"
}
