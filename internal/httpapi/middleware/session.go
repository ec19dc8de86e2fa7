package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/car-advisor/internal/common"
)

const SessionIDKey = "session_id"

// TokenParser returns the session id carried by a bearer token.
type TokenParser interface {
	Parse(token string) (string, error)
}

// SessionRequired rejects requests without a valid "Authorization: Bearer <token>".
func SessionRequired(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(h, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			c.Abort()
			common.Fail(c, http.StatusUnauthorized, 40100, "missing session token")
			return
		}
		sid, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.Abort()
			common.Fail(c, http.StatusUnauthorized, 40101, "invalid session token")
			return
		}
		c.Set(SessionIDKey, sid)
		c.Next()
	}
}

func SessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(SessionIDKey)
	if !ok {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok && sid != ""
}
