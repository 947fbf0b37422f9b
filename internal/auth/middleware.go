package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	apihttp "github.com/medicalregister/go-backend/internal/api/http"
)

// Session keys written at login and read by the middlewares below.
const (
	sessionKeySubject = "sub"
	sessionKeyName    = "name"
	sessionKeyID      = "sid"
	sessionKeyState   = "state"
)

// StartSession writes the logged-in profile into the session. Used by the
// callback handler and by test login stubs.
func StartSession(c *gin.Context, ident Identity, sid string) error {
	session := sessions.Default(c)
	session.Set(sessionKeySubject, ident.Subject)
	session.Set(sessionKeyName, ident.Name)
	session.Set(sessionKeyID, sid)
	return session.Save()
}

// RequireSession guards the server-rendered routes. Requests without a
// logged-in session, or whose session id has been revoked, are redirected to
// /login. On success the resolved identity is placed in the gin context.
func RequireSession(revoker *SessionRevoker, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		session := sessions.Default(c)

		sub, _ := session.Get(sessionKeySubject).(string)
		if sub == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		if sid, _ := session.Get(sessionKeyID).(string); sid != "" {
			revoked, err := revoker.IsRevoked(c.Request.Context(), sid)
			if err != nil {
				logger.Error("session revocation check failed", "error", err)
				c.Redirect(http.StatusSeeOther, "/login")
				c.Abort()
				return
			}
			if revoked {
				session.Clear()
				session.Options(sessions.Options{Path: "/", MaxAge: -1})
				_ = session.Save()
				c.Redirect(http.StatusSeeOther, "/login")
				c.Abort()
				return
			}
		}

		name, _ := session.Get(sessionKeyName).(string)
		SetIdentity(c, Identity{Subject: sub, Name: name})
		c.Next()
	}
}

// OptionalSession populates the identity from the session when one exists but
// never blocks the request. Used by the public home page for its greeting.
func OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if sub, _ := session.Get(sessionKeySubject).(string); sub != "" {
			name, _ := session.Get(sessionKeyName).(string)
			SetIdentity(c, Identity{Subject: sub, Name: name})
		}
		c.Next()
	}
}

// RequireBearer guards the JSON API. It validates the Authorization bearer
// token against the tenant and stores the resolved identity in the gin
// context. A token whose claims carry no subject is rejected outright.
func RequireBearer(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			apihttp.Error(c, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			apihttp.Error(c, http.StatusUnauthorized, "invalid token")
			return
		}

		ident, ok := ResolveIdentity(claims)
		if !ok {
			apihttp.Error(c, http.StatusUnauthorized, "token carries no subject claim")
			return
		}

		SetIdentity(c, ident)
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
