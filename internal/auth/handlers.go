package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler implements the login, callback and logout endpoints of the
// authorization code flow.
type Handler struct {
	auth       *Authenticator
	revoker    *SessionRevoker
	logger     *slog.Logger
	baseURL    string
	sessionTTL time.Duration
}

func NewHandler(a *Authenticator, revoker *SessionRevoker, logger *slog.Logger, baseURL string, sessionTTL time.Duration) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:       a,
		revoker:    revoker,
		logger:     logger,
		baseURL:    baseURL,
		sessionTTL: sessionTTL,
	}
}

// Register attaches the auth routes to the engine root.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/login", h.Login)
	r.GET("/callback", h.Callback)
	r.GET("/logout", h.Logout)
}

// Login stashes a CSRF state in the session and redirects to the tenant's
// authorize endpoint.
func (h *Handler) Login(c *gin.Context) {
	state := uuid.NewString()

	session := sessions.Default(c)
	session.Set(sessionKeyState, state)
	if err := session.Save(); err != nil {
		h.logger.Error("saving login state failed", "error", err)
		c.String(http.StatusInternalServerError, "login failed")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.auth.AuthCodeURL(state))
}

// Callback completes the code flow: state check, code exchange, ID token
// verification. A verified token without a subject claim does not produce a
// session. Lands on /records.
func (h *Handler) Callback(c *gin.Context) {
	session := sessions.Default(c)

	state, _ := session.Get(sessionKeyState).(string)
	session.Delete(sessionKeyState)
	if state == "" || c.Query("state") != state {
		h.logger.Warn("callback state mismatch")
		c.String(http.StatusBadRequest, "invalid state parameter")
		return
	}

	claims, err := h.auth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.logger.Error("code exchange failed", "error", err)
		c.String(http.StatusUnauthorized, "authentication failed")
		return
	}

	ident, ok := ResolveIdentity(claims)
	if !ok {
		h.logger.Warn("id token carries no subject claim")
		c.String(http.StatusUnauthorized, "authentication failed")
		return
	}

	if err := StartSession(c, ident, uuid.NewString()); err != nil {
		h.logger.Error("saving session failed", "error", err)
		c.String(http.StatusInternalServerError, "login failed")
		return
	}

	h.logger.Info("user logged in", "subject", ident.Subject)
	c.Redirect(http.StatusSeeOther, "/records")
}

// Logout revokes the session id, clears the cookie and sends the browser to
// the tenant's RP-initiated logout, which returns to the home page.
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)

	if sid, _ := session.Get(sessionKeyID).(string); sid != "" {
		if err := h.revoker.Revoke(c.Request.Context(), sid, h.sessionTTL); err != nil {
			h.logger.Error("session revocation failed", "error", err)
		}
	}

	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.logger.Error("clearing session failed", "error", err)
	}

	returnTo := h.baseURL + "/?auth0logout=true"
	c.Redirect(http.StatusTemporaryRedirect, h.auth.LogoutURL(returnTo))
}
