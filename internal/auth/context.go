package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// CtxSubject holds the verified subject claim of the caller.
	CtxSubject = "auth_subject"
	// CtxName holds the caller's display name claim, when present.
	CtxName = "auth_name"
)

// SetIdentity stores the resolved identity in the gin context for handlers
// downstream of the auth middlewares.
func SetIdentity(c *gin.Context, ident Identity) {
	c.Set(CtxSubject, ident.Subject)
	c.Set(CtxName, ident.Name)
}

// CurrentIdentity extracts the identity placed in the gin context by the
// session or bearer middleware. The zero Identity means "no identity".
func CurrentIdentity(c *gin.Context) Identity {
	return Identity{
		Subject: strings.TrimSpace(c.GetString(CtxSubject)),
		Name:    c.GetString(CtxName),
	}
}

// CurrentDisplayName is the greeting-only name for the current request.
// Falls back to "User"; never use it for ownership decisions.
func CurrentDisplayName(c *gin.Context) string {
	if name := c.GetString(CtxName); name != "" {
		return name
	}
	return "User"
}
