package web

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccessKey = "success"
	flashErrorKey   = "error"
)

func flashSuccess(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, flashSuccessKey)
	_ = session.Save()
}

func flashError(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, flashErrorKey)
	_ = session.Save()
}

// popFlashes drains the one-shot messages set by a previous redirect.
func popFlashes(c *gin.Context) (success, errMsg string) {
	session := sessions.Default(c)
	if flashes := session.Flashes(flashSuccessKey); len(flashes) > 0 {
		success, _ = flashes[0].(string)
	}
	if flashes := session.Flashes(flashErrorKey); len(flashes) > 0 {
		errMsg, _ = flashes[0].(string)
	}
	_ = session.Save()
	return success, errMsg
}
