package http

import (
	"github.com/gin-gonic/gin"
)

// Register mounts user routes. Creation is unauthenticated (signup sync from
// the auth provider); reads require a bearer token.
func (h *Handler) Register(public, authed gin.IRouter) {
	public.POST("/users", h.create)
	authed.GET("/users/me", h.me)
	authed.GET("/users", h.list)
}
