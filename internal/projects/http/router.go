package http

import (
	"github.com/gin-gonic/gin"
)

// Register mounts project routes on an authenticated group.
func (h *Handler) Register(rg gin.IRouter) {
	rg.POST("/projects", h.create)
	rg.GET("/projects", h.list)
	rg.GET("/projects/:id", h.get)
	rg.PUT("/projects/:id", h.update)
	rg.PUT("/projects/:id/status", h.updateStatus)
	rg.POST("/projects/:id/quote", h.createQuote)
	rg.POST("/projects/:id/pay", h.pay)
}
