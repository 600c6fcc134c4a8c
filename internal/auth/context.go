package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/modelify-app/modelify-backend/internal/auth/domain"
)

const (
	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
	CtxIdentity  = "identity"
)

// UserID extracts the authenticated user's id from the Gin context.
// This is set by RequireUser.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserEmail))
}

// CurrentIdentity returns the full identity record, or nil outside an
// authenticated request.
func CurrentIdentity(c *gin.Context) *domain.Identity {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*domain.Identity)
	return id
}
