package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modelify-app/modelify-backend/internal/auth"
	"github.com/modelify-app/modelify-backend/internal/users/domain"
	"github.com/modelify-app/modelify-backend/internal/users/service"
)

type Handler struct {
	svc *service.UserService
}

func NewHandler(svc *service.UserService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	user, err := h.svc.Create(c.Request.Context(), domain.CreateUserRequest{
		ID:            req.ID,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          req.Role,
		CompanyName:   req.CompanyName,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		PostalCode:    req.PostalCode,
	})
	if err != nil {
		log.Printf("users: create %s: %v", req.ID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (h *Handler) me(c *gin.Context) {
	identity := auth.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	user, err := h.svc.Profile(c.Request.Context(), identity)
	if err != nil {
		log.Printf("users: profile %s: %v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) list(c *gin.Context) {
	callerID := auth.UserID(c)

	items, err := h.svc.List(c.Request.Context(), callerID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		log.Printf("users: list by %s: %v", callerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": items, "total": len(items)})
}
