package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modelify-app/modelify-backend/internal/auth"
	"github.com/modelify-app/modelify-backend/internal/projects/domain"
	"github.com/modelify-app/modelify-backend/internal/projects/service"
	usersdomain "github.com/modelify-app/modelify-backend/internal/users/domain"
)

type Handler struct {
	lifecycle *service.Lifecycle
}

func NewHandler(lifecycle *service.Lifecycle) *Handler {
	return &Handler{lifecycle: lifecycle}
}

// respondError translates domain sentinels into HTTP statuses. Unknown
// errors are logged with context and surface as a generic 500.
func respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, usersdomain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation not allowed in current project state"})
	case errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
	case errors.Is(err, domain.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be between 0 and 100000"})
	case errors.Is(err, domain.ErrQuotaExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "active project limit reached"})
	default:
		log.Printf("projects: %s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing fields"})
		return
	}

	uploads, err := readUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded files"})
		return
	}

	userID := auth.UserID(c)
	p, rejected, err := h.lifecycle.Create(c.Request.Context(), userID, service.CreateInput{
		Title:                 req.Title,
		DescriptionClient:     req.DescriptionClient,
		Use:                   req.Use,
		Format:                req.Format,
		NbElements:            req.NbElements,
		DimensionLength:       req.DimensionLength,
		DimensionWidth:        req.DimensionWidth,
		DimensionHeight:       req.DimensionHeight,
		DimensionNoConstraint: req.DimensionNoConstraint,
		DetailLevel:           req.DetailLevel,
		DeadlineType:          req.DeadlineType,
		DeadlineDate:          req.DeadlineDate,
		Budget:                req.Budget,
	}, uploads)
	if err != nil {
		respondError(c, "create", err)
		return
	}

	resp := gin.H{
		"message":   "Demande de projet créée avec succès",
		"projectId": p.ID,
		"status":    "success",
	}
	if len(rejected) > 0 {
		resp["rejected_files"] = rejected
	}
	c.JSON(http.StatusCreated, resp)
}

// readUploads buffers the request's "files" parts. Size and type policy is
// the intake's job, not the handler's.
func readUploads(c *gin.Context) ([]service.UploadedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all is fine: files are optional.
		return nil, nil
	}

	headers := form.File["files"]
	uploads := make([]service.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, service.UploadedFile{
			Filename:     fh.Filename,
			DeclaredMime: fh.Header.Get("Content-Type"),
			Data:         data,
		})
	}
	return uploads, nil
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filterUser := c.Query("user_id")

	userID := auth.UserID(c)
	items, total, err := h.lifecycle.List(c.Request.Context(), userID, page, limit, filterUser)
	if err != nil {
		respondError(c, "list", err)
		return
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	totalPages := (total + limit - 1) / limit

	c.JSON(http.StatusOK, gin.H{
		"projects":    items,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages,
	})
}

func (h *Handler) get(c *gin.Context) {
	userID := auth.UserID(c)

	p, files, err := h.lifecycle.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, "get", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": p, "files": files})
}

func (h *Handler) update(c *gin.Context) {
	var req updateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing fields"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.lifecycle.Update(c.Request.Context(), userID, c.Param("id"), domain.UpdateProjectRequest{
		Title:                 req.Title,
		DescriptionClient:     req.DescriptionClient,
		Use:                   req.Use,
		Format:                req.Format,
		NbElements:            req.NbElements,
		DimensionLength:       req.DimensionLength,
		DimensionWidth:        req.DimensionWidth,
		DimensionHeight:       req.DimensionHeight,
		DimensionNoConstraint: req.DimensionNoConstraint,
		DetailLevel:           req.DetailLevel,
		DeadlineType:          req.DeadlineType,
		DeadlineDate:          req.DeadlineDate,
		Budget:                req.Budget,
	})
	if err != nil {
		respondError(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Projet mis à jour", "project": p})
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.lifecycle.SetStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, "update status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "project": p})
}

func (h *Handler) createQuote(c *gin.Context) {
	var req createQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price is required"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.lifecycle.Quote(c.Request.Context(), userID, c.Param("id"), req.Price)
	if err != nil {
		respondError(c, "create quote", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Devis envoyé",
		"project":         p,
		"stripe_quote_id": p.StripeQuoteID,
	})
}

func (h *Handler) pay(c *gin.Context) {
	userID := auth.UserID(c)

	p, url, err := h.lifecycle.Pay(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, "pay", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "status": p.Status})
}
