package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"churchmap/internal/domain/entities"
	"churchmap/internal/importer"
	"churchmap/internal/listing"
	"churchmap/internal/repository"
	"churchmap/internal/services"
)

// ChurchHandler serves the directory endpoint that the data-access layer's
// remote client talks to.
type ChurchHandler struct {
	churchService *services.ChurchService
}

// NewChurchHandler creates a ChurchHandler.
func NewChurchHandler(churchService *services.ChurchService) *ChurchHandler {
	return &ChurchHandler{churchService: churchService}
}

// ListQuery is the query string of GET /.
//
// Go Learning Note — Query Binding:
// c.ShouldBindQuery maps ?page=2&limit=5 onto the `form` tags. A value that
// does not parse as an int fails the bind, so handlers never see garbage.
type ListQuery struct {
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
	SearchTerm    string `form:"searchTerm"`
	SortKey       string `form:"sortKey"`
	SortDirection string `form:"sortDirection"`
}

// List handles GET /.
func (h *ChurchHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := listing.Options{
		Page:          q.Page,
		Limit:         q.Limit,
		SearchTerm:    q.SearchTerm,
		SortKey:       entities.SortKey(q.SortKey),
		SortDirection: listing.SortDirection(q.SortDirection),
	}
	if !opts.SortKey.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sortKey " + strconv.Quote(q.SortKey)})
		return
	}

	page, err := h.churchService.List(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListAll handles GET /all.
func (h *ChurchHandler) ListAll(c *gin.Context) {
	churches, err := h.churchService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, churches)
}

// Create handles POST /. Any id in the body is replaced.
func (h *ChurchHandler) Create(c *gin.Context) {
	var church entities.Church
	if err := c.ShouldBindJSON(&church); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.churchService.Create(c.Request.Context(), church)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /:id.
func (h *ChurchHandler) Update(c *gin.Context) {
	var church entities.Church
	if err := c.ShouldBindJSON(&church); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.churchService.Update(c.Request.Context(), c.Param("id"), church)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /:id.
func (h *ChurchHandler) Delete(c *gin.Context) {
	if err := h.churchService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkCreate handles POST /bulk. The body is read the same way as an import
// file, so legacy records with imageUrl are accepted too.
func (h *ChurchHandler) BulkCreate(c *gin.Context) {
	churches, err := importer.Parse(c.Request.Body, importer.FormatJSON)
	if err != nil {
		writeError(c, err)
		return
	}

	count, err := h.churchService.BulkCreate(c.Request.Context(), churches)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"count": count})
}

// writeError maps repository sentinels onto status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "church not found"})
	case errors.Is(err, repository.ErrMalformedInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
