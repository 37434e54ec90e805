// Package api exposes the aggregation service over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	infrajwt "github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/service"
)

// Handler holds the HTTP request handlers.
type Handler struct {
	content *service.ContentService
	logger  logger.Logger
}

// NewHandler creates a handler backed by content.
func NewHandler(content *service.ContentService, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{content: content, logger: log}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// BlogList handles GET /api/v1/blog.
func (h *Handler) BlogList(c *gin.Context) {
	q := parseQuery(c)
	result, err := h.content.Page(c.Request.Context(), domain.ProviderBlog, q.filters, q.page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pagination": result.Pagination,
		"posts":      q.present(result.Records),
		"categories": result.Aggregates,
		"tags":       result.Tags,
		"skipped":    result.Skipped,
	})
}

// BlogCategories handles GET /api/v1/blog/categories.
func (h *Handler) BlogCategories(c *gin.Context) {
	cats, err := h.content.Categories(c.Request.Context(), domain.ProviderBlog)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// BlogPost handles GET /api/v1/blog/:slug.
func (h *Handler) BlogPost(c *gin.Context) {
	q := parseQuery(c)
	d, err := h.content.Detail(c.Request.Context(), domain.ProviderBlog, c.Param("slug"), q.related)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     q.one(&d.Record),
		"related":  q.present(d.Related),
		"previous": q.one(d.Navigation.Previous),
		"next":     q.one(d.Navigation.Next),
	})
}

// NewsList handles GET /api/v1/news.
func (h *Handler) NewsList(c *gin.Context) {
	q := parseQuery(c)
	result, err := h.content.Page(c.Request.Context(), domain.ProviderNews, q.filters, q.page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pagination": result.Pagination,
		"data":       q.present(result.Records),
		"aggregates": result.Aggregates,
		"skipped":    result.Skipped,
	})
}

// ToolList handles GET /api/v1/tools.
func (h *Handler) ToolList(c *gin.Context) {
	q := parseQuery(c)
	result, err := h.content.Page(c.Request.Context(), domain.ProviderTools, q.filters, q.page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pagination": result.Pagination,
		"tools":      q.present(result.Records),
		"categories": result.Aggregates,
		"skipped":    result.Skipped,
	})
}

// Tool handles GET /api/v1/tools/:slug.
func (h *Handler) Tool(c *gin.Context) {
	q := parseQuery(c)
	d, err := h.content.Detail(c.Request.Context(), domain.ProviderTools, c.Param("slug"), q.related)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tool":    q.one(&d.Record),
		"related": q.present(d.Related),
	})
}

// Content handles GET /api/v1/content/:provider with the full result.
func (h *Handler) Content(c *gin.Context) {
	p, err := domain.ParseProvider(c.Param("provider"))
	if err != nil {
		h.fail(c, err)
		return
	}
	q := parseQuery(c)
	result, err := h.content.Page(c.Request.Context(), p, q.filters, q.page)
	if err != nil {
		h.fail(c, err)
		return
	}
	result.Records = q.present(result.Records)
	c.JSON(http.StatusOK, result)
}

// PurgeCache handles DELETE /api/v1/admin/cache/:provider.
func (h *Handler) PurgeCache(c *gin.Context) {
	p, err := domain.ParseProvider(c.Param("provider"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err = h.content.Purge(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}
	if claims, ok := infrajwt.ClaimsFrom(c); ok {
		h.logger.Info("Cache purged by admin",
			logger.Provider(p.String()),
			logger.String("subject", claims.Subject),
		)
	}
	c.JSON(http.StatusOK, gin.H{"provider": p, "purged": true})
}

// fail maps err to a status. Unexpected errors get a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	status, code, msg := http.StatusInternalServerError, "AGGREGATION_ERROR", "Failed to load content"

	switch {
	case errors.Is(err, domain.ErrUnknownProvider):
		status, code, msg = http.StatusNotFound, "UNKNOWN_PROVIDER", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = http.StatusNotFound, "NOT_FOUND", "Content not found"
	case errors.Is(err, service.ErrNotCached):
		status, code, msg = http.StatusConflict, "NOT_CACHED", err.Error()
	default:
		logger.FromContext(c.Request.Context()).Error("Request failed",
			logger.String("path", c.FullPath()),
			logger.Error(err),
		)
	}

	c.JSON(status, ErrorResponse{
		Error:     msg,
		Code:      code,
		Timestamp: time.Now(),
	})
}
