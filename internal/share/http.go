package share

import (
	"errors"
	"net/http"
	"strings"

	"github.com/abduss/imgdrive/internal/gallery"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts share management under an authenticated group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/share/create", handler.create)
	group.GET("/share/list", handler.list)
	group.POST("/share/delete", handler.revoke)
}

// RegisterPublicRoutes mounts the unauthenticated shared listing.
func RegisterPublicRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/s/:shareID/list", handler.sharedList)
}

type httpHandler struct {
	service *Service
}

// createRequest.Path is required; an explicit "" shares the root.
type createRequest struct {
	Path *string `json:"path"`
}

func (h *httpHandler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Path == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	record, err := h.service.Registry().Create(c.Request.Context(), *req.Path)
	if err != nil {
		writeError(c, err, "failed to create share")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"shareId": record.ID,
		"path":    record.Path,
		"url":     requestOrigin(c) + "/s/" + record.ID,
	})
}

func (h *httpHandler) list(c *gin.Context) {
	records, err := h.service.Registry().List(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list shares")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shares": records})
}

type revokeRequest struct {
	ShareID string `json:"shareId"`
}

func (h *httpHandler) revoke(c *gin.Context) {
	var req revokeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ShareID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shareId is required"})
		return
	}

	if err := h.service.Registry().Revoke(c.Request.Context(), req.ShareID); err != nil {
		writeError(c, err, "failed to delete share")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *httpHandler) sharedList(c *gin.Context) {
	page, pageSize := gallery.ParsePaging(c)
	result, err := h.service.ListSharedPath(c.Request.Context(), c.Param("shareID"), c.Query("prefix"), page, pageSize)
	if err != nil {
		writeError(c, err, "failed to list files")
		return
	}
	c.JSON(http.StatusOK, gallery.ListResponse{Success: true, Page: result})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "share not found"})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		gallery.WriteError(c, err, fallback)
	}
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}
