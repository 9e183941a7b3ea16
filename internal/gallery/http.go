package gallery

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListResponse is the wire shape of a listing page.
type ListResponse struct {
	Success bool `json:"success"`
	Page
}

// RegisterRoutes mounts gallery operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/upload", handler.upload)
	group.GET("/list", handler.list)
	group.POST("/delete", handler.delete)
	group.POST("/create-folder", handler.createFolder)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if h.service.cfg.MaxUploadBytes > 0 && fileHeader.Size > h.service.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read file"})
		return
	}
	defer src.Close()

	// one extra byte lets the service see an oversized body
	body, err := io.ReadAll(io.LimitReader(src, h.service.cfg.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read file"})
		return
	}

	result, err := h.service.UploadObject(c.Request.Context(), body, c.PostForm("path"))
	if err != nil {
		WriteError(c, err, "failed to upload file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"key":      result.Key,
		"url":      result.URL,
		"markdown": result.Markdown,
		"mime":     result.MIME,
		"size":     result.Size,
	})
}

func (h *httpHandler) list(c *gin.Context) {
	page, pageSize := ParsePaging(c)
	result, err := h.service.ListPath(c.Request.Context(), c.Query("prefix"), page, pageSize)
	if err != nil {
		WriteError(c, err, "failed to list files")
		return
	}
	c.JSON(http.StatusOK, ListResponse{Success: true, Page: result})
}

type deleteRequest struct {
	Keys []string `json:"keys"`
}

func (h *httpHandler) delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.DeleteObjects(c.Request.Context(), req.Keys)
	if err != nil {
		WriteError(c, err, "failed to delete files")
		return
	}

	status := http.StatusOK
	switch {
	case len(result.Failed) == 0:
	case len(result.DeletedKeys) == 0:
		status = http.StatusInternalServerError
	default:
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{
		"success":     len(result.Failed) == 0,
		"deletedKeys": result.DeletedKeys,
		"failed":      result.Failed,
	})
}

type createFolderRequest struct {
	Path string `json:"path"`
}

func (h *httpHandler) createFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	folder, err := h.service.CreateFolder(c.Request.Context(), req.Path)
	if err != nil {
		WriteError(c, err, "failed to create folder")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "path": folder})
}

// ParsePaging reads the page and pageSize query parameters. Missing or
// malformed values come back as zero and are clamped by the service.
func ParsePaging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	return page, pageSize
}

// WriteError maps gallery errors to HTTP responses. fallback is used as the
// message for unclassified failures.
func WriteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUnsupportedMediaType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported file type"})
	case errors.Is(err, ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
