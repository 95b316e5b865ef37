package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/infrastructure"
)

// ToolsHandler handles post-processing tool requests
type ToolsHandler struct {
	converter *infrastructure.GIFConverter
	logger    *zap.Logger
}

// NewToolsHandler creates a new tools handler
func NewToolsHandler(converter *infrastructure.GIFConverter, logger *zap.Logger) *ToolsHandler {
	return &ToolsHandler{
		converter: converter,
		logger:    logger,
	}
}

// FFmpegStatus handles GET /api/v1/tools/ffmpeg
func (h *ToolsHandler) FFmpegStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"installed": h.converter.Installed(),
	})
}

// ConvertGIFsRequest represents a request to convert downloaded animations
type ConvertGIFsRequest struct {
	Folder         string `json:"folder" binding:"required"`
	FPS            int    `json:"fps"`
	Width          int    `json:"width"`
	DeleteOriginal bool   `json:"delete_original"`
}

// ConvertGIFs handles POST /api/v1/tools/convert-gifs
func (h *ToolsHandler) ConvertGIFs(c *gin.Context) {
	var req ConvertGIFsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.converter.Installed() {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "ffmpeg is not installed"})
		return
	}

	converted, failed, err := h.converter.ConvertFolder(req.Folder, req.FPS, req.Width, req.DeleteOriginal)
	if err != nil {
		h.logger.Error("GIF conversion failed",
			zap.String("folder", req.Folder),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"converted": converted,
		"failed":    failed,
	})
}
