package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/app"
	"github.com/yourusername/x-batch-go/internal/domain"
	"github.com/yourusername/x-batch-go/internal/infrastructure"
)

// BatchHandler handles batch download requests
type BatchHandler struct {
	session  *app.BatchSession
	notifier *infrastructure.NotificationService
	logger   *zap.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(session *app.BatchSession, notifier *infrastructure.NotificationService, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{
		session:  session,
		notifier: notifier,
		logger:   logger,
	}
}

// StartBatchRequest represents a request to download a media batch
type StartBatchRequest struct {
	Items     []domain.MediaItem `json:"items"`
	OutputDir string             `json:"output_dir"`
	Username  string             `json:"username" binding:"required"`
}

// StartBatch handles POST /api/v1/batches.
// The call blocks until the batch completes or is cancelled and returns the
// aggregate result.
func (h *BatchHandler) StartBatch(c *gin.Context) {
	var req StartBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.session.Run(req.Items, req.OutputDir, req.Username)
	if err != nil {
		if errors.Is(err, app.ErrBatchInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Batch download rejected",
			zap.String("username", req.Username),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.notifier != nil && len(req.Items) > 0 {
		h.notifier.NotifyBatchCompleted(req.Username, result)
	}

	c.JSON(http.StatusOK, result)
}

// CancelBatch handles POST /api/v1/batches/cancel
func (h *BatchHandler) CancelBatch(c *gin.Context) {
	if !h.session.Cancel() {
		c.JSON(http.StatusConflict, gin.H{"error": "no batch in progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch cancellation requested"})
}

// ActiveBatch handles GET /api/v1/batches/active
func (h *BatchHandler) ActiveBatch(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"running":  h.session.Running(),
		"progress": h.session.LastProgress(),
	})
}
