package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/app"
	"github.com/yourusername/x-batch-go/internal/domain"
	"github.com/yourusername/x-batch-go/internal/infrastructure"
)

// TimelineHandler handles timeline extraction requests
type TimelineHandler struct {
	timelines *app.TimelineService
	notifier  *infrastructure.NotificationService
	logger    *zap.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(timelines *app.TimelineService, notifier *infrastructure.NotificationService, logger *zap.Logger) *TimelineHandler {
	return &TimelineHandler{
		timelines: timelines,
		notifier:  notifier,
		logger:    logger,
	}
}

// ExtractTimeline handles POST /api/v1/timeline
func (h *TimelineHandler) ExtractTimeline(c *gin.Context) {
	var req domain.TimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.timelines.ExtractTimeline(req)
	if err != nil {
		if vErr := req.Validate(); vErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		h.logger.Error("Timeline extraction failed",
			zap.String("username", req.Username),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyExtractionCompleted(req.Username, response.TotalURLs)
	}

	c.JSON(http.StatusOK, response)
}

// ExtractDateRange handles POST /api/v1/timeline/range
func (h *TimelineHandler) ExtractDateRange(c *gin.Context) {
	var req domain.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.timelines.ExtractDateRange(req)
	if err != nil {
		if vErr := req.Validate(); vErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		h.logger.Error("Date range extraction failed",
			zap.String("username", req.Username),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyExtractionCompleted(req.Username, response.TotalURLs)
	}

	c.JSON(http.StatusOK, response)
}
