package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/x-batch-go/internal/app"
	"github.com/yourusername/x-batch-go/internal/domain"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	session *app.BatchSession
	repo    domain.AccountRepository
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(session *app.BatchSession, repo domain.AccountRepository) *HealthHandler {
	return &HealthHandler{
		session: session,
		repo:    repo,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Batch   struct {
		Running bool `json:"running"`
	} `json:"batch"`
	Accounts int64 `json:"accounts"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}
	response.Batch.Running = h.session.Running()

	if count, err := h.repo.Count(); err == nil {
		response.Accounts = count
	}

	c.JSON(http.StatusOK, response)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if _, err := h.repo.Count(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "account database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
