package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/app"
	"github.com/yourusername/x-batch-go/internal/domain"
)

// AccountHandler handles saved-account requests
type AccountHandler struct {
	repo      domain.AccountRepository
	timelines *app.TimelineService
	logger    *zap.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(repo domain.AccountRepository, timelines *app.TimelineService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		repo:      repo,
		timelines: timelines,
		logger:    logger,
	}
}

// ListAccounts handles GET /api/v1/accounts
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.repo.FindAll()
	if err != nil {
		h.logger.Error("Failed to list accounts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, account.Summary())
	}

	c.JSON(http.StatusOK, summaries)
}

// GetAccount handles GET /api/v1/accounts/:id.
// Returns the stored timeline response JSON for the account.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	account, err := h.repo.FindByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(account.ResponseJSON))
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	if err := h.repo.Delete(id); err != nil {
		h.logger.Error("Failed to delete account", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// DeleteAllAccounts handles DELETE /api/v1/accounts
func (h *AccountHandler) DeleteAllAccounts(c *gin.Context) {
	if err := h.repo.DeleteAll(); err != nil {
		h.logger.Error("Failed to clear accounts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all accounts deleted"})
}

// UpdateGroupRequest represents a request to set an account's group
type UpdateGroupRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// UpdateGroup handles PUT /api/v1/accounts/:id/group
func (h *AccountHandler) UpdateGroup(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.UpdateGroup(id, req.Name, req.Color); err != nil {
		h.logger.Error("Failed to update group", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "group updated"})
}

// ListGroups handles GET /api/v1/accounts/groups
func (h *AccountHandler) ListGroups(c *gin.Context) {
	groups, err := h.repo.Groups()
	if err != nil {
		h.logger.Error("Failed to list groups", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, groups)
}

// ExportAccountRequest represents a request to export an account backup
type ExportAccountRequest struct {
	OutputDir string `json:"output_dir" binding:"required"`
}

// ExportAccount handles POST /api/v1/accounts/:id/export
func (h *AccountHandler) ExportAccount(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req ExportAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path, err := h.timelines.ExportAccount(id, req.OutputDir)
	if err != nil {
		h.logger.Error("Failed to export account", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
