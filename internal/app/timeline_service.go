package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/domain"
)

// TimelineService runs timeline extractions and keeps the account store
// up to date with the latest fetched snapshot
type TimelineService struct {
	source domain.TimelineSource
	repo   domain.AccountRepository
	logger *zap.Logger
}

// NewTimelineService creates a new timeline service
func NewTimelineService(source domain.TimelineSource, repo domain.AccountRepository, logger *zap.Logger) *TimelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineService{
		source: source,
		repo:   repo,
		logger: logger,
	}
}

// ExtractTimeline extracts media from a user timeline and saves the account
func (s *TimelineService) ExtractTimeline(req domain.TimelineRequest) (*domain.TimelineResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	response, err := s.source.ExtractTimeline(req)
	if err != nil {
		return nil, fmt.Errorf("failed to extract timeline: %w", err)
	}

	s.saveAccount(req.Username, response)
	return response, nil
}

// ExtractDateRange extracts media within a date range and saves the account
func (s *TimelineService) ExtractDateRange(req domain.DateRangeRequest) (*domain.TimelineResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	response, err := s.source.ExtractDateRange(req)
	if err != nil {
		return nil, fmt.Errorf("failed to extract date range: %w", err)
	}

	s.saveAccount(req.Username, response)
	return response, nil
}

// saveAccount persists the fetched snapshot. A save failure is logged, not
// returned; the extraction itself succeeded and the caller gets its data.
func (s *TimelineService) saveAccount(username string, response *domain.TimelineResponse) {
	if s.repo == nil {
		return
	}

	raw, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("Failed to encode timeline response", zap.Error(err))
		return
	}

	account := &domain.Account{
		Username:     username,
		Name:         response.AccountInfo.Name,
		ProfileImage: domain.ThumbnailURL(response.AccountInfo.ProfileImage),
		TotalMedia:   response.TotalURLs,
		LastFetched:  time.Now(),
		ResponseJSON: string(raw),
	}

	if err := s.repo.Upsert(account); err != nil {
		s.logger.Error("Failed to save account",
			zap.String("username", username),
			zap.Error(err))
		return
	}

	s.logger.Info("Account saved",
		zap.String("username", username),
		zap.Int("total_media", response.TotalURLs))
}

// ExportAccount writes a saved account's response JSON to a backup file and
// returns the file path
func (s *TimelineService) ExportAccount(id int64, outputDir string) (string, error) {
	account, err := s.repo.FindByID(id)
	if err != nil {
		return "", fmt.Errorf("account not found: %w", err)
	}

	exportDir := filepath.Join(outputDir, "x-batch_backups")
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := account.Username
	if filename == "" {
		filename = account.Name
	}

	filePath := filepath.Join(exportDir, filename+".json")
	if err := os.WriteFile(filePath, []byte(account.ResponseJSON), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filePath, nil
}
