package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/domain"
)

// ErrBatchInFlight is returned when a batch is started while another is running
var ErrBatchInFlight = errors.New("a batch download is already in progress")

// BatchSession serializes batch downloads: at most one batch runs per
// process. It owns the cancellation handle for the in-flight batch and fans
// progress out to registered observers.
type BatchSession struct {
	downloader *BatchDownloader
	logger     *zap.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	running   bool
	last      domain.Progress
	observers map[int64]domain.ProgressFunc
	nextObsID int64
}

// NewBatchSession creates a new batch session
func NewBatchSession(downloader *BatchDownloader, logger *zap.Logger) *BatchSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchSession{
		downloader: downloader,
		logger:     logger,
		observers:  make(map[int64]domain.ProgressFunc),
	}
}

// Run executes a batch download, rejecting the call if one is in flight.
// The call blocks until the batch completes or is cancelled.
func (s *BatchSession) Run(items []domain.MediaItem, outputRoot, accountID string) (domain.BatchResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return domain.BatchResult{}, ErrBatchInFlight
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	s.last = domain.NewProgress(0, len(items))
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()
		cancel()
	}()

	s.logger.Info("Batch download started",
		zap.String("account", accountID),
		zap.Int("items", len(items)))

	result, err := s.downloader.Run(ctx, items, outputRoot, accountID, s.publish)

	s.logger.Info("Batch download finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("downloaded", result.Downloaded),
		zap.Int("failed", result.Failed),
		zap.Bool("cancelled", result.Cancelled))

	return result, err
}

// Cancel requests cancellation of the in-flight batch.
// Returns false when no batch is running.
func (s *BatchSession) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

// Running reports whether a batch is in flight
func (s *BatchSession) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastProgress returns the most recent progress snapshot
func (s *BatchSession) LastProgress() domain.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Subscribe registers a progress observer and returns an unsubscribe func
func (s *BatchSession) Subscribe(fn domain.ProgressFunc) func() {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// publish records the snapshot and notifies observers in order
func (s *BatchSession) publish(p domain.Progress) {
	s.mu.Lock()
	s.last = p
	fns := make([]domain.ProgressFunc, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}
