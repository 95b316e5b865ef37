package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/domain"
)

// ErrBatchRejected indicates the batch failed a precondition before any
// network activity (unwritable output root). Item-level failures are never
// surfaced as errors; they are tallied in the result.
var ErrBatchRejected = errors.New("batch rejected")

// BatchDownloader downloads every item of a media batch into a predictable
// folder layout: {root}/{account}/{images|videos|gifs}/{tweet_id}.{ext}
type BatchDownloader struct {
	client *http.Client
	config *domain.DownloadConfig
	logger *zap.Logger
}

// NewBatchDownloader creates a new batch downloader
func NewBatchDownloader(config *domain.DownloadConfig, logger *zap.Logger) *BatchDownloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchDownloader{
		client: &http.Client{Timeout: config.RequestTimeout},
		config: config,
		logger: logger,
	}
}

// Run processes the batch sequentially (or with a bounded worker pool when
// workers > 1), invoking progress after every completed item and honoring
// ctx cancellation between items. A cancelled batch returns normally with
// partial counts.
func (d *BatchDownloader) Run(ctx context.Context, items []domain.MediaItem, outputRoot, accountID string, progress domain.ProgressFunc) (domain.BatchResult, error) {
	result := domain.BatchResult{BatchID: uuid.New().String()}

	if len(items) == 0 {
		result.Message = "No items to download"
		return result, nil
	}

	if outputRoot == "" {
		outputRoot = d.config.BaseDir
	}

	accountDir := filepath.Join(outputRoot, sanitizeName(accountID))
	if err := os.MkdirAll(accountDir, 0755); err != nil {
		return result, fmt.Errorf("%w: cannot create output directory: %v", ErrBatchRejected, err)
	}

	if progress == nil {
		progress = func(domain.Progress) {}
	}

	workers := d.config.Workers
	if workers < 1 {
		workers = 1
	}

	total := len(items)
	sem := make(chan struct{}, workers)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		downloaded int
		failed     int
		cancelled  bool
	)

	for _, item := range items {
		// Cancellation is checked between items; in-flight items finish.
		// The non-blocking check runs first so a signaled cancellation
		// always wins over a free worker slot.
		select {
		case <-ctx.Done():
			cancelled = true
		default:
			select {
			case <-ctx.Done():
				cancelled = true
			case sem <- struct{}{}:
			}
		}
		if cancelled {
			break
		}

		wg.Add(1)
		go func(item domain.MediaItem) {
			defer wg.Done()
			defer func() { <-sem }()

			err := d.fetchOne(ctx, item, accountDir)

			mu.Lock()
			if err != nil {
				failed++
				d.logger.Warn("Media item failed",
					zap.String("url", item.URL),
					zap.String("tweet_id", item.TweetID.String()),
					zap.Error(err))
			} else {
				downloaded++
			}
			progress(domain.NewProgress(downloaded+failed, total))
			mu.Unlock()
		}(item)
	}

	wg.Wait()

	result.Downloaded = downloaded
	result.Failed = failed
	result.Cancelled = cancelled
	if cancelled {
		result.Message = fmt.Sprintf("Download cancelled: %d downloaded, %d failed, %d not attempted",
			downloaded, failed, total-downloaded-failed)
	} else {
		result.Message = fmt.Sprintf("Downloaded %d files, %d failed", downloaded, failed)
	}

	return result, nil
}

// fetchOne downloads a single item and writes it atomically into place
func (d *BatchDownloader) fetchOne(ctx context.Context, item domain.MediaItem, accountDir string) error {
	if item.URL == "" {
		return fmt.Errorf("empty URL")
	}

	destDir := filepath.Join(accountDir, item.Kind.Subfolder())
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, nil)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	filename := sanitizeName(item.TweetID.String()) + mediaExtension(item)
	destPath := filepath.Join(destDir, filename)

	// Stream to a temp file in the destination directory, then rename into
	// place so a failed transfer never leaves a partial file behind.
	tmp, err := os.CreateTemp(destDir, "."+filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if written == 0 {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("empty response body")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// mediaExtension returns the destination extension for an item.
// Videos and GIFs are mp4-encoded at the source; true GIF conversion is a
// separate ffmpeg post-processing step.
func mediaExtension(item domain.MediaItem) string {
	if item.Kind == domain.KindVideo || item.Kind == domain.KindGIF {
		return ".mp4"
	}
	return photoExtension(item.URL)
}

// photoExtension derives an image extension from the URL, defaulting to .jpg
func photoExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}

	// X image URLs carry the format as a query parameter
	if format := u.Query().Get("format"); format != "" {
		return "." + format
	}

	switch strings.ToLower(path.Ext(u.Path)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return strings.ToLower(path.Ext(u.Path))
	}
	return ".jpg"
}

// sanitizeName replaces characters illegal in filenames so hostile
// identifiers cannot escape the output root
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r < 0x20:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), ". ")
	if s == "" {
		return "_"
	}
	return s
}
