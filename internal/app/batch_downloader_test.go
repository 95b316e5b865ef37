package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/x-batch-go/internal/domain"
)

func newTestDownloader(t *testing.T, workers int) (*BatchDownloader, string) {
	t.Helper()
	baseDir := t.TempDir()
	config := &domain.DownloadConfig{
		BaseDir:        baseDir,
		RequestTimeout: 5 * time.Second,
		Workers:        workers,
	}
	return NewBatchDownloader(config, nil), baseDir
}

func newMediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/missing"):
			w.WriteHeader(http.StatusNotFound)
		case strings.HasPrefix(r.URL.Path, "/empty"):
			w.WriteHeader(http.StatusOK)
		default:
			fmt.Fprintf(w, "media-bytes-for-%s", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun_DownloadsIntoKindSubfolders(t *testing.T) {
	server := newMediaServer(t)
	downloader, baseDir := newTestDownloader(t, 1)

	items := []domain.MediaItem{
		{URL: server.URL + "/media/a?format=jpg", TweetID: 100, Kind: domain.KindPhoto},
		{URL: server.URL + "/video/b.mp4", TweetID: 200, Kind: domain.KindVideo},
		{URL: server.URL + "/gif/c.mp4", TweetID: 300, Kind: domain.KindGIF},
	}

	result, err := downloader.Run(context.Background(), items, "", "someuser", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Downloaded)
	assert.Equal(t, 0, result.Failed)
	assert.False(t, result.Cancelled)
	assert.NotEmpty(t, result.BatchID)

	assert.FileExists(t, filepath.Join(baseDir, "someuser", "images", "100.jpg"))
	assert.FileExists(t, filepath.Join(baseDir, "someuser", "videos", "200.mp4"))
	assert.FileExists(t, filepath.Join(baseDir, "someuser", "gifs", "300.mp4"))
}

func TestRun_EmptyBatch(t *testing.T) {
	downloader, baseDir := newTestDownloader(t, 1)

	result, err := downloader.Run(context.Background(), nil, "", "someuser", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Downloaded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, "No items to download", result.Message)

	// No account folder should be created for an empty batch
	assert.NoDirExists(t, filepath.Join(baseDir, "someuser"))
}

func TestRun_ItemFailuresAreTalliedNotFatal(t *testing.T) {
	server := newMediaServer(t)
	downloader, _ := newTestDownloader(t, 1)

	items := []domain.MediaItem{
		{URL: server.URL + "/media/ok?format=jpg", TweetID: 1, Kind: domain.KindPhoto},
		{URL: server.URL + "/missing", TweetID: 2, Kind: domain.KindPhoto},
		{URL: server.URL + "/empty", TweetID: 3, Kind: domain.KindPhoto},
		{URL: "", TweetID: 4, Kind: domain.KindPhoto},
		{URL: server.URL + "/media/ok2?format=png", TweetID: 5, Kind: domain.KindPhoto},
	}

	result, err := downloader.Run(context.Background(), items, "", "someuser", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, 5, result.Attempted())
}

func TestRun_ProgressIsMonotonicWithFinal100(t *testing.T) {
	server := newMediaServer(t)
	downloader, _ := newTestDownloader(t, 1)

	items := []domain.MediaItem{
		{URL: server.URL + "/media/a", TweetID: 1, Kind: domain.KindPhoto},
		{URL: server.URL + "/media/b", TweetID: 2, Kind: domain.KindPhoto},
		{URL: server.URL + "/media/c", TweetID: 3, Kind: domain.KindPhoto},
	}

	var events []domain.Progress
	_, err := downloader.Run(context.Background(), items, "", "someuser", func(p domain.Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, []domain.Progress{
		{Current: 1, Total: 3, Percent: 33},
		{Current: 2, Total: 3, Percent: 66},
		{Current: 3, Total: 3, Percent: 100},
	}, events)
}

func TestRun_ProgressNonDecreasingWithWorkerPool(t *testing.T) {
	server := newMediaServer(t)
	downloader, _ := newTestDownloader(t, 4)

	var items []domain.MediaItem
	for i := 1; i <= 20; i++ {
		items = append(items, domain.MediaItem{
			URL:     fmt.Sprintf("%s/media/%d", server.URL, i),
			TweetID: domain.TweetID(i),
			Kind:    domain.KindPhoto,
		})
	}

	var events []domain.Progress
	result, err := downloader.Run(context.Background(), items, "", "someuser", func(p domain.Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)
	assert.Equal(t, 20, result.Downloaded)

	require.Len(t, events, 20)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i].Current, events[i-1].Current)
	}
	assert.Equal(t, 100, events[len(events)-1].Percent)
}

func TestRun_CancellationReturnsPartialCounts(t *testing.T) {
	release := make(chan struct{})
	var served int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		if served > 1 {
			<-release
		}
		fmt.Fprint(w, "media-bytes")
	}))
	defer server.Close()

	downloader, _ := newTestDownloader(t, 1)

	var items []domain.MediaItem
	for i := 1; i <= 5; i++ {
		items = append(items, domain.MediaItem{
			URL:     fmt.Sprintf("%s/media/%d", server.URL, i),
			TweetID: domain.TweetID(i),
			Kind:    domain.KindPhoto,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan domain.BatchResult, 1)
	go func() {
		result, err := downloader.Run(ctx, items, "", "someuser", func(p domain.Progress) {
			// Cancel after the first item completes; the second item is
			// blocked on the server, later items must never start.
			if p.Current == 1 {
				cancel()
			}
		})
		assert.NoError(t, err)
		done <- result
	}()

	// Unblock any in-flight request once cancellation has landed
	time.Sleep(100 * time.Millisecond)
	close(release)

	select {
	case result := <-done:
		assert.True(t, result.Cancelled)
		assert.LessOrEqual(t, result.Attempted(), 2)
		assert.GreaterOrEqual(t, result.Downloaded, 1)
		assert.Contains(t, result.Message, "cancelled")
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not return after cancellation")
	}
}

func TestRun_LargeBodyStreamsToDisk(t *testing.T) {
	// 4 MiB in small chunks so the transfer spans many reads
	chunk := strings.Repeat("v", 32*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 128; i++ {
			fmt.Fprint(w, chunk)
		}
	}))
	defer server.Close()

	downloader, baseDir := newTestDownloader(t, 1)

	items := []domain.MediaItem{
		{URL: server.URL + "/video/big.mp4", TweetID: 7, Kind: domain.KindVideo},
	}

	result, err := downloader.Run(context.Background(), items, "", "someuser", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Downloaded)

	info, err := os.Stat(filepath.Join(baseDir, "someuser", "videos", "7.mp4"))
	require.NoError(t, err)
	assert.Equal(t, int64(128*len(chunk)), info.Size())
}

func TestRun_PreCancelledContextStartsNoItems(t *testing.T) {
	var served int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		fmt.Fprint(w, "media-bytes")
	}))
	defer server.Close()

	downloader, _ := newTestDownloader(t, 1)

	var items []domain.MediaItem
	for i := 1; i <= 3; i++ {
		items = append(items, domain.MediaItem{
			URL:     fmt.Sprintf("%s/media/%d", server.URL, i),
			TweetID: domain.TweetID(i),
			Kind:    domain.KindPhoto,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// An already-signaled cancellation must win over a free worker slot at
	// every item boundary, not just most of the time.
	for i := 0; i < 100; i++ {
		result, err := downloader.Run(ctx, items, "", "someuser", nil)
		require.NoError(t, err)

		assert.True(t, result.Cancelled)
		assert.Equal(t, 0, result.Attempted())
	}
	assert.Equal(t, 0, served)
}

func TestRun_UnwritableRootRejectsBeforeNetwork(t *testing.T) {
	downloader, _ := newTestDownloader(t, 1)

	// A regular file in place of the output root makes MkdirAll fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	items := []domain.MediaItem{
		{URL: "http://127.0.0.1:1/unreachable", TweetID: 1, Kind: domain.KindPhoto},
	}

	result, err := downloader.Run(context.Background(), items, blocker, "someuser", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBatchRejected)
	assert.Equal(t, 0, result.Attempted())
}

func TestRun_OverwritesExistingFile(t *testing.T) {
	server := newMediaServer(t)
	downloader, baseDir := newTestDownloader(t, 1)

	items := []domain.MediaItem{
		{URL: server.URL + "/media/a?format=jpg", TweetID: 100, Kind: domain.KindPhoto},
	}

	destPath := filepath.Join(baseDir, "someuser", "images", "100.jpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(destPath), 0755))
	require.NoError(t, os.WriteFile(destPath, []byte("stale"), 0644))

	result, err := downloader.Run(context.Background(), items, "", "someuser", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Downloaded)

	content, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(content))
}

func TestRun_SanitizesHostileAccountName(t *testing.T) {
	server := newMediaServer(t)
	downloader, baseDir := newTestDownloader(t, 1)

	items := []domain.MediaItem{
		{URL: server.URL + "/media/a?format=jpg", TweetID: 100, Kind: domain.KindPhoto},
	}

	result, err := downloader.Run(context.Background(), items, "", `../evil:user`, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Downloaded)

	// The sanitized folder stays inside the output root
	assert.NoDirExists(t, filepath.Join(filepath.Dir(baseDir), "evil:user"))
	entries, err := os.ReadDir(baseDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
	assert.NotContains(t, entries[0].Name(), ":")
}

func TestMediaExtension(t *testing.T) {
	assert.Equal(t, ".mp4", mediaExtension(domain.MediaItem{Kind: domain.KindVideo, URL: "https://v.twimg.com/a.bin"}))
	assert.Equal(t, ".mp4", mediaExtension(domain.MediaItem{Kind: domain.KindGIF, URL: "https://v.twimg.com/a.jpg"}))
	assert.Equal(t, ".png", mediaExtension(domain.MediaItem{Kind: domain.KindPhoto, URL: "https://pbs.twimg.com/media/a?format=png"}))
}

func TestPhotoExtension(t *testing.T) {
	// format query parameter wins
	assert.Equal(t, ".webp", photoExtension("https://pbs.twimg.com/media/a?format=webp"))
	// recognized path extension
	assert.Equal(t, ".png", photoExtension("https://example.com/images/pic.PNG"))
	assert.Equal(t, ".jpeg", photoExtension("https://example.com/images/pic.jpeg"))
	// everything else defaults to .jpg
	assert.Equal(t, ".jpg", photoExtension("https://pbs.twimg.com/media/a"))
	assert.Equal(t, ".jpg", photoExtension("https://example.com/file.bin"))
	assert.Equal(t, ".jpg", photoExtension("://bad-url"))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeName(`a/b\c`))
	assert.Equal(t, "user_name", sanitizeName("user:name"))
	assert.Equal(t, "_", sanitizeName(""))
	assert.Equal(t, "_", sanitizeName("..."))
	assert.Equal(t, "__evil", sanitizeName("../evil"))
	assert.Equal(t, "plain", sanitizeName("plain"))
}
