package infrastructure

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/domain"
)

// GIFConverter converts mp4-encoded animations in a gifs folder into real
// GIF files using ffmpeg. This is a post-processing step separate from the
// batch download itself.
type GIFConverter struct {
	config *domain.FFmpegConfig
	logger *zap.Logger
}

// NewGIFConverter creates a new GIF converter
func NewGIFConverter(config *domain.FFmpegConfig, logger *zap.Logger) *GIFConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GIFConverter{
		config: config,
		logger: logger,
	}
}

// Installed reports whether the configured ffmpeg binary is available
func (g *GIFConverter) Installed() bool {
	_, err := exec.LookPath(g.config.Binary)
	return err == nil
}

// ConvertFolder converts every .mp4 in folder to .gif.
// Returns converted and failed counts; a single bad file never aborts the rest.
func (g *GIFConverter) ConvertFolder(folder string, fps, width int, deleteOriginal bool) (int, int, error) {
	if folder == "" {
		return 0, 0, fmt.Errorf("folder path is required")
	}
	if _, err := os.Stat(folder); err != nil {
		return 0, 0, fmt.Errorf("folder not accessible: %w", err)
	}

	if fps <= 0 {
		fps = g.config.FPS
	}
	if width <= 0 {
		width = g.config.Width
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read folder: %w", err)
	}

	converted := 0
	failed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".mp4") {
			continue
		}

		src := filepath.Join(folder, entry.Name())
		dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".gif"

		if err := g.convertOne(src, dst, fps, width); err != nil {
			failed++
			g.logger.Warn("GIF conversion failed",
				zap.String("file", src),
				zap.Error(err))
			continue
		}

		converted++
		if deleteOriginal {
			os.Remove(src)
		}
	}

	return converted, failed, nil
}

// convertOne runs a two-pass palette conversion for good GIF quality
func (g *GIFConverter) convertOne(src, dst string, fps, width int) error {
	filter := fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse", fps, width)

	args := []string{"-y", "-i", src, "-vf", filter, dst}
	cmd := exec.Command(g.config.Binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w, output: %s", err, string(output))
	}

	if info, err := os.Stat(dst); err != nil || info.Size() == 0 {
		return fmt.Errorf("ffmpeg produced no output")
	}

	return nil
}
