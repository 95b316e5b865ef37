package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/domain"
	"github.com/yourusername/x-batch-go/pkg/logger"
)

// ExecExtractor implements domain.TimelineSource by spawning the bundled
// metadata-extractor binary and scraping the JSON document out of its
// combined output. The extractor prints incidental info lines around the
// JSON, so the payload is located by balanced-brace scanning.
type ExecExtractor struct {
	config      *domain.ExtractorConfig
	logsDir     string
	eventLogger *logger.MultiLogger
}

// NewExecExtractor creates a new subprocess-backed timeline source
func NewExecExtractor(config *domain.ExtractorConfig, logsDir string, eventLogger *logger.MultiLogger) *ExecExtractor {
	return &ExecExtractor{
		config:      config,
		logsDir:     logsDir,
		eventLogger: eventLogger,
	}
}

// ExtractTimeline extracts media from a user timeline
func (e *ExecExtractor) ExtractTimeline(req domain.TimelineRequest) (*domain.TimelineResponse, error) {
	// Global args first, then subcommand
	args := []string{"--token", req.AuthToken, "--json", "timeline", req.Username}

	if req.TimelineType != "" && req.TimelineType != "media" {
		args = append(args, "--timeline-type", req.TimelineType)
	}

	// BatchSize: 0 = all (no limit), >0 = specific batch size
	args = append(args, "--batch-size", strconv.Itoa(req.BatchSize))

	if req.Page > 0 {
		args = append(args, "--page", strconv.Itoa(req.Page))
	}

	if req.MediaType != "" && req.MediaType != "all" {
		args = append(args, "--media-type", req.MediaType)
	}

	if req.Retweets {
		args = append(args, "--retweets")
	} else {
		args = append(args, "--no-retweets")
	}

	return e.run(args)
}

// ExtractDateRange extracts media based on a date range
func (e *ExecExtractor) ExtractDateRange(req domain.DateRangeRequest) (*domain.TimelineResponse, error) {
	args := []string{
		"--token", req.AuthToken,
		"--json",
		"daterange", req.Username,
		"--start-date", req.StartDate,
		"--end-date", req.EndDate,
	}

	if req.MediaFilter != "" {
		args = append(args, "--filter", req.MediaFilter)
	}

	return e.run(args)
}

// run executes the extractor and decodes the JSON document from its output
func (e *ExecExtractor) run(args []string) (*domain.TimelineResponse, error) {
	timeout := e.config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// The extractor is Python under the hood; force UTF-8 output
	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8", "PYTHONUTF8=1")

	e.logCommand(args)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to execute metadata-extractor: %w, output: %s", err, string(output))
	}

	jsonStr := extractJSON(string(output))
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON found in extractor output: %s", string(output))
	}

	var response domain.TimelineResponse
	if err := json.Unmarshal([]byte(jsonStr), &response); err != nil {
		return nil, fmt.Errorf("failed to parse extractor response: %w", err)
	}

	return &response, nil
}

// logCommand appends the invoked command line to the dated extract log.
// The auth token is redacted before it hits disk.
func (e *ExecExtractor) logCommand(args []string) {
	redacted := make([]string, len(args))
	copy(redacted, args)
	for i := 0; i < len(redacted)-1; i++ {
		if redacted[i] == "--token" {
			redacted[i+1] = "***"
		}
	}

	cmdLine := ShellEscapeCommand(e.config.Binary, redacted...)

	if e.eventLogger != nil {
		e.eventLogger.LogExtractEvent("extractor_invoked", zap.String("command", cmdLine))
	}

	if e.logsDir == "" {
		return
	}
	if err := os.MkdirAll(e.logsDir, 0755); err != nil {
		return
	}

	dateStr := time.Now().Format("20060102")
	logPath := filepath.Join(e.logsDir, "extract-"+dateStr+".log")
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer file.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	file.WriteString(fmt.Sprintf("[%s] $ %s\n", timestamp, cmdLine))
}

// extractJSON finds the first balanced-brace JSON object in mixed output
func extractJSON(output string) string {
	start := strings.Index(output, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(output); i++ {
		switch output[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return output[start : i+1]
			}
		}
	}

	return ""
}
