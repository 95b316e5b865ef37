package infrastructure

import (
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/domain"
)

// NotificationService sends desktop notifications for batch lifecycle events
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		config: config,
		logger: logger,
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	switch n.config.Method {
	case "osascript":
		return n.sendOSAScript(title, message)
	case "notify-send":
		return n.sendNotifySend(title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}
}

// sendOSAScript sends notification using macOS osascript
func (n *NotificationService) sendOSAScript(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeAppleScript(message), escapeAppleScript(title))
	cmd := exec.Command("osascript", "-e", script)

	if err := cmd.Run(); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", "osascript"),
			zap.Error(err))
		return err
	}

	return nil
}

// sendNotifySend sends notification using Linux notify-send
func (n *NotificationService) sendNotifySend(title, message string) error {
	cmd := exec.Command("notify-send", title, message)

	if err := cmd.Run(); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", "notify-send"),
			zap.Error(err))
		return err
	}

	return nil
}

// NotifyBatchCompleted sends a notification when a batch finishes
func (n *NotificationService) NotifyBatchCompleted(account string, result domain.BatchResult) {
	title := "Download Complete"
	if result.Cancelled {
		title = "Download Cancelled"
	}
	message := fmt.Sprintf("@%s: %d downloaded, %d failed",
		truncateString(account, 30), result.Downloaded, result.Failed)
	n.Send(title, message)
}

// NotifyExtractionCompleted sends a notification when a timeline fetch finishes
func (n *NotificationService) NotifyExtractionCompleted(account string, totalURLs int) {
	title := "Timeline Fetched"
	message := fmt.Sprintf("@%s: %d media URLs found", truncateString(account, 30), totalURLs)
	n.Send(title, message)
}

// escapeAppleScript escapes characters that would terminate or alter an
// AppleScript string literal. Titles and messages can carry user-supplied
// account names.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
