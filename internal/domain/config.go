package domain

import (
	"path/filepath"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Extractor    ExtractorConfig    `mapstructure:"extractor"`
	FFmpeg       FFmpegConfig       `mapstructure:"ffmpeg"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig contains batch download configuration
type DownloadConfig struct {
	BaseDir        string        `mapstructure:"base_dir"`
	LogsDirName    string        `mapstructure:"logs_dir"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Workers        int           `mapstructure:"workers"`
}

// LogsDir returns the absolute logs directory
func (c DownloadConfig) LogsDir() string {
	if filepath.IsAbs(c.LogsDirName) {
		return c.LogsDirName
	}
	return filepath.Join(c.BaseDir, c.LogsDirName)
}

// DatabaseConfig contains account database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ExtractorConfig contains metadata extractor configuration
type ExtractorConfig struct {
	Binary  string        `mapstructure:"binary"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FFmpegConfig contains GIF conversion configuration
type FFmpegConfig struct {
	Binary string `mapstructure:"binary"`
	FPS    int    `mapstructure:"fps"`
	Width  int    `mapstructure:"width"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sound   bool   `mapstructure:"sound"`
	Method  string `mapstructure:"method"` // osascript, notify-send, etc.
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8090,
		},
		Download: DownloadConfig{
			BaseDir:        "$HOME/Pictures/x-batch",
			LogsDirName:    "logs",
			RequestTimeout: 30 * time.Second,
			Workers:        1,
		},
		Database: DatabaseConfig{
			Path: "$HOME/.x-batch/accounts.db",
		},
		Extractor: ExtractorConfig{
			Binary:  "metadata-extractor",
			Timeout: 10 * time.Minute,
		},
		FFmpeg: FFmpegConfig{
			Binary: "ffmpeg",
			FPS:    15,
			Width:  480,
		},
		Notification: NotificationConfig{
			Enabled: true,
			Sound:   true,
			Method:  "osascript",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
