package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/api"
	"github.com/yourusername/x-batch-go/internal/app"
	"github.com/yourusername/x-batch-go/internal/infrastructure"
	"github.com/yourusername/x-batch-go/pkg/logger"
)

var (
	serverMode = flag.Bool("server-mode", false, "Internal flag: run in server mode (called by daemon)")
	configPath = flag.String("config", "", "Path to config file")
	foreground = flag.Bool("foreground", false, "Run in the foreground instead of daemonizing")
)

func main() {
	flag.Parse()

	// If not in server mode, run as daemon
	if !*serverMode && !*foreground {
		startAsDaemon()
		return
	}

	runServer()
}

// startAsDaemon forks the current process and runs the server in background
func startAsDaemon() {
	execPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get executable path: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}

	args := []string{"-server-mode"}
	if *configPath != "" {
		args = append(args, "-config", *configPath)
	}

	cmd := exec.Command(execPath, args...)
	cmd.Dir = cwd
	cmd.Env = os.Environ()

	// Detach from parent process
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open /dev/null: %v\n", err)
		os.Exit(1)
	}
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start daemon: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Server started as daemon (PID: %d)\n", cmd.Process.Pid)
	os.Exit(0)
}

func runServer() {
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Create logs directory before the loggers open their files
	if err := os.MkdirAll(config.Download.LogsDir(), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logs directory: %v\n", err)
		os.Exit(1)
	}

	var logAdapter *logger.LoggerAdapter
	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
		Level:   config.Logging.Level,
		LogsDir: config.Download.LogsDir(),
	})
	if err != nil {
		// Fall back to a single logger rather than refusing to start
		fallback, lerr := logger.New(logger.Config{
			Level:      config.Logging.Level,
			Format:     config.Logging.Format,
			OutputPath: config.Logging.OutputPath,
		})
		if lerr != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		logAdapter = logger.NewSingleLoggerAdapter(fallback)
		fallback.Warn("Categorized logging unavailable, using single logger",
			zap.Error(err))
	} else {
		defer multiLog.Close()
		logAdapter = logger.NewLoggerAdapter(multiLog)
	}

	log := logAdapter.GetSingleLogger()

	log.Info("Starting X-Batch server",
		zap.String("version", "1.0.0"),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("base_dir", config.Download.BaseDir),
		zap.Int("workers", config.Download.Workers))

	if err := os.MkdirAll(config.Download.BaseDir, 0755); err != nil {
		log.Fatal("Failed to create download directory", zap.Error(err))
	}

	// Initialize repository
	repo, err := infrastructure.NewSQLiteAccountRepository(config.Database.Path)
	if err != nil {
		log.Fatal("Failed to initialize account repository", zap.Error(err))
	}
	defer repo.Close()

	// Initialize services
	notifier := infrastructure.NewNotificationService(&config.Notification, log)
	extractor := infrastructure.NewExecExtractor(&config.Extractor, config.Download.LogsDir(), logAdapter.GetMultiLogger())
	timelines := app.NewTimelineService(extractor, repo, logAdapter.Extract())
	converter := infrastructure.NewGIFConverter(&config.FFmpeg, log)

	downloader := app.NewBatchDownloader(&config.Download, logAdapter.Batch())
	session := app.NewBatchSession(downloader, logAdapter.Batch())

	// Setup HTTP router
	router := api.SetupRouter(api.Dependencies{
		Session:   session,
		Timelines: timelines,
		Repo:      repo,
		Notifier:  notifier,
		Converter: converter,
		LogsDir:   config.Download.LogsDir(),
	}, logAdapter)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Cancel any in-flight batch so the blocked request returns promptly
	if session.Cancel() {
		log.Info("Cancelled in-flight batch download")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
