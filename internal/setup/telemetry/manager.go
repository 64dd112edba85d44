package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/promptaudit/internal/setup/config"
	"github.com/robalyx/promptaudit/internal/setup/telemetry/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceType represents the type of service being initialized.
type ServiceType int

const (
	ServiceCLI ServiceType = iota
	ServiceWorker
	ServiceWordlist
)

// String returns the component name used for log directories.
func (s ServiceType) String() string {
	switch s {
	case ServiceCLI:
		return "cli"
	case ServiceWorker:
		return "worker"
	case ServiceWordlist:
		return "wordlist"
	default:
		return "unknown"
	}
}

// GetRequestTimeout returns the request timeout for the given service type.
func (s ServiceType) GetRequestTimeout(cfg *config.Config) time.Duration {
	var timeout int

	switch s {
	case ServiceWorker:
		timeout = cfg.Worker.RequestTimeout
	case ServiceCLI, ServiceWordlist:
		timeout = 30000
	}

	if timeout <= 0 {
		timeout = 5000
	}

	return time.Duration(timeout) * time.Millisecond
}

// Manager handles the creation and management of log files and directories.
// Every run writes into its own timestamped session directory.
type Manager struct {
	instanceID        string       // Unique identifier for this program instance
	componentName     string       // Component identifier for this instance
	currentSessionDir string       // Path to the current session's log directory
	logDir            string       // Base directory for all logs
	level             string       // Logging level (debug, info, warn, error)
	maxLogsToKeep     int          // Maximum number of log sessions to retain
	maxLogLines       int          // Maximum number of lines to keep in each log file
	rotators          []*logger.LogRotator
	mu                sync.Mutex
}

// NewManager creates a new Manager instance.
func NewManager(serviceType ServiceType, logDir string, debugCfg *config.Debug, workerID string) *Manager {
	componentName := serviceType.String()
	if serviceType == ServiceWorker && workerID != "" {
		componentName = fmt.Sprintf("worker_%s", workerID)
	}

	return &Manager{
		instanceID:    uuid.New().String(),
		componentName: componentName,
		logDir:        filepath.Join(logDir, componentName),
		level:         debugCfg.LogLevel,
		maxLogsToKeep: debugCfg.MaxLogsToKeep,
		maxLogLines:   debugCfg.MaxLogLines,
	}
}

// Stop closes every log file opened by the manager.
func (lm *Manager) Stop() {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	for _, rotator := range lm.rotators {
		_ = rotator.Close()
	}

	lm.rotators = nil
}

// GetLogger initializes the main application logger.
func (lm *Manager) GetLogger() (*zap.Logger, error) {
	if err := lm.setupLogDirectories(); err != nil {
		return nil, err
	}

	mainLogger, err := lm.initLogger(filepath.Join(lm.currentSessionDir, "main.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize main logger: %w", err)
	}

	return mainLogger.With(zap.String("instance_id", lm.instanceID)), nil
}

// GetWorkerLogger creates a logger for background workers.
// Each worker gets its own log file in the session directory.
func (lm *Manager) GetWorkerLogger(name string) *zap.Logger {
	sessionDir := lm.getOrCreateSessionDir()

	workerLogger, err := lm.initLogger(filepath.Join(sessionDir, name+".log"))
	if err != nil {
		return zap.NewNop()
	}

	return workerLogger
}

// GetAuditLogger creates a logger for blocked prompts.
// It creates a dedicated directory within the current session directory.
func (lm *Manager) GetAuditLogger(name string) (*zap.Logger, string, error) {
	sessionDir := lm.getOrCreateSessionDir()
	auditDir := filepath.Join(sessionDir, "blocked_prompts", name)

	if err := os.MkdirAll(auditDir, os.ModePerm); err != nil {
		return nil, "", fmt.Errorf("failed to create audit log directory: %w", err)
	}

	auditLogger, err := lm.initLogger(filepath.Join(auditDir, name+".log"))
	if err != nil {
		return nil, "", err
	}

	return auditLogger, auditDir, nil
}

// GetCurrentSessionDir returns the current session directory.
func (lm *Manager) GetCurrentSessionDir() string {
	return lm.getOrCreateSessionDir()
}

// GetInstanceID returns the unique instance identifier for this program run.
func (lm *Manager) GetInstanceID() string {
	return lm.instanceID
}

// setupLogDirectories creates and manages the log directory structure.
// It ensures the base directory exists, rotates old logs, and creates a new session directory.
func (lm *Manager) setupLogDirectories() error {
	if err := os.MkdirAll(lm.logDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	// Clean up old log sessions
	if err := lm.rotateLogSessions(); err != nil {
		return fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	lm.currentSessionDir = filepath.Join(lm.logDir, time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(lm.currentSessionDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	return nil
}

// getOrCreateSessionDir returns the current session directory or creates a new one.
// Falls back to base log directory if creation fails.
func (lm *Manager) getOrCreateSessionDir() string {
	if lm.currentSessionDir != "" {
		return lm.currentSessionDir
	}

	sessionDir := filepath.Join(lm.logDir, time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(sessionDir, os.ModePerm); err != nil {
		return lm.logDir
	}

	lm.currentSessionDir = sessionDir

	return sessionDir
}

// initLogger creates a new zap logger writing to a line-capped file.
func (lm *Manager) initLogger(path string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(lm.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	rotator := logger.NewLogRotator(file, lm.maxLogLines, path)

	lm.mu.Lock()
	lm.rotators = append(lm.rotators, rotator)
	lm.mu.Unlock()

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zapLevel,
	)

	return zap.New(
		core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	).Named(lm.componentName), nil
}

// rotateLogSessions maintains the log directory by removing old sessions.
// Keeps only the most recent sessions based on maxLogsToKeep.
func (lm *Manager) rotateLogSessions() error {
	if lm.maxLogsToKeep <= 0 {
		return nil
	}

	sessions, err := filepath.Glob(filepath.Join(lm.logDir, "*"))
	if err != nil {
		return err
	}

	// A new session is about to be created
	if len(sessions) < lm.maxLogsToKeep {
		return nil
	}

	// Sort sessions by modification time (oldest first)
	sort.Slice(sessions, func(i, j int) bool {
		iInfo, _ := os.Stat(sessions[i])
		jInfo, _ := os.Stat(sessions[j])

		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	toDelete := len(sessions) - lm.maxLogsToKeep + 1
	for i := range toDelete {
		if err := os.RemoveAll(sessions[i]); err != nil {
			return err
		}
	}

	return nil
}
