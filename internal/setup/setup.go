package setup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robalyx/promptaudit/internal/cache"
	"github.com/robalyx/promptaudit/internal/redis"
	"github.com/robalyx/promptaudit/internal/setup/config"
	"github.com/robalyx/promptaudit/internal/setup/telemetry"
	"github.com/robalyx/promptaudit/pkg/audit"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config       // Application configuration
	ConfigDir    string               // Directory the configuration was loaded from
	Logger       *zap.Logger          // Main application logger
	WordLists    *audit.WordLists     // Raw word lists
	Registry     *audit.Registry      // Compiled patterns shared by every audit
	Auditor      *cache.CachedAuditor // Auditor backed by the verdict cache when enabled
	RedisManager *redis.Manager       // Redis connection manager, nil when Redis is disabled
	LogManager   *telemetry.Manager   // Log management system
	pprofServer  *pprofServer         // Debug HTTP server for pprof
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
// Workers can provide an ID for service identification.
func InitializeApp(
	ctx context.Context, serviceType telemetry.ServiceType, logDir string, workerID ...string,
) (*App, error) {
	// Load app configuration
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	var id string
	if len(workerID) > 0 {
		id = workerID[0]
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug, id)

	logger, err := logManager.GetLogger()
	if err != nil {
		return nil, err
	}

	// Word lists are compiled once and shared by every audit
	lists, err := config.LoadWordlist(&cfg.Common.Wordlist, configDir)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	registry, err := audit.NewRegistry(lists)
	if err != nil {
		return nil, fmt.Errorf("failed to compile word lists: %w", err)
	}

	logger.Info("Compiled word lists",
		zap.Int("patterns", registry.PatternCount()),
		zap.String("fingerprint", registry.Fingerprint()),
		zap.Duration("duration", time.Since(start)))

	// Redis backs the verdict cache and statistics when enabled
	var (
		redisManager *redis.Manager
		verdicts     *cache.VerdictCache
		stats        *cache.Stats
	)

	if cfg.Common.Redis.Enabled {
		redisManager = redis.NewManager(&cfg.Common.Redis, logger)

		cacheClient, err := redisManager.Connect(ctx, redis.CacheDBIndex)
		if err != nil {
			redisManager.Close()
			return nil, err
		}

		statsClient, err := redisManager.Connect(ctx, redis.StatsDBIndex)
		if err != nil {
			redisManager.Close()
			return nil, err
		}

		verdicts = cache.NewVerdictCache(cacheClient, time.Duration(cfg.Common.Cache.TTL)*time.Second)
		stats = cache.NewStats(statsClient)
	}

	auditor := cache.NewCachedAuditor(audit.NewAuditor(registry), verdicts, stats, logger)

	// Start pprof server if enabled
	var pprofSrv *pprofServer

	if cfg.Common.Debug.EnablePprof {
		srv, err := startPprofServer(cfg.Common.Debug.PprofAddress(), logger)
		if err != nil {
			logger.Error("Failed to start pprof server", zap.Error(err))
		} else {
			pprofSrv = srv

			logger.Warn("pprof debugging endpoint enabled - this should not be used in production!")
		}
	}

	// Bundle all initialized components
	return &App{
		Config:       cfg,
		ConfigDir:    configDir,
		Logger:       logger,
		WordLists:    lists,
		Registry:     registry,
		Auditor:      auditor,
		RedisManager: redisManager,
		LogManager:   logManager,
		pprofServer:  pprofSrv,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	// Shutdown pprof server if running
	if s.pprofServer != nil {
		if err := s.pprofServer.srv.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown pprof server", zap.Error(err))
		}

		s.pprofServer.listener.Close()
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	s.LogManager.Stop()

	// Close Redis connections last as other components might need it during cleanup
	if s.RedisManager != nil {
		s.RedisManager.Close()
	}
}
