package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/rueidis"
	"github.com/robalyx/promptaudit/internal/setup/config"
	"github.com/robalyx/promptaudit/pkg/utils"
	"go.uber.org/zap"
)

const (
	// CacheDBIndex stores cached audit verdicts in database 0
	// so they can be flushed without touching anything else.
	CacheDBIndex = 0

	// StatsDBIndex dedicates database 1 to verdict counters
	// to allow independent management of statistics data.
	StatsDBIndex = 1
)

// Manager maintains a thread-safe mapping of database indices to Redis clients.
// Each database index gets its own dedicated connection pool through rueidis.
type Manager struct {
	clients map[int]rueidis.Client
	config  *config.Redis
	logger  *zap.Logger
	mu      sync.Mutex // Protects concurrent access to the clients map
}

// NewManager initializes the Redis connection manager with an empty client pool.
// Actual client connections are created lazily when first requested.
func NewManager(config *config.Redis, logger *zap.Logger) *Manager {
	return &Manager{
		clients: make(map[int]rueidis.Client),
		config:  config,
		logger:  logger.Named("redis"),
	}
}

// GetClient retrieves or creates a Redis client for the specified database index.
func (m *Manager) GetClient(dbIndex int) (rueidis.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists := m.clients[dbIndex]; exists {
		return client, nil
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:         []string{fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)},
		Username:            m.config.Username,
		Password:            m.config.Password,
		SelectDB:            dbIndex,
		ClientName:          "promptaudit",
		DisableCache:        m.config.DisableClientCache,
		ReadBufferEachConn:  1 << 20,
		WriteBufferEachConn: 1 << 20,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis client for DB %d: %w", dbIndex, err)
	}

	m.clients[dbIndex] = client
	m.logger.Info("Created new Redis client", zap.Int("dbIndex", dbIndex))

	return client, nil
}

// Connect returns the client for dbIndex once it answers a PING, retrying with backoff.
func (m *Manager) Connect(ctx context.Context, dbIndex int) (rueidis.Client, error) {
	return utils.WithRetry(ctx, func() (rueidis.Client, error) {
		client, err := m.GetClient(dbIndex)
		if err != nil {
			return nil, err
		}

		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			m.logger.Warn("Redis ping failed", zap.Int("dbIndex", dbIndex), zap.Error(err))
			return nil, fmt.Errorf("failed to ping Redis DB %d: %w", dbIndex, err)
		}

		return client, nil
	}, utils.GetConnectRetryOptions())
}

// Close gracefully shuts down all active Redis clients in the pool.
// Safe to call multiple times as it cleans up only existing connections.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for dbIndex, client := range m.clients {
		client.Close()
		delete(m.clients, dbIndex)
		m.logger.Info("Closed Redis client", zap.Int("dbIndex", dbIndex))
	}
}
