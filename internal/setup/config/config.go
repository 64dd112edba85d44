package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrWordlistNotFound      = errors.New("could not find wordlist.jsonc in any config path")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v1.0.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentWorkerVersion = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig
	Worker WorkerConfig
}

// CommonConfig contains configuration shared between the CLI and the worker.
type CommonConfig struct {
	// Version of the common config.
	Version  int      `koanf:"version"`
	Debug    Debug    `koanf:"debug"`
	Wordlist Wordlist `koanf:"wordlist"`
	Audit    Audit    `koanf:"audit"`
	Batch    Batch    `koanf:"batch"`
	Redis    Redis    `koanf:"redis"`
	Cache    Cache    `koanf:"cache"`
}

// WorkerConfig contains moderation worker specific configuration.
type WorkerConfig struct {
	// Version of the worker config.
	Version int `koanf:"version"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// NATS connection and subject settings.
	NATS NATS `koanf:"nats"`
	// Prometheus endpoint settings.
	Metrics Metrics `koanf:"metrics"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Enable pprof debugging.
	EnablePprof bool `koanf:"enable_pprof"`
	// pprof bind host. Empty binds to localhost.
	PprofHost string `koanf:"pprof_host"`
	// pprof server port.
	PprofPort int `koanf:"pprof_port"`
}

// PprofAddress returns the address the pprof server listens on.
func (d *Debug) PprofAddress() string {
	host := d.PprofHost
	if host == "" {
		host = "localhost"
	}

	return net.JoinHostPort(host, strconv.Itoa(d.PprofPort))
}

// Wordlist points at the word list file.
type Wordlist struct {
	// Path to a wordlist.jsonc file. Empty searches the config paths.
	Path string `koanf:"path"`
}

// Audit contains limits applied before text reaches the auditor.
type Audit struct {
	// Prompts longer than this many bytes are truncated. Zero disables the limit.
	MaxPromptLength int `koanf:"max_prompt_length"`
}

// Batch contains batch auditing configuration.
type Batch struct {
	// Number of prompts audited concurrently.
	Concurrency int `koanf:"concurrency"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Enable the Redis-backed verdict cache.
	Enabled bool `koanf:"enabled"`
	// Redis host address.
	Host string `koanf:"host"`
	// Redis port number.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
	// Disable client-side caching for servers without CLIENT TRACKING support.
	DisableClientCache bool `koanf:"disable_client_cache"`
}

// Cache contains verdict cache configuration.
type Cache struct {
	// Verdict lifetime in seconds.
	TTL int `koanf:"ttl"`
}

// NATS contains the moderation worker's messaging configuration.
type NATS struct {
	// Server URL.
	URL string `koanf:"url"`
	// Subject carrying audit requests.
	Subject string `koanf:"subject"`
	// Queue group shared by every worker instance.
	Queue string `koanf:"queue"`
	// Seconds between reconnect attempts.
	ReconnectWait int `koanf:"reconnect_wait"`
	// Maximum reconnect attempts (-1 for infinite).
	MaxReconnects int `koanf:"max_reconnects"`
}

// Metrics contains the Prometheus endpoint configuration.
type Metrics struct {
	// Enable the metrics endpoint.
	Enabled bool `koanf:"enabled"`
	// Listen address such as ":9090".
	Address string `koanf:"address"`
}

// Paths returns the directories searched for configuration files, in priority order.
func Paths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return []string{
		".promptaudit",
		homeDir + "/.promptaudit/config",
		"/etc/promptaudit/config",
		"/app/config",
		"config",
		".",
	}, nil
}

// LoadConfig loads the config file from the first available path.
func LoadConfig() (*Config, string, error) {
	configPaths, err := Paths()
	if err != nil {
		return nil, "", err
	}

	return LoadConfigFrom(configPaths)
}

// LoadConfigFrom loads common.toml and worker.toml from the first of configPaths that holds each.
// It returns the directory the common config was found in.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	configFiles := []string{"common", "worker"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("worker", config.Worker.Version, CurrentWorkerVersion); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion validates the version of a config file.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/promptaudit/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
