package config

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/tailscale/hujson"
)

// WordlistFile is the name of the word list file inside a config directory.
const WordlistFile = "wordlist.jsonc"

// LoadWordlist loads the word lists from the first available path.
// An explicit path from the config wins, then the directory the config was loaded from,
// then the usual config search paths.
func LoadWordlist(cfg *Wordlist, configPath string) (*audit.WordLists, error) {
	// Try the explicitly configured file
	if cfg != nil && cfg.Path != "" {
		return LoadWordlistFile(cfg.Path)
	}

	// Try the specific config path
	if configPath != "" {
		if lists, err := LoadWordlistFile(configPath + "/" + WordlistFile); err == nil {
			return lists, nil
		}
	}

	configPaths, err := Paths()
	if err != nil {
		return nil, err
	}

	// Try to load wordlist from each path
	for _, path := range configPaths {
		if lists, err := LoadWordlistFile(path + "/" + WordlistFile); err == nil {
			return lists, nil
		}
	}

	return nil, ErrWordlistNotFound
}

// LoadWordlistFile loads word lists from a specific JSONC file.
func LoadWordlistFile(wordlistPath string) (*audit.WordLists, error) {
	// Read wordlist file
	data, err := os.ReadFile(wordlistPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wordlist file: %w", err)
	}

	// Parse JSONC
	standardJSON, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to standardize JSONC: %w", err)
	}

	// Parse wordlist
	var lists audit.WordLists
	if err := sonic.Unmarshal(standardJSON, &lists); err != nil {
		return nil, fmt.Errorf("failed to parse wordlist JSON: %w", err)
	}

	return &lists, nil
}
