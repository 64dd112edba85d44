package export

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/sourcegraph/conc/iter"
	"golang.org/x/crypto/argon2"
)

// HashType represents the different hashing algorithms available.
type HashType string

const (
	// HashTypeArgon2id uses the Argon2id algorithm for hashing.
	HashTypeArgon2id HashType = "argon2id"
	// HashTypeSHA256 uses the SHA256 algorithm for hashing.
	HashTypeSHA256 HashType = "sha256"
)

// HashPrompt converts a prompt to a salted hash using the specified algorithm.
func HashPrompt(prompt, salt string, hashType HashType, iterations, memory uint32) string {
	var hash []byte

	switch hashType {
	case HashTypeArgon2id:
		hash = argon2.IDKey([]byte(prompt), []byte(salt), max(iterations, 1), max(memory, 1)*1024, 1, 32)
	case HashTypeSHA256:
		// Iterative SHA256 hashing with salt
		hash = []byte(salt)

		h := sha256.New()
		for range max(iterations, 1) {
			h.Reset()
			h.Write([]byte(prompt))
			h.Write(hash)
			hash = h.Sum(nil)
		}
	}

	return hex.EncodeToString(hash)
}

// hashPrompts hashes prompts concurrently, keeping input order.
func hashPrompts(prompts []string, cfg *Config) []string {
	if len(prompts) == 0 {
		return nil
	}

	mapper := iter.Mapper[string, string]{MaxGoroutines: max(cfg.Concurrency, 1)}

	return mapper.Map(prompts, func(prompt *string) string {
		return HashPrompt(*prompt, cfg.Salt, cfg.HashType, cfg.Iterations, cfg.Memory)
	})
}
