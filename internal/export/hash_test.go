package export_test

import (
	"testing"

	"github.com/robalyx/promptaudit/internal/export"
	"github.com/stretchr/testify/assert"
)

func TestHashPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prompt     string
		salt       string
		hashType   export.HashType
		iterations uint32
		want       string
	}{
		{
			name:       "SHA256 basic test",
			prompt:     "a cat",
			salt:       "test_salt",
			hashType:   export.HashTypeSHA256,
			iterations: 1,
			want:       "9bfc075dc9efc5751f7cdce17d587e52c083260919bc0f85b7a2223e595d092a",
		},
		{
			name:       "SHA256 multiple iterations",
			prompt:     "a cat",
			salt:       "test_salt",
			hashType:   export.HashTypeSHA256,
			iterations: 3,
			want:       "218230392835a9ef085423e2402329675739b2a6080052d8625b9d548963e1b2",
		},
		{
			name:       "SHA256 zero iterations hashes once",
			prompt:     "a cat",
			salt:       "test_salt",
			hashType:   export.HashTypeSHA256,
			iterations: 0,
			want:       "9bfc075dc9efc5751f7cdce17d587e52c083260919bc0f85b7a2223e595d092a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, export.HashPrompt(tt.prompt, tt.salt, tt.hashType, tt.iterations, 1))
		})
	}
}

func TestHashPrompt_Argon2id(t *testing.T) {
	t.Parallel()

	first := export.HashPrompt("a cat", "salt", export.HashTypeArgon2id, 1, 8)
	second := export.HashPrompt("a cat", "salt", export.HashTypeArgon2id, 1, 8)
	other := export.HashPrompt("a cat", "pepper", export.HashTypeArgon2id, 1, 8)

	assert.Len(t, first, 64)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}
