package coingecko

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"COINGECKO_API_KEY", "COINGECKO_TIMEOUT", "COINGECKO_USER_AGENT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadSettings_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("COINGECKO_API_KEY", "CG-from-env")
	t.Setenv("COINGECKO_TIMEOUT", "2s")
	t.Setenv("COINGECKO_USER_AGENT", "my-app/1.0")

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, Settings{APIKey: "CG-from-env", Timeout: 2 * time.Second, UserAgent: "my-app/1.0"}, s)
}

func TestNewClientFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("COINGECKO_API_KEY", "CG-from-env")

	c, err := NewClientFromEnv("")
	require.NoError(t, err)
	assert.Equal(t, BaseURL, c.BaseURL())
	assert.Equal(t, "CG-from-env", c.DefaultHeaders().Get(HeaderAPIKey))
	assert.Equal(t, MediaTypeJSON, c.DefaultHeaders().Get(HeaderAccept))
}

func TestNewClientFromEnv_MissingKey(t *testing.T) {
	clearEnv(t)

	c, err := NewClientFromEnv("", filepath.Join(t.TempDir(), "absent.env"))
	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadSettings_DotEnv(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("COINGECKO_API_KEY=CG-from-dotenv\n"), 0o600))

	s, err := LoadSettings("", p)
	require.NoError(t, err)
	assert.Equal(t, "CG-from-dotenv", s.APIKey)
}

func TestLoadSettings_FileThenEnv(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "coingecko.yaml")
	require.NoError(t, os.WriteFile(p, []byte("api_key: CG-from-file\ntimeout: 5s\n"), 0o600))
	t.Setenv("COINGECKO_TIMEOUT", "1s")

	s, err := LoadSettings(p)
	require.NoError(t, err)
	assert.Equal(t, "CG-from-file", s.APIKey)
	assert.Equal(t, time.Second, s.Timeout)

	c, err := NewClient(s.Config())
	require.NoError(t, err)
	assert.Equal(t, "CG-from-file", c.DefaultHeaders().Get(HeaderAPIKey))
}

func TestLoadSettings_BadFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
