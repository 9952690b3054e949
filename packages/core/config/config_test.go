package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.True(t, c.IsDefault())
	assert.True(t, c.GetFollowRedirects())
	assert.True(t, c.GetValidateSSL())
	assert.False(t, c.GetStrictFiles())
	assert.False(t, c.GetEscape())
	assert.Equal(t, 30*time.Second, c.TimeoutDuration())
	assert.Equal(t, "console", c.Output)
}

func TestGetters_NilPointers(t *testing.T) {
	c := &Config{}

	assert.True(t, c.GetFollowRedirects())
	assert.True(t, c.GetValidateSSL())
	assert.False(t, c.GetDefaultUserAgent())
	assert.False(t, c.GetVerbose())
	assert.False(t, c.GetNoColor())
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no config file returns defaults", func(t *testing.T) {
		c, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, c.IsDefault())
	})

	t.Run("loads first matching file over defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := `{
  "timeout": 5000,
  "strictFiles": true,
  "headers": {"X-Api-Key": "k"},
  "mimeTypes": {"webp": "image/webp"}
}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".formpost.json"), []byte(content), 0o644))

		c, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 5000, c.Timeout)
		assert.True(t, c.GetStrictFiles())
		assert.True(t, c.GetValidateSSL())
		assert.Equal(t, "k", c.Headers["X-Api-Key"])
		assert.Equal(t, "image/webp", c.MimeTypes["webp"])
		assert.False(t, c.IsDefault())
	})

	t.Run("invalid json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "formpost.config.json"), []byte("{"), 0o644))

		_, err := FindAndLoadConfig(dir)
		assert.Error(t, err)
	})
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1", "B": "2"}

	merged := base.Merge(&Config{
		Timeout:     1000,
		ValidateSSL: BoolPtr(false),
		Escape:      BoolPtr(true),
		Headers:     map[string]string{"B": "3"},
		History:     "history.db",
	})

	assert.Equal(t, 1000, merged.Timeout)
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetEscape())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, map[string]string{"A": "1", "B": "3"}, merged.Headers)
	assert.Equal(t, "history.db", merged.History)
	assert.Equal(t, "2", base.Headers["B"])

	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	c := DefaultConfig()
	c.Proxy = "http://proxy:8080"
	require.NoError(t, c.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy:8080", loaded.Proxy)
}
