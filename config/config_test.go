package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/core/validator"
	"github.com/kochabx/paseto/errors"
)

type keyFiles struct {
	Local  string `mapstructure:"local" default:"local.key"`
	Secret string `mapstructure:"secret" default:"secret.pem"`
}

type mock struct {
	Version string        `mapstructure:"version" default:"v2" validate:"oneof=v1 v2 v3"`
	TTL     time.Duration `mapstructure:"ttl" default:"15m"`
	Keys    keyFiles      `mapstructure:"keys"`
}

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "version: v3\nkeys:\n  local: /etc/paseto/local.key\n")

	cfg := new(mock)
	require.NoError(t, New(cfg, WithFile(path, false)).Load())

	assert.Equal(t, "v3", cfg.Version)
	assert.Equal(t, 15*time.Minute, cfg.TTL)
	assert.Equal(t, "/etc/paseto/local.key", cfg.Keys.Local)
	assert.Equal(t, "secret.pem", cfg.Keys.Secret)
}

func TestFileLoaderSearchPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "version: v1\n")

	cfg := new(mock)
	v := viper.New()
	c := New(cfg, WithViper(v), WithLoader(NewFileLoader(DefaultFilename, []string{dir}, v, validator.Validate)))
	require.NoError(t, c.Load())
	assert.Equal(t, "v1", cfg.Version)
	assert.Equal(t, filepath.Join(dir, DefaultFilename), c.Source())
}

func TestOptionalFileSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultFilename)

	cfg := new(mock)
	c := New(cfg, WithFile(missing, true))
	require.NoError(t, c.Load())
	assert.Empty(t, c.Source())
	assert.Equal(t, "v2", cfg.Version)

	require.ErrorIs(t, New(new(mock), WithFile(missing, false)).Load(), ErrConfigNotFound)
}

func TestLoadValidation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "version: v9\n")

	err := New(new(mock), WithFile(path, false)).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigValidation))
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	err := New(new(mock), WithFile(path, false)).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	cfg := new(mock)
	require.NoError(t, New(cfg, WithFile(path, true)).Load())
	assert.Equal(t, "v2", cfg.Version)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "version: [v1\n")

	err := New(new(mock), WithFile(path, true)).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigParse))
}

func TestEnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "version: v1\nkeys:\n  secret: a.pem\n")
	t.Setenv("PASETO_VERSION", "v3")
	t.Setenv("PASETO_KEYS_SECRET", "b.pem")

	cfg := new(mock)
	require.NoError(t, New(cfg, WithFile(path, false)).Load())
	assert.Equal(t, "v3", cfg.Version)
	assert.Equal(t, "b.pem", cfg.Keys.Secret)
}

func TestWatchReload(t *testing.T) {
	path := writeFile(t, t.TempDir(), "version: v1\n")

	cfg := new(mock)
	c := New(cfg, WithFile(path, false), WithWatch(true))

	var reloads atomic.Int32
	c.OnChange(func() { reloads.Add(1) })
	require.NoError(t, c.Load())

	require.NoError(t, os.WriteFile(path, []byte("version: v3\n"), 0o600))

	require.Eventually(t, func() bool {
		var version string
		c.Read(func() { version = cfg.Version })
		return version == "v3"
	}, 5*time.Second, 50*time.Millisecond)
	assert.Positive(t, reloads.Load())
}

type protocolConfig struct {
	Version paseto.Version `mapstructure:"version" default:"v2" validate:"paseto_version"`
	Purpose paseto.Purpose `mapstructure:"purpose" default:"enc" validate:"paseto_purpose"`
	Issuers []string       `mapstructure:"issuers"`
}

func TestTextUnmarshalerFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "version: v3\npurpose: sign\nissuers: a,b\n")

	cfg := new(protocolConfig)
	require.NoError(t, New(cfg, WithFile(path, false)).Load())

	assert.Equal(t, paseto.V3, cfg.Version)
	assert.Equal(t, paseto.PurposeSign, cfg.Purpose)
	assert.Equal(t, []string{"a", "b"}, cfg.Issuers)

	path = writeFile(t, t.TempDir(), "version: v7\n")
	err := New(new(protocolConfig), WithFile(path, false)).Load()
	assert.True(t, errors.Is(err, ErrConfigParse))
}
