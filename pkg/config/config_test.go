package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), reloaded)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeFile(t, `
[engine]
backend = "patricia"

[server]
max_limit = 10
enable_filter = false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "patricia", cfg.Engine.Backend)
	assert.Equal(t, 10, cfg.Server.MaxLimit)
	assert.False(t, cfg.Server.EnableFilter)
	// untouched keys keep their defaults
	assert.Equal(t, 60, cfg.Server.MaxPrefix)
	assert.Equal(t, 24, cfg.CLI.DefaultLimit)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeFile(t, `
[engine]
backend = "array"

[server]
max_limit = "sixty"
min_prefix = 3

[cli]
default_limit = 5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "array", cfg.Engine.Backend)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.Equal(t, 3, cfg.Server.MinPrefix)
	assert.Equal(t, 5, cfg.CLI.DefaultLimit)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := writeFile(t, "this is [[ not toml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWithPriority(t *testing.T) {
	custom := writeFile(t, "[cli]\ndefault_limit = 7\n")
	defaultPath := filepath.Join(t.TempDir(), FileName)

	cfg, used := LoadConfigWithPriority(custom, defaultPath)
	assert.Equal(t, custom, used)
	assert.Equal(t, 7, cfg.CLI.DefaultLimit)

	cfg, used = LoadConfigWithPriority(filepath.Join(t.TempDir(), "missing.toml"), defaultPath)
	assert.Equal(t, defaultPath, used)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, defaultPath)

	cfg, used = LoadConfigWithPriority("", "")
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "builtin defaults", GetActiveConfigPath(used))
}

func TestUpdateSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()

	limit, filter := 8, false
	require.NoError(t, cfg.Update(path, &limit, nil, nil, &filter))
	assert.Equal(t, 8, cfg.Server.MaxLimit)
	assert.Equal(t, 1, cfg.Server.MinPrefix)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, reloaded.Server.MaxLimit)
	assert.False(t, reloaded.Server.EnableFilter)

	minPrefix := 2
	require.NoError(t, cfg.Update("", nil, &minPrefix, nil, nil))
	assert.Equal(t, 2, cfg.Server.MinPrefix)
}

func TestUpdateRejectsInvalidLimits(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	tests := []struct {
		name                           string
		maxLimit, minPrefix, maxPrefix *int
	}{
		{"negative max limit", intPtr(-1), nil, nil},
		{"zero max limit", intPtr(0), nil, nil},
		{"max limit past ceiling", intPtr(MaxLimitCeiling + 1), nil, nil},
		{"negative min prefix", nil, intPtr(-1), nil},
		{"max prefix below min prefix", nil, intPtr(5), intPtr(4)},
		{"min prefix above current max", nil, intPtr(61), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			cfg := DefaultConfig()
			filter := false

			err := cfg.Update(path, tc.maxLimit, tc.minPrefix, tc.maxPrefix, &filter)
			assert.ErrorIs(t, err, ErrInvalidServerConfig)
			assert.Equal(t, DefaultConfig().Server, cfg.Server)
			assert.NoFileExists(t, path)
		})
	}
}

func TestUpdateAcceptsBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	one, zero, ceiling := 1, 0, MaxLimitCeiling
	require.NoError(t, cfg.Update("", &one, &zero, &zero, nil))
	assert.Equal(t, ServerConfig{MaxLimit: 1, MinPrefix: 0, MaxPrefix: 0, EnableFilter: true}, cfg.Server)

	require.NoError(t, cfg.Update("", &ceiling, nil, nil, nil))
	assert.Equal(t, MaxLimitCeiling, cfg.Server.MaxLimit)
}

func TestLoadConfigResetsOutOfRangeLimits(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ServerConfig
	}{
		{
			name: "negative max limit",
			body: "[server]\nmax_limit = -1\nmin_prefix = 2\n",
			want: ServerConfig{MaxLimit: 64, MinPrefix: 2, MaxPrefix: 60, EnableFilter: true},
		},
		{
			name: "zero max limit",
			body: "[server]\nmax_limit = 0\n",
			want: DefaultConfig().Server,
		},
		{
			name: "max limit past ceiling",
			body: "[server]\nmax_limit = 70000\n",
			want: DefaultConfig().Server,
		},
		{
			name: "negative min prefix",
			body: "[server]\nmin_prefix = -3\nmax_prefix = 10\n",
			want: ServerConfig{MaxLimit: 64, MinPrefix: 1, MaxPrefix: 10, EnableFilter: true},
		},
		{
			name: "max prefix below min prefix",
			body: "[server]\nmin_prefix = 5\nmax_prefix = 2\n",
			want: ServerConfig{MaxLimit: 64, MinPrefix: 5, MaxPrefix: 60, EnableFilter: true},
		},
		{
			name: "min prefix above default max",
			body: "[server]\nmin_prefix = 100\nmax_prefix = 2\n",
			want: DefaultConfig().Server,
		},
		{
			name: "partial recovery still checks ranges",
			body: "[server]\nmax_limit = -5\nenable_filter = \"yes\"\n",
			want: DefaultConfig().Server,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeFile(t, tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.Server)
			assert.NoError(t, cfg.Server.Validate())
		})
	}
}

func TestLoadConfigIgnoresUnknownKeys(t *testing.T) {
	path := writeFile(t, `
[server]
max_limit = 9
colour = "blue"

[cli]
default_limit = "many"
default_min_len = 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Server.MaxLimit)
	assert.Equal(t, 24, cfg.CLI.DefaultLimit)
	assert.Equal(t, 2, cfg.CLI.DefaultMinLen)
}
