package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeYAML(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvOrg, "")
	t.Setenv(EnvUser, "")
	t.Setenv(EnvStaleDays, "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing-local.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.StaleDays)
	assert.Equal(t, "auto", cfg.Transport)
	assert.Equal(t, "30s", cfg.Timeout)
	assert.Equal(t, "digest", cfg.DefaultFormat)
	assert.Equal(t, "/tmp/pulse.json", cfg.OutputPath)
	assert.Equal(t, DefaultKnownBots(), cfg.KnownBots)
	assert.Empty(t, cfg.Org)
}

func TestLoadMergesLocalOverGlobal(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	global := writeYAML(t, dir, "global.yaml", `
org: acme
user: alice
stale_days: 5
known_bots: [bot1, bot2]
exclude_repos: [legacy]
`)
	local := writeYAML(t, dir, "local.yaml", `
user: bob
exclude_repos: [sandbox, acme/scratch]
`)

	cfg, err := load(global, local)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Org)
	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, 5, cfg.StaleDays)
	assert.Equal(t, []string{"bot1", "bot2"}, cfg.KnownBots)
	assert.Equal(t, []string{"sandbox", "acme/scratch"}, cfg.ExcludeRepos)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	global := writeYAML(t, dir, "global.yaml", "org: acme\nuser: alice\nstale_days: 5\n")

	t.Setenv(EnvOrg, "other-org")
	t.Setenv(EnvUser, "carol")
	t.Setenv(EnvStaleDays, "7")

	cfg, err := load(global, filepath.Join(dir, "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "other-org", cfg.Org)
	assert.Equal(t, "carol", cfg.User)
	assert.Equal(t, 7, cfg.StaleDays)
}

func TestLoadInvalidStaleDaysEnv(t *testing.T) {
	for _, v := range []string{"soon", "0", "-2"} {
		t.Run(v, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvStaleDays, v)
			dir := t.TempDir()

			_, err := load(filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml"))
			assert.Error(t, err)
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	global := writeYAML(t, dir, "global.yaml", "org: [unterminated\n")

	_, err := load(global, filepath.Join(dir, "none.yaml"))
	assert.Error(t, err)
}

func TestMergeConfig(t *testing.T) {
	tests := []struct {
		name   string
		global *Config
		local  *Config
		want   *Config
	}{
		{
			name:   "empty local preserves global",
			global: &Config{Org: "acme", StaleDays: 4, KnownBots: []string{"b"}},
			local:  &Config{},
			want:   &Config{Org: "acme", StaleDays: 4, KnownBots: []string{"b"}},
		},
		{
			name:   "local scalars win",
			global: &Config{Org: "acme", Transport: "gh", Timeout: "30s"},
			local:  &Config{Transport: "api", Timeout: "1m"},
			want:   &Config{Org: "acme", Transport: "api", Timeout: "1m"},
		},
		{
			name:   "local lists replace",
			global: &Config{KnownBots: []string{"a", "b"}},
			local:  &Config{KnownBots: []string{"c"}},
			want:   &Config{KnownBots: []string{"c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeConfig(tt.global, tt.local))
		})
	}
}

func TestCallTimeout(t *testing.T) {
	tests := []struct {
		timeout string
		want    time.Duration
	}{
		{"45s", 45 * time.Second},
		{"2m", 2 * time.Minute},
		{"", 30 * time.Second},
		{"garbage", 30 * time.Second},
		{"0s", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			cfg := &Config{Timeout: tt.timeout}
			assert.Equal(t, tt.want, cfg.CallTimeout())
		})
	}
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Org = "acme"
	assert.NoError(t, valid.Validate())

	noOrg := DefaultConfig()
	assert.Error(t, noOrg.Validate())

	badTransport := DefaultConfig()
	badTransport.Org = "acme"
	badTransport.Transport = "carrier-pigeon"
	assert.Error(t, badTransport.Validate())

	badTimeout := DefaultConfig()
	badTimeout.Org = "acme"
	badTimeout.Timeout = "whenever"
	assert.Error(t, badTimeout.Validate())

	badStale := DefaultConfig()
	badStale.Org = "acme"
	badStale.StaleDays = -1
	assert.Error(t, badStale.Validate())
}

func TestDefaultConfigRoundTrip(t *testing.T) {
	out, err := DefaultConfig().ToYAML()
	require.NoError(t, err)

	var parsed Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, 3, parsed.StaleDays)
	assert.Equal(t, "digest", parsed.DefaultFormat)
}

func TestMinimalConfigParses(t *testing.T) {
	var parsed Config
	require.NoError(t, yaml.Unmarshal([]byte(MinimalConfig()), &parsed))
	assert.Equal(t, 3, parsed.StaleDays)
	assert.Equal(t, "digest", parsed.DefaultFormat)
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, SaveTo(path, "org: acme\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "org: acme\n", string(data))
}

func TestValidateAccessIgnoresOrg(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.ValidateAccess())

	cfg.Transport = "ftp"
	assert.Error(t, cfg.ValidateAccess())
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestSetWritesOnlyFileValues(t *testing.T) {
	dir := t.TempDir()
	global := writeYAML(t, dir, "config.yaml", "user: alice\nknown_bots: [bot1]\n")

	t.Setenv(EnvOrg, "tmp-org")
	t.Setenv(EnvStaleDays, "9")

	cfg, err := LoadFile(global)
	require.NoError(t, err)
	require.NoError(t, cfg.Set("user", "me"))
	require.NoError(t, cfg.SaveAs(global))

	data, err := os.ReadFile(global)
	require.NoError(t, err)
	saved := string(data)

	assert.Contains(t, saved, "user: me")
	assert.Contains(t, saved, "bot1")
	assert.NotContains(t, saved, "tmp-org")
	assert.NotContains(t, saved, "stale_days")
	assert.NotContains(t, saved, "transport")
	assert.NotContains(t, saved, "output_path")
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{key: "org", value: "acme", check: func(t *testing.T, c *Config) { assert.Equal(t, "acme", c.Org) }},
		{key: "stale_days", value: "5", check: func(t *testing.T, c *Config) { assert.Equal(t, 5, c.StaleDays) }},
		{key: "stale_days", value: "0", wantErr: true},
		{key: "transport", value: "gh", check: func(t *testing.T, c *Config) { assert.Equal(t, "gh", c.Transport) }},
		{key: "transport", value: "ftp", wantErr: true},
		{key: "timeout", value: "1m", check: func(t *testing.T, c *Config) { assert.Equal(t, "1m", c.Timeout) }},
		{key: "timeout", value: "later", wantErr: true},
		{key: "format", value: "table", check: func(t *testing.T, c *Config) { assert.Equal(t, "table", c.DefaultFormat) }},
		{key: "token", value: "ghp_x", wantErr: true},
		{key: "colour", value: "blue", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
