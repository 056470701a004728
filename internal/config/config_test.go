package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8000", cfg.Server.Listen)
	assert.Equal(t, "http://k8s-mcp-service.k8s-admin:80", cfg.Providers["k8s"])
	assert.Len(t, cfg.Providers, 4)
	assert.Equal(t, 30*time.Second, cfg.Tools.Timeout.Std())
	assert.Equal(t, BackendBedrock, cfg.Reasoning.Backend)
	assert.Equal(t, 200, cfg.Reasoning.MaxTokens)
}

func TestParse_MergesOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  level: debug
providers:
  custom: http://localhost:9001
  extra: http://localhost:9002
tools:
  timeout: 5s
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "http://localhost:9001", cfg.Providers["custom"])
	assert.Equal(t, "http://localhost:9002", cfg.Providers["extra"])
	assert.Equal(t, "http://aws-mcp-service:80", cfg.Providers["aws"])
	assert.Equal(t, 5*time.Second, cfg.Tools.Timeout.Std())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("AGENTCORE_TEST_KEY", "secret")
	t.Setenv("AGENTCORE_TEST_HOST", "db.internal")

	cfg, err := Parse([]byte(`
reasoning:
  backend: gemini
  api_key: ${AGENTCORE_TEST_KEY}
providers:
  database: http://${AGENTCORE_TEST_HOST}:80
backends:
  custom:
    redis_addr: ${AGENTCORE_TEST_UNSET}
`))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Reasoning.APIKey)
	assert.Equal(t, "http://db.internal:80", cfg.Providers["database"])
	assert.Equal(t, "${AGENTCORE_TEST_UNSET}", cfg.Backends["custom"]["redis_addr"])
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad duration": "tools:\n  timeout: soon\n",
		"bad endpoint": "providers:\n  aws: not-a-url\n",
		"bad backend":  "reasoning:\n  backend: oracle\n",
		"zero tokens":  "reasoning:\n  max_tokens: 0\n",
		"bad yaml":     "providers: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestBackendOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
backends:
  database:
    driver: sqlite
    dsn: /tmp/agentcore.db
  custom:
    redis_db: "2"
`))
	require.NoError(t, err)

	var db struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	}
	require.NoError(t, cfg.BackendOptions("database", &db))
	assert.Equal(t, "sqlite", db.Driver)
	assert.Equal(t, "/tmp/agentcore.db", db.DSN)

	var custom struct {
		RedisDB int `mapstructure:"redis_db"`
	}
	require.NoError(t, cfg.BackendOptions("custom", &custom))
	assert.Equal(t, 2, custom.RedisDB)

	var untouched struct{ Region string }
	require.NoError(t, cfg.BackendOptions("aws", &untouched))

	var strict struct{ Driver string }
	assert.Error(t, cfg.BackendOptions("database", &strict))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agentcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  listen: \":9000\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Listen)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Listen)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("AGENTCORE_DOTENV_VAR=from-file\n"), 0o600))
	t.Setenv("AGENTCORE_DOTENV_VAR", "")
	os.Unsetenv("AGENTCORE_DOTENV_VAR")

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env"), path))
	assert.Equal(t, "from-file", os.Getenv("AGENTCORE_DOTENV_VAR"))
}
