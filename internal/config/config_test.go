package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "memory://", cfg.Database.URL)
	require.Equal(t, int64(1), cfg.Database.IDStart)
	require.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSOrigins)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "streamish.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  request_timeout: 3s
database:
  url: sqlite://streamish.db
  id_start: 10
log:
  level: debug
`), 0o600))

	t.Setenv("STREAMISH_DATABASE_URL", "postgres://u:p@localhost/streamish")
	t.Setenv("STREAMISH_HTTP_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("STREAMISH_SERVER_GRPC_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, ":9090", cfg.Server.GRPCAddr)
	require.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	require.Equal(t, "postgres://u:p@localhost/streamish", cfg.Database.URL)
	require.Equal(t, int64(10), cfg.Database.IDStart)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STREAMISH_DATABASE_ID_START", "0")
	_, err := Load("")
	require.ErrorContains(t, err, "id_start")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("nope.yaml")
	require.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	require.Equal(t, "database.seed_file", envKey("STREAMISH_DATABASE_SEED_FILE"))
	require.Equal(t, "server.addr", envKey("STREAMISH_SERVER_ADDR"))
}

func TestLogConfig_NewLogger(t *testing.T) {
	log, err := LogConfig{Level: "warn"}.NewLogger()
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = LogConfig{Level: "loud"}.NewLogger()
	require.Error(t, err)
}
