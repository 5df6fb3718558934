package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  name: talent-bridge
  env: test
  http_port: "9090"
database:
  host: db.local
  name: talent
  user: tb
jwt:
  access_secret: from-file
matching:
  workers: 4
  result_cache_ttl: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("JWT_ACCESS_SECRET", "from-env")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "db.local", cfg.Database.DBHost)
	assert.Equal(t, "5432", cfg.Database.DBPort)
	assert.Equal(t, "from-env", cfg.JWT.AccessSecret)
	assert.Equal(t, 4, cfg.Matching.Workers)
	assert.Equal(t, 30*time.Second, cfg.Matching.ResultCacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate_ReportsAllMissingKeys(t *testing.T) {
	cfg := Config{
		App:      AppConfig{AppName: "tb", Environment: "test", HTTPPort: "8080"},
		Matching: MatchingConfig{Workers: 1},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "DATABASE_HOST")
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
}

func TestValidate_RejectsZeroWorkers(t *testing.T) {
	cfg := Config{
		App:      AppConfig{AppName: "tb", Environment: "test", HTTPPort: "8080"},
		Database: DatabaseConfig{DBHost: "h", DBName: "n", DBUser: "u"},
		JWT:      JWTConfig{AccessSecret: "s"},
	}
	assert.Error(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{DBHost: " h ", DBPort: "5432", DBUser: "u", DBPassword: "p w", DBName: "n", DBSSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p w dbname=n sslmode=disable", d.DSN())
}
