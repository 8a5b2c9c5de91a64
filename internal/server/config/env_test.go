package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("HTTP_ADDR", ":8181")
	t.Setenv("GRPC_ADDR", "")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://db")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("SECRET_SOURCE", "s3")
	t.Setenv("SECRET_BUCKET", "secrets")
	t.Setenv("SECRET_OBJECT_KEY", "jwt.json")
	t.Setenv("JWT_EXPIRY_DAYS", "2")
	t.Setenv("PASSWORD_SALT_ROUNDS", "11")
	t.Setenv("ROOT_DOMAIN", "storypoint.dev")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")

	cfg := defaults()
	parseEnv(cfg)

	assert.Equal(t, ":8181", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.GRPCAddr)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
	assert.Equal(t, 750*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, SecretSourceS3, cfg.SecretSource)
	assert.Equal(t, "secrets", cfg.SecretBucket)
	assert.Equal(t, "jwt.json", cfg.SecretObjectKey)
	assert.Equal(t, 2, cfg.SessionTTLDays)
	assert.Equal(t, 11, cfg.PasswordCost)
	assert.Equal(t, "storypoint.dev", cfg.RootDomain)
	assert.Equal(t, "AKID", cfg.AWSAccessKeyID)
	assert.Equal(t, "SECRET", cfg.AWSSecretAccessKey)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-dotenv\nROOT_DOMAIN=dotenv.example\n"), 0o600))

	// godotenv.Load sets these for the rest of the process; t.Setenv
	// restores the originals afterwards.
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ROOT_DOMAIN", "from-process")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	os.Args = []string{"testbin", "-env", path}

	cfg := defaults()
	parseEnv(cfg)

	assert.Equal(t, "from-dotenv", cfg.SecretKey)
	assert.Equal(t, "from-process", cfg.RootDomain, "process environment wins over the file")
}

func TestParseEnv_Malformed(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Run("int", func(t *testing.T) {
		t.Setenv("JWT_EXPIRY_DAYS", "seven")
		require.Panics(t, func() { parseEnv(defaults()) })
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("VAULT_TIMEOUT", "5")
		require.Panics(t, func() { parseEnv(defaults()) })
	})

	t.Run("missing env file", func(t *testing.T) {
		os.Args = []string{"testbin", "-env", filepath.Join(t.TempDir(), "absent.env")}
		require.Panics(t, func() { parseEnv(defaults()) })
	})
}
