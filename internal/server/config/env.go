package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/storypoint/internal/flagx"
	"github.com/joho/godotenv"
)

// loadDotEnv loads the file named by -env, or ./.env when present. Variables
// already set in the process environment win.
func loadDotEnv() error {
	if path := flagx.EnvFileFlags(); path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// parseEnv overlays config with environment variables. Malformed numbers or
// durations panic, like a malformed config file.
func parseEnv(config *Config) {
	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	envString(&config.HTTPAddr, "HTTP_ADDR")
	if v, ok := os.LookupEnv("GRPC_ADDR"); ok {
		config.GRPCAddr = v
	}
	envString(&config.StoreBackend, "STORE_BACKEND")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.UsersTable, "USERS_TABLE")
	envString(&config.EmailsTable, "EMAILS_TABLE")
	envString(&config.RoomsTable, "ROOMS_TABLE")
	envDuration(&config.StoreTimeout, "STORE_TIMEOUT")
	envString(&config.SecretSource, "SECRET_SOURCE")
	envString(&config.SecretKey, "JWT_SECRET")
	envString(&config.JWTSecretARN, "JWT_SECRET_ARN")
	envString(&config.SecretBucket, "SECRET_BUCKET")
	envString(&config.SecretObjectKey, "SECRET_OBJECT_KEY")
	envDuration(&config.VaultTimeout, "VAULT_TIMEOUT")
	envInt(&config.SessionTTLDays, "JWT_EXPIRY_DAYS")
	envInt(&config.PasswordCost, "PASSWORD_SALT_ROUNDS")
	envString(&config.RootDomain, "ROOT_DOMAIN")
	envString(&config.CookieSameSite, "COOKIE_SAMESITE")
	envString(&config.AWSRegion, "AWS_REGION")
	envString(&config.AWSEndpoint, "AWS_ENDPOINT_URL")
	envString(&config.AWSAccessKeyID, "AWS_ACCESS_KEY_ID")
	envString(&config.AWSSecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	envString(&config.LogFormat, "LOG_FORMAT")
	envString(&config.LogLevel, "LOG_LEVEL")
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = n
}

func envDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}
