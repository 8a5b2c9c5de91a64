package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/storypoint/internal/flagx"
	"github.com/dmitrijs2005/storypoint/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "5s" or
// nanoseconds. Absent fields leave the current value alone.
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	GRPCAddr           *string        `json:"grpc_addr"`
	StoreBackend       string         `json:"store_backend"`
	DatabaseDSN        string         `json:"database_dsn"`
	UsersTable         string         `json:"users_table"`
	EmailsTable        string         `json:"emails_table"`
	RoomsTable         string         `json:"rooms_table"`
	StoreTimeout       timex.Duration `json:"store_timeout"`
	SecretSource       string         `json:"secret_source"`
	SecretKey          string         `json:"secret_key"`
	JWTSecretARN       string         `json:"jwt_secret_arn"`
	SecretBucket       string         `json:"secret_bucket"`
	SecretObjectKey    string         `json:"secret_object_key"`
	VaultTimeout       timex.Duration `json:"vault_timeout"`
	SessionTTLDays     int            `json:"session_ttl_days"`
	PasswordCost       int            `json:"password_cost"`
	RootDomain         string         `json:"root_domain"`
	CookieSameSite     string         `json:"cookie_samesite"`
	AWSRegion          string         `json:"aws_region"`
	AWSEndpoint        string         `json:"aws_endpoint"`
	AWSAccessKeyID     string         `json:"aws_access_key_id"`
	AWSSecretAccessKey string         `json:"aws_secret_access_key"`
	LogFormat          string         `json:"log_format"`
	LogLevel           string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, over config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	if c.GRPCAddr != nil {
		config.GRPCAddr = *c.GRPCAddr
	}
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.UsersTable, c.UsersTable)
	setString(&config.EmailsTable, c.EmailsTable)
	setString(&config.RoomsTable, c.RoomsTable)
	if c.StoreTimeout.Duration > 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	setString(&config.SecretSource, c.SecretSource)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.JWTSecretARN, c.JWTSecretARN)
	setString(&config.SecretBucket, c.SecretBucket)
	setString(&config.SecretObjectKey, c.SecretObjectKey)
	if c.VaultTimeout.Duration > 0 {
		config.VaultTimeout = c.VaultTimeout.Duration
	}
	if c.SessionTTLDays != 0 {
		config.SessionTTLDays = c.SessionTTLDays
	}
	if c.PasswordCost != 0 {
		config.PasswordCost = c.PasswordCost
	}
	setString(&config.RootDomain, c.RootDomain)
	setString(&config.CookieSameSite, c.CookieSameSite)
	setString(&config.AWSRegion, c.AWSRegion)
	setString(&config.AWSEndpoint, c.AWSEndpoint)
	setString(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	setString(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
