package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/storypoint/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-store", "-d", "-secret-source", "-s", "-secret-arn", "-t", "-cost", "-domain"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g., ":8080")
//	-g string              gRPC bind address; empty disables gRPC
//	-store string          store backend: memory, postgres, dynamodb
//	-d string              PostgreSQL DSN
//	-secret-source string  static, secretsmanager or s3
//	-s string              static signing secret
//	-secret-arn string     Secrets Manager id of the signing secret
//	-t int                 session lifetime, days
//	-cost int              bcrypt cost
//	-domain string         session cookie domain
//
// os.Args is first filtered with flagx.FilterArgs so -c/-config and -env
// do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run the gRPC server")
	fs.StringVar(&config.StoreBackend, "store", config.StoreBackend, "store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretSource, "secret-source", config.SecretSource, "signing secret source")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "static signing secret")
	fs.StringVar(&config.JWTSecretARN, "secret-arn", config.JWTSecretARN, "signing secret ARN")
	fs.IntVar(&config.SessionTTLDays, "t", config.SessionTTLDays, "session lifetime (in days)")
	fs.IntVar(&config.PasswordCost, "cost", config.PasswordCost, "bcrypt cost")
	fs.StringVar(&config.RootDomain, "domain", config.RootDomain, "session cookie domain")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
