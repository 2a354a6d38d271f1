package config

import (
	"flag"
	"io"
	"os"

	"github.com/quotevote/authkeeper/internal/flagx"
)

// parseFlags populates config from command-line flags.
//
// Supported flags (short forms):
//
//	-a string    gRPC bind address (e.g. ":50051")
//	-m string    metrics/health bind address, "" disables
//	-d string    PostgreSQL DSN, "" selects the in-memory store
//	-s string    JWT HMAC secret key
//	-k int       bcrypt cost
//	-w duration  account store call timeout (e.g. "5s")
//	-R           rotate refresh tokens on refresh
//
// Arguments are filtered with flagx.FilterArgs first so that -c/-config and
// flags owned by other components do not cause parse errors.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-s", "-k", "-w", "-R"}, "-R")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.DurationVar(&config.StoreTimeout, "w", config.StoreTimeout, "store call timeout")
	fs.BoolVar(&config.RotateRefreshTokens, "R", config.RotateRefreshTokens, "rotate refresh tokens")

	return fs.Parse(args)
}
