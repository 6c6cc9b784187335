package config

import (
	"flag"
	"os"
	"time"

	"github.com/akosenkov/fleetdesk/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-r int      recovery token validity, minutes
//	-x string   Redis address (empty = in-process token store)
//	-l string   reset link base URL
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The duration
// flag is accepted as an integer in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-r", "-x", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	recoveryTokenValidityDuration := fs.Int("r", int(config.RecoveryTokenValidityDuration.Minutes()), "recovery_token_validity_duration (in minutes)")

	fs.StringVar(&config.RedisAddr, "x", config.RedisAddr, "redis address for the token store")
	fs.StringVar(&config.ResetLinkBase, "l", config.ResetLinkBase, "reset link base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RecoveryTokenValidityDuration = time.Duration(*recoveryTokenValidityDuration) * time.Minute
}
