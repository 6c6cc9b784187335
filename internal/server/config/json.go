package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/akosenkov/fleetdesk/internal/flagx"
	"github.com/akosenkov/fleetdesk/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which parses both string
// values such as "1h" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr                  string         `json:"endpoint_addr"`
	DatabaseDSN                   string         `json:"database_dsn"`
	SecretKey                     string         `json:"secret_key"`
	RecoveryTokenValidityDuration timex.Duration `json:"recovery_token_validity_duration"`
	RedisAddr                     string         `json:"redis_addr"`
	ResetLinkBase                 string         `json:"reset_link_base"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
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

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.RecoveryTokenValidityDuration = time.Duration(c.RecoveryTokenValidityDuration.Duration)
	config.RedisAddr = c.RedisAddr
	config.ResetLinkBase = c.ResetLinkBase
}
