package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	MarketAddr string `envconfig:"MARKET_ADDR"`
	// Must match the server so the suite can mint sessions for its fake users
	JwtSecret string `envconfig:"JWT_SECRET"`
	JwtIssuer string `envconfig:"JWT_ISSUER" default:"market-lab"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
