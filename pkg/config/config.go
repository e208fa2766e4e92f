package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB; empty runs the API on in-memory demo state
	PGMarketDSN string `envconfig:"PG_MARKET_DSN" default:""`
	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`
	// Network
	APIHTTPAddr string `envconfig:"API_HTTP_ADDR" default:":8080"`
	// RabbitMQ
	RabbitURL      string `envconfig:"RABBIT_URL" default:""`
	MarketExchange string `envconfig:"MARKET_EXCHANGE" default:"market.exchange"`
	// Redis (listing/port cache)
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`
	// Collaborators (all optional; empty = disabled)
	VerifyBaseURL  string `envconfig:"VERIFY_BASE_URL" default:""`
	DocsBaseURL    string `envconfig:"DOCS_BASE_URL" default:""`
	ProbeURL       string `envconfig:"NET_PROBE_URL" default:"https://clients3.google.com/generate_204"`
	OmisePublicKey string `envconfig:"OMISE_PUBLIC_KEY" default:""`
	OmiseSecretKey string `envconfig:"OMISE_SECRET_KEY" default:""`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
