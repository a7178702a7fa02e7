package internal

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	DriverBadger   = "badger"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	Host     string `env:"HOST,default=0.0.0.0"`
	GrpcPort int    `env:"GRPC_PORT,default=50051" validate:"gt=0,lt=65536"`
	HttpPort int    `env:"HTTP_PORT,default=8080" validate:"gt=0,lt=65536"`

	StoreDriver    string `env:"STORE_DRIVER,default=badger" validate:"oneof=badger mongo postgres"`
	BadgerFilepath string `env:"BADGER_FILEPATH" validate:"required_if=StoreDriver badger"`
	MongoURI       string `env:"MONGO_URI" validate:"required_if=StoreDriver mongo"`
	MongoDatabase  string `env:"MONGO_DATABASE,default=market"`
	PostgresDSN    string `env:"POSTGRES_DSN" validate:"required_if=StoreDriver postgres"`

	JwtSecret         string        `env:"JWT_SECRET,required=true" validate:"min=16"`
	JwtIssuer         string        `env:"JWT_ISSUER,default=market-lab"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=720h" validate:"gt=0"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required=true"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required=true"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL,required=true" validate:"url"`

	FrontendURL    string `env:"FRONTEND_URL,required=true" validate:"url"`
	CallbackPath   string `env:"CALLBACK_PATH,default=/auth/callback"`
	FailurePath    string `env:"FAILURE_PATH,default=/auth/failure"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	EventBufferSize      int           `env:"EVENT_BUFFER_SIZE,default=1024" validate:"gt=0"`
	SubscriberBufferSize int           `env:"SUBSCRIBER_BUFFER_SIZE,default=64" validate:"gt=0"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT,default=15s" validate:"gt=0"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL,default=1m" validate:"gt=0"`
}

// Load reads the optional .env files, then the environment.
// Values already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("env file %s: %w", file, err)
		}
	}

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// Origins falls back to the frontend so the CORS policy is never empty.
func (c Config) Origins() []string {
	origins := lo.Compact(lo.Map(strings.Split(c.AllowedOrigins, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if len(origins) == 0 {
		return []string{strings.TrimRight(c.FrontendURL, "/")}
	}
	return origins
}

func (c Config) GrpcAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GrpcPort)
}

func (c Config) HttpAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HttpPort)
}
