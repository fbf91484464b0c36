package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type JWT struct {
	Secret   string        `envconfig:"JWT_SECRET"`
	Issuer   string        `envconfig:"JWT_ISS" default:"payments-dashboard"`
	Audience string        `envconfig:"JWT_AUD"`
	TTL      time.Duration `envconfig:"JWT_ACCESS_TTL" default:"5m"`
}

// Enabled reports whether service tokens are configured.
func (j JWT) Enabled() bool { return j.Secret != "" }

type Kafka struct {
	Brokers string `envconfig:"KAFKA_BROKERS"`
	Topic   string `envconfig:"KAFKA_TOPIC_TRANSACTIONS"`
}

func (k Kafka) Enabled() bool { return k.Brokers != "" && k.Topic != "" }

// BrokerList splits the comma separated KAFKA_BROKERS value.
func (k Kafka) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

type Upstream struct {
	URL            string        `envconfig:"API_URL"`
	Timeout        time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`
	BreakerEnabled bool          `envconfig:"UPSTREAM_BREAKER_ENABLED" default:"false"`
}

// Dashboard is the configuration of the web dashboard (cmd/main.go).
type Dashboard struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Addr     string `envconfig:"HTTP_ADDR" default:":3000"`
	Upstream Upstream
	JWT      JWT
	Kafka    Kafka
}

// Sandbox is the configuration of the development transaction API (cmd/sandbox).
type Sandbox struct {
	Env         string        `envconfig:"APP_ENV" default:"development"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	Addr        string        `envconfig:"SANDBOX_ADDR" default:":8000"`
	DatabaseURL string        `envconfig:"SANDBOX_DATABASE_URL"`
	SettleDelay time.Duration `envconfig:"SANDBOX_SETTLE_DELAY" default:"0s"`
	QueueSize   int           `envconfig:"SANDBOX_QUEUE_SIZE" default:"100"`
	JWT         JWT
	Kafka       Kafka // read side of the submission events, for GET /events
}

var ErrMissingAPIURL = errors.New("API_URL is required")

// LoadDashboard reads an optional env file (".env" when none is given) and
// then the process environment. Variables already set win over the file.
func LoadDashboard(envFiles ...string) (*Dashboard, error) {
	loadEnvFiles(envFiles)

	var cfg Dashboard
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.Upstream.URL = strings.TrimRight(strings.TrimSpace(cfg.Upstream.URL), "/")
	if cfg.Upstream.URL == "" {
		return nil, ErrMissingAPIURL
	}
	return &cfg, nil
}

func LoadSandbox(envFiles ...string) (*Sandbox, error) {
	loadEnvFiles(envFiles)

	var cfg Sandbox
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	return &cfg, nil
}

// a missing env file is not an error
func loadEnvFiles(paths []string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}
