package config

import (
	"encoding/hex"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN    string `env:"DATABASE_URI"`
	AuthSecret     string `env:"AUTH_SECRET"`
	MasterKey      string `env:"MASTER_KEY"` // hex, 32 байта после декодирования
	TokenTTLSec    int    `env:"TOKEN_TTL"`  // время жизни одноразового токена, секунды
	FrontendOrigin string `env:"FRONTEND_ORIGIN"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Agent-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show agent version and exit (flag only)
}

// ErrInvalidMasterKey — мастер-ключ не hex или не 32 байта.
var ErrInvalidMasterKey = errors.New("master key must be 32 bytes hex-encoded")

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.MasterKey, "master-key", cfg.MasterKey, "мастер-ключ шифрования (hex, 32 байта)")
	flag.IntVar(&cfg.TokenTTLSec, "token-ttl", cfg.TokenTTLSec, "TTL одноразового токена автозаполнения, сек")
	flag.StringVar(&cfg.FrontendOrigin, "frontend-origin", cfg.FrontendOrigin, "origin дашборда для CORS")
	// Shared/agent flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the PassVault server (may be host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (agent: prefer https scheme for BaseURL)")
	// Agent flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (agent)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show agent version and exit")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TokenTTLSec <= 0 {
		cfg.TokenTTLSec = 60
	}
	if cfg.FrontendOrigin == "" {
		cfg.FrontendOrigin = "http://localhost:5173"
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill agent defaults if empty
	home, _ := os.UserHomeDir()
	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(home, ".pv_token")
	}

	return cfg
}

// MasterKeyBytes декодирует мастер-ключ из hex и проверяет длину.
// Сам ключ никогда не логируется и не попадает в ответы API.
func (c *Config) MasterKeyBytes() ([]byte, error) {
	b, err := hex.DecodeString(c.MasterKey)
	if err != nil {
		return nil, ErrInvalidMasterKey
	}
	if len(b) != 32 {
		return nil, ErrInvalidMasterKey
	}
	return b, nil
}

// TokenTTL возвращает TTL одноразового токена как Duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSec) * time.Second
}
