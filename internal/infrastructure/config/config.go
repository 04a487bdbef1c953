package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/taskbox/todo-api/internal/token"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	PublicDir string `env:"PUBLIC_DIR, default=public"`

	BcryptCost  int `env:"BCRYPT_COST,  default=10"`
	HashWorkers int `env:"HASH_WORKERS, default=0"` // 0 = number of CPUs

	Token TokenConfig
	DB    DBConfig
	Redis RedisConfig
}

type TokenConfig struct {
	TTL       time.Duration     `env:"TOKEN_TTL,        default=24h"`
	ActiveKID string            `env:"TOKEN_ACTIVE_KID, default=v1"`
	SignKeys  map[string]string `env:"TOKEN_SIGN_KEYS"`
	CryptKeys map[string]string `env:"TOKEN_CRYPT_KEYS"`
}

type DBConfig struct {
	// URL selects Postgres when ENV=production.
	URL string `env:"DATABASE_URL"`
	// SQLitePath is the fallback engine for every other environment.
	SQLitePath string `env:"SQLITE_PATH, default=data/todo-api.sqlite"`
}

type RedisConfig struct {
	// Addr enables the Redis-backed token deny-list when set; the service
	// falls back to an in-process deny-list otherwise.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Keyring assembles the token keyring from the paired sign/crypt key maps.
// Every kid must appear in both maps.
func (c TokenConfig) Keyring() (token.Keyring, error) {
	if len(c.SignKeys) != len(c.CryptKeys) {
		return token.Keyring{}, fmt.Errorf("config: TOKEN_SIGN_KEYS and TOKEN_CRYPT_KEYS must name the same kids")
	}

	keys := make(map[string]token.Key, len(c.SignKeys))
	for kid, sign := range c.SignKeys {
		crypt, ok := c.CryptKeys[kid]
		if !ok {
			return token.Keyring{}, fmt.Errorf("config: kid %q has no TOKEN_CRYPT_KEYS entry", kid)
		}
		keys[kid] = token.Key{Sign: sign, Encrypt: crypt}
	}

	return token.NewKeyring(c.ActiveKID, keys)
}
