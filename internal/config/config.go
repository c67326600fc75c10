package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string `yaml:"env" env:"XE_ENV" env-default:"local"`
	Client Client `yaml:"client"`
	Stub   Stub   `yaml:"stub"`
}

// Client configures the boundary client and where the session token
// lives. An empty StateDir resolves to the user config dir at startup.
type Client struct {
	BaseURL  string        `yaml:"base_url" env:"XE_API_BASE_URL" env-default:"http://localhost:3333"`
	Timeout  time.Duration `yaml:"timeout" env:"XE_API_TIMEOUT" env-default:"10s"`
	StateDir string        `yaml:"state_dir" env:"XE_STATE_DIR"`
}

// Stub configures the bundled local implementation of the boundary.
type Stub struct {
	Address     string        `yaml:"address" env:"XE_STUB_ADDRESS" env-default:"localhost:3333"`
	StoragePath string        `yaml:"storage_path" env:"XE_STUB_STORAGE_PATH" env-default:"xe-stub.db"`
	TokenSecret string        `yaml:"token_secret" env:"XE_STUB_TOKEN_SECRET" env-default:"local-dev-secret"`
	TokenTTL    time.Duration `yaml:"token_ttl" env:"XE_STUB_TOKEN_TTL" env-default:"24h"`
	Timeout     time.Duration `yaml:"timeout" env:"XE_STUB_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"XE_STUB_IDLE_TIMEOUT" env-default:"60s"`
	AuthRPS     float64       `yaml:"auth_rps" env:"XE_STUB_AUTH_RPS" env-default:"5"`
	AuthBurst   int           `yaml:"auth_burst" env:"XE_STUB_AUTH_BURST" env-default:"10"`
}

// MustLoad reads CONFIG_PATH when set, plain env vars otherwise.
func MustLoad() *Config {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Fatalf("config file does not exist: %s", path)
		}

		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}

		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from env: %s", err)
	}

	return &cfg
}
