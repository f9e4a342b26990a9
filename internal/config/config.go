package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	TransportURL   = "url"
	TransportRedis = "redis"
)

var ErrUnknownTransport = errors.New("unknown transport")

type Config struct {
	LogLevel     string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	BaseURL      string        `yaml:"base-url" env:"BASE_URL" env-default:"http://localhost:8080/"`
	PollInterval time.Duration `yaml:"poll-interval" env:"POLL_INTERVAL" env-default:"1s"`
	Transport    string        `yaml:"transport" env:"TRANSPORT" env-default:"url"`
	ClearScreen  bool          `yaml:"clear-screen" env:"CLEAR_SCREEN" env-default:"true"`
	Redis        Redis         `yaml:"redis"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	KeyTTL   time.Duration `yaml:"key-ttl" env:"REDIS_KEY_TTL" env-default:"24h"`
}

// MustLoad - load all configurations from the config file, or from the
// environment alone when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		err = cleanenv.ReadEnv(config)
	case err == nil:
		err = cleanenv.ReadConfig(path, config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Transport {
	case TransportURL, TransportRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTransport, that.Transport)
	}

	if that.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive, got %s", that.PollInterval)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
