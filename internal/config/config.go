package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	LogLevel     string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	JWTSecretKey string    `yaml:"jwt-secret-key" env:"JWT_SECRET_KEY"`
	Storage      Storage   `yaml:"storage"`
	Redis        Redis     `yaml:"redis"`
	Game         Game      `yaml:"game"`
	Retention    Retention `yaml:"retention"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	MoveTimeout time.Duration `yaml:"move-timeout" env:"GAME_MOVE_TIMEOUT" env-default:"60s"`
	CodeRetries int           `yaml:"code-retries" env:"GAME_CODE_RETRIES" env-default:"10"`
	LockTTL     time.Duration `yaml:"lock-ttl" env:"GAME_LOCK_TTL" env-default:"5s"`
	LockWait    time.Duration `yaml:"lock-wait" env:"GAME_LOCK_WAIT" env-default:"3s"`
}

type Retention struct {
	KeepLast int           `yaml:"keep-last" env:"RETENTION_KEEP_LAST" env-default:"3"`
	Timeout  time.Duration `yaml:"timeout" env:"RETENTION_TIMEOUT" env-default:"5s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return config
}

func (that *Config) Validate() error {
	switch that.Storage.Driver {
	case StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", that.Storage.Driver)
	}

	if that.JWTSecretKey == "" {
		return errors.New("jwt-secret-key is required")
	}

	if that.Game.MoveTimeout <= 0 {
		return errors.New("game.move-timeout must be positive")
	}

	if that.Game.CodeRetries <= 0 {
		return errors.New("game.code-retries must be positive")
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
