package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	LogLevel  string `yaml:"log-level" env-default:"info"`
	HumanMark string `yaml:"human-mark" env-default:"X"`
	Solver    Solver `yaml:"solver"`
	Redis     Redis  `yaml:"redis"`
}

type Solver struct {
	Pruning  bool   `yaml:"pruning" env-default:"false"`
	Parallel bool   `yaml:"parallel" env-default:"false"`
	Cache    string `yaml:"cache" env-default:"memory"`
}

type Redis struct {
	Host      string `yaml:"host" env-default:"localhost"`
	Port      string `yaml:"port" env-default:"6379"`
	KeyPrefix string `yaml:"key-prefix" env-default:"minimax:"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
