package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Swap     SwapConfig     `yaml:"swap"`
	Matching MatchingConfig `yaml:"matching"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	SwapEventsTopic    string   `yaml:"swap_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type SwapConfig struct {
	ExpiryHours     int    `yaml:"expiry_hours"`
	LockTTLSeconds  int    `yaml:"lock_ttl_seconds"`
	SearchCacheTTL  int    `yaml:"search_cache_ttl_seconds"`
	HomeAirport     string `yaml:"home_airport"`
	SuggestionLimit int    `yaml:"suggestion_limit"`
}

type MatchingConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Swap.HomeAirport == "" {
		cfg.Swap.HomeAirport = "MAD"
	}
	if cfg.Swap.ExpiryHours == 0 {
		cfg.Swap.ExpiryHours = 48
	}
	if cfg.Swap.LockTTLSeconds == 0 {
		cfg.Swap.LockTTLSeconds = 10
	}
	if cfg.Swap.SuggestionLimit == 0 {
		cfg.Swap.SuggestionLimit = 10
	}

	return &cfg, nil
}
