package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Переменные окружения с учетными данными EZVIZ
const (
	EnvAppKey    = "EZVIZ_APP_KEY"
	EnvAppSecret = "EZVIZ_APP_SECRET"
)

// Config представляет конфигурацию приложения
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort string `yaml:"grpc_port"`

	Logging  LoggingConfig  `yaml:"logging"`
	Ezviz    EzvizConfig    `yaml:"ezviz"`
	Backend  BackendConfig  `yaml:"backend"`
	Registry RegistryConfig `yaml:"registry"`
	Feed     FeedConfig     `yaml:"feed"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	CORS     CORSConfig     `yaml:"cors"`
}

// LoggingConfig - настройки логгера
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EzvizConfig - доступ к облачному API EZVIZ
type EzvizConfig struct {
	BaseURL        string        `yaml:"base_url"`
	AppKey         string        `yaml:"app_key"`
	AppSecret      string        `yaml:"app_secret"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// BackendConfig - адрес локального бэкенда (используется клиентом health-check)
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RegistryConfig - файлы с камерами и маркерами карты.
// Пустой путь означает встроенные данные.
type RegistryConfig struct {
	CamerasFile string `yaml:"cameras_file"`
	MarkersFile string `yaml:"markers_file"`
}

// FeedConfig - параметры websocket-ленты
type FeedConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// MetricsConfig - экспорт метрик Prometheus
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// CORSConfig - разрешенные источники для браузера
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoadConfig загружает конфигурацию из файла.
// Незаполненные поля берутся из GetDefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// GetDefaultConfig возвращает конфигурацию по умолчанию
func GetDefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     9000,
		GRPCPort: "9090",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Ezviz: EzvizConfig{
			BaseURL:        "https://open.ys7.com/api/lapp",
			RequestTimeout: 10 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:9000/api/ezviz",
			Timeout: 10 * time.Second,
		},
		Feed: FeedConfig{
			Interval: 5 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// ApplyEnv читает учетные данные EZVIZ из окружения (и из .env, если он есть).
// Вызывается один раз при старте; значения из окружения перекрывают файл.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if v := os.Getenv(EnvAppKey); v != "" {
		c.Ezviz.AppKey = v
	}
	if v := os.Getenv(EnvAppSecret); v != "" {
		c.Ezviz.AppSecret = v
	}
	return nil
}

// Address возвращает адрес HTTP сервера
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
