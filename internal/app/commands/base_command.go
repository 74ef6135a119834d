package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"flood-monitor/internal/config"
)

// DefaultConfigPath - путь к файлу конфигурации по умолчанию
const DefaultConfigPath = "./config/config.yaml"

// CommandContext содержит общий контекст для всех команд
type CommandContext struct {
	Logger *zap.Logger
	Config *config.Config
}

// GlobalFlags - флаги, общие для всех команд
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   DefaultConfigPath,
			Usage:   "Path to the YAML config file",
			EnvVars: []string{"FLOOD_MONITOR_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "env-file",
			Value: ".env",
			Usage: "Optional .env file with EZVIZ_APP_KEY / EZVIZ_APP_SECRET",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug mode",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

// NewCommandContext создает новый контекст команды
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, cfgErr := loadConfig(c)
	if cfg == nil {
		return nil, cfgErr
	}

	// Настраиваем логгер
	logLevel := cfg.Logging.Level
	if c.IsSet("log-level") {
		logLevel = c.String("log-level")
	}
	logger, err := createLogger(c.Bool("debug"), logLevel, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if cfgErr != nil {
		logger.Warn("Failed to load config, using defaults",
			zap.String("path", c.String("config")),
			zap.Error(cfgErr))
	}

	return &CommandContext{
		Logger: logger,
		Config: cfg,
	}, nil
}

// createLogger создает логгер
func createLogger(debug bool, level, format string) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return loggerConfig(level, format).Build()
}

// loggerConfig - production-конфигурация zap с уровнем и форматом (json или console)
func loggerConfig(level, format string) zap.Config {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zap.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(logLevel)
	if format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return config
}

// loadConfig загружает конфигурацию.
// Отсутствующий файл не ошибка: берутся значения по умолчанию, ошибка возвращается для лога.
// Ненулевой cfg с ошибкой означает откат на значения по умолчанию.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")

	cfg, loadErr := config.LoadConfig(path)
	if loadErr != nil {
		if !errors.Is(loadErr, os.ErrNotExist) {
			return nil, loadErr
		}
		cfg = config.GetDefaultConfig()
	}

	if err := cfg.ApplyEnv(c.String("env-file")); err != nil {
		return nil, err
	}

	// Флаги перекрывают файл
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("grpc-port") {
		cfg.GRPCPort = c.String("grpc-port")
	}

	return cfg, loadErr
}
