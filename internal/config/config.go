package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tradesim/internal/models"
)

// Config содержит всю конфигурацию движка
type Config struct {
	Positions PositionsConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
	Replay    ReplayConfig
}

// PositionsConfig - режимы учёта позиций.
//
// Режим каждого инструмента читается ровно один раз при старте сессии и
// не меняется до её завершения; переключение режима на лету не
// поддерживается. Инструменты, отсутствующие в таблице, получают режим
// по умолчанию (one-way - обратная совместимость с одно-позиционной
// моделью).
type PositionsConfig struct {
	// DefaultMode - режим по умолчанию: one-way или hedge
	DefaultMode models.PositionMode
	// Instruments - таблица режимов по инструментам (ключ "Биржа-Символ")
	Instruments map[string]models.PositionMode
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// MetricsConfig - настройки экспорта метрик
type MetricsConfig struct {
	// Addr - адрес HTTP endpoint'а /metrics; пусто = экспорт выключен
	Addr string
}

// ReplayConfig - настройки драйвера воспроизведения
type ReplayConfig struct {
	// EventsFile - JSONL файл с событиями fill/mark
	EventsFile string
}

// modesFile - схема YAML файла с таблицей режимов
type modesFile struct {
	DefaultMode string            `yaml:"default_mode"`
	Instruments map[string]string `yaml:"instruments"`
}

// Load загружает конфигурацию из переменных окружения.
//
// Таблица режимов по инструментам опционально подгружается из YAML файла,
// указанного в MODES_FILE:
//
//	default_mode: one-way
//	instruments:
//	  Binance-BTC-USDT: hedge
//	  Binance-ETH-USDT: one-way
func Load() (*Config, error) {
	cfg := &Config{
		Positions: PositionsConfig{
			DefaultMode: models.PositionMode(getEnv("DEFAULT_POSITION_MODE", string(models.ModeOneWay))),
			Instruments: map[string]models.PositionMode{},
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
		Replay: ReplayConfig{
			EventsFile: getEnv("EVENTS_FILE", ""),
		},
	}

	if path := getEnv("MODES_FILE", ""); path != "" {
		if err := cfg.loadModesFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadModesFile подгружает таблицу режимов из YAML файла
func (c *Config) loadModesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read modes file %s: %w", path, err)
	}

	var mf modesFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("failed to parse modes file %s: %w", path, err)
	}

	if mf.DefaultMode != "" {
		c.Positions.DefaultMode = models.PositionMode(mf.DefaultMode)
	}
	for instrument, mode := range mf.Instruments {
		c.Positions.Instruments[instrument] = models.PositionMode(mode)
	}
	return nil
}

// validate проверяет корректность загруженной конфигурации
func (c *Config) validate() error {
	if !c.Positions.DefaultMode.Valid() {
		return fmt.Errorf("invalid DEFAULT_POSITION_MODE: %q (must be %q or %q)",
			c.Positions.DefaultMode, models.ModeOneWay, models.ModeHedge)
	}
	for instrument, mode := range c.Positions.Instruments {
		if !mode.Valid() {
			return fmt.Errorf("invalid position mode %q for instrument %s", mode, instrument)
		}
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %q (must be json or console)", c.Logging.Format)
	}

	return nil
}

// ModeFor возвращает режим учёта для инструмента.
// Инструменты вне таблицы получают режим по умолчанию.
func (c *Config) ModeFor(instrument string) models.PositionMode {
	if mode, ok := c.Positions.Instruments[instrument]; ok {
		return mode
	}
	return c.Positions.DefaultMode
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
