package main

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradesim/internal/config"
	"tradesim/internal/engine"
	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

// replay - драйвер воспроизведения: заменяет внешний симулятор исполнения.
//
// Читает JSONL поток событий и последовательно прогоняет его через учётное
// ядро. События одного инструмента идут в порядке файла - этим
// обеспечивается требуемая внешняя сериализация.
//
// Формат событий:
//
//	{"type":"fill","instrument":"Binance-BTC-USDT","quantity":"1.0","price":"100","trade_side":"buy","position_side":"long"}
//	{"type":"mark","instrument":"Binance-BTC-USDT","price":"105"}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// replayEvent - одна строка входного потока
type replayEvent struct {
	Type         string              `json:"type"` // fill, mark
	Instrument   string              `json:"instrument"`
	Quantity     decimal.Decimal     `json:"quantity"`
	Price        decimal.Decimal     `json:"price"`
	TradeSide    models.TradeSide    `json:"trade_side"`
	PositionSide models.PositionSide `json:"position_side"`
	ReduceOnly   bool                `json:"reduce_only"`
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логирования
	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Replay.EventsFile == "" {
		logger.Fatal("EVENTS_FILE is required")
	}

	// Реестр учётных сессий
	store, err := engine.NewStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build store", zap.Error(err))
	}

	// Экспорт метрик (опционально)
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, logger)
	}

	applied, rejected, err := replay(cfg.Replay.EventsFile, store, logger)
	if err != nil {
		logger.Fatal("replay failed", zap.Error(err))
	}

	report(store, logger, applied, rejected)

	// Если метрики экспортируются - держим процесс до сигнала,
	// чтобы Prometheus успел собрать результаты
	if cfg.Metrics.Addr != "" {
		waitForShutdown(logger)
	}
}

// replay прогоняет поток событий через реестр сессий.
// Отклонённые события логируются и не прерывают воспроизведение -
// решение об их судьбе принадлежит слою стратегии.
func replay(path string, store *engine.Store, logger *zap.Logger) (applied, rejected int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var ev replayEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return applied, rejected, fmt.Errorf("line %d: malformed event: %w", line, err)
		}
		if ev.Instrument == "" {
			return applied, rejected, fmt.Errorf("line %d: instrument is required", line)
		}

		session, err := store.Open(ev.Instrument)
		if err != nil {
			return applied, rejected, fmt.Errorf("line %d: %w", line, err)
		}

		switch ev.Type {
		case "mark":
			session.SetMarkPrice(ev.Price)
		case "fill":
			fill := models.Fill{
				Quantity:     ev.Quantity,
				Price:        ev.Price,
				TradeSide:    ev.TradeSide,
				PositionSide: ev.PositionSide,
				ReduceOnly:   ev.ReduceOnly,
			}
			if _, err := session.ApplyFill(fill); err != nil {
				rejected++
				continue // отклонение уже залогировано сессией
			}
			applied++
		default:
			return applied, rejected, fmt.Errorf("line %d: unknown event type %q", line, ev.Type)
		}

		engine.UpdateOpenPositions(store.CountOpenPositions())
	}
	if err := scanner.Err(); err != nil {
		return applied, rejected, fmt.Errorf("failed to read events file: %w", err)
	}
	return applied, rejected, nil
}

// report выводит итоговые снимки и сводку журналов
func report(store *engine.Store, logger *zap.Logger, applied, rejected int) {
	for _, instrument := range store.Instruments() {
		session, _ := store.Session(instrument)

		snap, err := session.Snapshot().JSON()
		if err != nil {
			logger.Error("failed to serialize snapshot",
				zap.String("instrument", instrument), zap.Error(err))
			continue
		}

		logger.Info("final state",
			zap.String("instrument", instrument),
			zap.ByteString("snapshot", snap),
			zap.Int("closed_trades", session.Ledger().Len()),
			zap.String("realized_total", session.Ledger().RealizedTotal().String()),
		)
	}

	logger.Info("replay finished",
		zap.Int("fills_applied", applied),
		zap.Int("fills_rejected", rejected),
		zap.Int("open_positions", store.CountOpenPositions()),
	)
}

// serveMetrics поднимает HTTP endpoint /metrics
func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("metrics endpoint started", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics endpoint failed", zap.Error(err))
	}
}

// waitForShutdown блокируется до SIGINT/SIGTERM
func waitForShutdown(logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
