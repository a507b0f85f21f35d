package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики учётного ядра
// ============================================================
//
// Метрики - ambient-наблюдаемость ядра: счётчики применённых и
// отклонённых событий, закрытых сделок и накопленного реализованного PNL.
// Агрегация и визуализация (Grafana и т.п.) - зона внешних потребителей.

// FillsApplied - количество обработанных событий исполнения
// result: applied, rejected
var FillsApplied = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "fills_total",
		Help:      "Total number of processed fills",
	},
	[]string{"instrument", "result"},
)

// TradesClosed - количество закрытых сделок по направлениям
var TradesClosed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "trades_closed_total",
		Help:      "Total number of closed trades",
	},
	[]string{"instrument", "direction"},
)

// RealizedPnl - накопленный реализованный PNL в валюте котировки.
// Gauge, а не Counter: PNL может быть отрицательным.
var RealizedPnl = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "realized_pnl",
		Help:      "Cumulative realized PnL in quote currency",
	},
	[]string{"instrument"},
)

// OpenPositions - текущее количество инструментов с открытой позицией
var OpenPositions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "tradesim",
		Subsystem: "engine",
		Name:      "open_positions",
		Help:      "Current number of instruments with an open position",
	},
)

// ============ Вспомогательные функции ============

// RecordFill записывает результат обработки события
func RecordFill(instrument, result string) {
	FillsApplied.WithLabelValues(instrument, result).Inc()
}

// RecordClosedTrade записывает закрытую сделку
func RecordClosedTrade(instrument, direction string, pnl float64) {
	TradesClosed.WithLabelValues(instrument, direction).Inc()
	RealizedPnl.WithLabelValues(instrument).Add(pnl)
}

// UpdateOpenPositions обновляет счётчик открытых позиций
func UpdateOpenPositions(count int) {
	OpenPositions.Set(float64(count))
}
