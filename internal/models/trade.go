package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClosedTrade - неизменяемая запись о полностью закрытом цикле позиции.
//
// Запись создаётся ровно один раз - в момент, когда объём позиции
// становится равным нулю. Частичные сокращения отдельных записей не
// порождают: их реализованный PNL входит в итоговую запись цикла.
//
// Для цикла с частичными сокращениями по разным ценам:
//   - Quantity - суммарный закрытый объём цикла
//   - EntryPrice - средневзвешенная цена входа
//   - ExitPrice - средневзвешенная цена сокращений
//   - RealizedPnl - суммарный реализованный PNL цикла
//
// EntryPrice фиксируется на момент закрытия (после всех доливок цикла).
type ClosedTrade struct {
	Direction   Direction       `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	EntryPrice  decimal.Decimal `json:"entry_price"`
	ExitPrice   decimal.Decimal `json:"exit_price"`
	RealizedPnl decimal.Decimal `json:"realized_pnl"`

	// OpenedSequence - номер события, открывшего цикл
	OpenedSequence int64 `json:"opened_sequence"`
	// ClosedSequence - номер события, закрывшего цикл
	ClosedSequence int64 `json:"closed_sequence"`
}

// String - краткое представление для логов
func (t ClosedTrade) String() string {
	return fmt.Sprintf("ClosedTrade{%s %s: %s -> %s, pnl=%s, seq=%d..%d}",
		t.Direction, t.Quantity, t.EntryPrice, t.ExitPrice, t.RealizedPnl,
		t.OpenedSequence, t.ClosedSequence)
}
