package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fill представляет исполненный ордер, поступающий от симулятора исполнения.
//
// Входной контракт ядра: объём и цена строго положительны, сторона сделки
// обязательна, целевая суб-позиция опциональна (имеет смысл только в hedge
// режиме). Fill неизменяем - ядро никогда не модифицирует входное событие.
type Fill struct {
	// Sequence - порядковый номер события в рамках инструмента.
	// Присваивается сессией, 0 для внешних событий до применения.
	Sequence int64 `json:"sequence"`

	// Quantity - объём исполнения, строго > 0 (беззнаковый)
	Quantity decimal.Decimal `json:"quantity"`

	// Price - цена исполнения, строго > 0
	Price decimal.Decimal `json:"price"`

	// TradeSide - сторона сделки: buy или sell
	TradeSide TradeSide `json:"trade_side"`

	// PositionSide - целевая суб-позиция (long/short) или пусто
	PositionSide PositionSide `json:"position_side,omitempty"`

	// ReduceOnly - ордер может только сокращать позицию,
	// никогда не наращивает и не переворачивает её
	ReduceOnly bool `json:"reduce_only,omitempty"`
}

// Validate проверяет структурную корректность события исполнения.
//
// Проверяются только инварианты самого события; проверки, зависящие от
// режима и текущего состояния позиции, выполняет маршрутизация и позиция.
func (f Fill) Validate() error {
	if !f.Quantity.IsPositive() {
		return fmt.Errorf("fill quantity must be positive, got %s", f.Quantity)
	}
	if !f.Price.IsPositive() {
		return fmt.Errorf("fill price must be positive, got %s", f.Price)
	}
	if !f.TradeSide.Valid() {
		return fmt.Errorf("invalid trade side: %q", f.TradeSide)
	}
	if !f.PositionSide.Valid() {
		return fmt.Errorf("invalid position side: %q", f.PositionSide)
	}
	return nil
}

// String - краткое представление для логов
func (f Fill) String() string {
	if f.PositionSide != PositionSideNone {
		return fmt.Sprintf("Fill{#%d %s %s @ %s -> %s}",
			f.Sequence, f.TradeSide, f.Quantity, f.Price, f.PositionSide)
	}
	return fmt.Sprintf("Fill{#%d %s %s @ %s}", f.Sequence, f.TradeSide, f.Quantity, f.Price)
}
