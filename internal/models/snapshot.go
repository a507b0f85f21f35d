package models

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// Снимки состояния позиций.
//
// Снимок - неизменяемая копия состояния на момент вызова; потребители
// (отчётность, метрики, риск-модуль) никогда не получают указатели на
// внутреннее состояние ядра. Производные величины (net_quantity, total_pnl)
// вычисляются в момент снятия снимка и нигде не хранятся - дрейф исключён.

// json-iterator используется вместо encoding/json: снимки снимаются на
// каждом шаге симуляции и сериализация находится на горячем пути отчётности.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PositionSnapshot - снимок одной (суб-)позиции
type PositionSnapshot struct {
	Direction     Direction       `json:"direction,omitempty"` // пусто для FLAT one-way позиции
	Quantity      decimal.Decimal `json:"quantity"`
	EntryPrice    decimal.Decimal `json:"entry_price"`
	MarkPrice     decimal.Decimal `json:"mark_price"`
	UnrealizedPnl decimal.Decimal `json:"unrealized_pnl"`
	RealizedPnl   decimal.Decimal `json:"realized_pnl"`
	IsOpen        bool            `json:"is_open"`
	State         string          `json:"state"` // FLAT, OPEN
}

// PairSnapshot - снимок hedge-пары: обе суб-позиции плюс производные
// величины net_quantity = long.qty - short.qty и total_pnl = long.pnl + short.pnl.
type PairSnapshot struct {
	Long        PositionSnapshot `json:"long"`
	Short       PositionSnapshot `json:"short"`
	NetQuantity decimal.Decimal  `json:"net_quantity"`
	TotalPnl    decimal.Decimal  `json:"total_pnl"`
}

// InstrumentSnapshot - снимок состояния инструмента целиком.
// Ровно одно из полей Position / Pair заполнено - в зависимости от режима.
type InstrumentSnapshot struct {
	Instrument string            `json:"instrument"`
	Mode       PositionMode      `json:"mode"`
	Position   *PositionSnapshot `json:"position,omitempty"` // one-way
	Pair       *PairSnapshot     `json:"pair,omitempty"`     // hedge
}

// JSON сериализует снимок для внешних потребителей
func (s InstrumentSnapshot) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// JSON сериализует снимок hedge-пары
func (s PairSnapshot) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// SignedQuantity возвращает знаковый объём для внешних потребителей,
// ожидающих конвенцию "направление в знаке" (положительный для long,
// отрицательный для short). Внутри ядра знаковый объём не используется.
func (s PositionSnapshot) SignedQuantity() decimal.Decimal {
	if s.Direction == DirectionShort {
		return s.Quantity.Neg()
	}
	return s.Quantity
}
