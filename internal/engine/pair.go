package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tradesim/internal/models"
)

// PositionPair - hedge режим: независимые long и short суб-позиции одного
// инструмента, открытые одновременно.
//
// Пара владеет ровно двумя Position с фиксированными направлениями.
// Производные величины (net_quantity, total_pnl) нигде не хранятся и
// вычисляются заново при каждом обращении - рассинхронизация исключена.
type PositionPair struct {
	long  *Position
	short *Position
}

// NewPositionPair создаёт пару с двумя FLAT суб-позициями
func NewPositionPair() *PositionPair {
	return &PositionPair{
		long:  NewSubPosition(models.DirectionLong),
		short: NewSubPosition(models.DirectionShort),
	}
}

// Long возвращает long суб-позицию
func (p *PositionPair) Long() *Position {
	return p.long
}

// Short возвращает short суб-позицию
func (p *PositionPair) Short() *Position {
	return p.short
}

// Position возвращает суб-позицию по направлению
func (p *PositionPair) Position(d models.Direction) (*Position, error) {
	switch d {
	case models.DirectionLong:
		return p.long, nil
	case models.DirectionShort:
		return p.short, nil
	default:
		return nil, fmt.Errorf("invalid direction: %q", d)
	}
}

// Submit маршрутизирует fill в целевую суб-позицию и применяет его.
//
// Гарантия атомарности: либо fill полностью применён и снимок отражает
// новое состояние, либо fill отклонён и состояние пары не изменилось.
//
// Возвращает:
//   - снимок пары после применения
//   - результат применения (реализованный PNL, запись о закрытии)
//   - ошибку маршрутизации либо применения
func (p *PositionPair) Submit(f models.Fill) (models.PairSnapshot, FillOutcome, error) {
	target, err := RoutePair(f, p)
	if err != nil {
		return models.PairSnapshot{}, FillOutcome{}, err
	}
	outcome, err := target.ApplyFill(f)
	if err != nil {
		return models.PairSnapshot{}, FillOutcome{}, err
	}
	return p.Snapshot(), outcome, nil
}

// SetMarkPrice задаёт mark-цену обеим суб-позициям (общий инструмент -
// общая цена)
func (p *PositionPair) SetMarkPrice(price decimal.Decimal) {
	p.long.SetMarkPrice(price)
	p.short.SetMarkPrice(price)
}

// NetQuantity - нетто-экспозиция пары: long.qty - short.qty.
// Обе суб-позиции хранят беззнаковый объём, поэтому short вычитается.
func (p *PositionPair) NetQuantity() decimal.Decimal {
	return p.long.Quantity().Sub(p.short.Quantity())
}

// TotalPnl - суммарный mark-to-market PNL обеих суб-позиций
func (p *PositionPair) TotalPnl() decimal.Decimal {
	return p.long.Pnl().Add(p.short.Pnl())
}

// HasAnyOpen возвращает true, если открыта хотя бы одна суб-позиция
func (p *PositionPair) HasAnyOpen() bool {
	return p.long.IsOpen() || p.short.IsOpen()
}

// BothClosed возвращает true, если обе суб-позиции закрыты
func (p *PositionPair) BothClosed() bool {
	return !p.long.IsOpen() && !p.short.IsOpen()
}

// Snapshot возвращает неизменяемый снимок пары с производными величинами
func (p *PositionPair) Snapshot() models.PairSnapshot {
	return models.PairSnapshot{
		Long:        p.long.Snapshot(),
		Short:       p.short.Snapshot(),
		NetQuantity: p.NetQuantity(),
		TotalPnl:    p.TotalPnl(),
	}
}
