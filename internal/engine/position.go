package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tradesim/internal/models"
	"tradesim/pkg/utils"
)

// Position - одна направленная позиция.
//
// В one-way режиме это единственная нетто-позиция инструмента: направление
// меняется по мере переворотов, но хранится всегда как
// {direction, беззнаковый объём}. В hedge режиме Position выступает
// суб-позицией пары: направление фиксировано при создании и fill,
// который его перевернул бы, отклоняется.
//
// Position не содержит блокировок: контракт ядра гарантирует, что события
// одного инструмента подаются строго последовательно (внешняя
// сериализация), а разные инструменты не разделяют состояние.
type Position struct {
	direction      models.Direction
	fixedDirection bool // hedge суб-позиция: направление неизменно

	quantity    decimal.Decimal // беззнаковый объём
	entryPrice  decimal.Decimal // средневзвешенная цена входа
	realizedPnl decimal.Decimal // накопленный реализованный PNL за сессию
	markPrice   decimal.Decimal // текущая mark-цена, задаётся извне на каждом шаге

	state     string // models.StateFlat / models.StateOpen
	openedSeq int64  // номер события, открывшего текущий цикл

	// Аккумуляторы текущего цикла: нужны, чтобы итоговая запись
	// ClosedTrade содержала суммарный объём, средневзвешенную цену выхода
	// и весь реализованный PNL цикла, включая частичные сокращения.
	cycleClosedQty    decimal.Decimal
	cycleExitNotional decimal.Decimal
	cycleRealized     decimal.Decimal
}

// FillOutcome - результат применения fill к позиции
type FillOutcome struct {
	// RealizedDelta - реализованный PNL, добавленный этим событием
	RealizedDelta decimal.Decimal
	// Trade - запись о полном закрытии цикла; nil, если цикл не закрылся
	Trade *models.ClosedTrade
}

// NewPosition создаёт one-way позицию (FLAT, направление не задано)
func NewPosition() *Position {
	return &Position{state: models.StateFlat}
}

// NewSubPosition создаёт hedge суб-позицию с фиксированным направлением
func NewSubPosition(d models.Direction) *Position {
	return &Position{direction: d, fixedDirection: true, state: models.StateFlat}
}

// ApplyFill применяет исполненный ордер к позиции.
//
// Варианты (спецификация учёта):
//   - наращивание (сторона совпадает с направлением либо позиция FLAT):
//     пересчёт средневзвешенной цены входа, объём растёт;
//   - частичное сокращение (fill_qty < qty): реализуется PNL на объём
//     сокращения, цена входа не меняется, запись о сделке не создаётся;
//   - точное закрытие (fill_qty == qty): позиция переходит в FLAT и
//     создаётся ровно одна запись ClosedTrade;
//   - переворот (fill_qty > qty, только one-way): закрытие текущей
//     экспозиции с записью ClosedTrade и открытие противоположной позиции
//     на остаток по той же цене - атомарно, в одном событии.
//
// При любой ошибке состояние позиции не меняется.
func (p *Position) ApplyFill(f models.Fill) (FillOutcome, error) {
	if err := f.Validate(); err != nil {
		return FillOutcome{}, err
	}

	fillDir := f.TradeSide.Direction()

	if p.state == models.StateFlat {
		if f.ReduceOnly {
			return FillOutcome{}, fmt.Errorf("%w: position is flat", ErrReduceOnly)
		}
		if p.fixedDirection && fillDir != p.direction {
			return FillOutcome{}, fmt.Errorf("%w: %s fill on flat %s sub-position",
				ErrInvalidSide, f.TradeSide, p.direction)
		}
		p.open(fillDir, f.Quantity, f.Price, f.Sequence)
		return FillOutcome{}, nil
	}

	// Позиция открыта
	if fillDir == p.direction {
		if f.ReduceOnly {
			return FillOutcome{}, fmt.Errorf("%w: %s fill on open %s position",
				ErrReduceOnly, f.TradeSide, p.direction)
		}
		p.entryPrice = utils.WeightedEntryPrice(p.quantity, p.entryPrice, f.Quantity, f.Price)
		p.quantity = p.quantity.Add(f.Quantity)
		return FillOutcome{}, nil
	}

	// Противоположная сторона: сокращение, закрытие или переворот
	closeQty := f.Quantity
	remainder := decimal.Zero
	if f.Quantity.GreaterThan(p.quantity) {
		if p.fixedDirection {
			return FillOutcome{}, fmt.Errorf("%w: fill %s exceeds open %s quantity %s",
				ErrInvalidSide, f.Quantity, p.direction, p.quantity)
		}
		closeQty = p.quantity
		if !f.ReduceOnly {
			remainder = f.Quantity.Sub(p.quantity)
		}
		// reduce-only: остаток отбрасывается, позиция только закрывается
	}

	delta := utils.DirectionalPnl(p.entryPrice, f.Price, closeQty, p.direction.Sign())
	p.realizedPnl = p.realizedPnl.Add(delta)
	p.cycleRealized = p.cycleRealized.Add(delta)
	p.cycleClosedQty = p.cycleClosedQty.Add(closeQty)
	p.cycleExitNotional = p.cycleExitNotional.Add(f.Price.Mul(closeQty))
	p.quantity = p.quantity.Sub(closeQty)

	if p.quantity.IsNegative() {
		// Структурно невозможно: closeQty ограничен текущим объёмом.
		panic(fmt.Sprintf("position quantity went negative: %s", p.quantity))
	}

	outcome := FillOutcome{RealizedDelta: delta}

	if p.quantity.IsZero() {
		trade := models.ClosedTrade{
			Direction:      p.direction,
			Quantity:       p.cycleClosedQty,
			EntryPrice:     p.entryPrice,
			ExitPrice:      p.cycleExitNotional.Div(p.cycleClosedQty),
			RealizedPnl:    p.cycleRealized,
			OpenedSequence: p.openedSeq,
			ClosedSequence: f.Sequence,
		}
		outcome.Trade = &trade

		p.state = models.StateFlat
		p.entryPrice = decimal.Zero
		if !p.fixedDirection {
			p.direction = ""
		}
		p.resetCycle()

		if remainder.IsPositive() {
			// Переворот: открытие противоположной позиции на остаток
			// в том же атомарном событии
			p.open(fillDir, remainder, f.Price, f.Sequence)
		}
	}

	return outcome, nil
}

// open открывает новый цикл позиции
func (p *Position) open(d models.Direction, qty, price decimal.Decimal, seq int64) {
	p.direction = d
	p.quantity = qty
	p.entryPrice = price
	p.state = models.StateOpen
	p.openedSeq = seq
	p.resetCycle()
}

func (p *Position) resetCycle() {
	p.cycleClosedQty = decimal.Zero
	p.cycleExitNotional = decimal.Zero
	p.cycleRealized = decimal.Zero
}

// SetMarkPrice задаёт текущую mark-цену для расчёта нереализованного PNL.
// Вызывается внешним шагом симуляции, состояние учёта не меняет.
func (p *Position) SetMarkPrice(price decimal.Decimal) {
	p.markPrice = price
}

// UnrealizedPnl возвращает mark-to-market PNL открытого объёма:
// (mark - entry) * qty * sign. Для FLAT позиции всегда ноль.
func (p *Position) UnrealizedPnl() decimal.Decimal {
	if p.state != models.StateOpen {
		return decimal.Zero
	}
	return utils.DirectionalPnl(p.entryPrice, p.markPrice, p.quantity, p.direction.Sign())
}

// Pnl - текущий mark-to-market PNL позиции (синоним UnrealizedPnl).
// Реализованный PNL учитывается отдельно, см. RealizedPnl.
func (p *Position) Pnl() decimal.Decimal {
	return p.UnrealizedPnl()
}

// IsOpen возвращает true, если позиция открыта
func (p *Position) IsOpen() bool {
	return p.state == models.StateOpen
}

// Direction возвращает текущее направление (пусто для FLAT one-way позиции)
func (p *Position) Direction() models.Direction {
	return p.direction
}

// Quantity возвращает беззнаковый объём позиции
func (p *Position) Quantity() decimal.Decimal {
	return p.quantity
}

// EntryPrice возвращает средневзвешенную цену входа
func (p *Position) EntryPrice() decimal.Decimal {
	return p.entryPrice
}

// RealizedPnl возвращает накопленный реализованный PNL за сессию
func (p *Position) RealizedPnl() decimal.Decimal {
	return p.realizedPnl
}

// Snapshot возвращает неизменяемый снимок состояния позиции
func (p *Position) Snapshot() models.PositionSnapshot {
	return models.PositionSnapshot{
		Direction:     p.direction,
		Quantity:      p.quantity,
		EntryPrice:    p.entryPrice,
		MarkPrice:     p.markPrice,
		UnrealizedPnl: p.UnrealizedPnl(),
		RealizedPnl:   p.realizedPnl,
		IsOpen:        p.IsOpen(),
		State:         p.state,
	}
}
