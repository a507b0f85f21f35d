package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tradesim/internal/models"
)

// TradeLedger - append-only журнал закрытых сделок.
//
// В one-way режиме ведётся единая последовательность; в hedge режиме -
// независимые последовательности по направлениям. Порядок записей строго
// соответствует порядку обработки закрывающих событий; журнал никогда
// не переупорядочивает и не дедуплицирует записи, записи после добавления
// не меняются.
type TradeLedger struct {
	mode models.PositionMode

	all   []models.ClosedTrade // one-way: единая последовательность
	long  []models.ClosedTrade // hedge: закрытия long суб-позиции
	short []models.ClosedTrade // hedge: закрытия short суб-позиции
}

// NewTradeLedger создаёт журнал для заданного режима
func NewTradeLedger(mode models.PositionMode) *TradeLedger {
	return &TradeLedger{mode: mode}
}

// Record добавляет запись о закрытой сделке.
// В hedge режиме запись попадает в последовательность своего направления.
func (l *TradeLedger) Record(t models.ClosedTrade) {
	if l.mode == models.ModeHedge {
		if t.Direction == models.DirectionShort {
			l.short = append(l.short, t)
		} else {
			l.long = append(l.long, t)
		}
		return
	}
	l.all = append(l.all, t)
}

// Trades возвращает единую последовательность one-way режима.
// Для hedge журнала возвращает ErrModeMismatch - используйте TradesFor.
func (l *TradeLedger) Trades() ([]models.ClosedTrade, error) {
	if l.mode == models.ModeHedge {
		return nil, fmt.Errorf("%w: ledger keeps per-side sequences in hedge mode", ErrModeMismatch)
	}
	return copyTrades(l.all), nil
}

// TradesFor возвращает последовательность закрытий по направлению
// (hedge режим). Для one-way журнала возвращает ErrModeMismatch.
func (l *TradeLedger) TradesFor(d models.Direction) ([]models.ClosedTrade, error) {
	if l.mode != models.ModeHedge {
		return nil, fmt.Errorf("%w: one-way ledger keeps a single sequence", ErrModeMismatch)
	}
	switch d {
	case models.DirectionLong:
		return copyTrades(l.long), nil
	case models.DirectionShort:
		return copyTrades(l.short), nil
	default:
		return nil, fmt.Errorf("invalid direction: %q", d)
	}
}

// Len возвращает суммарное количество записей
func (l *TradeLedger) Len() int {
	return len(l.all) + len(l.long) + len(l.short)
}

// RealizedTotal возвращает сумму реализованного PNL по всем записям.
// Инвариант учёта: совпадает с суммой инкрементальных реализованных
// дельт всех событий, закрывавших объём (без двойного счёта и потерь).
func (l *TradeLedger) RealizedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, seq := range [][]models.ClosedTrade{l.all, l.long, l.short} {
		for _, t := range seq {
			total = total.Add(t.RealizedPnl)
		}
	}
	return total
}

// copyTrades возвращает копию последовательности: внешние потребители
// не должны иметь возможность изменить журнал
func copyTrades(src []models.ClosedTrade) []models.ClosedTrade {
	out := make([]models.ClosedTrade, len(src))
	copy(out, src)
	return out
}
