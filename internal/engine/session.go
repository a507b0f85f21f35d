package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradesim/internal/models"
)

// Session - учётная сессия одного инструмента.
//
// Сессия связывает тегированное состояние позиции (PositionKind), журнал
// закрытых сделок и нумерацию событий. Все операции - синхронные переходы
// состояния в памяти; события одного инструмента обязаны подаваться строго
// последовательно (контракт с симулятором исполнения), поэтому сессия не
// содержит блокировок. Разные инструменты полностью независимы и могут
// обрабатываться параллельно - по одному воркеру на инструмент.
type Session struct {
	instrument string
	kind       *PositionKind
	ledger     *TradeLedger
	log        *zap.Logger

	// seq - номер последнего успешно применённого события.
	// Отклонённые события номер не потребляют: отклонение не оставляет
	// никаких следов в состоянии.
	seq int64
}

// NewSession создаёт сессию инструмента в заданном режиме.
// Режим фиксируется до конца сессии (выбор выполняется ровно один раз).
func NewSession(instrument string, mode models.PositionMode, logger *zap.Logger) (*Session, error) {
	if instrument == "" {
		return nil, fmt.Errorf("instrument is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	kind, err := Initialize(mode)
	if err != nil {
		return nil, fmt.Errorf("instrument %s: %w", instrument, err)
	}

	return &Session{
		instrument: instrument,
		kind:       kind,
		ledger:     NewTradeLedger(kind.Mode()),
		log:        logger.With(zap.String("instrument", instrument)),
	}, nil
}

// ApplyFill применяет событие исполнения к состоянию инструмента.
//
// Последовательность: маршрутизация -> применение -> запись закрытой
// сделки в журнал. При ошибке на любом шаге состояние остаётся ровно
// таким, каким было до вызова, и ошибка синхронно возвращается
// вызывающему (ретраев нет).
func (s *Session) ApplyFill(f models.Fill) (models.InstrumentSnapshot, error) {
	f.Sequence = s.seq + 1

	target, err := Route(f, s.kind)
	if err != nil {
		s.rejected(f, err)
		return models.InstrumentSnapshot{}, err
	}

	outcome, err := target.ApplyFill(f)
	if err != nil {
		s.rejected(f, err)
		return models.InstrumentSnapshot{}, err
	}

	s.seq = f.Sequence
	RecordFill(s.instrument, "applied")

	s.log.Debug("fill applied",
		zap.Int64("sequence", f.Sequence),
		zap.String("side", string(f.TradeSide)),
		zap.String("quantity", f.Quantity.String()),
		zap.String("price", f.Price.String()),
		zap.String("realized_delta", outcome.RealizedDelta.String()),
	)

	if outcome.Trade != nil {
		s.ledger.Record(*outcome.Trade)
		RecordClosedTrade(s.instrument, string(outcome.Trade.Direction),
			outcome.Trade.RealizedPnl.InexactFloat64())
		s.log.Info("trade closed",
			zap.String("direction", string(outcome.Trade.Direction)),
			zap.String("quantity", outcome.Trade.Quantity.String()),
			zap.String("entry_price", outcome.Trade.EntryPrice.String()),
			zap.String("exit_price", outcome.Trade.ExitPrice.String()),
			zap.String("realized_pnl", outcome.Trade.RealizedPnl.String()),
			zap.Int64("opened_sequence", outcome.Trade.OpenedSequence),
			zap.Int64("closed_sequence", outcome.Trade.ClosedSequence),
		)
	}

	return s.Snapshot(), nil
}

// rejected фиксирует отклонение события в логе и метриках
func (s *Session) rejected(f models.Fill, err error) {
	RecordFill(s.instrument, "rejected")
	s.log.Warn("fill rejected",
		zap.String("fill", f.String()),
		zap.Error(err),
	)
}

// SetMarkPrice задаёт mark-цену инструмента для расчёта нереализованного
// PNL. Вызывается на каждом шаге симуляции.
func (s *Session) SetMarkPrice(price decimal.Decimal) {
	s.kind.SetMarkPrice(price)
}

// Snapshot возвращает снимок текущего состояния инструмента
func (s *Session) Snapshot() models.InstrumentSnapshot {
	return s.kind.Snapshot(s.instrument)
}

// Ledger возвращает журнал закрытых сделок сессии
func (s *Session) Ledger() *TradeLedger {
	return s.ledger
}

// Mode возвращает режим учёта сессии
func (s *Session) Mode() models.PositionMode {
	return s.kind.Mode()
}

// HasOpen возвращает true, если по инструменту есть открытая позиция
func (s *Session) HasOpen() bool {
	return s.kind.HasOpen()
}
