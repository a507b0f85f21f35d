package engine

import (
	"errors"
	"testing"

	"tradesim/internal/models"
)

func newTestSession(t *testing.T, mode models.PositionMode) *Session {
	t.Helper()
	s, err := NewSession("Binance-BTC-USDT", mode, nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

// ============================================================
// Полный цикл через сессию
// ============================================================

func TestSessionOneWayFlow(t *testing.T) {
	s := newTestSession(t, models.ModeOneWay)

	snap, err := s.ApplyFill(buy("1", "100"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if snap.Position == nil || !snap.Position.Quantity.Equal(d("1")) {
		t.Fatalf("unexpected snapshot after open: %+v", snap)
	}

	s.SetMarkPrice(d("110"))
	if !s.Snapshot().Position.UnrealizedPnl.Equal(d("10")) {
		t.Errorf("expected unrealized pnl 10, got %s", s.Snapshot().Position.UnrealizedPnl)
	}

	snap, err = s.ApplyFill(sell("1", "110"))
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if snap.Position.IsOpen {
		t.Error("expected FLAT position after close")
	}

	// Закрытие попало в журнал
	trades, err := s.Ledger().Trades()
	if err != nil {
		t.Fatalf("Trades failed: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 closed trade, got %d", len(trades))
	}
	if !trades[0].RealizedPnl.Equal(d("10")) {
		t.Errorf("expected pnl 10, got %s", trades[0].RealizedPnl)
	}
	if !s.Ledger().RealizedTotal().Equal(d("10")) {
		t.Errorf("expected realized total 10, got %s", s.Ledger().RealizedTotal())
	}
}

func TestSessionHedgeFlow(t *testing.T) {
	s := newTestSession(t, models.ModeHedge)

	if _, err := s.ApplyFill(hedgeFill(models.TradeSideBuy, models.PositionSideLong, "1", "100")); err != nil {
		t.Fatalf("long open failed: %v", err)
	}
	snap, err := s.ApplyFill(hedgeFill(models.TradeSideSell, models.PositionSideShort, "0.5", "105"))
	if err != nil {
		t.Fatalf("short open failed: %v", err)
	}

	if snap.Pair == nil {
		t.Fatal("expected pair snapshot in hedge mode")
	}
	if !snap.Pair.NetQuantity.Equal(d("0.5")) {
		t.Errorf("expected net quantity 0.5, got %s", snap.Pair.NetQuantity)
	}
	if s.Mode() != models.ModeHedge {
		t.Errorf("expected hedge mode, got %s", s.Mode())
	}
}

// ============================================================
// Нумерация событий: отклонения номер не потребляют
// ============================================================

func TestSessionSequenceNumbering(t *testing.T) {
	s := newTestSession(t, models.ModeOneWay)

	if _, err := s.ApplyFill(buy("1", "100")); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	// Отклонённое событие: position_side в one-way режиме
	bad := sell("1", "110")
	bad.PositionSide = models.PositionSideLong
	if _, err := s.ApplyFill(bad); !errors.Is(err, ErrModeMismatch) {
		t.Fatalf("expected ErrModeMismatch, got %v", err)
	}

	if _, err := s.ApplyFill(sell("1", "110")); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	trades, _ := s.Ledger().Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 closed trade, got %d", len(trades))
	}
	// Отклонение между открытием и закрытием не заняло номер 2
	if trades[0].OpenedSequence != 1 || trades[0].ClosedSequence != 2 {
		t.Errorf("expected sequences 1..2, got %d..%d",
			trades[0].OpenedSequence, trades[0].ClosedSequence)
	}
}

// ============================================================
// Отклонённые события не меняют состояние
// ============================================================

func TestSessionRejectionLeavesStateIntact(t *testing.T) {
	s := newTestSession(t, models.ModeHedge)

	if _, err := s.ApplyFill(hedgeFill(models.TradeSideBuy, models.PositionSideLong, "1", "100")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := s.ApplyFill(hedgeFill(models.TradeSideSell, models.PositionSideShort, "1", "100")); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	before := s.Snapshot()

	_, err := s.ApplyFill(sell("0.5", "110"))
	if !errors.Is(err, ErrMissingPositionSide) {
		t.Fatalf("expected ErrMissingPositionSide, got %v", err)
	}

	after := s.Snapshot()
	if !after.Pair.Long.Quantity.Equal(before.Pair.Long.Quantity) ||
		!after.Pair.Short.Quantity.Equal(before.Pair.Short.Quantity) {
		t.Error("rejected fill must not mutate session state")
	}
	if s.Ledger().Len() != 0 {
		t.Error("rejected fill must not reach the ledger")
	}
}

func TestNewSessionValidation(t *testing.T) {
	if _, err := NewSession("", models.ModeOneWay, nil); err == nil {
		t.Error("expected error for empty instrument")
	}
	if _, err := NewSession("Binance-BTC-USDT", "netting", nil); err == nil {
		t.Error("expected error for invalid mode")
	}
}
