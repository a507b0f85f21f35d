package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================================
// Enum-хелперы
// ============================================================

func TestDirectionHelpers(t *testing.T) {
	if !DirectionLong.Valid() || !DirectionShort.Valid() {
		t.Error("long and short must be valid directions")
	}
	if Direction("sideways").Valid() || Direction("").Valid() {
		t.Error("unknown directions must be invalid")
	}

	if DirectionLong.Opposite() != DirectionShort || DirectionShort.Opposite() != DirectionLong {
		t.Error("Opposite must swap long and short")
	}

	if DirectionLong.Sign() != 1 {
		t.Errorf("expected sign +1 for long, got %d", DirectionLong.Sign())
	}
	if DirectionShort.Sign() != -1 {
		t.Errorf("expected sign -1 for short, got %d", DirectionShort.Sign())
	}
}

func TestTradeSideDirection(t *testing.T) {
	if TradeSideBuy.Direction() != DirectionLong {
		t.Error("buy must map to long exposure")
	}
	if TradeSideSell.Direction() != DirectionShort {
		t.Error("sell must map to short exposure")
	}
	if TradeSide("hold").Valid() {
		t.Error("unknown trade side must be invalid")
	}
}

func TestPositionSide(t *testing.T) {
	for _, s := range []PositionSide{PositionSideNone, PositionSideLong, PositionSideShort} {
		if !s.Valid() {
			t.Errorf("side %q must be valid", s)
		}
	}
	if PositionSide("both").Valid() {
		t.Error("unknown position side must be invalid")
	}
	if PositionSideLong.Direction() != DirectionLong || PositionSideShort.Direction() != DirectionShort {
		t.Error("position side must map to its direction")
	}
}

func TestPositionModeValid(t *testing.T) {
	if !ModeOneWay.Valid() || !ModeHedge.Valid() {
		t.Error("one-way and hedge must be valid modes")
	}
	if PositionMode("netting").Valid() || PositionMode("").Valid() {
		t.Error("unknown modes must be invalid")
	}
}

// ============================================================
// Валидация Fill
// ============================================================

func TestFillValidate(t *testing.T) {
	valid := Fill{Quantity: d("1"), Price: d("100"), TradeSide: TradeSideBuy}

	tests := []struct {
		name    string
		mutate  func(*Fill)
		wantErr bool
	}{
		{"valid fill", func(f *Fill) {}, false},
		{"valid with position side", func(f *Fill) { f.PositionSide = PositionSideShort }, false},
		{"zero quantity", func(f *Fill) { f.Quantity = decimal.Zero }, true},
		{"negative quantity", func(f *Fill) { f.Quantity = d("-1") }, true},
		{"zero price", func(f *Fill) { f.Price = decimal.Zero }, true},
		{"negative price", func(f *Fill) { f.Price = d("-100") }, true},
		{"missing trade side", func(f *Fill) { f.TradeSide = "" }, true},
		{"garbage trade side", func(f *Fill) { f.TradeSide = "hold" }, true},
		{"garbage position side", func(f *Fill) { f.PositionSide = "both" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFillString(t *testing.T) {
	f := Fill{Sequence: 7, Quantity: d("1.5"), Price: d("100"), TradeSide: TradeSideSell}
	s := f.String()
	if !strings.Contains(s, "#7") || !strings.Contains(s, "sell") {
		t.Errorf("unexpected fill string: %s", s)
	}

	f.PositionSide = PositionSideShort
	if !strings.Contains(f.String(), "short") {
		t.Errorf("expected position side in string: %s", f.String())
	}
}

// ============================================================
// Снимки
// ============================================================

func TestSignedQuantity(t *testing.T) {
	long := PositionSnapshot{Direction: DirectionLong, Quantity: d("2")}
	if !long.SignedQuantity().Equal(d("2")) {
		t.Errorf("expected +2 for long, got %s", long.SignedQuantity())
	}

	short := PositionSnapshot{Direction: DirectionShort, Quantity: d("2")}
	if !short.SignedQuantity().Equal(d("-2")) {
		t.Errorf("expected -2 for short, got %s", short.SignedQuantity())
	}

	flat := PositionSnapshot{Quantity: decimal.Zero}
	if !flat.SignedQuantity().IsZero() {
		t.Errorf("expected 0 for flat, got %s", flat.SignedQuantity())
	}
}

func TestInstrumentSnapshotJSON(t *testing.T) {
	snap := InstrumentSnapshot{
		Instrument: "Binance-BTC-USDT",
		Mode:       ModeOneWay,
		Position: &PositionSnapshot{
			Direction:  DirectionLong,
			Quantity:   d("1.5"),
			EntryPrice: d("100"),
			IsOpen:     true,
			State:      StateOpen,
		},
	}

	data, err := snap.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	out := string(data)

	// Заполненная ветка присутствует, пустая опущена
	if !strings.Contains(out, `"position"`) {
		t.Errorf("expected position branch in output: %s", out)
	}
	if strings.Contains(out, `"pair"`) {
		t.Errorf("empty pair branch must be omitted: %s", out)
	}
	if !strings.Contains(out, `"one-way"`) || !strings.Contains(out, `"1.5"`) {
		t.Errorf("unexpected snapshot payload: %s", out)
	}
}
