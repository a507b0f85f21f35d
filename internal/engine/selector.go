package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tradesim/internal/models"
)

// Выбор режима позиции.
//
// Режим инструмента читается ровно один раз - при инициализации сессии -
// и фиксируется на весь её срок жизни. Результат - тегированный
// PositionKind: дальше все вызывающие один раз матчатся по тегу вместо
// повторных проверок типов или опциональных атрибутов.

// PositionKind - тегированный вариант: одиночная позиция (one-way) либо
// hedge-пара. Заполнено ровно одно из внутренних полей.
type PositionKind struct {
	mode     models.PositionMode
	position *Position     // one-way
	pair     *PositionPair // hedge
}

// Initialize конструирует состояние инструмента по режиму из конфигурации.
//
// Пустой режим трактуется как one-way (обратная совместимость с
// одно-позиционной моделью). Неизвестный режим - ошибка конфигурации.
func Initialize(mode models.PositionMode) (*PositionKind, error) {
	if mode == "" {
		mode = models.ModeOneWay
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid position mode: %q", mode)
	}

	k := &PositionKind{mode: mode}
	if mode == models.ModeHedge {
		k.pair = NewPositionPair()
	} else {
		k.position = NewPosition()
	}
	return k, nil
}

// Mode возвращает режим инструмента
func (k *PositionKind) Mode() models.PositionMode {
	return k.mode
}

// OneWay возвращает одиночную позицию (nil в hedge режиме)
func (k *PositionKind) OneWay() *Position {
	return k.position
}

// Pair возвращает hedge-пару (nil в one-way режиме)
func (k *PositionKind) Pair() *PositionPair {
	return k.pair
}

// SetMarkPrice задаёт mark-цену всем позициям инструмента
func (k *PositionKind) SetMarkPrice(price decimal.Decimal) {
	if k.mode == models.ModeHedge {
		k.pair.SetMarkPrice(price)
		return
	}
	k.position.SetMarkPrice(price)
}

// HasOpen возвращает true, если по инструменту есть открытая позиция
func (k *PositionKind) HasOpen() bool {
	if k.mode == models.ModeHedge {
		return k.pair.HasAnyOpen()
	}
	return k.position.IsOpen()
}

// Snapshot возвращает снимок состояния инструмента
func (k *PositionKind) Snapshot(instrument string) models.InstrumentSnapshot {
	snap := models.InstrumentSnapshot{
		Instrument: instrument,
		Mode:       k.mode,
	}
	if k.mode == models.ModeHedge {
		pair := k.pair.Snapshot()
		snap.Pair = &pair
	} else {
		pos := k.position.Snapshot()
		snap.Position = &pos
	}
	return snap
}
