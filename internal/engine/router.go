package engine

import (
	"fmt"

	"tradesim/internal/models"
)

// Маршрутизация исполненных ордеров.
//
// Маршрутизация только выбирает целевую позицию и проверяет согласованность
// fill с режимом - сама она состояние не мутирует.

// Route выбирает целевую позицию для fill с учётом режима инструмента.
//
// Правила:
//   - one-way: position_side должен отсутствовать (ErrModeMismatch, если
//     указан); цель - единственная позиция;
//   - hedge: при явном position_side fill идёт в соответствующую
//     суб-позицию; без него маршрут выводится только когда открыта ровно
//     одна суб-позиция; если открыты обе или ни одной -
//     ErrMissingPositionSide.
//
// Узкий вывод сделан намеренно: когда живы обе стороны, угадывание
// направления могло бы молча исказить атрибуцию PNL.
func Route(f models.Fill, kind *PositionKind) (*Position, error) {
	switch kind.Mode() {
	case models.ModeHedge:
		return RoutePair(f, kind.Pair())
	default:
		if f.PositionSide != models.PositionSideNone {
			return nil, fmt.Errorf("%w: position side %q supplied in one-way mode",
				ErrModeMismatch, f.PositionSide)
		}
		return kind.OneWay(), nil
	}
}

// RoutePair выбирает целевую суб-позицию hedge-пары
func RoutePair(f models.Fill, pair *PositionPair) (*Position, error) {
	switch f.PositionSide {
	case models.PositionSideLong:
		return pair.Long(), nil
	case models.PositionSideShort:
		return pair.Short(), nil
	}

	// position_side не указан: вывод допустим только при однозначности
	longOpen := pair.Long().IsOpen()
	shortOpen := pair.Short().IsOpen()
	switch {
	case longOpen && !shortOpen:
		return pair.Long(), nil
	case shortOpen && !longOpen:
		return pair.Short(), nil
	case longOpen && shortOpen:
		return nil, fmt.Errorf("%w: both sub-positions are open", ErrMissingPositionSide)
	default:
		return nil, fmt.Errorf("%w: no sub-position is open", ErrMissingPositionSide)
	}
}
