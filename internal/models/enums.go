package models

// Направления, стороны сделок и режимы позиций.
//
// Внутри ядра всегда используется пара {направление, беззнаковый объём}:
// знак объёма нигде не хранится, направление задаётся явным enum.
// Это убирает расхождение конвенций между one-way и hedge режимами.

// Direction - направление позиции
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Valid проверяет корректность направления
func (d Direction) Valid() bool {
	return d == DirectionLong || d == DirectionShort
}

// Opposite возвращает противоположное направление
func (d Direction) Opposite() Direction {
	if d == DirectionLong {
		return DirectionShort
	}
	return DirectionLong
}

// Sign возвращает знак направления: +1 для long, -1 для short.
// Используется в формулах PNL: pnl = (exit - entry) * qty * sign.
func (d Direction) Sign() int {
	if d == DirectionShort {
		return -1
	}
	return 1
}

// TradeSide - сторона исполненной сделки
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Valid проверяет корректность стороны сделки
func (s TradeSide) Valid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

// Direction возвращает направление экспозиции, которую открывает сделка:
// покупка наращивает long, продажа наращивает short.
func (s TradeSide) Direction() Direction {
	if s == TradeSideSell {
		return DirectionShort
	}
	return DirectionLong
}

// PositionSide - целевая суб-позиция ордера в hedge режиме.
// Пустое значение означает "не указана" (в one-way режиме это норма,
// в hedge режиме допустимо только при однозначной маршрутизации).
type PositionSide string

const (
	PositionSideNone  PositionSide = ""
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

// Valid проверяет корректность целевой суб-позиции
func (s PositionSide) Valid() bool {
	return s == PositionSideNone || s == PositionSideLong || s == PositionSideShort
}

// Direction возвращает направление суб-позиции.
// Для PositionSideNone результат не определён - вызывающий обязан
// проверить сторону заранее.
func (s PositionSide) Direction() Direction {
	if s == PositionSideShort {
		return DirectionShort
	}
	return DirectionLong
}

// PositionMode - режим учёта позиций инструмента
type PositionMode string

const (
	// ModeOneWay - единая нетто-позиция (поведение по умолчанию)
	ModeOneWay PositionMode = "one-way"
	// ModeHedge - независимые long и short суб-позиции
	ModeHedge PositionMode = "hedge"
)

// Valid проверяет корректность режима
func (m PositionMode) Valid() bool {
	return m == ModeOneWay || m == ModeHedge
}

// Состояния жизненного цикла позиции (state machine FLAT <-> OPEN)
const (
	StateFlat = "FLAT" // позиция закрыта, объём равен нулю
	StateOpen = "OPEN" // позиция открыта
)
