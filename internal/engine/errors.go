package engine

import "errors"

// Таксономия ошибок ядра.
//
// Все ошибки возвращаются синхронно вызывающему; ядро ничего не
// ретраит и никогда не "додумывает" неоднозначный fill - неверная догадка
// о направлении исказила бы атрибуцию PNL. Отклонённый fill не оставляет
// ни одной мутации состояния.
//
// Ошибки сворачиваются через fmt.Errorf("...: %w") с контекстом инструмента
// и стороны; вызывающие матчат их через errors.Is.
var (
	// ErrMissingPositionSide - hedge режим, неоднозначная маршрутизация:
	// position_side не указан, а открыты обе суб-позиции либо ни одной
	ErrMissingPositionSide = errors.New("missing position side")

	// ErrModeMismatch - position_side указан в one-way режиме, либо
	// hedge-аксессор вызван для one-way состояния (и наоборот)
	ErrModeMismatch = errors.New("position mode mismatch")

	// ErrInvalidSide - fill перевернул бы суб-позицию с фиксированным
	// направлением, не пройдя через ноль
	ErrInvalidSide = errors.New("invalid side for fixed-direction position")

	// ErrReduceOnly - reduce-only fill нечего сокращать: позиция FLAT
	// либо fill направлен в сторону наращивания
	ErrReduceOnly = errors.New("reduce-only fill cannot increase position")
)
