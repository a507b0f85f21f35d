package utils

import (
	"github.com/shopspring/decimal"
)

// math.go - математика позиционного учёта
//
// Назначение:
// Чистые функции (pure functions) для расчёта средневзвешенной цены входа
// и реализованного/нереализованного PNL. Все расчёты ведутся на
// decimal.Decimal: учёт требует точного равенства при сравнении объёмов
// (детект полного закрытия) и точной атрибуции PNL без накопления
// плавающей ошибки.
//
// Функции:
// - WeightedEntryPrice: средневзвешенная цена входа после доливки
// - DirectionalPnl: PNL по направлению позиции
// - WeightedAverage: средневзвешенное значение по объёмам

// WeightedEntryPrice возвращает новую средневзвешенную цену входа после
// наращивания позиции.
//
// Формула:
//
//	entry' = (old_qty*old_entry + fill_qty*fill_price) / (old_qty + fill_qty)
//
// Параметры:
//   - oldQty, oldEntry: объём и цена входа до доливки
//   - fillQty, fillPrice: объём и цена доливки
//
// Возвращает:
//   - Новую цену входа; если суммарный объём нулевой, возвращает fillPrice
func WeightedEntryPrice(oldQty, oldEntry, fillQty, fillPrice decimal.Decimal) decimal.Decimal {
	total := oldQty.Add(fillQty)
	if total.IsZero() {
		return fillPrice
	}
	notional := oldQty.Mul(oldEntry).Add(fillQty.Mul(fillPrice))
	return notional.Div(total)
}

// DirectionalPnl расчитывает PNL между двумя ценами с учётом направления.
//
// Формулы:
//   - Long:  (price - entry) * qty
//   - Short: (entry - price) * qty
//
// sign передаётся как +1 (long) или -1 (short), см. Direction.Sign().
//
// Параметры:
//   - entry: цена входа
//   - price: цена выхода либо текущая mark-цена
//   - qty: объём (беззнаковый)
//   - sign: знак направления
//
// Возвращает:
//   - PNL в валюте котировки
func DirectionalPnl(entry, price, qty decimal.Decimal, sign int) decimal.Decimal {
	pnl := price.Sub(entry).Mul(qty)
	if sign < 0 {
		return pnl.Neg()
	}
	return pnl
}

// WeightedAverage вычисляет средневзвешенное значение.
//
// Формула:
//
//	avg = Σ(value_i × weight_i) / Σ(weight_i)
//
// Отрицательные веса пропускаются. Если сумма весов нулевая,
// возвращается ноль.
func WeightedAverage(values, weights []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 || len(values) != len(weights) {
		return decimal.Zero
	}

	sumWeighted := decimal.Zero
	sumWeights := decimal.Zero
	for i := range values {
		if weights[i].IsNegative() {
			continue
		}
		sumWeighted = sumWeighted.Add(values[i].Mul(weights[i]))
		sumWeights = sumWeights.Add(weights[i])
	}

	if sumWeights.IsZero() {
		return decimal.Zero
	}
	return sumWeighted.Div(sumWeights)
}
