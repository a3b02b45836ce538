package inventory

import "github.com/shopspring/decimal"

// CostLot cantidad recibida a un costo unitario.
type CostLot struct {
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// WeightedAverageCost costo promedio de la posición tras una entrada de inQty a inCost.
//
//	avg' = (qty*avg + inQty*inCost) / (qty + inQty)
//
// Con stock previo no positivo el saldo anterior no aporta valor y rige el costo de la entrada.
// El resultado no se redondea.
func WeightedAverageCost(qty, avg, inQty, inCost decimal.Decimal) decimal.Decimal {
	total := qty.Add(inQty)
	if !qty.IsPositive() || !total.IsPositive() {
		return inCost
	}
	value := qty.Mul(avg).Add(inQty.Mul(inCost))
	return value.Div(total)
}

// BlendedCost costo unitario de un conjunto de lotes, Σq·c / Σq. Cero si no hay cantidad.
func BlendedCost(lots ...CostLot) decimal.Decimal {
	value, qty := decimal.Zero, decimal.Zero
	for _, l := range lots {
		value = value.Add(l.Quantity.Mul(l.UnitCost))
		qty = qty.Add(l.Quantity)
	}
	if qty.IsZero() {
		return decimal.Zero
	}
	return value.Div(qty)
}
