package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// UncountedPolicy define qué pasa con las líneas no contadas al completar un conteo.
type UncountedPolicy string

const (
	// UncountedAsZero la línea se trata como contada en cero (genera faltante).
	UncountedAsZero UncountedPolicy = "zero"
	// UncountedExclude la línea queda fuera de la varianza y no genera ajuste.
	UncountedExclude UncountedPolicy = "exclude"
)

// ParseUncountedPolicy interpreta el valor de configuración; vacío = zero.
func ParseUncountedPolicy(s string) (UncountedPolicy, error) {
	switch UncountedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", UncountedAsZero:
		return UncountedAsZero, nil
	case UncountedExclude:
		return UncountedExclude, nil
	}
	return "", fmt.Errorf("política de no contados desconocida %q (zero|exclude)", s)
}

// ApplyUncountedPolicy resuelve las líneas sin contar según la política.
// Con zero se fija CountedQuantity = 0 y IsCounted queda en false para dejar rastro.
func ApplyUncountedPolicy(lines []entity.InventoryCountLine, policy UncountedPolicy) {
	for i := range lines {
		if lines[i].IsCounted || lines[i].CountedQuantity != nil {
			continue
		}
		if policy == UncountedAsZero {
			zero := decimal.Zero
			lines[i].CountedQuantity = &zero
		}
	}
}

// ComputeVariance calcula el resumen de diferencias. Las líneas sin cantidad contada
// (política exclude) no participan. AccuracyPct = 1 - Σ|dif| / Σsistema, acotado a [0,1];
// si Σsistema es cero vale 1 sin diferencias y 0 con ellas.
func ComputeVariance(lines []entity.InventoryCountLine) entity.VarianceSummary {
	s := entity.VarianceSummary{
		ShortageValue: decimal.Zero,
		SurplusValue:  decimal.Zero,
	}
	sumAbs := decimal.Zero
	sumSys := decimal.Zero
	for _, l := range lines {
		if l.CountedQuantity == nil {
			continue
		}
		diff := l.Variance()
		sumAbs = sumAbs.Add(diff.Abs())
		sumSys = sumSys.Add(l.SystemQuantity)
		if diff.IsZero() {
			continue
		}
		s.ItemsWithVariance++
		value := diff.Abs().Mul(l.UnitCost)
		if diff.IsNegative() {
			s.ShortageValue = s.ShortageValue.Add(value)
		} else {
			s.SurplusValue = s.SurplusValue.Add(value)
		}
	}
	s.NetAdjustmentValue = s.SurplusValue.Sub(s.ShortageValue)

	one := decimal.NewFromInt(1)
	switch {
	case sumSys.IsPositive():
		acc := one.Sub(sumAbs.Div(sumSys))
		if acc.IsNegative() {
			acc = decimal.Zero
		}
		s.AccuracyPct = acc.Round(4)
	case sumAbs.IsZero():
		s.AccuracyPct = one
	default:
		s.AccuracyPct = decimal.Zero
	}
	return s
}
