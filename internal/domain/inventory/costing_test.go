package inventory_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

var tolerance = decimal.New(1, -8)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertClose(t *testing.T, want, got decimal.Decimal, label string, args ...interface{}) {
	t.Helper()
	assert.True(t, want.Sub(got).Abs().LessThanOrEqual(tolerance),
		"%s: esperado %s, obtenido %s", fmt.Sprintf(label, args...), want.String(), got.String())
}

type receipt struct {
	qty  decimal.Decimal
	cost decimal.Decimal
}

func randomReceipts(r *rand.Rand, n int) []receipt {
	out := make([]receipt, n)
	for i := range out {
		out[i] = receipt{
			qty:  decimal.NewFromInt(int64(r.Intn(500) + 1)),
			cost: decimal.New(int64(r.Intn(1_000_000)), -2),
		}
	}
	return out
}

func applySequential(qty, avg decimal.Decimal, rs []receipt) (decimal.Decimal, decimal.Decimal) {
	for _, rc := range rs {
		avg = inventory.WeightedAverageCost(qty, avg, rc.qty, rc.cost)
		qty = qty.Add(rc.qty)
	}
	return qty, avg
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos básicos
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedAverageCost_StockCeroTomaCostoEntrada(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.Zero, d("999"), d("10"), d("1000"))
	assert.True(t, got.Equal(d("1000")))
}

func TestWeightedAverageCost_Ejemplo(t *testing.T) {
	got := inventory.WeightedAverageCost(d("10"), d("1000"), d("5"), d("1600"))
	assert.True(t, got.Equal(d("1200")), "(10*1000 + 5*1600) / 15 = 1200, obtenido %s", got)
}

func TestWeightedAverageCost_StockNegativoTomaCostoEntrada(t *testing.T) {
	got := inventory.WeightedAverageCost(d("-3"), d("500"), d("3"), d("700"))
	assert.True(t, got.Equal(d("700")), "q + r == 0 se trata como stock cero")

	got = inventory.WeightedAverageCost(d("-2"), d("500"), d("10"), d("700"))
	assert.True(t, got.Equal(d("700")), "stock negativo previo no pondera")
}

func TestWeightedAverageCost_CostoCero(t *testing.T) {
	got := inventory.WeightedAverageCost(d("10"), d("100"), d("10"), decimal.Zero)
	assert.True(t, got.Equal(d("50")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades (bucles con semilla fija)
// ──────────────────────────────────────────────────────────────────────────────

// Dividir una recepción en dos al mismo costo no cambia el promedio.
func TestWeightedAverageCost_LeyDivisionDeLote(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		q := decimal.NewFromInt(int64(r.Intn(1000)))
		avg := decimal.New(int64(r.Intn(100_000)), -2)
		total := int64(r.Intn(999) + 2)
		q1 := decimal.NewFromInt(int64(r.Intn(int(total-1)) + 1))
		q2 := decimal.NewFromInt(total).Sub(q1)
		c := decimal.New(int64(r.Intn(100_000)), -2)

		single := inventory.WeightedAverageCost(q, avg, decimal.NewFromInt(total), c)
		_, split := applySequential(q, avg, []receipt{{q1, c}, {q2, c}})
		assertClose(t, single, split, "iteración %d", i)
	}
}

// Partes a costos distintos equivalen al promedio ponderado de las partes, no al costo de una sola.
func TestWeightedAverageCost_LeyPromedioPonderado(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		q := decimal.NewFromInt(int64(r.Intn(1000)))
		avg := decimal.New(int64(r.Intn(100_000)), -2)
		rs := randomReceipts(r, 2)
		if rs[0].cost.Equal(rs[1].cost) {
			rs[1].cost = rs[1].cost.Add(decimal.NewFromInt(1))
		}
		sum := rs[0].qty.Add(rs[1].qty)
		blended := inventory.BlendedCost(
			inventory.CostLot{Quantity: rs[0].qty, UnitCost: rs[0].cost},
			inventory.CostLot{Quantity: rs[1].qty, UnitCost: rs[1].cost},
		)

		_, seq := applySequential(q, avg, rs)
		assertClose(t, inventory.WeightedAverageCost(q, avg, sum, blended), seq, "iteración %d", i)

		single := inventory.WeightedAverageCost(q, avg, sum, rs[0].cost)
		assert.False(t, single.Sub(seq).Abs().LessThanOrEqual(tolerance),
			"costos distintos no pueden dar el mismo promedio que un lote al primer costo (iteración %d)", i)
	}
}

// Desde stock cero, aplicar recepciones en secuencia equivale a Σq·c / Σq, sin importar el orden.
func TestWeightedAverageCost_IndependenciaDelOrden(t *testing.T) {
	r := rand.New(rand.NewSource(2024))
	for i := 0; i < 200; i++ {
		rs := randomReceipts(r, r.Intn(8)+2)
		num, den := decimal.Zero, decimal.Zero
		lots := make([]inventory.CostLot, len(rs))
		for j, rc := range rs {
			num = num.Add(rc.qty.Mul(rc.cost))
			den = den.Add(rc.qty)
			lots[j] = inventory.CostLot{Quantity: rc.qty, UnitCost: rc.cost}
		}
		want := num.Div(den)
		assertClose(t, want, inventory.BlendedCost(lots...), "lotes %d", i)

		_, forward := applySequential(decimal.Zero, decimal.Zero, rs)
		shuffled := make([]receipt, len(rs))
		copy(shuffled, rs)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		_, other := applySequential(decimal.Zero, decimal.Zero, shuffled)

		assertClose(t, want, forward, "iteración %d", i)
		assertClose(t, want, other, "iteración %d (orden alterado)", i)
	}
}

func TestBlendedCost_SinCantidad(t *testing.T) {
	assert.True(t, inventory.BlendedCost().IsZero())
	assert.True(t, inventory.BlendedCost(inventory.CostLot{Quantity: decimal.Zero, UnitCost: d("50")}).IsZero())
}
