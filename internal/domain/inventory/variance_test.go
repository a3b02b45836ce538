package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

func countLine(item, sys string, counted *decimal.Decimal, cost string) entity.InventoryCountLine {
	return entity.InventoryCountLine{
		ItemID:          item,
		SystemQuantity:  d(sys),
		CountedQuantity: counted,
		IsCounted:       counted != nil,
		UnitCost:        d(cost),
	}
}

func TestComputeVariance_EjemploFaltante(t *testing.T) {
	lines := []entity.InventoryCountLine{countLine("x", "15", costPtr("12"), "1200")}
	s := inventory.ComputeVariance(lines)

	assert.Equal(t, 1, s.ItemsWithVariance)
	assert.True(t, s.ShortageValue.Equal(d("3600")), "faltante %s", s.ShortageValue)
	assert.True(t, s.SurplusValue.IsZero())
	assert.True(t, s.NetAdjustmentValue.Equal(d("-3600")))
	assert.True(t, s.AccuracyPct.Equal(d("0.8")), "exactitud %s", s.AccuracyPct)
}

func TestComputeVariance_IdentidadNeto(t *testing.T) {
	lines := []entity.InventoryCountLine{
		countLine("a", "10", costPtr("7"), "100"),
		countLine("b", "4", costPtr("9"), "20.5"),
		countLine("c", "3", costPtr("3"), "50"),
	}
	s := inventory.ComputeVariance(lines)
	assert.Equal(t, 2, s.ItemsWithVariance)
	assert.True(t, s.ShortageValue.Equal(d("300")))
	assert.True(t, s.SurplusValue.Equal(d("102.5")))
	assert.True(t, s.NetAdjustmentValue.Equal(s.SurplusValue.Sub(s.ShortageValue)))
	// 1 - (3+5)/17
	assert.True(t, s.AccuracyPct.Equal(d("0.5294")), "exactitud %s", s.AccuracyPct)
}

func TestComputeVariance_SistemaCero(t *testing.T) {
	s := inventory.ComputeVariance([]entity.InventoryCountLine{countLine("a", "0", costPtr("0"), "10")})
	assert.True(t, s.AccuracyPct.Equal(d("1")), "sin diferencias la exactitud es total")

	s = inventory.ComputeVariance([]entity.InventoryCountLine{countLine("a", "0", costPtr("2"), "10")})
	assert.True(t, s.AccuracyPct.IsZero())
	assert.True(t, s.SurplusValue.Equal(d("20")))
}

func TestComputeVariance_ExactitudNoNegativa(t *testing.T) {
	s := inventory.ComputeVariance([]entity.InventoryCountLine{countLine("a", "2", costPtr("10"), "1")})
	assert.True(t, s.AccuracyPct.IsZero())
}

func TestApplyUncountedPolicy(t *testing.T) {
	t.Run("zero cuenta en cero", func(t *testing.T) {
		lines := []entity.InventoryCountLine{
			countLine("a", "5", nil, "10"),
			countLine("b", "2", costPtr("2"), "10"),
		}
		inventory.ApplyUncountedPolicy(lines, inventory.UncountedAsZero)
		require.NotNil(t, lines[0].CountedQuantity)
		assert.True(t, lines[0].CountedQuantity.IsZero())
		assert.False(t, lines[0].IsCounted, "se conserva que no fue contada")

		s := inventory.ComputeVariance(lines)
		assert.True(t, s.ShortageValue.Equal(d("50")))
		assert.Equal(t, 1, s.ItemsWithVariance)
	})

	t.Run("exclude la deja fuera", func(t *testing.T) {
		lines := []entity.InventoryCountLine{
			countLine("a", "5", nil, "10"),
			countLine("b", "2", costPtr("2"), "10"),
		}
		inventory.ApplyUncountedPolicy(lines, inventory.UncountedExclude)
		assert.Nil(t, lines[0].CountedQuantity)

		s := inventory.ComputeVariance(lines)
		assert.Equal(t, 0, s.ItemsWithVariance)
		assert.True(t, s.AccuracyPct.Equal(d("1")))
	})
}

func TestParseUncountedPolicy(t *testing.T) {
	p, err := inventory.ParseUncountedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, inventory.UncountedAsZero, p)

	p, err = inventory.ParseUncountedPolicy(" EXCLUDE ")
	require.NoError(t, err)
	assert.Equal(t, inventory.UncountedExclude, p)

	_, err = inventory.ParseUncountedPolicy("skip")
	assert.Error(t, err)
}
