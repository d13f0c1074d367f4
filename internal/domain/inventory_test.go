package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestDeriveStatusBoundaries(t *testing.T) {
	cases := []struct {
		quantity int
		want     StockStatus
	}{
		{-5, StatusOutOfStock},
		{0, StatusOutOfStock},
		{1, StatusLowStock},
		{10, StatusLowStock},
		{11, StatusInStock},
		{500, StatusInStock},
	}

	for _, tc := range cases {
		if got := DeriveStatus(tc.quantity); got != tc.want {
			t.Errorf("DeriveStatus(%d) = %s, want %s", tc.quantity, got, tc.want)
		}
	}
}

func TestProperty_DeriveStatusPartition(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every quantity maps to exactly one of the three derived statuses", prop.ForAll(
		func(quantity int) bool {
			status := DeriveStatus(quantity)
			switch {
			case quantity <= 0:
				return status == StatusOutOfStock
			case quantity <= 10:
				return status == StatusLowStock
			default:
				return status == StatusInStock
			}
		},
		gen.IntRange(-1000, 1000),
	))

	properties.Property("derived status is never discontinued", prop.ForAll(
		func(quantity int) bool {
			return DeriveStatus(quantity) != StatusDiscontinued
		},
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}

func TestDeriveCost(t *testing.T) {
	price := decimal.NewFromInt(20)

	// Without a wholesale price the cost falls back to 70% of retail.
	cost := DeriveCost(nil, price)
	if !cost.Equal(decimal.NewFromInt(14)) {
		t.Errorf("DeriveCost(nil, 20) = %s, want 14", cost)
	}

	wholesale := decimal.NewFromFloat(12.5)
	cost = DeriveCost(&wholesale, price)
	if !cost.Equal(wholesale) {
		t.Errorf("DeriveCost(12.5, 20) = %s, want 12.5", cost)
	}
}

func TestProperty_DeriveCostFallbackIsSeventyPercent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cost without wholesale price is 0.7 * price", prop.ForAll(
		func(cents int64) bool {
			price := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
			cost := DeriveCost(nil, price)
			return cost.Equal(price.Mul(decimal.NewFromFloat(0.7)))
		},
		gen.Int64Range(0, 10_000_000),
	))

	properties.TestingRun(t)
}

func TestCompositeID(t *testing.T) {
	if got := CompositeID("bigbuy", "55"); got != "bigbuy-55" {
		t.Errorf("CompositeID = %s, want bigbuy-55", got)
	}
}
