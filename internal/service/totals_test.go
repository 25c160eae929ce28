package service

import (
	"math/rand"
	"testing"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/models"

	"github.com/shopspring/decimal"
)

func percentDiscount(value, maxDiscount int64) *models.Discount {
	return &models.Discount{
		Code:        "PCT",
		Type:        constants.DiscountTypePercent,
		Value:       models.NewMoneyFromInt(value),
		MaxDiscount: models.NewMoneyFromInt(maxDiscount),
		IsActive:    true,
	}
}

func fixedDiscount(value int64) *models.Discount {
	return &models.Discount{
		Code:     "FIX",
		Type:     constants.DiscountTypeFixed,
		Value:    models.NewMoneyFromInt(value),
		IsActive: true,
	}
}

func TestCalculateTotalsNoDiscount(t *testing.T) {
	totals := CalculateTotals([]LineItem{
		{Price: decimal.NewFromInt(120000), Quantity: 2},
		{Price: decimal.NewFromInt(55000), Quantity: 1},
	}, nil)
	if !totals.Subtotal.Equal(decimal.NewFromInt(295000)) {
		t.Fatalf("unexpected subtotal %s", totals.Subtotal)
	}
	if !totals.ShippingFee.IsZero() || !totals.Tax.IsZero() {
		t.Fatalf("shipping and tax must be zero")
	}
	if !totals.FinalTotal.Equal(totals.Total) || !totals.Discount.IsZero() {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestCalculateTotalsPercentWithCap(t *testing.T) {
	totals := CalculateTotals([]LineItem{{Price: decimal.NewFromInt(10000000), Quantity: 1}}, percentDiscount(10, 500000))
	if !totals.Discount.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("expected discount 500000, got %s", totals.Discount)
	}
	if !totals.FinalTotal.Equal(decimal.NewFromInt(9500000)) {
		t.Fatalf("expected final total 9500000, got %s", totals.FinalTotal)
	}
}

func TestCalculateTotalsPercentFloors(t *testing.T) {
	totals := CalculateTotals([]LineItem{{Price: decimal.NewFromInt(999), Quantity: 1}}, percentDiscount(15, 0))
	if !totals.Discount.Equal(decimal.NewFromInt(149)) {
		t.Fatalf("expected floored discount 149, got %s", totals.Discount)
	}
}

func TestCalculateTotalsFixedNeverNegative(t *testing.T) {
	totals := CalculateTotals([]LineItem{{Price: decimal.NewFromInt(50000), Quantity: 1}}, fixedDiscount(80000))
	if !totals.FinalTotal.IsZero() {
		t.Fatalf("final total must floor at zero, got %s", totals.FinalTotal)
	}
	if !totals.Discount.Equal(decimal.NewFromInt(80000)) {
		t.Fatalf("fixed discount is recorded as configured, got %s", totals.Discount)
	}
}

func TestCalculateTotalsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		subtotal := decimal.NewFromInt(rng.Int63n(50_000_000))
		lines := []LineItem{{Price: subtotal, Quantity: 1}}

		value := rng.Int63n(101)
		capValue := rng.Int63n(2_000_000)
		totals := CalculateTotals(lines, percentDiscount(value, capValue))
		expected := subtotal.Mul(decimal.NewFromInt(value)).Div(hundred).Floor()
		if capValue > 0 && expected.GreaterThan(decimal.NewFromInt(capValue)) {
			expected = decimal.NewFromInt(capValue)
		}
		if !totals.Discount.Equal(expected) {
			t.Fatalf("percent discount mismatch: subtotal=%s v=%d cap=%d got=%s want=%s", subtotal, value, capValue, totals.Discount, expected)
		}
		if totals.FinalTotal.IsNegative() {
			t.Fatalf("final total negative for subtotal=%s", subtotal)
		}

		fixed := rng.Int63n(60_000_000)
		totals = CalculateTotals(lines, fixedDiscount(fixed))
		want := subtotal.Sub(decimal.NewFromInt(fixed))
		if want.IsNegative() {
			want = decimal.Zero
		}
		if !totals.FinalTotal.Equal(want) {
			t.Fatalf("fixed final total mismatch: subtotal=%s d=%d got=%s want=%s", subtotal, fixed, totals.FinalTotal, want)
		}
	}
}

func TestCalculateTotalsDeterministic(t *testing.T) {
	lines := []LineItem{{Price: decimal.RequireFromString("19999.5"), Quantity: 3}}
	first := CalculateTotals(lines, percentDiscount(7, 0))
	second := CalculateTotals(lines, percentDiscount(7, 0))
	if !first.FinalTotal.Equal(second.FinalTotal) || !first.Discount.Equal(second.Discount) {
		t.Fatalf("totals must be deterministic")
	}
}
