package service

import (
	"strings"

	"github.com/shopcore-next/internal/constants"
	"github.com/shopcore-next/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem 计价行
type LineItem struct {
	Price    decimal.Decimal
	Quantity int
}

// Totals 订单金额拆分
type Totals struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	FinalTotal  decimal.Decimal
}

// CalculateTotals 计算订单金额，discount 为已校验的折扣（可为 nil）
// 固定金额折扣不与小计比较，只保证 FinalTotal 不为负
func CalculateTotals(lines []LineItem, discount *models.Discount) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	// 运费与税费暂不计算
	shippingFee := decimal.Zero
	tax := decimal.Zero
	total := subtotal.Add(shippingFee).Add(tax)

	discountValue := discountAmount(subtotal, discount)
	finalTotal := total.Sub(discountValue)
	if finalTotal.IsNegative() {
		finalTotal = decimal.Zero
	}

	return Totals{
		Subtotal:    subtotal,
		Discount:    discountValue,
		ShippingFee: shippingFee,
		Tax:         tax,
		Total:       total,
		FinalTotal:  finalTotal,
	}
}

func discountAmount(subtotal decimal.Decimal, discount *models.Discount) decimal.Decimal {
	if discount == nil {
		return decimal.Zero
	}
	switch strings.ToLower(strings.TrimSpace(discount.Type)) {
	case constants.DiscountTypePercent:
		value := subtotal.Mul(discount.Value.Decimal).Div(hundred).Floor()
		if discount.MaxDiscount.Decimal.IsPositive() && value.GreaterThan(discount.MaxDiscount.Decimal) {
			value = discount.MaxDiscount.Decimal
		}
		return value
	case constants.DiscountTypeFixed:
		return discount.Value.Decimal
	default:
		return decimal.Zero
	}
}
