package validation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/cii-invoice/internal/model"
	"github.com/rezonia/cii-invoice/internal/validation"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discountedItem() model.LineItem {
	return model.LineItem{
		Name:              "Depfu Starter Plan",
		Quantity:          d("1"),
		Unit:              model.UnitPiece,
		GrossAmount:       d("29"),
		NetAmount:         d("20"),
		ChargeAmount:      d("20"),
		DiscountAmount:    decimal.NewNullDecimal(d("9")),
		DiscountReason:    "Rabatt",
		TaxCategory:       model.TaxCategoryStandardRate,
		TaxPercent:        d("19"),
		TaxAmount:         d("3.80"),
		OriginCountryCode: "DE",
		CurrencyCode:      "EUR",
	}
}

func domesticInvoice() *model.Invoice {
	party := &model.TradeParty{Name: "Depfu inc", CountryID: "DE", VATID: "DE304755032"}
	return &model.Invoice{
		ID:               "12345",
		IssueDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Seller:           party,
		Buyer:            party,
		LineItems:        []model.LineItem{discountedItem()},
		CurrencyCode:     "EUR",
		PaymentType:      model.PaymentTypeCreditCard,
		TaxCategory:      model.TaxCategoryStandardRate,
		TaxPercent:       d("19"),
		TaxAmount:        d("3.80"),
		BasisAmount:      d("20"),
		GrandTotalAmount: d("23.80"),
		DueAmount:        d("0"),
		PaidAmount:       d("23.80"),
	}
}

func TestValidateLineItem_Valid(t *testing.T) {
	item := discountedItem()
	require.NoError(t, validation.ValidateLineItem(&item))
}

func TestValidateLineItem_ChargeRoundedFromQuantity(t *testing.T) {
	item := model.LineItem{
		Quantity:     d("3.333"),
		NetAmount:    d("1.50"),
		ChargeAmount: d("5.00"), // 4.9995 rounds half away from zero
		TaxPercent:   d("0"),
		TaxAmount:    d("0"),
	}
	require.NoError(t, validation.ValidateLineItem(&item))
}

func TestValidateLineItem_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.LineItem)
		contains string
	}{
		{
			name:     "charge deviates",
			mutate:   func(li *model.LineItem) { li.ChargeAmount = d("21") },
			contains: "charge amount and net amount times quantity deviate: 21.00 / 20.00",
		},
		{
			name:     "discount deviates",
			mutate:   func(li *model.LineItem) { li.DiscountAmount = decimal.NewNullDecimal(d("8")) },
			contains: "net amount and gross amount minus discount deviate: 20.00 / 21.00",
		},
		{
			name:     "tax deviates",
			mutate:   func(li *model.LineItem) { li.TaxAmount = d("4.00") },
			contains: "tax amount and calculated tax amount deviate: 4.00 / 3.80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := discountedItem()
			tt.mutate(&item)

			err := validation.ValidateLineItem(&item)
			require.Error(t, err)

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Messages, 1)
			assert.Contains(t, verr.Messages[0], tt.contains)
		})
	}
}

func TestValidateLineItem_FailFast(t *testing.T) {
	item := discountedItem()
	item.ChargeAmount = d("21")
	item.TaxAmount = d("4.00")

	messages := validation.Messages(validation.ValidateLineItem(&item))
	require.Len(t, messages, 1, "only the first failing check is reported")
	assert.Contains(t, messages[0], "charge amount")
}

func TestValidateLineItem_DiscountSkippedWhenAbsent(t *testing.T) {
	item := discountedItem()
	item.DiscountAmount = decimal.NullDecimal{}
	// gross 29 - nothing would not equal net 20, but no discount means no check
	require.NoError(t, validation.ValidateLineItem(&item))
}

func TestValidateLineItemAt_NamesPosition(t *testing.T) {
	item := discountedItem()
	item.TaxAmount = d("4.00")

	err := validation.ValidateLineItemAt(&item, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line item 3")
}

func TestValidateInvoice_Valid(t *testing.T) {
	require.NoError(t, validation.ValidateInvoice(domesticInvoice()))
}

func TestValidateInvoice_ReverseCharge(t *testing.T) {
	inv := domesticInvoice()
	inv.LineItems = []model.LineItem{{
		Quantity:     d("1"),
		GrossAmount:  d("29"),
		NetAmount:    d("29"),
		ChargeAmount: d("29"),
		TaxCategory:  model.TaxCategoryReverseCharge,
		TaxPercent:   d("0"),
		TaxAmount:    d("0"),
	}}
	inv.TaxCategory = model.TaxCategoryReverseCharge
	inv.TaxPercent = d("0")
	inv.TaxAmount = d("0")
	inv.BasisAmount = d("29")
	inv.GrandTotalAmount = d("29")

	require.NoError(t, validation.ValidateAll(inv))
}

func TestValidateInvoice_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.Invoice)
		contains string
	}{
		{
			name:     "tax deviates",
			mutate:   func(inv *model.Invoice) { inv.TaxAmount = d("4.00") },
			contains: "tax amount and calculated tax amount deviate: 4.00 / 3.80",
		},
		{
			name:     "grand total deviates",
			mutate:   func(inv *model.Invoice) { inv.GrandTotalAmount = d("23.81") },
			contains: "grand total amount and calculated grand total amount deviate: 23.81 / 23.80",
		},
		{
			name: "basis deviates from line items",
			mutate: func(inv *model.Invoice) {
				inv.LineItems = append(inv.LineItems, discountedItem())
			},
			contains: "basis amount and sum of line item charges deviate: 20.00 / 40.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domesticInvoice()
			tt.mutate(inv)

			messages := validation.Messages(validation.ValidateInvoice(inv))
			require.Len(t, messages, 1)
			assert.Contains(t, messages[0], tt.contains)
		})
	}
}

func TestValidateInvoice_BasisIsExactSum(t *testing.T) {
	inv := domesticInvoice()
	item := model.LineItem{ChargeAmount: d("1.004")}
	inv.LineItems = []model.LineItem{item, item}
	inv.TaxPercent = d("0")
	inv.TaxAmount = d("0")

	// 1.004 + 1.004 = 2.008, rounding the sum to 2.01 must not make it pass
	inv.BasisAmount = d("2.01")
	inv.GrandTotalAmount = d("2.01")
	require.Error(t, validation.ValidateInvoice(inv))

	inv.BasisAmount = d("2.008")
	inv.GrandTotalAmount = d("2.008")
	require.NoError(t, validation.ValidateInvoice(inv))
}

func TestValidateInvoice_RoundsTaxHalfAwayFromZero(t *testing.T) {
	inv := domesticInvoice()
	inv.LineItems = []model.LineItem{{ChargeAmount: d("23.45")}}
	inv.BasisAmount = d("23.45")
	inv.TaxPercent = d("10")
	inv.TaxAmount = d("2.35") // 2.345
	inv.GrandTotalAmount = d("25.80")
	require.NoError(t, validation.ValidateInvoice(inv))

	inv.LineItems = []model.LineItem{{ChargeAmount: d("-23.45")}}
	inv.BasisAmount = d("-23.45")
	inv.TaxAmount = d("-2.35") // -2.345
	inv.GrandTotalAmount = d("-25.80")
	require.NoError(t, validation.ValidateInvoice(inv))
}

func TestValidateAll_LineItemsFirst(t *testing.T) {
	inv := domesticInvoice()
	inv.LineItems[0].TaxAmount = d("4.00")
	inv.TaxAmount = d("4.00")

	err := validation.ValidateAll(inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line item 1")
	assert.Contains(t, err.Error(), "4.00 / 3.80")
}

func TestMessages_NonValidationError(t *testing.T) {
	assert.Nil(t, validation.Messages(nil))
	assert.Nil(t, validation.Messages(assert.AnError))
}
