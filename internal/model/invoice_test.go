package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/cii-invoice/internal/model"
)

func TestInvoice_Creation(t *testing.T) {
	seller := &model.TradeParty{
		Name:       "Depfu inc",
		Street1:    "Quickbornstr. 46",
		City:       "Hamburg",
		PostalCode: "20253",
		CountryID:  "DE",
		VATID:      "DE304755032",
	}
	inv := model.Invoice{
		ID:           "12345",
		IssueDate:    time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
		Seller:       seller,
		Buyer:        seller,
		CurrencyCode: "EUR",
		PaymentType:  model.PaymentTypeCreditCard,
		TaxCategory:  model.TaxCategoryStandardRate,
	}

	assert.Equal(t, "12345", inv.ID)
	assert.Same(t, inv.Seller, inv.Buyer)
	assert.Equal(t, "DE304755032", inv.Seller.VATID)
	assert.False(t, inv.HasBuyerReference())

	inv.BuyerReference = "REF-112233"
	assert.True(t, inv.HasBuyerReference())
}

func TestLineItem_HasDiscount(t *testing.T) {
	item := model.LineItem{
		Name:     "Depfu Starter Plan",
		Quantity: decimal.NewFromInt(1),
		Unit:     model.UnitPiece,
	}
	assert.False(t, item.HasDiscount())

	item.DiscountAmount = decimal.NewNullDecimal(decimal.RequireFromString("9.00"))
	assert.True(t, item.HasDiscount())

	// a zero discount is still a stated discount
	item.DiscountAmount = decimal.NewNullDecimal(decimal.Zero)
	assert.True(t, item.HasDiscount())
}

func TestEnumConstants(t *testing.T) {
	assert.Equal(t, model.PaymentStatus("unpaid"), model.PaymentStatusUnpaid)
	assert.Equal(t, model.TaxCategory("REVERSECHARGE"), model.TaxCategoryReverseCharge)
	assert.Equal(t, model.Unit("PIECE"), model.UnitPiece)
	assert.Equal(t, model.PaymentType("CREDITCARD"), model.PaymentTypeCreditCard)
}

func TestConfigurationError(t *testing.T) {
	err := model.NewConfigurationError("version", 4, "supported versions are 1, 2, 3")

	require.Contains(t, err.Error(), "version")
	require.Contains(t, err.Error(), "4")
	require.Contains(t, err.Error(), "supported versions")
}

func TestValidationError(t *testing.T) {
	err := model.NewValidationError("invoice 12345", "tax amount and calculated tax amount deviate: 4.00 / 3.80")

	require.Contains(t, err.Error(), "invoice 12345")
	require.Contains(t, err.Error(), "4.00 / 3.80")
	assert.Len(t, err.Messages, 1)
}

func TestValidationError_NoMessages(t *testing.T) {
	err := model.NewValidationError("line item 1")
	assert.Equal(t, "line item 1 is invalid", err.Error())
}

func TestInputError_WithCause(t *testing.T) {
	cause := assert.AnError
	err := model.NewInputError("tax_amount", "not a decimal", cause)

	require.Contains(t, err.Error(), "tax_amount")
	require.ErrorIs(t, err, cause)
}
