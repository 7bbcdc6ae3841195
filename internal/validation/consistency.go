// Package validation checks the monetary fields of invoices and line items
// against each other using exact decimal arithmetic.
//
// Checks are fail-fast: a call stops at the first deviating pair and reports
// exactly one message, even though the result carries a list.
package validation

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/cii-invoice/internal/decimal"
	"github.com/rezonia/cii-invoice/internal/model"
)

// ValidateLineItem checks charge, discount and tax of a single line item
func ValidateLineItem(item *model.LineItem) error {
	return validateLineItem(item, "line item")
}

// ValidateLineItemAt is ValidateLineItem naming the 1-based position in the error
func ValidateLineItemAt(item *model.LineItem, index int) error {
	return validateLineItem(item, fmt.Sprintf("line item %d", index))
}

func validateLineItem(item *model.LineItem, subject string) error {
	calculatedCharge := dec.Mul(item.NetAmount, item.Quantity)
	if !item.ChargeAmount.Equal(calculatedCharge) {
		return deviation(subject, "charge amount and net amount times quantity", item.ChargeAmount, calculatedCharge)
	}

	if item.HasDiscount() {
		calculatedNet := dec.Round2(item.GrossAmount.Sub(item.DiscountAmount.Decimal))
		if !item.NetAmount.Equal(calculatedNet) {
			return deviation(subject, "net amount and gross amount minus discount", item.NetAmount, calculatedNet)
		}
	}

	calculatedTax := dec.Percentage(item.ChargeAmount, item.TaxPercent)
	if !item.TaxAmount.Equal(calculatedTax) {
		return deviation(subject, "tax amount and calculated tax amount", item.TaxAmount, calculatedTax)
	}

	return nil
}

// ValidateInvoice checks the invoice level tax, grand total and basis amount.
// Line items are checked separately, by ValidateLineItem.
func ValidateInvoice(inv *model.Invoice) error {
	subject := fmt.Sprintf("invoice %s", inv.ID)

	calculatedTax := dec.Percentage(inv.BasisAmount, inv.TaxPercent)
	if !inv.TaxAmount.Equal(calculatedTax) {
		return deviation(subject, "tax amount and calculated tax amount", inv.TaxAmount, calculatedTax)
	}

	calculatedGrandTotal := inv.BasisAmount.Add(inv.TaxAmount)
	if !inv.GrandTotalAmount.Equal(calculatedGrandTotal) {
		return deviation(subject, "grand total amount and calculated grand total amount", inv.GrandTotalAmount, calculatedGrandTotal)
	}

	lineItemSum := dec.Sum(lo.Map(inv.LineItems, func(item model.LineItem, _ int) decimal.Decimal {
		return item.ChargeAmount
	}))
	if !inv.BasisAmount.Equal(lineItemSum) {
		return deviation(subject, "basis amount and sum of line item charges", inv.BasisAmount, lineItemSum)
	}

	return nil
}

// ValidateAll runs the line item checks in sequence order, then the invoice
// checks, stopping at the first failure like the serializer does.
func ValidateAll(inv *model.Invoice) error {
	for i := range inv.LineItems {
		if err := ValidateLineItemAt(&inv.LineItems[i], i+1); err != nil {
			return err
		}
	}
	return ValidateInvoice(inv)
}

// Messages returns the discrepancy list of a validation error, nil otherwise
func Messages(err error) []string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Messages
	}
	return nil
}

func deviation(subject, what string, stored, calculated decimal.Decimal) *model.ValidationError {
	return model.NewValidationError(subject,
		fmt.Sprintf("%s deviate: %s / %s", what, dec.Display(stored), dec.Display(calculated)))
}
