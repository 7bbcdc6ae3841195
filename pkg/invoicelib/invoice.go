// Package invoicelib provides a public API for producing ZUGFeRD and
// XRechnung (CII) e-invoices.
//
// Example usage:
//
//	inv, err := invoicelib.Load("invoice.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	xml, err := invoicelib.Render(inv, 3, invoicelib.ModeXRechnung)
//	if err != nil {
//	    log.Fatal(err)
//	}
package invoicelib

import (
	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/model"
)

// Re-export core types for public API
type (
	Invoice       = model.Invoice
	LineItem      = model.LineItem
	TradeParty    = model.TradeParty
	TaxCategory   = model.TaxCategory
	PaymentType   = model.PaymentType
	PaymentStatus = model.PaymentStatus
	Unit          = model.Unit
)

// Re-export tax categories
const (
	TaxCategoryStandardRate    = model.TaxCategoryStandardRate
	TaxCategoryReverseCharge   = model.TaxCategoryReverseCharge
	TaxCategoryTaxExempt       = model.TaxCategoryTaxExempt
	TaxCategoryZeroTaxProducts = model.TaxCategoryZeroTaxProducts
	TaxCategoryUntaxedService  = model.TaxCategoryUntaxedService
	TaxCategoryIntraCommunity  = model.TaxCategoryIntraCommunity
)

// Re-export payment types
const (
	PaymentTypeCash           = model.PaymentTypeCash
	PaymentTypeCheque         = model.PaymentTypeCheque
	PaymentTypeCreditTransfer = model.PaymentTypeCreditTransfer
	PaymentTypeDebitTransfer  = model.PaymentTypeDebitTransfer
	PaymentTypeCreditCard     = model.PaymentTypeCreditCard
	PaymentTypeDebitCard      = model.PaymentTypeDebitCard
	PaymentTypeBankTransfer   = model.PaymentTypeBankTransfer
	PaymentTypeDirectDebit    = model.PaymentTypeDirectDebit
)

// Re-export payment statuses
const (
	PaymentStatusUnpaid = model.PaymentStatusUnpaid
	PaymentStatusPaid   = model.PaymentStatusPaid
)

// Re-export the most common units
const (
	UnitPiece    = model.UnitPiece
	UnitHour     = model.UnitHour
	UnitDay      = model.UnitDay
	UnitFlatRate = model.UnitFlatRate
	UnitKilogram = model.UnitKilogram
)

// Re-export profile types
type (
	Version = cii.Version
	Mode    = cii.Mode
	Profile = cii.Profile
)

// Re-export modes
const (
	ModeZugferd   = string(cii.ModeZugferd)
	ModeXRechnung = string(cii.ModeXRechnung)
)

// Re-export error types
type (
	ConfigurationError = model.ConfigurationError
	ValidationError    = model.ValidationError
	InputError         = model.InputError
)
