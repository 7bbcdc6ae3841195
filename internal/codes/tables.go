// Package codes maps model enumerations to the fixed code lists CII documents use.
//
// Every lookup is total: values without an explicit mapping resolve to a
// documented fallback instead of failing.
package codes

import "github.com/rezonia/cii-invoice/internal/model"

// Fallback codes
const (
	DefaultTaxCategoryCode  = "S"   // standard rate
	DefaultPaymentMeansCode = "1"   // instrument not defined
	DefaultUnitCode         = "C62" // one
)

// UNTDID 5305 duty/tax/fee category codes, versions 2 and 3
var taxCategoryCodes = map[model.TaxCategory]string{
	model.TaxCategoryStandardRate:    "S",
	model.TaxCategoryReverseCharge:   "AE",
	model.TaxCategoryTaxExempt:       "E",
	model.TaxCategoryZeroTaxProducts: "Z",
	model.TaxCategoryUntaxedService:  "O",
	model.TaxCategoryIntraCommunity:  "K",
}

// ZUGFeRD 1 predates the EN 16931 code list and names intra-community supply IC
var taxCategoryCodesV1 = map[model.TaxCategory]string{
	model.TaxCategoryStandardRate:    "S",
	model.TaxCategoryReverseCharge:   "AE",
	model.TaxCategoryTaxExempt:       "E",
	model.TaxCategoryZeroTaxProducts: "Z",
	model.TaxCategoryUntaxedService:  "O",
	model.TaxCategoryIntraCommunity:  "IC",
}

// UNTDID 4461 payment means codes
var paymentMeansCodes = map[model.PaymentType]string{
	model.PaymentTypeCash:           "10",
	model.PaymentTypeCheque:         "20",
	model.PaymentTypeCreditTransfer: "30",
	model.PaymentTypeDebitTransfer:  "31",
	model.PaymentTypeCreditCard:     "54",
	model.PaymentTypeDebitCard:      "55",
	model.PaymentTypeBankTransfer:   "58",
	model.PaymentTypeDirectDebit:    "59",
}

// UN/ECE Recommendation 20 unit codes
var unitCodes = map[model.Unit]string{
	model.UnitPiece:            "C62",
	model.UnitDay:              "DAY",
	model.UnitHectare:          "HAR",
	model.UnitHour:             "HUR",
	model.UnitKilogram:         "KGM",
	model.UnitKilometer:        "KTM",
	model.UnitKilowattHour:     "KWH",
	model.UnitFlatRate:         "LS",
	model.UnitLitre:            "LTR",
	model.UnitMinute:           "MIN",
	model.UnitSquareMillimeter: "MMK",
	model.UnitMillimeter:       "MMT",
	model.UnitSquareMeter:      "MTK",
	model.UnitCubicMeter:       "MTQ",
	model.UnitMeter:            "MTR",
	model.UnitProductCount:     "NAR",
	model.UnitProductPair:      "NPR",
	model.UnitPercent:          "P1",
	model.UnitSet:              "SET",
	model.UnitTon:              "TNE",
	model.UnitWeek:             "WEE",
	model.UnitMonth:            "MON",
	model.UnitYear:             "ANN",
}

// Default exemption reason texts, used when the invoice states none
var exemptionReasons = map[model.TaxCategory]string{
	model.TaxCategoryReverseCharge:  "Reverse Charge",
	model.TaxCategoryIntraCommunity: "Intra-community supply",
	model.TaxCategoryTaxExempt:      "Exempt from tax",
	model.TaxCategoryUntaxedService: "Not subject to VAT",
}

// TaxCategoryCode returns the category code for the document version.
// Version 1 uses its own table; every other version uses the EN 16931 codes.
func TaxCategoryCode(category model.TaxCategory, version int) string {
	table := taxCategoryCodes
	if version == 1 {
		table = taxCategoryCodesV1
	}
	if code, ok := table[category]; ok {
		return code
	}
	return DefaultTaxCategoryCode
}

// PaymentMeansCode returns the payment means code for a payment type
func PaymentMeansCode(paymentType model.PaymentType) string {
	if code, ok := paymentMeansCodes[paymentType]; ok {
		return code
	}
	return DefaultPaymentMeansCode
}

// UnitCode returns the unit of measure code, C62 when unknown
func UnitCode(unit model.Unit) string {
	if code, ok := unitCodes[unit]; ok {
		return code
	}
	return DefaultUnitCode
}

// ExemptionReason returns the default exemption reason text, or "" when the
// category needs none
func ExemptionReason(category model.TaxCategory) string {
	return exemptionReasons[category]
}

// TaxReasonText prefers an explicit reason over the category default
func TaxReasonText(explicit string, category model.TaxCategory) string {
	if explicit != "" {
		return explicit
	}
	return ExemptionReason(category)
}
