package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxCategory represents the VAT treatment of an invoice or line item
type TaxCategory string

const (
	TaxCategoryStandardRate    TaxCategory = "STANDARDRATE"
	TaxCategoryReverseCharge   TaxCategory = "REVERSECHARGE"
	TaxCategoryTaxExempt       TaxCategory = "TAXEXEMPT"
	TaxCategoryZeroTaxProducts TaxCategory = "ZEROTAXPRODUCTS"
	TaxCategoryUntaxedService  TaxCategory = "UNTAXEDSERVICE"
	TaxCategoryIntraCommunity  TaxCategory = "INTRACOMMUNITY"
)

// PaymentType represents how the invoice is settled
type PaymentType string

const (
	PaymentTypeCash           PaymentType = "CASH"
	PaymentTypeCheque         PaymentType = "CHEQUE"
	PaymentTypeCreditTransfer PaymentType = "CREDITTRANSFER"
	PaymentTypeDebitTransfer  PaymentType = "DEBITTRANSFER"
	PaymentTypeCreditCard     PaymentType = "CREDITCARD"
	PaymentTypeDebitCard      PaymentType = "DEBITCARD"
	PaymentTypeBankTransfer   PaymentType = "BANKTRANSFER"
	PaymentTypeDirectDebit    PaymentType = "DIRECTDEBIT"
)

// Unit represents the unit of measure of a line item quantity
type Unit string

const (
	UnitPiece            Unit = "PIECE"
	UnitDay              Unit = "DAY"
	UnitHectare          Unit = "HECTARE"
	UnitHour             Unit = "HOUR"
	UnitKilogram         Unit = "KILOGRAM"
	UnitKilometer        Unit = "KILOMETER"
	UnitKilowattHour     Unit = "KILOWATTHOUR"
	UnitFlatRate         Unit = "FLATRATE"
	UnitLitre            Unit = "LITRE"
	UnitMinute           Unit = "MINUTE"
	UnitSquareMillimeter Unit = "SQUAREMILLIMETER"
	UnitMillimeter       Unit = "MILLIMETER"
	UnitSquareMeter      Unit = "SQUAREMETER"
	UnitCubicMeter       Unit = "CUBICMETER"
	UnitMeter            Unit = "METER"
	UnitProductCount     Unit = "PRODUCTCOUNT"
	UnitProductPair      Unit = "PRODUCTPAIR"
	UnitPercent          Unit = "PERCENT"
	UnitSet              Unit = "SET"
	UnitTon              Unit = "TON"
	UnitWeek             Unit = "WEEK"
	UnitMonth            Unit = "MONTH"
	UnitYear             Unit = "YEAR"
)

// PaymentStatus tells whether the invoice is still open.
// The empty value means the status is not stated.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// TradeParty represents seller or buyer
type TradeParty struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	CountryID  string `json:"country_id"` // ISO 3166-1 alpha-2
	VATID      string `json:"vat_id,omitempty"`
}

// LineItem represents one billable position.
// All amounts are pre-computed by the caller; nothing here is derived.
type LineItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     Unit            `json:"unit"`

	GrossAmount  decimal.Decimal `json:"gross_amount"`  // unit price before discount
	NetAmount    decimal.Decimal `json:"net_amount"`    // unit price after discount
	ChargeAmount decimal.Decimal `json:"charge_amount"` // NetAmount * Quantity

	DiscountAmount decimal.NullDecimal `json:"discount_amount"`
	DiscountReason string              `json:"discount_reason,omitempty"`

	TaxCategory TaxCategory     `json:"tax_category"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`

	OriginCountryCode string `json:"origin_country_code"`
	CurrencyCode      string `json:"currency_code"`
}

// HasDiscount reports whether a discount amount was supplied
func (li *LineItem) HasDiscount() bool {
	return li.DiscountAmount.Valid
}

// Invoice represents a CII commercial invoice
type Invoice struct {
	// Header
	ID        string    `json:"id"`
	IssueDate time.Time `json:"issue_date"`

	// Parties
	Seller *TradeParty `json:"seller"`
	Buyer  *TradeParty `json:"buyer"`

	// Line Items, order determines line numbers
	LineItems []LineItem `json:"line_items"`

	CurrencyCode string `json:"currency_code"`

	// Payment
	PaymentType        PaymentType   `json:"payment_type"`
	PaymentText        string        `json:"payment_text"`
	PaymentIBAN        string        `json:"payment_iban,omitempty"`
	PaymentDescription string        `json:"payment_description,omitempty"`
	PaymentStatus      PaymentStatus `json:"payment_status,omitempty"`
	PaymentDueDate     *time.Time    `json:"payment_due_date,omitempty"`

	// Tax
	TaxCategory TaxCategory     `json:"tax_category"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TaxReason   string          `json:"tax_reason,omitempty"`

	// Totals
	BasisAmount      decimal.Decimal `json:"basis_amount"`
	GrandTotalAmount decimal.Decimal `json:"grand_total_amount"`
	DueAmount        decimal.Decimal `json:"due_amount"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`

	// Optional
	BuyerReference string `json:"buyer_reference,omitempty"`
}

// HasBuyerReference reports whether a buyer reference was supplied
func (inv *Invoice) HasBuyerReference() bool {
	return inv.BuyerReference != ""
}
