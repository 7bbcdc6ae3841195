package input

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/cii-invoice/internal/model"
)

// PartyDocument is a trade party as written in an invoice document
type PartyDocument struct {
	Name       string `json:"name" yaml:"name" validate:"required"`
	Street1    string `json:"street1" yaml:"street1" validate:"required"`
	Street2    string `json:"street2,omitempty" yaml:"street2"`
	City       string `json:"city" yaml:"city" validate:"required"`
	PostalCode string `json:"postal_code" yaml:"postal_code" validate:"required,max=20"`
	CountryID  string `json:"country_id" yaml:"country_id" validate:"required,len=2,iso3166_1_alpha2"`
	VATID      string `json:"vat_id,omitempty" yaml:"vat_id"`
}

// LineItemDocument is a line item as written in an invoice document
type LineItemDocument struct {
	Name              string  `json:"name" yaml:"name" validate:"required"`
	Quantity          Amount  `json:"quantity" yaml:"quantity" validate:"required"`
	Unit              string  `json:"unit" yaml:"unit"`
	GrossAmount       Amount  `json:"gross_amount" yaml:"gross_amount" validate:"required"`
	NetAmount         Amount  `json:"net_amount" yaml:"net_amount" validate:"required"`
	ChargeAmount      Amount  `json:"charge_amount" yaml:"charge_amount" validate:"required"`
	DiscountAmount    *Amount `json:"discount_amount,omitempty" yaml:"discount_amount"`
	DiscountReason    string  `json:"discount_reason,omitempty" yaml:"discount_reason"`
	TaxCategory       string  `json:"tax_category" yaml:"tax_category"`
	TaxPercent        Amount  `json:"tax_percent" yaml:"tax_percent" validate:"required"`
	TaxAmount         Amount  `json:"tax_amount" yaml:"tax_amount" validate:"required"`
	OriginCountryCode string  `json:"origin_country_code" yaml:"origin_country_code" validate:"omitempty,len=2,iso3166_1_alpha2"`
	CurrencyCode      string  `json:"currency_code,omitempty" yaml:"currency_code" validate:"omitempty,len=3,uppercase"`
}

// InvoiceDocument is the JSON / YAML form of an invoice
type InvoiceDocument struct {
	ID        string `json:"id" yaml:"id" validate:"required"`
	IssueDate Date   `json:"issue_date" yaml:"issue_date" validate:"required"`

	Seller *PartyDocument `json:"seller" yaml:"seller" validate:"required"`
	Buyer  *PartyDocument `json:"buyer" yaml:"buyer" validate:"required"`

	LineItems []LineItemDocument `json:"line_items" yaml:"line_items" validate:"required,min=1,dive"`

	CurrencyCode string `json:"currency_code" yaml:"currency_code" validate:"required,len=3,uppercase"`

	PaymentType        string `json:"payment_type" yaml:"payment_type"`
	PaymentText        string `json:"payment_text" yaml:"payment_text"`
	PaymentIBAN        string `json:"payment_iban,omitempty" yaml:"payment_iban" validate:"omitempty,alphanum,min=15,max=34"`
	PaymentDescription string `json:"payment_description,omitempty" yaml:"payment_description"`
	PaymentStatus      string `json:"payment_status,omitempty" yaml:"payment_status" validate:"omitempty,oneof=unpaid paid"`
	PaymentDueDate     *Date  `json:"payment_due_date,omitempty" yaml:"payment_due_date"`

	TaxCategory string `json:"tax_category" yaml:"tax_category"`
	TaxPercent  Amount `json:"tax_percent" yaml:"tax_percent" validate:"required"`
	TaxAmount   Amount `json:"tax_amount" yaml:"tax_amount" validate:"required"`
	TaxReason   string `json:"tax_reason,omitempty" yaml:"tax_reason"`

	BasisAmount      Amount `json:"basis_amount" yaml:"basis_amount" validate:"required"`
	GrandTotalAmount Amount `json:"grand_total_amount" yaml:"grand_total_amount" validate:"required"`
	DueAmount        Amount `json:"due_amount" yaml:"due_amount" validate:"required"`
	PaidAmount       Amount `json:"paid_amount" yaml:"paid_amount" validate:"required"`

	BuyerReference string `json:"buyer_reference,omitempty" yaml:"buyer_reference"`
}

// ToModel converts the document. Line items without a currency take the
// invoice currency.
func (d *InvoiceDocument) ToModel() *model.Invoice {
	inv := &model.Invoice{
		ID:                 d.ID,
		IssueDate:          d.IssueDate.Time,
		Seller:             d.Seller.toModel(),
		Buyer:              d.Buyer.toModel(),
		LineItems:          make([]model.LineItem, 0, len(d.LineItems)),
		CurrencyCode:       d.CurrencyCode,
		PaymentType:        model.PaymentType(d.PaymentType),
		PaymentText:        d.PaymentText,
		PaymentIBAN:        d.PaymentIBAN,
		PaymentDescription: d.PaymentDescription,
		PaymentStatus:      model.PaymentStatus(d.PaymentStatus),
		TaxCategory:        model.TaxCategory(d.TaxCategory),
		TaxPercent:         d.TaxPercent.Value,
		TaxAmount:          d.TaxAmount.Value,
		TaxReason:          d.TaxReason,
		BasisAmount:        d.BasisAmount.Value,
		GrandTotalAmount:   d.GrandTotalAmount.Value,
		DueAmount:          d.DueAmount.Value,
		PaidAmount:         d.PaidAmount.Value,
		BuyerReference:     d.BuyerReference,
	}
	if d.PaymentDueDate != nil {
		due := d.PaymentDueDate.Time
		inv.PaymentDueDate = &due
	}

	for _, li := range d.LineItems {
		item := li.toModel()
		if item.CurrencyCode == "" {
			item.CurrencyCode = d.CurrencyCode
		}
		inv.LineItems = append(inv.LineItems, item)
	}
	return inv
}

func (p *PartyDocument) toModel() *model.TradeParty {
	if p == nil {
		return nil
	}
	return &model.TradeParty{
		Name:       p.Name,
		Street1:    p.Street1,
		Street2:    p.Street2,
		City:       p.City,
		PostalCode: p.PostalCode,
		CountryID:  p.CountryID,
		VATID:      p.VATID,
	}
}

func (li *LineItemDocument) toModel() model.LineItem {
	item := model.LineItem{
		Name:              li.Name,
		Quantity:          li.Quantity.Value,
		Unit:              model.Unit(li.Unit),
		GrossAmount:       li.GrossAmount.Value,
		NetAmount:         li.NetAmount.Value,
		ChargeAmount:      li.ChargeAmount.Value,
		DiscountReason:    li.DiscountReason,
		TaxCategory:       model.TaxCategory(li.TaxCategory),
		TaxPercent:        li.TaxPercent.Value,
		TaxAmount:         li.TaxAmount.Value,
		OriginCountryCode: li.OriginCountryCode,
		CurrencyCode:      li.CurrencyCode,
	}
	if li.DiscountAmount != nil && li.DiscountAmount.Set {
		item.DiscountAmount = decimal.NewNullDecimal(li.DiscountAmount.Value)
	}
	return item
}
