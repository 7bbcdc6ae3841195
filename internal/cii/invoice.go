// Package cii renders invoices as UN/CEFACT Cross Industry Invoice documents
// for the ZUGFeRD and XRechnung profiles.
package cii

import (
	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/rezonia/cii-invoice/internal/codes"
	dec "github.com/rezonia/cii-invoice/internal/decimal"
	"github.com/rezonia/cii-invoice/internal/model"
	"github.com/rezonia/cii-invoice/internal/validation"
)

// TypeCodeCommercialInvoice is the UNTDID 1001 code for a commercial invoice
const TypeCodeCommercialInvoice = "380"

// XML namespaces, in declaration order
const (
	NamespaceQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	NamespaceRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
	NamespaceRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceXSI = "http://www.w3.org/2001/XMLSchema-instance"
)

var namespaces = []struct{ prefix, uri string }{
	{"qdt", NamespaceQDT},
	{"ram", NamespaceRAM},
	{"udt", NamespaceUDT},
	{"rsm", NamespaceRSM},
	{"xsi", NamespaceXSI},
}

// Option configures a serialization run
type Option func(*serializeConfig)

type serializeConfig struct {
	skipValidation bool
	log            zerolog.Logger
}

// WithSkipValidation disables the arithmetic consistency checks
func WithSkipValidation() Option {
	return func(cfg *serializeConfig) {
		cfg.skipValidation = true
	}
}

// WithLogger sets the logger debug output goes to. Without it nothing is logged.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *serializeConfig) {
		cfg.log = l
	}
}

// Serialize renders the invoice for the given version and mode.
//
// An unsupported version or mode fails with *model.ConfigurationError before
// anything else happens. Inconsistent amounts fail with
// *model.ValidationError unless WithSkipValidation is passed. No partial
// document is ever returned.
func Serialize(inv *model.Invoice, version int, mode string, opts ...Option) ([]byte, error) {
	profile, err := NewProfile(version, mode)
	if err != nil {
		return nil, err
	}
	return SerializeProfile(inv, profile, opts...)
}

// SerializeProfile is Serialize for an already resolved profile
func SerializeProfile(inv *model.Invoice, profile Profile, opts ...Option) ([]byte, error) {
	doc, err := Document(inv, profile, opts...)
	if err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// Document builds the indented document tree
func Document(inv *model.Invoice, profile Profile, opts ...Option) (*etree.Document, error) {
	cfg := &serializeConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	if inv == nil {
		return nil, model.NewInputError("invoice", "is required", nil)
	}
	if inv.Seller == nil {
		return nil, model.NewInputError("seller", "is required", nil)
	}
	if inv.Buyer == nil {
		return nil, model.NewInputError("buyer", "is required", nil)
	}

	if !cfg.skipValidation {
		if err := validation.ValidateAll(inv); err != nil {
			return nil, err
		}
	}

	cfg.log.Debug().
		Str("invoice", inv.ID).
		Stringer("profile", profile).
		Int("line_items", len(inv.LineItems)).
		Bool("skip_validation", cfg.skipValidation).
		Msg("serializing invoice")

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	for _, ns := range namespaces {
		root.CreateAttr("xmlns:"+ns.prefix, ns.uri)
	}

	documentContext(root, profile)
	documentHeader(root, inv)
	if err := transaction(root, inv, profile); err != nil {
		return nil, err
	}

	doc.Indent(2)
	return doc, nil
}

func documentContext(root *etree.Element, profile Profile) {
	context := root.CreateElement("rsm:ExchangedDocumentContext")
	if profile.BusinessProcessID != "" {
		process := context.CreateElement("ram:BusinessProcessSpecifiedDocumentContextParameter")
		textElement(process, "ram:ID", profile.BusinessProcessID)
	}
	guideline := context.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	textElement(guideline, "ram:ID", profile.GuidelineID)
}

func documentHeader(root *etree.Element, inv *model.Invoice) {
	header := root.CreateElement("rsm:ExchangedDocument")
	textElement(header, "ram:ID", inv.ID)
	textElement(header, "ram:TypeCode", TypeCodeCommercialInvoice)
	dateElement(header, "ram:IssueDateTime", inv.IssueDate)
}

func transaction(root *etree.Element, inv *model.Invoice, profile Profile) error {
	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")

	// line items were checked by Document for every version
	if profile.Extended {
		for i := range inv.LineItems {
			line, err := LineItemElement(&inv.LineItems[i], i+1, profile, true)
			if err != nil {
				return err
			}
			tx.AddChild(line)
		}
	}

	agreement := tx.CreateElement("ram:ApplicableHeaderTradeAgreement")
	if profile.Extended && inv.HasBuyerReference() {
		textElement(agreement, "ram:BuyerReference", inv.BuyerReference)
	}
	tradePartyElements(agreement.CreateElement("ram:SellerTradeParty"), inv.Seller, false)
	tradePartyElements(agreement.CreateElement("ram:BuyerTradeParty"), inv.Buyer, false)

	delivery := tx.CreateElement("ram:ApplicableHeaderTradeDelivery")
	if profile.Extended {
		tradePartyElements(delivery.CreateElement("ram:ShipToTradeParty"), inv.Buyer, true)
	}
	event := delivery.CreateElement("ram:ActualDeliverySupplyChainEvent")
	dateElement(event, "ram:OccurrenceDateTime", inv.IssueDate)

	settlement(tx, inv, profile)
	return nil
}

func settlement(tx *etree.Element, inv *model.Invoice, profile Profile) {
	currency := inv.CurrencyCode
	withCurrency := profile.AmountCurrency

	s := tx.CreateElement("ram:ApplicableHeaderTradeSettlement")
	textElement(s, "ram:InvoiceCurrencyCode", currency)

	means := s.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
	textElement(means, "ram:TypeCode", codes.PaymentMeansCode(inv.PaymentType))
	textElement(means, "ram:Information", inv.PaymentText)
	if inv.PaymentIBAN != "" {
		account := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		textElement(account, "ram:IBANID", inv.PaymentIBAN)
	}

	tax := s.CreateElement("ram:ApplicableTradeTax")
	currencyElement(tax, "ram:CalculatedAmount", inv.TaxAmount, currency, withCurrency, dec.CurrencyPlaces)
	textElement(tax, "ram:TypeCode", "VAT")
	if reason := codes.TaxReasonText(inv.TaxReason, inv.TaxCategory); reason != "" {
		textElement(tax, "ram:ExemptionReason", reason)
	}
	currencyElement(tax, "ram:BasisAmount", inv.BasisAmount, currency, withCurrency, dec.CurrencyPlaces)
	textElement(tax, "ram:CategoryCode", codes.TaxCategoryCode(inv.TaxCategory, int(profile.Version)))
	textElement(tax, "ram:RateApplicablePercent", dec.Format(inv.TaxPercent, dec.CurrencyPlaces))

	paymentTerms(s, inv)

	sum := s.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	currencyElement(sum, "ram:LineTotalAmount", inv.BasisAmount, currency, withCurrency, dec.CurrencyPlaces)
	// no document level charges or allowances are modelled
	currencyElement(sum, "ram:ChargeTotalAmount", dec.Zero, currency, withCurrency, dec.CurrencyPlaces)
	currencyElement(sum, "ram:AllowanceTotalAmount", dec.Zero, currency, withCurrency, dec.CurrencyPlaces)
	currencyElement(sum, "ram:TaxBasisTotalAmount", inv.BasisAmount, currency, withCurrency, dec.CurrencyPlaces)
	currencyElement(sum, "ram:TaxTotalAmount", inv.TaxAmount, currency, true, dec.CurrencyPlaces)
	currencyElement(sum, "ram:GrandTotalAmount", inv.GrandTotalAmount, currency, withCurrency, dec.CurrencyPlaces)
	currencyElement(sum, "ram:TotalPrepaidAmount", inv.PaidAmount, currency, withCurrency, dec.CurrencyPlaces)
	currencyElement(sum, "ram:DuePayableAmount", inv.DueAmount, currency, withCurrency, dec.CurrencyPlaces)
}

func paymentTerms(s *etree.Element, inv *model.Invoice) {
	terms := s.CreateElement("ram:SpecifiedTradePaymentTerms")

	if inv.PaymentStatus == model.PaymentStatusUnpaid {
		if inv.PaymentDescription != "" {
			textElement(terms, "ram:Description", inv.PaymentDescription)
		}
		if inv.PaymentDueDate != nil {
			dateElement(terms, "ram:DueDateDateTime", *inv.PaymentDueDate)
		}
		return
	}

	if inv.PaymentStatus != "" {
		textElement(terms, "ram:Description", capitalize(string(inv.PaymentStatus)))
	}
}
