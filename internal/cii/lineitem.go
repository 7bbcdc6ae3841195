package cii

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/rezonia/cii-invoice/internal/codes"
	dec "github.com/rezonia/cii-invoice/internal/decimal"
	"github.com/rezonia/cii-invoice/internal/model"
	"github.com/rezonia/cii-invoice/internal/validation"
)

// LineItemElement builds the ram:IncludedSupplyChainTradeLineItem for one
// line item. index is the 1-based line number. Unless skipValidation is set
// the item is checked first and no element is built when it is inconsistent.
func LineItemElement(item *model.LineItem, index int, profile Profile, skipValidation bool) (*etree.Element, error) {
	if !skipValidation {
		if err := validation.ValidateLineItemAt(item, index); err != nil {
			return nil, err
		}
	}

	unitCode := codes.UnitCode(item.Unit)

	line := etree.NewElement("ram:IncludedSupplyChainTradeLineItem")

	doc := line.CreateElement("ram:AssociatedDocumentLineDocument")
	textElement(doc, "ram:LineID", strconv.Itoa(index))

	if profile.Extended {
		product := line.CreateElement("ram:SpecifiedTradeProduct")
		textElement(product, "ram:Name", item.Name)
		origin := product.CreateElement("ram:OriginTradeCountry")
		textElement(origin, "ram:ID", item.OriginCountryCode)
	}

	agreement := line.CreateElement("ram:SpecifiedLineTradeAgreement")

	gross := agreement.CreateElement("ram:GrossPriceProductTradePrice")
	currencyElement(gross, "ram:ChargeAmount", item.GrossAmount, item.CurrencyCode, false, priceDigits)
	if item.HasDiscount() {
		quantityElement(gross, "ram:BasisQuantity", unitCode)
		allowance := gross.CreateElement("ram:AppliedTradeAllowanceCharge")
		indicator := allowance.CreateElement("ram:ChargeIndicator")
		textElement(indicator, "udt:Indicator", "false")
		currencyElement(allowance, "ram:ActualAmount", item.DiscountAmount.Decimal, item.CurrencyCode, false, dec.CurrencyPlaces)
		textElement(allowance, "ram:Reason", item.DiscountReason)
	}

	net := agreement.CreateElement("ram:NetPriceProductTradePrice")
	currencyElement(net, "ram:ChargeAmount", item.NetAmount, item.CurrencyCode, false, priceDigits)
	quantityElement(net, "ram:BasisQuantity", unitCode)

	delivery := line.CreateElement("ram:SpecifiedLineTradeDelivery")
	billed := delivery.CreateElement("ram:BilledQuantity")
	billed.CreateAttr("unitCode", unitCode)
	billed.SetText(dec.Format(item.Quantity, priceDigits))

	settlement := line.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	textElement(tax, "ram:TypeCode", "VAT")
	textElement(tax, "ram:CategoryCode", codes.TaxCategoryCode(item.TaxCategory, int(profile.Version)))
	textElement(tax, "ram:RateApplicablePercent", dec.Format(item.TaxPercent, dec.CurrencyPlaces))

	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	currencyElement(summation, "ram:LineTotalAmount", item.ChargeAmount, item.CurrencyCode, false, dec.CurrencyPlaces)

	return line, nil
}

func quantityElement(parent *etree.Element, name, unitCode string) {
	el := parent.CreateElement(name)
	el.CreateAttr("unitCode", unitCode)
	el.SetText(dec.Format(basisQuantity, priceDigits))
}
