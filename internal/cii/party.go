package cii

import (
	"github.com/beevik/etree"

	"github.com/rezonia/cii-invoice/internal/model"
)

// vatSchemeID marks a VAT registration number
const vatSchemeID = "VA"

// tradePartyElements fills an existing party element (seller, buyer or
// ship-to). The ship-to party is the buyer again with excludeTax set.
func tradePartyElements(parent *etree.Element, party *model.TradeParty, excludeTax bool) {
	if party == nil {
		return
	}

	textElement(parent, "ram:Name", party.Name)

	address := parent.CreateElement("ram:PostalTradeAddress")
	textElement(address, "ram:PostcodeCode", party.PostalCode)
	textElement(address, "ram:LineOne", party.Street1)
	if party.Street2 != "" {
		textElement(address, "ram:LineTwo", party.Street2)
	}
	textElement(address, "ram:CityName", party.City)
	textElement(address, "ram:CountryID", party.CountryID)

	if !excludeTax && party.VATID != "" {
		registration := parent.CreateElement("ram:SpecifiedTaxRegistration")
		id := textElement(registration, "ram:ID", party.VATID)
		id.CreateAttr("schemeID", vatSchemeID)
	}
}
