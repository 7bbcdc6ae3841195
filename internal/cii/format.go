package cii

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/cii-invoice/internal/decimal"
)

const (
	// dateFormat102 is the UNTDID 2379 code for CCYYMMDD
	dateFormat102 = "102"

	priceDigits = 4
)

// basisQuantity is the price base every unit price refers to
var basisQuantity = decimal.NewFromInt(1)

// currencyElement adds one amount element with exactly digits fractional
// places. The currencyID attribute is written only when addCurrency is set.
func currencyElement(parent *etree.Element, name string, amount decimal.Decimal, currency string, addCurrency bool, digits int32) *etree.Element {
	el := parent.CreateElement(name)
	if addCurrency {
		el.CreateAttr("currencyID", currency)
	}
	el.SetText(dec.Format(amount, digits))
	return el
}

func textElement(parent *etree.Element, name, text string) *etree.Element {
	el := parent.CreateElement(name)
	el.SetText(text)
	return el
}

// dateElement adds name/udt:DateTimeString@format=102
func dateElement(parent *etree.Element, name string, date time.Time) *etree.Element {
	el := parent.CreateElement(name)
	ds := el.CreateElement("udt:DateTimeString")
	ds.CreateAttr("format", dateFormat102)
	ds.SetText(date.Format("20060102"))
	return el
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
