package cii

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"

	"github.com/rezonia/cii-invoice/internal/model"
)

// DocumentInfo summarizes an emitted CII document
type DocumentInfo struct {
	Profile       Profile `json:"-"`
	Version       Version `json:"version"`
	Mode          Mode    `json:"mode"`
	GuidelineID   string  `json:"guideline_id"`
	InvoiceID     string  `json:"invoice_id"`
	TypeCode      string  `json:"type_code"`
	IssueDate     string  `json:"issue_date"`
	Currency      string  `json:"currency"`
	LineItemCount int     `json:"line_item_count"`
	GrandTotal    string  `json:"grand_total"`
	Attachment    string  `json:"attachment_name"`
}

// ErrNotCII is returned for documents whose root is not CrossIndustryInvoice
var ErrNotCII = errors.New("not a CrossIndustryInvoice document")

// DetectProfile works out which profile produced a document from its
// context parameters. ZUGFeRD 2 and 3 documents are identical, so such a
// document reports version 2.
func DetectProfile(data []byte) (Profile, error) {
	info, err := Inspect(data)
	if err != nil {
		return Profile{}, err
	}
	return info.Profile, nil
}

// Inspect parses a document and reads its profile and header fields
func Inspect(data []byte) (*DocumentInfo, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, "failed to parse XML")
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New("empty XML document")
	}
	if !hasLocalName(root, "CrossIndustryInvoice") {
		return nil, errors.Wrapf(ErrNotCII, "root element is %s", root.FullTag())
	}

	guideline := childText(findElementRecursive(root, "GuidelineSpecifiedDocumentContextParameter"), "ID")
	process := childText(findElementRecursive(root, "BusinessProcessSpecifiedDocumentContextParameter"), "ID")

	version, mode, err := classify(root, guideline, process)
	if err != nil {
		return nil, err
	}
	profile, err := NewProfile(int(version), string(mode))
	if err != nil {
		return nil, err
	}

	header := findElementRecursive(root, "ExchangedDocument")
	info := &DocumentInfo{
		Profile:       profile,
		Version:       profile.Version,
		Mode:          profile.Mode,
		GuidelineID:   guideline,
		InvoiceID:     childText(header, "ID"),
		TypeCode:      childText(header, "TypeCode"),
		Currency:      textOf(findElementRecursive(root, "InvoiceCurrencyCode")),
		LineItemCount: countElements(root, "IncludedSupplyChainTradeLineItem"),
		GrandTotal:    textOf(findElementRecursive(root, "GrandTotalAmount")),
		Attachment:    profile.AttachmentName(),
	}
	if header != nil {
		info.IssueDate = textOf(findElementRecursive(header, "DateTimeString"))
	}
	return info, nil
}

func classify(root *etree.Element, guideline, process string) (Version, Mode, error) {
	switch {
	case guideline == GuidelineXRechnung30 || process == BusinessProcessPeppol:
		return Version3, ModeXRechnung, nil
	case guideline == GuidelineXRechnung23:
		return Version2, ModeXRechnung, nil
	case strings.HasPrefix(guideline, GuidelineEN16931):
		// generation 1 puts currencyID on every header amount
		summation := findElementRecursive(root, "SpecifiedTradeSettlementHeaderMonetarySummation")
		if total := findElementRecursive(summation, "LineTotalAmount"); total != nil && total.SelectAttr("currencyID") != nil {
			return Version1, ModeZugferd, nil
		}
		return Version2, ModeZugferd, nil
	default:
		return 0, "", model.NewConfigurationError("guideline", guideline, "unknown document context")
	}
}

// findElementRecursive searches for an element by local name, depth first
func findElementRecursive(elem *etree.Element, localName string) *etree.Element {
	if elem == nil {
		return nil
	}
	if hasLocalName(elem, localName) {
		return elem
	}
	for _, child := range elem.ChildElements() {
		if found := findElementRecursive(child, localName); found != nil {
			return found
		}
	}
	return nil
}

func countElements(elem *etree.Element, localName string) int {
	n := 0
	for _, child := range elem.ChildElements() {
		if hasLocalName(child, localName) {
			n++
			continue
		}
		n += countElements(child, localName)
	}
	return n
}

// hasLocalName checks the tag ignoring any namespace prefix
func hasLocalName(elem *etree.Element, localName string) bool {
	if elem == nil {
		return false
	}
	tag := elem.Tag
	if idx := strings.IndexByte(tag, ':'); idx >= 0 {
		tag = tag[idx+1:]
	}
	return tag == localName
}

func childText(elem *etree.Element, localName string) string {
	if elem == nil {
		return ""
	}
	for _, child := range elem.ChildElements() {
		if hasLocalName(child, localName) {
			return textOf(child)
		}
	}
	return ""
}

func textOf(elem *etree.Element) string {
	if elem == nil {
		return ""
	}
	return strings.TrimSpace(elem.Text())
}
