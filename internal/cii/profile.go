package cii

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/rezonia/cii-invoice/internal/model"
)

// Version is a CII schema generation
type Version int

const (
	Version1 Version = 1 // ZUGFeRD 1.0
	Version2 Version = 2 // ZUGFeRD 2.x, XRechnung 2.3
	Version3 Version = 3 // Factur-X / ZUGFeRD 2.3, XRechnung 3.0
)

// Mode is the compliance profile layered on CII
type Mode string

const (
	ModeZugferd   Mode = "zugferd"
	ModeXRechnung Mode = "xrechnung"
)

// Context identifiers
const (
	GuidelineEN16931      = "urn:cen.eu:en16931:2017"
	GuidelineXRechnung23  = GuidelineEN16931 + "#compliant#urn:xoev-de:kosit:standard:xrechnung_2.3"
	GuidelineXRechnung30  = GuidelineEN16931 + "#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"
	BusinessProcessPeppol = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"
)

// Profile holds every version and mode dependent decision the serializer makes
type Profile struct {
	Version Version
	Mode    Mode

	GuidelineID       string
	BusinessProcessID string // empty when the document carries none

	// Extended is true for generations that emit line items, product data,
	// buyer reference and ship-to party.
	Extended bool
	// AmountCurrency puts currencyID on header amounts. TaxTotalAmount
	// carries it regardless.
	AmountCurrency bool

	attachmentName string
}

type profileKey struct {
	version Version
	mode    Mode
}

var profiles = map[profileKey]Profile{
	{Version1, ModeZugferd}: {
		GuidelineID:    GuidelineEN16931,
		AmountCurrency: true,
		attachmentName: "ZUGFeRD-invoice.xml",
	},
	{Version1, ModeXRechnung}: {
		GuidelineID:    GuidelineEN16931,
		AmountCurrency: true,
		attachmentName: "ZUGFeRD-invoice.xml",
	},
	{Version2, ModeZugferd}: {
		GuidelineID:    GuidelineEN16931,
		Extended:       true,
		attachmentName: "zugferd-invoice.xml",
	},
	{Version2, ModeXRechnung}: {
		GuidelineID:    GuidelineXRechnung23,
		Extended:       true,
		attachmentName: "xrechnung.xml",
	},
	{Version3, ModeZugferd}: {
		GuidelineID:    GuidelineEN16931,
		Extended:       true,
		attachmentName: "factur-x.xml",
	},
	{Version3, ModeXRechnung}: {
		GuidelineID:       GuidelineXRechnung30,
		BusinessProcessID: BusinessProcessPeppol,
		Extended:          true,
		attachmentName:    "xrechnung.xml",
	},
}

// NewProfile resolves a version and mode into a Profile.
// Unsupported combinations return a *model.ConfigurationError.
func NewProfile(version int, mode string) (Profile, error) {
	v := Version(version)
	if !lo.Contains(SupportedVersions(), v) {
		return Profile{}, model.NewConfigurationError("version", version,
			fmt.Sprintf("supported versions are %s", joinVersions(SupportedVersions())))
	}

	m := Mode(strings.ToLower(strings.TrimSpace(mode)))
	p, ok := profiles[profileKey{v, m}]
	if !ok {
		return Profile{}, model.NewConfigurationError("mode", mode,
			fmt.Sprintf("supported modes are %s and %s", ModeZugferd, ModeXRechnung))
	}

	p.Version = v
	p.Mode = m
	return p, nil
}

// MustProfile is NewProfile for fixed, known-good arguments
func MustProfile(version int, mode string) Profile {
	p, err := NewProfile(version, mode)
	if err != nil {
		panic(err)
	}
	return p
}

// SupportedVersions lists the known generations in ascending order
func SupportedVersions() []Version {
	versions := lo.Uniq(lo.Map(lo.Keys(profiles), func(k profileKey, _ int) Version {
		return k.version
	}))
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

// AttachmentName is the file name the XML conventionally gets when embedded
// into a PDF of this generation
func (p Profile) AttachmentName() string {
	return p.attachmentName
}

func (p Profile) String() string {
	return fmt.Sprintf("%s v%d", p.Mode, p.Version)
}

func joinVersions(versions []Version) string {
	return strings.Join(lo.Map(versions, func(v Version, _ int) string {
		return fmt.Sprintf("%d", v)
	}), ", ")
}
