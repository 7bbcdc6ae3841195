package cii_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/model"
)

func TestNewProfile(t *testing.T) {
	p, err := cii.NewProfile(3, " XRechnung ")
	require.NoError(t, err)
	assert.Equal(t, cii.Version3, p.Version)
	assert.Equal(t, cii.ModeXRechnung, p.Mode)
	assert.Equal(t, cii.BusinessProcessPeppol, p.BusinessProcessID)
	assert.True(t, p.Extended)
	assert.False(t, p.AmountCurrency)
	assert.Equal(t, "xrechnung v3", p.String())

	p, err = cii.NewProfile(1, "zugferd")
	require.NoError(t, err)
	assert.False(t, p.Extended)
	assert.True(t, p.AmountCurrency)
}

func TestNewProfile_Errors(t *testing.T) {
	_, err := cii.NewProfile(4, "zugferd")
	var cerr *model.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "supported versions are 1, 2, 3")

	_, err = cii.NewProfile(2, "ubl")
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "mode", cerr.Field)
}

func TestSupportedVersions(t *testing.T) {
	assert.Equal(t, []cii.Version{cii.Version1, cii.Version2, cii.Version3}, cii.SupportedVersions())
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "ZUGFeRD-invoice.xml", cii.MustProfile(1, "zugferd").AttachmentName())
	assert.Equal(t, "zugferd-invoice.xml", cii.MustProfile(2, "zugferd").AttachmentName())
	assert.Equal(t, "factur-x.xml", cii.MustProfile(3, "zugferd").AttachmentName())
	assert.Equal(t, "xrechnung.xml", cii.MustProfile(3, "xrechnung").AttachmentName())
}

func TestMustProfile_Panics(t *testing.T) {
	assert.Panics(t, func() { cii.MustProfile(0, "zugferd") })
}
