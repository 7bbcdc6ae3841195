package pdf_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/cii-invoice/internal/pdf"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, pdf.IsPDF([]byte("%PDF-1.7\n")))
	assert.False(t, pdf.IsPDF([]byte("<?xml version=\"1.0\"?>")))
	assert.False(t, pdf.IsPDF(nil))
}

func TestAttach_InvalidArguments(t *testing.T) {
	p := pdf.NewPackager()
	dir := t.TempDir()
	out := filepath.Join(dir, "out.pdf")

	err := p.Attach(filepath.Join(dir, "missing.pdf"), out, []byte("<x/>"), "factur-x.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")

	err = p.Attach(filepath.Join(dir, "missing.pdf"), out, nil, "factur-x.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty XML")

	err = p.Attach(filepath.Join(dir, "missing.pdf"), out, []byte("<x/>"), "../factur-x.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid attachment name")
}

func TestAttachments_MissingFile(t *testing.T) {
	_, err := pdf.NewPackager().Attachments(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)

	_, err = pdf.NewPackager().ExtractInvoice(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
}

func TestAttachmentsFromBytes_NotPDF(t *testing.T) {
	_, err := pdf.NewPackager().AttachmentsFromBytes([]byte("<x/>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a PDF")

	_, err = pdf.NewPackager().ExtractInvoiceFromBytes([]byte("<x/>"))
	require.Error(t, err)
}
