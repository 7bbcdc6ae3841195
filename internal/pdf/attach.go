// Package pdf packages emitted CII documents into PDF containers, the
// hybrid form ZUGFeRD and Factur-X invoices travel in.
package pdf

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	"github.com/rezonia/cii-invoice/internal/logger"
)

// PDF magic bytes
var pdfMagic = []byte("%PDF")

// ErrNoInvoice is returned when a PDF carries no XML attachment
var ErrNoInvoice = errors.New("no XML invoice attached")

// Packager embeds and extracts invoice XML
type Packager struct {
	conf *model.Configuration
	log  zerolog.Logger
}

// NewPackager creates a packager with the pdfcpu default configuration
func NewPackager() *Packager {
	return &Packager{
		conf: model.NewDefaultConfiguration(),
		log:  logger.WithComponent("pdf"),
	}
}

// IsPDF returns true if the data appears to be a PDF
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// Attach writes a copy of inFile with doc embedded as name to outFile.
// name should be the profile's attachment name, e.g. factur-x.xml.
func (p *Packager) Attach(inFile, outFile string, doc []byte, name string) error {
	if len(doc) == 0 {
		return errors.New("empty XML document")
	}
	if name == "" || filepath.Base(name) != name {
		return errors.Newf("invalid attachment name %q", name)
	}
	if _, err := os.Stat(inFile); err != nil {
		return errors.Wrapf(err, "cannot read %s", inFile)
	}

	// pdfcpu names the attachment after the file it reads
	dir, err := os.MkdirTemp("", "cii-attach-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp dir")
	}
	defer os.RemoveAll(dir)

	xmlPath := filepath.Join(dir, name)
	if err := os.WriteFile(xmlPath, doc, 0o600); err != nil {
		return errors.Wrap(err, "failed to write temp file")
	}

	if err := api.AddAttachmentsFile(inFile, outFile, []string{xmlPath}, false, p.conf); err != nil {
		return errors.Wrapf(err, "failed to attach %s to %s", name, inFile)
	}

	p.log.Debug().Str("pdf", outFile).Str("attachment", name).Int("bytes", len(doc)).Msg("invoice attached")
	return nil
}

// Attachment is an embedded file
type Attachment struct {
	Name string
	Data []byte
}

// Attachments lists the embedded files of a PDF
func (p *Packager) Attachments(inFile string) ([]Attachment, error) {
	f, err := os.Open(inFile)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", inFile)
	}
	defer f.Close()

	return p.attachments(f, inFile)
}

// AttachmentsFromBytes lists the embedded files of an in-memory PDF
func (p *Packager) AttachmentsFromBytes(data []byte) ([]Attachment, error) {
	if !IsPDF(data) {
		return nil, errors.New("not a PDF document")
	}
	return p.attachments(bytes.NewReader(data), "document")
}

func (p *Packager) attachments(rs io.ReadSeeker, name string) ([]Attachment, error) {
	embedded, err := api.Attachments(rs, p.conf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read attachments of %s", name)
	}

	out := make([]Attachment, 0, len(embedded))
	for _, a := range embedded {
		var data []byte
		if a.Reader != nil {
			if data, err = io.ReadAll(a.Reader); err != nil {
				return nil, errors.Wrapf(err, "failed to read attachment %s", a.FileName)
			}
		}
		out = append(out, Attachment{Name: a.FileName, Data: data})
	}
	return out, nil
}

// ExtractInvoice returns the first embedded XML file
func (p *Packager) ExtractInvoice(inFile string) (*Attachment, error) {
	attachments, err := p.Attachments(inFile)
	if err != nil {
		return nil, err
	}
	return firstXML(attachments, inFile)
}

// ExtractInvoiceFromBytes is ExtractInvoice for an in-memory PDF
func (p *Packager) ExtractInvoiceFromBytes(data []byte) (*Attachment, error) {
	attachments, err := p.AttachmentsFromBytes(data)
	if err != nil {
		return nil, err
	}
	return firstXML(attachments, "document")
}

func firstXML(attachments []Attachment, name string) (*Attachment, error) {
	for i := range attachments {
		if strings.EqualFold(filepath.Ext(attachments[i].Name), ".xml") {
			return &attachments[i], nil
		}
	}
	return nil, errors.Wrapf(ErrNoInvoice, "%s", name)
}
