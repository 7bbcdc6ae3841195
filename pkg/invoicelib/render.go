package invoicelib

import (
	"context"

	"github.com/sourcegraph/conc/iter"

	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/input"
	"github.com/rezonia/cii-invoice/internal/model"
	"github.com/rezonia/cii-invoice/internal/validation"
)

// DefaultConcurrency bounds RenderBatch when no limit is given
const DefaultConcurrency = 8

// RenderOption configures rendering
type RenderOption = cii.Option

// WithSkipValidation renders without the arithmetic consistency checks
func WithSkipValidation() RenderOption {
	return cii.WithSkipValidation()
}

// Load reads an invoice from a .json, .yaml or .yml file
func Load(path string) (*Invoice, error) {
	return input.LoadFile(path)
}

// Render serializes the invoice for a version (1, 2, 3) and mode
// ("zugferd", "xrechnung")
func Render(inv *Invoice, version int, mode string, opts ...RenderOption) ([]byte, error) {
	return cii.Serialize(inv, version, mode, opts...)
}

// Checked keeps the outcome of a consistency check next to the invoice
type Checked struct {
	Invoice  *Invoice
	Valid    bool
	Messages []string
}

// Validate checks every line item, then the invoice totals.
// As with rendering, only the first deviation is reported.
func Validate(inv *Invoice) *Checked {
	err := validation.ValidateAll(inv)
	return &Checked{
		Invoice:  inv,
		Valid:    err == nil,
		Messages: validation.Messages(err),
	}
}

// BatchResult is the outcome for one invoice of a batch
type BatchResult struct {
	Index int
	ID    string
	XML   []byte
	Err   error
}

// BatchOptions configures RenderBatch
type BatchOptions struct {
	Version     int
	Mode        string
	Concurrency int
	Render      []RenderOption
}

// RenderBatch renders invoices concurrently. Results keep the input order
// and a failing invoice does not stop the others. The profile is checked
// once up front.
func RenderBatch(ctx context.Context, invoices []*Invoice, opts BatchOptions) ([]BatchResult, error) {
	profile, err := cii.NewProfile(opts.Version, opts.Mode)
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	indexed := make([]int, len(invoices))
	for i := range indexed {
		indexed[i] = i
	}

	mapper := iter.Mapper[int, BatchResult]{MaxGoroutines: concurrency}
	results := mapper.Map(indexed, func(i *int) BatchResult {
		inv := invoices[*i]
		res := BatchResult{Index: *i}
		if inv == nil {
			res.Err = model.NewInputError("invoice", "is nil", nil)
			return res
		}
		res.ID = inv.ID

		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		res.XML, res.Err = cii.SerializeProfile(inv, profile, opts.Render...)
		return res
	})

	return results, nil
}
