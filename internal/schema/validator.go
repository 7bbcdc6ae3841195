// Package schema checks emitted documents against the official XSD schemas
// and Schematron rules. The checks themselves run in external tools; this
// package only drives them and normalizes what they report.
package schema

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrToolUnavailable is returned when a required external tool is missing
var ErrToolUnavailable = errors.New("validation tool not available")

// Validator is implemented by anything that can check a CII document.
// Findings are returned as data. An error means the check itself could not
// run.
type Validator interface {
	ValidateSchema(ctx context.Context, doc []byte, version int) ([]Finding, error)
	ValidateSchematron(ctx context.Context, doc []byte, version int) ([]Finding, error)
}

// Check runs both checks and collects their findings into one report
func Check(ctx context.Context, v Validator, doc []byte, version int) (*Report, error) {
	report := NewReport(version)

	findings, err := v.ValidateSchema(ctx, doc, version)
	if err != nil {
		return nil, errors.Wrapf(err, "schema check for version %d", version)
	}
	for _, f := range findings {
		report.AddSchemaFinding(f)
	}

	findings, err = v.ValidateSchematron(ctx, doc, version)
	if err != nil {
		return nil, errors.Wrapf(err, "schematron check for version %d", version)
	}
	for _, f := range findings {
		report.AddRuleFinding(f)
	}

	return report, nil
}
