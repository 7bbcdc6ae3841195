// Package input reads invoice documents written as JSON or YAML into the
// model, checking required fields on the way.
package input

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/rezonia/cii-invoice/internal/model"
)

// Format is an invoice document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their document names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// unset amounts and dates look empty to "required"
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if a, ok := field.Interface().(Amount); ok && a.Set {
			return a.String()
		}
		return nil
	}, Amount{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok && !d.IsZero() {
			return d.Format("2006-01-02")
		}
		return nil
	}, Date{})
	return v
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", model.NewInputError("file", "unsupported extension "+filepath.Ext(path)+", use .json, .yaml or .yml", nil)
	}
}

// LoadFile reads an invoice document from disk
func LoadFile(path string) (*model.Invoice, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return DecodeBytes(data, format)
}

// Decode reads one invoice document
func Decode(r io.Reader, format Format) (*model.Invoice, error) {
	var doc InvoiceDocument

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, model.NewInputError("document", "malformed JSON", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, model.NewInputError("document", "malformed YAML", err)
		}
	default:
		return nil, model.NewInputError("format", "unsupported format "+string(format), nil)
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return doc.ToModel(), nil
}

// DecodeBytes is Decode for an in-memory document
func DecodeBytes(data []byte, format Format) (*model.Invoice, error) {
	return Decode(bytes.NewReader(data), format)
}

// Validate checks the structure of a document. Amount consistency is not
// checked here, that is the job of the validation package.
func Validate(doc *InvoiceDocument) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return model.NewInputError("document", "cannot be validated", err)
	}

	fields := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
		return fieldPath(fe)
	})
	messages := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
		return describe(fe)
	})
	return model.NewInputError(strings.Join(fields, ", "), strings.Join(messages, "; "), err)
}

// fieldPath drops the root type name, seller.name rather than InvoiceDocument.seller.name
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.IndexByte(ns, '.'); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " needs at least " + fe.Param() + " entries"
	case "len":
		return field + " must be " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of " + fe.Param()
	case "iso3166_1_alpha2":
		return field + " must be an ISO 3166-1 alpha-2 country code"
	default:
		return field + " failed " + fe.Tag()
	}
}
