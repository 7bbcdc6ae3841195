package input

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	dec "github.com/rezonia/cii-invoice/internal/decimal"
)

// Amount is a decimal read from its literal text. JSON strings, JSON
// numbers and YAML scalars are all accepted, none of them pass through a
// float.
type Amount struct {
	Value decimal.Decimal
	Set   bool
}

// NewAmount wraps a decimal
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Value: d, Set: true}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	return a.parse(text)
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: amount must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*a = Amount{}
		return nil
	}
	return a.parse(node.Value)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value.String())
}

func (a *Amount) parse(text string) error {
	d, err := dec.FromString(text)
	if err != nil {
		return err
	}
	*a = NewAmount(d)
	return nil
}

func (a Amount) String() string {
	if !a.Set {
		return ""
	}
	return a.Value.String()
}

// dateLayouts are tried in order
var dateLayouts = []string{"2006-01-02", "20060102", time.RFC3339}

// Date is a calendar date. 2026-03-15, 20260315 and RFC 3339 are accepted.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return errors.Wrap(err, "date must be a string")
	}
	return d.parse(text)
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: date must be a scalar", node.Line)
	}
	return d.parse(node.Value)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

func (d *Date) parse(text string) error {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			*d = Date{t}
			return nil
		}
	}
	return errors.Newf("invalid date %q, use YYYY-MM-DD", text)
}
