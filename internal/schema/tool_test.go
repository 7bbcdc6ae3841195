package schema_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/cii-invoice/internal/schema"
)

func TestParseXmllintOutput(t *testing.T) {
	output := `/tmp/cii-check-1.xml:12: element GrandTotalAmount: Schemas validity error : Element '{urn:ram}GrandTotalAmount': 'abc' is not a valid value.
/tmp/cii-check-1.xml:30: element Foo: Schemas validity error : Element '{urn:ram}Foo': This element is not expected.
/tmp/cii-check-1.xml fails to validate
`
	findings := schema.ParseXmllintOutput(output)
	require.Len(t, findings, 2)
	assert.Equal(t, 12, findings[0].Line)
	assert.Contains(t, findings[0].Message, "GrandTotalAmount")
	assert.Equal(t, 30, findings[1].Line)
	assert.Equal(t, schema.SourceSchema, findings[1].Source)
}

func TestParseXmllintOutput_Valid(t *testing.T) {
	assert.Empty(t, schema.ParseXmllintOutput("/tmp/cii-check-1.xml validates\n"))
}

func TestParseXmllintOutput_Unpositioned(t *testing.T) {
	findings := schema.ParseXmllintOutput("warning: failed to load external entity\n")
	require.Len(t, findings, 1)
	assert.Zero(t, findings[0].Line)
}

const svrl = `<?xml version="1.0" encoding="UTF-8"?>
<svrl:schematron-output xmlns:svrl="http://purl.oclc.org/dsdl/svrl">
  <svrl:active-pattern id="EN16931"/>
  <svrl:fired-rule context="/rsm:CrossIndustryInvoice"/>
  <svrl:failed-assert id="BR-CO-15" flag="fatal" location="/*:CrossIndustryInvoice[1]">
    <svrl:text>[BR-CO-15]-Invoice total amount with VAT
      = Invoice total amount without VAT + Invoice total VAT amount.</svrl:text>
  </svrl:failed-assert>
  <svrl:failed-assert id="BR-DE-21" flag="warning" location="/*:CrossIndustryInvoice[1]">
    <svrl:text>[BR-DE-21] guideline identifier</svrl:text>
  </svrl:failed-assert>
  <svrl:successful-report id="INFO-1" role="information" location="/">
    <svrl:text>just information</svrl:text>
  </svrl:successful-report>
  <svrl:successful-report id="BR-X" role="error" location="/">
    <svrl:text>report flagged as error</svrl:text>
  </svrl:successful-report>
</svrl:schematron-output>`

func TestParseSVRL(t *testing.T) {
	findings, err := schema.ParseSVRL([]byte(svrl))
	require.NoError(t, err)
	require.Len(t, findings, 3)

	assert.Equal(t, "BR-CO-15", findings[0].RuleID)
	assert.Equal(t, schema.SeverityError, findings[0].Severity)
	assert.Equal(t, "/*:CrossIndustryInvoice[1]", findings[0].Location)
	assert.Equal(t, "[BR-CO-15]-Invoice total amount with VAT = Invoice total amount without VAT + Invoice total VAT amount.", findings[0].Message)

	assert.Equal(t, "BR-DE-21", findings[1].RuleID)
	assert.Equal(t, schema.SeverityWarning, findings[1].Severity)

	assert.Equal(t, "BR-X", findings[2].RuleID)
}

func TestParseSVRL_Malformed(t *testing.T) {
	_, err := schema.ParseSVRL([]byte("xsltproc: error"))
	require.Error(t, err)
}

func TestToolValidator_Unavailable(t *testing.T) {
	v := schema.NewToolValidator(schema.ToolConfig{
		SchemaDir:   t.TempDir(),
		XmllintPath: "cii-no-such-xmllint",
		XSLTPath:    "cii-no-such-xsltproc",
	})
	assert.False(t, v.SchemaAvailable())
	assert.False(t, v.SchematronAvailable())

	_, err := v.ValidateSchema(context.Background(), []byte("<x/>"), 2)
	require.ErrorIs(t, err, schema.ErrToolUnavailable)

	_, err = v.ValidateSchematron(context.Background(), []byte("<x/>"), 2)
	require.ErrorIs(t, err, schema.ErrToolUnavailable)
}

func TestToolValidator_ResourcePath(t *testing.T) {
	v := schema.NewToolValidator(schema.ToolConfig{SchemaDir: "/opt/schemas"})
	assert.Equal(t, "/opt/schemas/v3/invoice.xsd", v.ResourcePath(3, schema.SchemaFile))
	assert.Equal(t, "/opt/schemas/v2/rules.xsl", v.ResourcePath(2, schema.SchematronFile))
}

const testXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Invoice">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="ID" type="xs:string"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

func TestToolValidator_Xmllint(t *testing.T) {
	if _, err := exec.LookPath("xmllint"); err != nil {
		t.Skip("xmllint not installed")
	}

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "v2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v2", schema.SchemaFile), []byte(testXSD), 0o644))

	v := schema.NewToolValidator(schema.ToolConfig{SchemaDir: dir})

	findings, err := v.ValidateSchema(context.Background(), []byte(`<Invoice><ID>1</ID></Invoice>`), 2)
	require.NoError(t, err)
	assert.Empty(t, findings)

	findings, err = v.ValidateSchema(context.Background(), []byte("<Invoice>\n<Name>x</Name>\n</Invoice>"), 2)
	require.NoError(t, err)
	require.NotEmpty(t, findings)
	assert.Equal(t, 2, findings[0].Line)

	_, err = v.ValidateSchema(context.Background(), []byte(`<Invoice/>`), 3)
	require.Error(t, err, "no resources for version 3")
}
