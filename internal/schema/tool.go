package schema

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/rezonia/cii-invoice/internal/logger"
)

// Resource file names inside <SchemaDir>/v<version>/
const (
	SchemaFile     = "invoice.xsd"
	SchematronFile = "rules.xsl" // Schematron compiled to XSLT
)

// Placeholders in ToolConfig.XSLTArgs
const (
	PlaceholderStylesheet = "{stylesheet}"
	PlaceholderDocument   = "{document}"
)

// ToolConfig configures the external checkers
type ToolConfig struct {
	SchemaDir   string
	XmllintPath string
	XSLTPath    string
	XSLTArgs    []string
	Timeout     time.Duration
}

// DefaultToolConfig uses xmllint and xsltproc from PATH
func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		SchemaDir:   "schemas",
		XmllintPath: "xmllint",
		XSLTPath:    "xsltproc",
		XSLTArgs:    []string{PlaceholderStylesheet, PlaceholderDocument},
		Timeout:     30 * time.Second,
	}
}

// ToolValidator checks documents with xmllint (XSD) and an XSLT processor
// running the compiled Schematron, which writes SVRL to stdout
type ToolValidator struct {
	cfg ToolConfig

	xmllintPath string
	xmllintOK   bool
	xsltPath    string
	xsltOK      bool

	log zerolog.Logger
}

// NewToolValidator creates a validator and detects the configured tools
func NewToolValidator(cfg ToolConfig) *ToolValidator {
	defaults := DefaultToolConfig()
	if cfg.XmllintPath == "" {
		cfg.XmllintPath = defaults.XmllintPath
	}
	if cfg.XSLTPath == "" {
		cfg.XSLTPath = defaults.XSLTPath
	}
	if len(cfg.XSLTArgs) == 0 {
		cfg.XSLTArgs = defaults.XSLTArgs
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	v := &ToolValidator{cfg: cfg, log: logger.WithComponent("schema")}
	v.xmllintPath, v.xmllintOK = detectTool(cfg.XmllintPath)
	v.xsltPath, v.xsltOK = detectTool(cfg.XSLTPath)
	return v
}

func detectTool(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return name, false
	}
	return path, true
}

// SchemaAvailable returns whether xmllint was found
func (v *ToolValidator) SchemaAvailable() bool {
	return v.xmllintOK
}

// SchematronAvailable returns whether the XSLT processor was found
func (v *ToolValidator) SchematronAvailable() bool {
	return v.xsltOK
}

// ResourcePath returns the path of a resource file for a version
func (v *ToolValidator) ResourcePath(version int, file string) string {
	return filepath.Join(v.cfg.SchemaDir, fmt.Sprintf("v%d", version), file)
}

// ValidateSchema checks the document against the XSD of its version
func (v *ToolValidator) ValidateSchema(ctx context.Context, doc []byte, version int) ([]Finding, error) {
	if !v.xmllintOK {
		return nil, errors.Wrapf(ErrToolUnavailable, "%s", v.cfg.XmllintPath)
	}
	xsd, err := v.resource(version, SchemaFile)
	if err != nil {
		return nil, err
	}

	docPath, cleanup, err := writeTemp(doc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	_, stderr, runErr := v.run(ctx, v.xmllintPath, "--noout", "--schema", xsd, docPath)

	findings := ParseXmllintOutput(stderr)
	if runErr != nil && len(findings) == 0 {
		return nil, errors.Wrapf(runErr, "xmllint failed: %s", strings.TrimSpace(stderr))
	}

	v.log.Debug().Int("version", version).Int("findings", len(findings)).Msg("schema check finished")
	return findings, nil
}

// ValidateSchematron runs the compiled Schematron rules of the version
func (v *ToolValidator) ValidateSchematron(ctx context.Context, doc []byte, version int) ([]Finding, error) {
	if !v.xsltOK {
		return nil, errors.Wrapf(ErrToolUnavailable, "%s", v.cfg.XSLTPath)
	}
	stylesheet, err := v.resource(version, SchematronFile)
	if err != nil {
		return nil, err
	}

	docPath, cleanup, err := writeTemp(doc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	args := make([]string, len(v.cfg.XSLTArgs))
	for i, arg := range v.cfg.XSLTArgs {
		arg = strings.ReplaceAll(arg, PlaceholderStylesheet, stylesheet)
		args[i] = strings.ReplaceAll(arg, PlaceholderDocument, docPath)
	}

	stdout, stderr, runErr := v.run(ctx, v.xsltPath, args...)
	if runErr != nil {
		return nil, errors.Wrapf(runErr, "%s failed: %s", filepath.Base(v.xsltPath), strings.TrimSpace(stderr))
	}

	findings, err := ParseSVRL([]byte(stdout))
	if err != nil {
		return nil, err
	}

	v.log.Debug().Int("version", version).Int("findings", len(findings)).Msg("schematron check finished")
	return findings, nil
}

func (v *ToolValidator) resource(version int, file string) (string, error) {
	path := v.ResourcePath(version, file)
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(err, "no %s for version %d", file, version)
	}
	return path, nil
}

func (v *ToolValidator) run(ctx context.Context, name string, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func writeTemp(doc []byte) (string, func(), error) {
	tmpFile, err := os.CreateTemp("", "cii-check-*.xml")
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to create temp file")
	}
	cleanup := func() { os.Remove(tmpFile.Name()) }

	if _, err := tmpFile.Write(doc); err != nil {
		tmpFile.Close()
		cleanup()
		return "", nil, errors.Wrap(err, "failed to write temp file")
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, errors.Wrap(err, "failed to write temp file")
	}
	return tmpFile.Name(), cleanup, nil
}

// file.xml:12: element Foo: Schemas validity error : ...
var xmllintLine = regexp.MustCompile(`^(.*?):(\d+): (.+)$`)

// ParseXmllintOutput turns xmllint's stderr into findings. The closing
// "validates" / "fails to validate" summary is dropped.
func ParseXmllintOutput(output string) []Finding {
	findings := make([]Finding, 0)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, " validates") || strings.HasSuffix(line, " fails to validate") {
			continue
		}

		if m := xmllintLine.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			findings = append(findings, Finding{Line: n, Message: m[3], Source: SourceSchema, Severity: SeverityError})
			continue
		}
		findings = append(findings, Finding{Message: line, Source: SourceSchema, Severity: SeverityError})
	}
	return findings
}

// ParseSVRL reads the failed assertions and successful reports from SVRL
// output. Reports only count when flagged as errors.
func ParseSVRL(data []byte) ([]Finding, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, "failed to parse SVRL output")
	}
	if doc.Root() == nil {
		return nil, errors.New("empty SVRL output")
	}

	findings := make([]Finding, 0)
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			switch {
			case child.Tag == "failed-assert":
				findings = append(findings, svrlFinding(child, SeverityError))
			case child.Tag == "successful-report":
				if svrlSeverity(child, "") == SeverityError {
					findings = append(findings, svrlFinding(child, SeverityError))
				}
			default:
				walk(child)
			}
		}
	}
	walk(doc.Root())

	return findings, nil
}

func svrlFinding(el *etree.Element, fallback string) Finding {
	f := Finding{
		Source:   SourceSchematron,
		Severity: svrlSeverity(el, fallback),
		Location: el.SelectAttrValue("location", ""),
		RuleID:   el.SelectAttrValue("id", ""),
	}
	for _, child := range el.ChildElements() {
		if child.Tag == "text" {
			f.Message = strings.Join(strings.Fields(child.Text()), " ")
		}
	}
	return f
}

// svrlSeverity reads the flag or role attribute, XRechnung uses flag
func svrlSeverity(el *etree.Element, fallback string) string {
	for _, attr := range []string{"flag", "role"} {
		switch strings.ToLower(el.SelectAttrValue(attr, "")) {
		case "error", "fatal":
			return SeverityError
		case "warning", "warn":
			return SeverityWarning
		case "information", "info":
			return SeverityInfo
		}
	}
	return fallback
}
