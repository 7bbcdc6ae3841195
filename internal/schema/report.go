package schema

// Finding sources
const (
	SourceSchema     = "schema"
	SourceSchematron = "schematron"
)

// Severities
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Finding is one problem an external checker reported.
// Line is 0 when the checker gives no position.
type Finding struct {
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	Severity string `json:"severity"`
	Location string `json:"location,omitempty"` // XPath for rule findings
	RuleID   string `json:"rule_id,omitempty"`
}

// Report collects the findings of a document check
type Report struct {
	Valid   bool `json:"valid"`
	Version int  `json:"version"`

	SchemaFindings []Finding `json:"schema_findings"`
	RuleFindings   []Finding `json:"rule_findings"`

	// Warnings are non-fatal, e.g. a skipped check
	Warnings []string `json:"warnings,omitempty"`
}

// NewReport creates an empty, valid report
func NewReport(version int) *Report {
	return &Report{
		Valid:          true,
		Version:        version,
		SchemaFindings: make([]Finding, 0),
		RuleFindings:   make([]Finding, 0),
	}
}

// AddSchemaFinding records an XSD finding and marks the report invalid
func (r *Report) AddSchemaFinding(f Finding) {
	f.Source = SourceSchema
	if f.Severity == "" {
		f.Severity = SeverityError
	}
	r.SchemaFindings = append(r.SchemaFindings, f)
	r.Valid = false
}

// AddRuleFinding records a Schematron finding. Only error findings make
// the report invalid.
func (r *Report) AddRuleFinding(f Finding) {
	f.Source = SourceSchematron
	if f.Severity == "" {
		f.Severity = SeverityError
	}
	r.RuleFindings = append(r.RuleFindings, f)
	if f.Severity == SeverityError {
		r.Valid = false
	}
}

// AddWarning adds a warning message to the report
func (r *Report) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Findings returns schema findings followed by rule findings
func (r *Report) Findings() []Finding {
	all := make([]Finding, 0, len(r.SchemaFindings)+len(r.RuleFindings))
	all = append(all, r.SchemaFindings...)
	return append(all, r.RuleFindings...)
}
