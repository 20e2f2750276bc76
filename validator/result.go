package validator

const (
	metadataSource  = "cross-validation"
	sourceGitHub    = "github"
	sourceNear      = "near"
	metadataKeySrc  = "source"
	metadataKeySrcA = "sourceA"
	metadataKeySrcB = "sourceB"
)

// Issue is a single finding. Errors and warnings share this shape; the code decides the channel.
type Issue struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context"`
}

// ValidationResult is the outcome of one validation run. It is built once and not modified afterwards.
type ValidationResult struct {
	IsValid   bool              `json:"isValid"`
	Errors    []Issue           `json:"errors"`
	Warnings  []Issue           `json:"warnings"`
	Timestamp int64             `json:"timestamp"`
	Metadata  map[string]string `json:"metadata"`
}

// HasCode returns true if any error or warning carries the code
func (r *ValidationResult) HasCode(code Code) bool {
	return r.CountCode(code) > 0
}

// CountCode returns how many findings carry the code
func (r *ValidationResult) CountCode(code Code) int {
	count := 0
	for _, issue := range r.Errors {
		if issue.Code == code {
			count++
		}
	}
	for _, issue := range r.Warnings {
		if issue.Code == code {
			count++
		}
	}

	return count
}

type resultBuilder struct {
	errors   []Issue
	warnings []Issue
}

func (b *resultBuilder) add(code Code, message string, context map[string]interface{}) {
	issue := Issue{
		Code:    code,
		Message: message,
		Context: context,
	}

	if code.Severity() == SeverityError {
		b.errors = append(b.errors, issue)
		return
	}

	b.warnings = append(b.warnings, issue)
}

func (b *resultBuilder) build(timestamp int64) *ValidationResult {
	errs := b.errors
	if errs == nil {
		errs = make([]Issue, 0)
	}
	warnings := b.warnings
	if warnings == nil {
		warnings = make([]Issue, 0)
	}

	return &ValidationResult{
		IsValid:   len(errs) == 0,
		Errors:    errs,
		Warnings:  warnings,
		Timestamp: timestamp,
		Metadata: map[string]string{
			metadataKeySrc:  metadataSource,
			metadataKeySrcA: sourceGitHub,
			metadataKeySrcB: sourceNear,
		},
	}
}
