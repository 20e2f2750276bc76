package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/elliotBraem/near-protocol-rewards/validator"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	validColor   = color.New(color.FgGreen, color.Bold)
)

// Render writes the findings table followed by the summary line
func Render(w io.Writer, result *validator.ValidationResult) error {
	if result == nil {
		return fmt.Errorf("nil validation result")
	}

	if len(result.Errors)+len(result.Warnings) == 0 {
		_, err := fmt.Fprintln(w, "no findings")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, Summary(result))
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Severity", "Code", "Message", "Context"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(result.Errors)+len(result.Warnings))
	for _, issue := range result.Errors {
		data = append(data, issueRow(issue))
	}
	for _, issue := range result.Warnings {
		data = append(data, issueRow(issue))
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to add table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err := fmt.Fprintln(w, Summary(result))
	return err
}

// Summary returns the one line verdict of the result
func Summary(result *validator.ValidationResult) string {
	verdict := validColor.Sprint("VALID")
	if !result.IsValid {
		verdict = errorColor.Sprint("INVALID")
	}

	return fmt.Sprintf("%s: %d error(s), %d warning(s)", verdict, len(result.Errors), len(result.Warnings))
}

func issueRow(issue validator.Issue) []string {
	return []string{
		severityLabel(issue.Code.Severity()),
		issue.Code.String(),
		issue.Message,
		FormatContext(issue.Context),
	}
}

func severityLabel(severity validator.Severity) string {
	if severity == validator.SeverityError {
		return errorColor.Sprint(severity.String())
	}

	return warningColor.Sprint(severity.String())
}

// FormatContext renders the context map as sorted key=value pairs
func FormatContext(context map[string]interface{}) string {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", key, context[key]))
	}

	return strings.Join(pairs, " ")
}
