package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/antares-rpg/antares/loader"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	contextStyle = lipgloss.NewStyle().Bold(true)
	suggestStyle = lipgloss.NewStyle().Faint(true)
)

func severityLabel(s Severity) string {
	switch s {
	case SeverityError:
		return errorStyle.Render("error")
	case SeverityWarning:
		return warningStyle.Render("warning")
	default:
		return infoStyle.Render("info")
	}
}

// RenderText writes a human-readable report: one line per diagnostic
// plus a summary. Verbose adds the machine kind to each line.
func RenderText(w io.Writer, ds []Diagnostic, verbose bool) {
	for _, d := range ds {
		var b strings.Builder
		b.WriteString(severityLabel(d.Severity))
		if verbose {
			b.WriteString(" [" + string(d.Kind) + "]")
		}
		b.WriteString(" " + contextStyle.Render(d.Context) + ": " + d.Message)
		if len(d.Suggestions) > 0 {
			b.WriteString(suggestStyle.Render(" (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"))
		}
		fmt.Fprintln(w, b.String())
	}
	errors, warnings, infos := CountBySeverity(ds)
	if len(ds) == 0 {
		fmt.Fprintln(w, "no problems found")
		return
	}
	fmt.Fprintf(w, "%d error(s), %d warning(s), %d info\n", errors, warnings, infos)
}

// jsonReport is the machine-readable report shape.
type jsonReport struct {
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
	Infos       int          `json:"infos"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, ds []Diagnostic) error {
	errors, warnings, infos := CountBySeverity(ds)
	if ds == nil {
		ds = []Diagnostic{}
	}
	out, err := json.MarshalIndent(jsonReport{
		Errors:      errors,
		Warnings:    warnings,
		Infos:       infos,
		Diagnostics: ds,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// Filter returns the diagnostics at or above the given severity.
func Filter(ds []Diagnostic, min Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	return out
}

// FromLoadReport translates aggregated loader issues into diagnostics
// so tools can present one combined report.
func FromLoadReport(r *loader.Report) []Diagnostic {
	if r == nil {
		return nil
	}
	var out []Diagnostic
	for _, issue := range r.Issues {
		d := Diagnostic{
			Severity: SeverityWarning,
			Kind:     KindUnknownField,
			Context:  issue.Context,
			Message:  issue.Message,
		}
		if issue.Fatal {
			d.Severity = SeverityError
			d.Kind = KindStructureInvalid
			if strings.HasPrefix(issue.Message, "duplicate") {
				d.Kind = KindDuplicateID
			}
		}
		out = append(out, d)
	}
	sortDiagnostics(out)
	return out
}
