// Package presenter turns reconciliation results and pipeline errors into
// what a person reads: one message per outcome or error code, and a
// discrepancy table.
package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fleet-reconciliation/internal/domain"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Outcome messages.
const (
	MsgNoData          = "No data found for the entered DOT numbers."
	MsgNoDiscrepancies = "No discrepancies found!"
	MsgDiscrepancies   = "Discrepancy Results:"
)

// MsgEmptyInput asks the user for input when none was given.
const MsgEmptyInput = "Please enter DOT numbers and their respective power units."

// DiscrepancyHeaders are the columns of the discrepancy table.
var DiscrepancyHeaders = []string{"identifier", "expected_count", "actual_count", "difference"}

// ParseFormat converts s to a Format, defaulting to table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", s)
	}
}

// OutcomeMessage returns the headline message for a report.
func OutcomeMessage(report *domain.ReconciliationReport) string {
	switch report.Outcome() {
	case domain.OutcomeDiscrepancies:
		return MsgDiscrepancies
	case domain.OutcomeNoDiscrepancies:
		return MsgNoDiscrepancies
	default:
		return MsgNoData
	}
}

// Message converts a pipeline error into a single user-facing message.
func Message(err error) string {
	var (
		malformed *domain.MalformedInputError
		fetch     *domain.FetchError
		coercion  *domain.CoercionError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrEmptyInput):
		return MsgEmptyInput
	case errors.As(err, &malformed):
		if len(malformed.Lines) == 0 {
			return "Malformed input."
		}
		l := malformed.Lines[0]
		msg := fmt.Sprintf("Malformed input on line %d (%q): %s.", l.Line, l.Text, l.Reason)
		if n := len(malformed.Lines) - 1; n > 0 {
			msg += fmt.Sprintf(" %d more line(s) were skipped.", n)
		}
		return msg
	case errors.As(err, &fetch) && fetch.Timeout():
		return "Timed out fetching records from the dataset service. Please try again."
	case errors.As(err, &fetch):
		if errors.Is(err, domain.ErrRateLimited) {
			return "The dataset service is rate limiting requests. Please try again later."
		}
		if fetch.StatusCode != 0 {
			return fmt.Sprintf("The dataset service responded with status %d. Please try again later.", fetch.StatusCode)
		}
		return "Could not reach the dataset service. Please try again later."
	case errors.As(err, &coercion):
		return fmt.Sprintf("Unexpected count value %#v for identifier %s.", coercion.Value, coercion.Identifier)
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}

// Render writes report to w in the requested format.
func Render(w io.Writer, report *domain.ReconciliationReport, format Format) error {
	if format == FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	return RenderText(w, report)
}

// RenderText writes the outcome message, the discrepancy table (if any), the
// identifiers with no data and the skipped input lines.
func RenderText(w io.Writer, report *domain.ReconciliationReport) error {
	if _, err := fmt.Fprintln(w, OutcomeMessage(report)); err != nil {
		return err
	}

	if len(report.Discrepancies) > 0 {
		if err := writeTable(w, DiscrepancyHeaders, DiscrepancyRows(report.Discrepancies)); err != nil {
			return err
		}
	}

	if len(report.Unresolved) > 0 && report.Outcome() != domain.OutcomeNoData {
		ids := make([]string, 0, len(report.Unresolved))
		for _, row := range report.Unresolved {
			ids = append(ids, row.Identifier)
		}
		if _, err := fmt.Fprintf(w, "No data found for: %s\n", strings.Join(ids, ", ")); err != nil {
			return err
		}
	}

	for _, warn := range report.Warnings {
		if _, err := fmt.Fprintf(w, "Skipped line %d (%q): %s\n", warn.Line, warn.Text, warn.Reason); err != nil {
			return err
		}
	}
	return nil
}

// DiscrepancyRows formats joined rows as table cells.
func DiscrepancyRows(rows []domain.JoinedRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			row.Identifier,
			strconv.Itoa(row.ExpectedCount),
			FormatNumber(row.ActualCount),
			FormatNumber(row.Difference),
		})
	}
	return out
}

// FormatNumber renders v without trailing zeros, or "" when absent.
func FormatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	config := tablewriter.Config{}
	align := []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight}
	config.Header.Alignment = tw.CellAlignment{PerColumn: align}
	config.Row.Alignment = tw.CellAlignment{PerColumn: align}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	headerData := make([]any, len(headers))
	for i, h := range headers {
		headerData[i] = h
	}
	table.Header(headerData...)

	for _, row := range rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}
	return table.Render()
}
