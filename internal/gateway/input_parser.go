package gateway

import (
	"fmt"
	"strconv"
	"strings"

	"fleet-reconciliation/internal/domain"
)

// InputSeparator separates the identifier from the expected count on a line.
const InputSeparator = ","

// Reasons recorded for skipped lines.
const (
	ReasonWrongPartCount  = `expected "identifier, count"`
	ReasonEmptyIdentifier = "identifier is empty"
	ReasonCountNotInteger = "count is not an integer"
)

// TextInputParser implements the usecase InputParser for free-form text.
type TextInputParser struct{}

// NewTextInputParser creates a new parser instance.
func NewTextInputParser() *TextInputParser {
	return &TextInputParser{}
}

// Parse delegates to ParseInput.
func (p *TextInputParser) Parse(raw string) (*domain.ParsedInput, error) {
	return ParseInput(raw)
}

// ParseInput turns raw multi-line text into input records.
// Lines that cannot be parsed are collected in ParsedInput.Malformed and the
// remaining lines are still processed. Blank input yields domain.ErrEmptyInput.
func ParseInput(raw string) (*domain.ParsedInput, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrEmptyInput
	}

	parsed := &domain.ParsedInput{}
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1

		parts := strings.Split(line, InputSeparator)
		if len(parts) != 2 {
			parsed.Malformed = append(parsed.Malformed, malformed(lineNo, line, ReasonWrongPartCount))
			continue
		}

		identifier := strings.TrimSpace(parts[0])
		if identifier == "" {
			parsed.Malformed = append(parsed.Malformed, malformed(lineNo, line, ReasonEmptyIdentifier))
			continue
		}

		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			parsed.Malformed = append(parsed.Malformed, malformed(lineNo, line, ReasonCountNotInteger))
			continue
		}

		parsed.Records = append(parsed.Records, domain.InputRecord{
			Identifier:    identifier,
			ExpectedCount: count,
			Line:          lineNo,
		})
	}
	return parsed, nil
}

// FormatInput renders records in the canonical "identifier, count" form,
// one per line. ParseInput(FormatInput(records)) yields the same pairs.
func FormatInput(records []domain.InputRecord) string {
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s%s %d", r.Identifier, InputSeparator, r.ExpectedCount)
	}
	return b.String()
}

func malformed(line int, text, reason string) domain.MalformedLine {
	return domain.MalformedLine{Line: line, Text: strings.TrimSpace(text), Reason: reason}
}
