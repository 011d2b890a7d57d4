package domain

// InputRecord represents one user-supplied (identifier, expected count) pair.
type InputRecord struct {
	Identifier    string `json:"identifier"`
	ExpectedCount int    `json:"expected_count"`
	Line          int    `json:"line"` // 1-based line in the raw input
}

// FetchedRecord represents the authoritative record returned by the dataset service.
// ActualCount is kept exactly as decoded (string, json.Number or nil); the
// reconciler is responsible for coercing it.
type FetchedRecord struct {
	Identifier  string `json:"identifier"`
	Region      string `json:"region"`
	ActualCount any    `json:"actual_count"`
}

// RowStatus classifies a joined row.
type RowStatus string

const (
	RowStatusMatch       RowStatus = "match"
	RowStatusDiscrepancy RowStatus = "discrepancy"
	RowStatusUnresolved  RowStatus = "unresolved"
)

// JoinedRow is the result of left-joining an InputRecord with its FetchedRecord.
// ActualCount and Difference are nil when no record was found.
type JoinedRow struct {
	Identifier    string    `json:"identifier"`
	ExpectedCount int       `json:"expected_count"`
	ActualCount   *float64  `json:"actual_count"`
	Difference    *float64  `json:"difference"`
	Region        string    `json:"region,omitempty"`
	Status        RowStatus `json:"status"`
}

// MalformedLine describes an input line that was skipped by the parser.
type MalformedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ParsedInput is the output of the input parser.
type ParsedInput struct {
	Records   []InputRecord
	Malformed []MalformedLine
}

// Identifiers returns the identifiers in input order, duplicates included.
func (p *ParsedInput) Identifiers() []string {
	ids := make([]string, 0, len(p.Records))
	for _, r := range p.Records {
		ids = append(ids, r.Identifier)
	}
	return ids
}

// Err returns a MalformedInputError describing every skipped line, or nil.
func (p *ParsedInput) Err() error {
	if len(p.Malformed) == 0 {
		return nil
	}
	return &MalformedInputError{Lines: p.Malformed}
}
