package domain

// Outcome is the headline result a presenter shows for a report.
type Outcome string

const (
	OutcomeNoData          Outcome = "no_data"
	OutcomeNoDiscrepancies Outcome = "no_discrepancies"
	OutcomeDiscrepancies   Outcome = "discrepancies"
)

// Summary provides high-level statistics of the reconciliation run.
type Summary struct {
	TotalInputRecords       int     `json:"total_input_records"`
	MatchedRecords          int     `json:"matched_records"`
	DiscrepantRecords       int     `json:"discrepant_records"`
	UnresolvedRecords       int     `json:"unresolved_records"`
	MalformedLines          int     `json:"malformed_lines"`
	TotalAbsoluteDifference float64 `json:"total_absolute_difference"`
}

// ReconciliationReport is the top-level structure handed to presenters.
type ReconciliationReport struct {
	RunID         string          `json:"run_id"`
	Summary       Summary         `json:"summary"`
	Discrepancies []JoinedRow     `json:"discrepancies"`
	Matches       []JoinedRow     `json:"matches"`
	Unresolved    []JoinedRow     `json:"unresolved"`
	Warnings      []MalformedLine `json:"warnings"`
}

// Outcome derives the headline result from the partitions.
func (r *ReconciliationReport) Outcome() Outcome {
	switch {
	case len(r.Discrepancies) > 0:
		return OutcomeDiscrepancies
	case len(r.Matches) > 0:
		return OutcomeNoDiscrepancies
	default:
		return OutcomeNoData
	}
}
