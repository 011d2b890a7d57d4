package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fleet-reconciliation/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconciliationUseCase orchestrates the reconciliation process.
type ReconciliationUseCase struct {
	parser       InputParser
	repo         RecordRepository
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewReconciliationUseCase creates a new instance of the usecase.
// A zero fetchTimeout leaves the fetch bounded only by the caller's context.
func NewReconciliationUseCase(parser InputParser, repo RecordRepository, fetchTimeout time.Duration, logger *zap.Logger) *ReconciliationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationUseCase{
		parser:       parser,
		repo:         repo,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Reconcile runs the full pipeline on raw user text: parse, fetch, join, classify.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, raw string) (*domain.ReconciliationReport, error) {
	// Step 1: Reject blank input before doing any work
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrEmptyInput
	}

	runID := uuid.NewString()
	l := uc.logger.With(zap.String("run_id", runID))
	started := time.Now()

	// Step 2: Parse
	parsed, err := uc.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse input: %w", err)
	}
	for _, m := range parsed.Malformed {
		l.Warn("Skipping malformed input line",
			zap.Int("line", m.Line),
			zap.String("text", m.Text),
			zap.String("reason", m.Reason),
		)
	}
	if len(parsed.Records) == 0 {
		if err := parsed.Err(); err != nil {
			return nil, fmt.Errorf("no well-formed input lines: %w", err)
		}
		return nil, domain.ErrEmptyInput
	}

	// Step 3: Fetch authoritative records
	fetchCtx, cancel := ctx, context.CancelFunc(func() {})
	if uc.fetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, uc.fetchTimeout)
	}
	defer cancel()

	fetched, err := uc.repo.FetchRecords(fetchCtx, parsed.Identifiers())
	if err != nil {
		err = asFetchError(fetchCtx, err)
		l.Error("Fetch failed", zap.Error(err), zap.String("code", domain.Code(err)))
		return nil, fmt.Errorf("could not fetch records: %w", err)
	}

	// Step 4: Join and classify
	rows, err := Join(parsed.Records, fetched)
	if err != nil {
		return nil, fmt.Errorf("could not reconcile records: %w", err)
	}

	report := Classify(rows)
	report.RunID = runID
	report.Warnings = append(report.Warnings, parsed.Malformed...)
	report.Summary.MalformedLines = len(parsed.Malformed)

	l.Info("Reconciliation completed",
		zap.Int("input_records", report.Summary.TotalInputRecords),
		zap.Int("fetched_records", len(fetched)),
		zap.Int("matched", report.Summary.MatchedRecords),
		zap.Int("discrepant", report.Summary.DiscrepantRecords),
		zap.Int("unresolved", report.Summary.UnresolvedRecords),
		zap.Int("malformed", report.Summary.MalformedLines),
		zap.Duration("took", time.Since(started)),
	)
	return &report, nil
}

// Join left-joins inputs with fetched records on identifier, preserving input
// order. If several fetched records share an identifier the first one wins.
func Join(inputs []domain.InputRecord, fetched []domain.FetchedRecord) ([]domain.JoinedRow, error) {
	byID := make(map[string]domain.FetchedRecord, len(fetched))
	for _, f := range fetched {
		if _, ok := byID[f.Identifier]; !ok {
			byID[f.Identifier] = f
		}
	}

	rows := make([]domain.JoinedRow, 0, len(inputs))
	for _, in := range inputs {
		row := domain.JoinedRow{
			Identifier:    in.Identifier,
			ExpectedCount: in.ExpectedCount,
			Status:        domain.RowStatusUnresolved,
		}

		if f, ok := byID[in.Identifier]; ok {
			actual, err := coerceCount(f.Identifier, f.ActualCount)
			if err != nil {
				return nil, err
			}
			diff := float64(in.ExpectedCount) - actual
			row.ActualCount = &actual
			row.Difference = &diff
			row.Region = f.Region
			row.Status = statusFor(row.Difference)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Classify partitions joined rows into discrepancies, matches and unresolved
// rows, keeping input order within each partition.
func Classify(rows []domain.JoinedRow) domain.ReconciliationReport {
	report := domain.ReconciliationReport{
		Summary:       domain.Summary{TotalInputRecords: len(rows)},
		Discrepancies: make([]domain.JoinedRow, 0),
		Matches:       make([]domain.JoinedRow, 0),
		Unresolved:    make([]domain.JoinedRow, 0),
		Warnings:      make([]domain.MalformedLine, 0),
	}

	for _, row := range rows {
		row.Status = statusFor(row.Difference)
		switch row.Status {
		case domain.RowStatusDiscrepancy:
			report.Discrepancies = append(report.Discrepancies, row)
			report.Summary.DiscrepantRecords++
			report.Summary.TotalAbsoluteDifference += math.Abs(*row.Difference)
		case domain.RowStatusMatch:
			report.Matches = append(report.Matches, row)
			report.Summary.MatchedRecords++
		default:
			report.Unresolved = append(report.Unresolved, row)
			report.Summary.UnresolvedRecords++
		}
	}
	return report
}

func statusFor(difference *float64) domain.RowStatus {
	switch {
	case difference == nil:
		return domain.RowStatusUnresolved
	case *difference != 0:
		return domain.RowStatusDiscrepancy
	default:
		return domain.RowStatusMatch
	}
}

// coerceCount reads a count as returned by the dataset service. SODA encodes
// numbers as strings, but plain JSON numbers are accepted too.
func coerceCount(identifier string, v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	default:
		return 0, &domain.CoercionError{Identifier: identifier, Value: v}
	}
	if err != nil {
		return 0, &domain.CoercionError{Identifier: identifier, Value: v, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &domain.CoercionError{Identifier: identifier, Value: v, Err: errors.New("not a finite number")}
	}
	return f, nil
}

// asFetchError normalizes repository failures to *domain.FetchError so callers
// always see FETCH_FAILED or FETCH_TIMEOUT.
func asFetchError(ctx context.Context, err error) error {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%v: %w", err, context.DeadlineExceeded)
	}
	return &domain.FetchError{Err: err}
}
