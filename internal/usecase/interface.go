package usecase

import (
	"context"

	"fleet-reconciliation/internal/domain"
)

// InputParser turns the raw user text into input records.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type InputParser interface {
	Parse(raw string) (*domain.ParsedInput, error)
}

// RecordRepository defines the interface for fetching authoritative records.
// The usecase layer depends on this interface, not on a concrete implementation.
type RecordRepository interface {
	FetchRecords(ctx context.Context, identifiers []string) ([]domain.FetchedRecord, error)
}
