package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleet-reconciliation/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// SocrataRecordRepository fetches authoritative records from a SODA dataset,
// one request per distinct identifier.
type SocrataRecordRepository struct {
	http    *http.Client
	cfg     DatasetConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewSocrataRecordRepository creates a new repository instance.
// A nil httpClient falls back to http.DefaultClient.
func NewSocrataRecordRepository(httpClient *http.Client, cfg DatasetConfig, fetch FetchConfig, logger *zap.Logger) *SocrataRecordRepository {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if fetch.RateLimit > 0 {
		limit = rate.Limit(fetch.RateLimit)
	}
	burst := fetch.Burst
	if burst < 1 {
		burst = 1
	}

	return &SocrataRecordRepository{
		http:    httpClient,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// FetchRecords retrieves at most one record per distinct identifier.
// Identifiers without a record are simply absent from the result. Any failed
// call aborts the whole fetch and no partial result is returned.
func (r *SocrataRecordRepository) FetchRecords(ctx context.Context, identifiers []string) ([]domain.FetchedRecord, error) {
	ids := uniqueIdentifiers(identifiers)
	records := make([]domain.FetchedRecord, 0, len(ids))

	start := time.Now()
	for _, id := range ids {
		record, found, err := r.fetchOne(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			records = append(records, record)
		}
	}

	r.logger.Debug("Fetched dataset records",
		zap.String("dataset", r.cfg.ID),
		zap.Int("requested", len(ids)),
		zap.Int("found", len(records)),
		zap.Duration("took", time.Since(start)),
	)
	return records, nil
}

func (r *SocrataRecordRepository) fetchOne(ctx context.Context, id string) (domain.FetchedRecord, bool, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.FetchedRecord{}, false, &domain.FetchError{Identifier: id, Err: limiterError(ctx, err)}
	}

	endpoint, err := r.queryURL(id)
	if err != nil {
		return domain.FetchedRecord{}, false, &domain.FetchError{Identifier: id, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.FetchedRecord{}, false, &domain.FetchError{Identifier: id, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if r.cfg.AppToken != "" {
		req.Header.Set("X-App-Token", r.cfg.AppToken)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return domain.FetchedRecord{}, false, &domain.FetchError{Identifier: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.FetchedRecord{}, false, &domain.FetchError{
			Identifier: id,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return domain.FetchedRecord{}, false, &domain.FetchError{
			Identifier: id,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("could not decode response: %w", err),
		}
	}
	if len(rows) == 0 {
		return domain.FetchedRecord{}, false, nil
	}

	row := rows[0]
	return domain.FetchedRecord{
		Identifier:  id,
		Region:      stringField(row[r.cfg.RegionField]),
		ActualCount: row[r.cfg.CountField],
	}, true, nil
}

// queryURL builds the SODA query selecting exactly the three configured
// fields, filtered by exact identifier match and limited to one row.
func (r *SocrataRecordRepository) queryURL(id string) (string, error) {
	base, err := url.Parse(r.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid dataset base url %q: %w", r.cfg.BaseURL, err)
	}
	u := base.JoinPath("resource", r.cfg.ID+".json")

	q := url.Values{}
	q.Set("$select", strings.Join([]string{r.cfg.IdentifierField, r.cfg.RegionField, r.cfg.CountField}, ","))
	q.Set("$where", fmt.Sprintf("%s='%s'", r.cfg.IdentifierField, escapeSoQL(id)))
	q.Set("$limit", "1")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// escapeSoQL doubles single quotes so the identifier stays a string literal.
func escapeSoQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// uniqueIdentifiers drops duplicates, keeping first-seen order.
func uniqueIdentifiers(identifiers []string) []string {
	seen := make(map[string]struct{}, len(identifiers))
	out := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func stringField(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// limiterError maps a limiter wait failure onto the context's error so a
// deadline that is too close is reported as a timeout.
func limiterError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("%v: %w", err, context.DeadlineExceeded)
	}
	return err
}
