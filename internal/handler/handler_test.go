package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleet-reconciliation/internal/domain"
	"fleet-reconciliation/internal/handler"
	"fleet-reconciliation/internal/presenter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReconciler struct {
	gotRaw string
	report *domain.ReconciliationReport
	err    error
}

func (f *fakeReconciler) Reconcile(_ context.Context, raw string) (*domain.ReconciliationReport, error) {
	f.gotRaw = raw
	return f.report, f.err
}

type fakePurger struct{ purged int }

func (f *fakePurger) Purge() { f.purged++ }

func matchReport() *domain.ReconciliationReport {
	diff, actual := 0.0, 10.0
	return &domain.ReconciliationReport{
		RunID:         "run-1",
		Summary:       domain.Summary{TotalInputRecords: 1, MatchedRecords: 1},
		Discrepancies: []domain.JoinedRow{},
		Matches: []domain.JoinedRow{
			{Identifier: "123456", ExpectedCount: 10, ActualCount: &actual, Difference: &diff, Status: domain.RowStatusMatch},
		},
		Unresolved: []domain.JoinedRow{},
		Warnings:   []domain.MalformedLine{},
	}
}

func newTestApp(rec handler.Reconciler, cache handler.CachePurger) *handler.Handler {
	return handler.NewHandler(rec, cache, zap.NewNop())
}

func TestHandleCheck(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantRaw     string
	}{
		{
			name:        "plain text body",
			contentType: "text/plain",
			body:        "123456, 10",
			wantRaw:     "123456, 10",
		},
		{
			name:        "json body",
			contentType: "application/json",
			body:        `{"input":"123456, 10"}`,
			wantRaw:     "123456, 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeReconciler{report: matchReport()}
			app := handler.NewApp(newTestApp(rec, nil), nil)

			req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(handler.RayIDHeader))
			assert.Equal(t, tt.wantRaw, rec.gotRaw)

			var got map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, string(domain.OutcomeNoDiscrepancies), got["outcome"])
			assert.Equal(t, presenter.MsgNoDiscrepancies, got["message"])
			assert.Equal(t, "run-1", got["run_id"])
			assert.Len(t, got["matches"], 1)
		})
	}
}

func TestHandleCheck_InvalidJSON(t *testing.T) {
	rec := &fakeReconciler{report: matchReport()}
	app := handler.NewApp(newTestApp(rec, nil), nil)

	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(`{"input":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, rec.gotRaw)

	var got handler.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, domain.CodeMalformedInput, got.Code)
}

func TestHandleCheck_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty input", domain.ErrEmptyInput, http.StatusBadRequest, domain.CodeEmptyInput},
		{"malformed input", &domain.MalformedInputError{Lines: []domain.MalformedLine{{Line: 1, Text: "x", Reason: "r"}}}, http.StatusUnprocessableEntity, domain.CodeMalformedInput},
		{"fetch failed", &domain.FetchError{Err: errors.New("refused")}, http.StatusBadGateway, domain.CodeFetchFailed},
		{"fetch timeout", &domain.FetchError{Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, domain.CodeFetchTimeout},
		{"coercion", &domain.CoercionError{Identifier: "1", Value: "x"}, http.StatusBadGateway, domain.CodeTypeCoercion},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := handler.NewApp(newTestApp(&fakeReconciler{err: tt.err}, nil), nil)

			req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader("whatever"))
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantStatus, handler.StatusFor(tt.err))

			var got handler.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, presenter.Message(tt.err), got.Error)
		})
	}
}

func TestHandleCachePurge(t *testing.T) {
	purger := &fakePurger{}
	app := handler.NewApp(newTestApp(&fakeReconciler{}, purger), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/cache", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, purger.purged)

	// Without a cache the route still succeeds
	app = handler.NewApp(newTestApp(&fakeReconciler{}, nil), nil)
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/cache", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHealthAndRayID(t *testing.T) {
	app := handler.NewApp(newTestApp(&fakeReconciler{}, nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(handler.RayIDHeader, "ray-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ray-123", resp.Header.Get(handler.RayIDHeader))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}
