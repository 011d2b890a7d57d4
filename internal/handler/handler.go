package handler

import (
	"context"

	"fleet-reconciliation/internal/domain"
	"fleet-reconciliation/internal/logger"
	"fleet-reconciliation/internal/presenter"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
}

// Reconciler runs the reconciliation pipeline on raw user text.
type Reconciler interface {
	Reconcile(ctx context.Context, raw string) (*domain.ReconciliationReport, error)
}

// CachePurger drops memoized fetch results.
type CachePurger interface {
	Purge()
}

// CheckRequest is the JSON form of a check request.
type CheckRequest struct {
	Input string `json:"input"`
}

// CheckResponse is returned for a successful check.
type CheckResponse struct {
	*domain.ReconciliationReport
	Outcome domain.Outcome `json:"outcome"`
	Message string         `json:"message"`
}

// ErrorResponse is returned when the pipeline fails.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Handler handles HTTP requests for reconciliation checks.
type Handler struct {
	reconciler Reconciler
	cache      CachePurger
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler. cache may be nil when memoization is disabled.
func NewHandler(reconciler Reconciler, cache CachePurger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{reconciler: reconciler, cache: cache, logger: logger}
}

// RegisterRoutes registers the check routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	app.Post("/check", h.HandleCheck)
	app.Delete("/cache", h.HandleCachePurge)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleCheck runs the pipeline on the request body. The body is either the
// raw text or a JSON CheckRequest.
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	raw := string(c.Body())
	if c.Is("json") {
		var req CheckRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Code:  domain.CodeMalformedInput,
				Error: "Request body is not valid JSON.",
			})
		}
		raw = req.Input
	}

	report, err := h.reconciler.Reconcile(c.UserContext(), raw)
	if err != nil {
		code := domain.Code(err)
		l.Warn("Check failed", zap.String("code", code), zap.Error(err))
		return c.Status(StatusFor(err)).JSON(ErrorResponse{
			Code:  code,
			Error: presenter.Message(err),
		})
	}

	l.Info("Check completed",
		zap.String("run_id", report.RunID),
		zap.String("outcome", string(report.Outcome())),
	)
	return c.JSON(CheckResponse{
		ReconciliationReport: report,
		Outcome:              report.Outcome(),
		Message:              presenter.OutcomeMessage(report),
	})
}

// HandleCachePurge drops all memoized fetch results.
func (h *Handler) HandleCachePurge(c *fiber.Ctx) error {
	if h.cache != nil {
		h.cache.Purge()
		logger.WithRayID(h.logger, c).Info("Fetch cache purged")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StatusFor maps a pipeline error to an HTTP status.
func StatusFor(err error) int {
	switch domain.Code(err) {
	case domain.CodeEmptyInput:
		return fiber.StatusBadRequest
	case domain.CodeMalformedInput:
		return fiber.StatusUnprocessableEntity
	case domain.CodeFetchTimeout:
		return fiber.StatusGatewayTimeout
	case domain.CodeFetchFailed, domain.CodeTypeCoercion:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
