package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Ysherlin/ec3-assessment/internal/model"
	"github.com/Ysherlin/ec3-assessment/internal/repository"
	"github.com/Ysherlin/ec3-assessment/pkg/logger"
	"github.com/Ysherlin/ec3-assessment/prometheus"
)

// LeadStore is the persistence surface the handlers depend on. Satisfied by
// *repository.LeadRepository.
type LeadStore interface {
	Create(ctx context.Context, lead *model.Lead) (*model.Lead, error)
	GetByID(ctx context.Context, id uint) (*model.Lead, error)
	List(ctx context.Context, filter repository.ListFilter) ([]model.Lead, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Lead, error)
	Delete(ctx context.Context, id uint) error
	ForEachReportRow(ctx context.Context, filter repository.ReportFilter, fn func(model.Lead) error) error
}

// LeadHandler orchestrates validation, repository calls and response shaping
// for the /leads endpoints.
type LeadHandler struct {
	store LeadStore
}

func NewLeadHandler(store LeadStore) *LeadHandler {
	return &LeadHandler{store: store}
}

// Create handles POST /leads
func (h *LeadHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordLeadOperation("create")

	var req LeadCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request body", zap.Error(err))
		return respondInvalidBody(c)
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	lead, err := h.store.Create(c.Request().Context(), req.ToLead())
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Lead created",
		zap.Uint("lead_id", lead.ID),
		zap.String("email", lead.Email))
	return c.JSON(http.StatusCreated, lead)
}

// Get handles GET /leads/:id
func (h *LeadHandler) Get(c echo.Context) error {
	prometheus.RecordLeadOperation("get")

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	lead, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// List handles GET /leads
func (h *LeadHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordLeadOperation("list")

	filter, err := parseListFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	leads, err := h.store.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Leads listed",
		zap.Int("count", len(leads)),
		zap.Int("skip", filter.Skip),
		zap.Int("limit", filter.Limit))
	return c.JSON(http.StatusOK, leads)
}

// Update handles PUT /leads/:id with partial-update semantics: only keys
// present in the body are applied, an empty body is a no-op.
func (h *LeadHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordLeadOperation("update")

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	fields, err := parseUpdateFields(c.Request().Body)
	if err != nil {
		return respondError(c, err)
	}

	lead, err := h.store.Update(c.Request().Context(), id, fields)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Lead updated",
		zap.Uint("lead_id", lead.ID),
		zap.Int("fields_changed", len(fields)))
	return c.JSON(http.StatusOK, lead)
}

// Delete handles DELETE /leads/:id
func (h *LeadHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordLeadOperation("delete")

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	log.Info("Lead deleted", zap.Uint("lead_id", id))
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, newFieldError("id", "must be a positive integer")
	}
	return uint(id), nil
}
