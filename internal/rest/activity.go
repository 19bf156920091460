package rest

import (
	"context"
	"errors"
	"net/http"

	"marketSense/business/activity"
	"marketSense/domain"
	"marketSense/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ActivityHandler struct {
		validate        *validator.Validate
		activityService ActivityService
	}

	ActivityService interface {
		Record(ctx context.Context, identity domain.Identity, in activity.RecordInput) (domain.ActivityRecord, error)
		History(ctx context.Context, identity domain.Identity) ([]domain.ActivityRecord, error)
	}

	RecordActivityRequest struct {
		Kind       string   `json:"kind" validate:"required,oneof=search view click favorite message"`
		ListingID  *uint64  `json:"listing_id"`
		SearchText string   `json:"search_text"`
		Duration   *float64 `json:"duration_seconds"`
	}
)

func NewActivityHandler(svc ActivityService) *ActivityHandler {
	return &ActivityHandler{
		validate:        validator.New(),
		activityService: svc,
	}
}

func (h *ActivityHandler) Record(c echo.Context) error {
	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req RecordActivityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	record, err := h.activityService.Record(c.Request().Context(), ident, activity.RecordInput{
		Kind:       domain.ActivityKind(req.Kind),
		ListingID:  req.ListingID,
		SearchText: req.SearchText,
		Duration:   req.Duration,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidActivity) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		if errors.Is(err, domain.ErrUnknownListing) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(record))
}

func (h *ActivityHandler) History(c echo.Context) error {
	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	records, err := h.activityService.History(c.Request().Context(), ident)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(records))
}
