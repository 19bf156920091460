package rest

import (
	"context"
	"net/http"

	"marketSense/domain"
	"marketSense/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	AnalyticsHandler struct {
		analyticsService AnalyticsService
		interestService  InterestService
	}

	AnalyticsService interface {
		Dashboard(ctx context.Context, identity domain.Identity, windowDays int) (domain.DashboardSummary, error)
		ClearHistory(ctx context.Context, identity domain.Identity) error
	}

	InterestService interface {
		Get(ctx context.Context, identity domain.Identity) (domain.InterestProfile, error)
	}

	DashboardQuery struct {
		WindowDays int `query:"window_days"`
	}
)

func NewAnalyticsHandler(analyticsSvc AnalyticsService, interestSvc InterestService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsSvc,
		interestService:  interestSvc,
	}
}

func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q DashboardQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	summary, err := h.analyticsService.Dashboard(c.Request().Context(), ident, q.WindowDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

func (h *AnalyticsHandler) Interests(c echo.Context) error {
	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	profile, err := h.interestService.Get(c.Request().Context(), ident)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// ClearHistory deletes the identity's activities, recommendation log, and
// interest profile in one pass.
func (h *AnalyticsHandler) ClearHistory(c echo.Context) error {
	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	if err := h.analyticsService.ClearHistory(c.Request().Context(), ident); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("history cleared"))
}
