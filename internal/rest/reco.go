package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marketSense/domain"
	"marketSense/internal/middleware"
	"marketSense/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecoHandler struct {
		validate    *validator.Validate
		recoService RecoService
	}

	RecoService interface {
		Personalized(ctx context.Context, identity domain.Identity, limit int, minScore float64) ([]domain.ScoredListing, error)
		Similar(ctx context.Context, identity domain.Identity, listingID uint64, limit int) ([]domain.ScoredListing, error)
		Trending(ctx context.Context, identity domain.Identity, category string, limit int) ([]domain.ScoredListing, error)
		ForYou(ctx context.Context, identity domain.Identity, limit int) ([]domain.ScoredListing, error)
		TrackClick(ctx context.Context, identity domain.Identity, listingID uint64, algorithm domain.Algorithm) error
	}

	RecoQuery struct {
		Limit    int     `query:"limit"`
		MinScore float64 `query:"min_score"`
		Category string  `query:"category"`
	}

	ClickRequest struct {
		ListingID uint64 `json:"listing_id" validate:"required"`
		Algorithm string `json:"algorithm" validate:"required,oneof=personalized similar trending for-you"`
	}
)

const defaultRecoLimit = 10

func NewRecoHandler(svc RecoService) *RecoHandler {
	return &RecoHandler{
		validate:    validator.New(),
		recoService: svc,
	}
}

func (h *RecoHandler) bindQuery(c echo.Context) (RecoQuery, error) {
	var q RecoQuery
	if err := c.Bind(&q); err != nil {
		return q, err
	}
	if q.Limit <= 0 {
		q.Limit = defaultRecoLimit
	}
	return q, nil
}

func (h *RecoHandler) Personalized(c echo.Context) error {
	timer := time.Now()
	defer func() { metrics.RecommendLatency.Observe(time.Since(timer).Seconds()) }()

	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	q, err := h.bindQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	recs, err := h.recoService.Personalized(c.Request().Context(), ident, q.Limit, q.MinScore)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

func (h *RecoHandler) Similar(c echo.Context) error {
	timer := time.Now()
	defer func() { metrics.RecommendLatency.Observe(time.Since(timer).Seconds()) }()

	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var listingID uint64
	if err := echo.PathParamsBinder(c).Uint64("id", &listingID).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid listing id"})
	}

	q, err := h.bindQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	recs, err := h.recoService.Similar(c.Request().Context(), ident, listingID, q.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownListing) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

func (h *RecoHandler) Trending(c echo.Context) error {
	timer := time.Now()
	defer func() { metrics.RecommendLatency.Observe(time.Since(timer).Seconds()) }()

	ident := middleware.IdentityFrom(c)

	q, err := h.bindQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	recs, err := h.recoService.Trending(c.Request().Context(), ident, q.Category, q.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

func (h *RecoHandler) ForYou(c echo.Context) error {
	timer := time.Now()
	defer func() { metrics.RecommendLatency.Observe(time.Since(timer).Seconds()) }()

	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	q, err := h.bindQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	recs, err := h.recoService.ForYou(c.Request().Context(), ident, q.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

func (h *RecoHandler) TrackClick(c echo.Context) error {
	ident := middleware.IdentityFrom(c)
	if ident.IsZero() {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req ClickRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	err := h.recoService.TrackClick(c.Request().Context(), ident, req.ListingID, domain.Algorithm(req.Algorithm))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("click recorded"))
}
