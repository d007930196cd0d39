package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gridpulse/internal/errors"
	"gridpulse/internal/services"
)

// IntensityHandler serves the hourly range queries: the per-fuel
// generation table and the derived intensity and renewable-share series.
type IntensityHandler struct {
	service      IntensityServiceInterface
	validator    RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewIntensityHandler creates a new intensity handler
func NewIntensityHandler(service IntensityServiceInterface, validator RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *IntensityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntensityHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "intensity_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the range-query routes
func (h *IntensityHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/{authority}", func(r chi.Router) {
		r.Use(h.RangeCtx)
		r.Get("/generation", h.GetGeneration)
		r.Get("/intensity", h.GetCarbonIntensity)
		r.Get("/renewable-share", h.GetRenewableShare)
	})

	return r
}

// RangeCtx validates the authority path parameter and the from/to query
// parameters against the RangeRequest tags before any range query runs.
func (h *IntensityHandler) RangeCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.validator.ValidateStruct(rangeRequestFrom(r)); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func rangeRequestFrom(r *http.Request) services.RangeRequest {
	return services.RangeRequest{
		Authority: chi.URLParam(r, "authority"),
		From:      r.URL.Query().Get("from"),
		To:        r.URL.Query().Get("to"),
	}
}

// GetGeneration handles GET /api/v1/series/{authority}/generation
func (h *IntensityHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Generation(r.Context(), rangeRequestFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetCarbonIntensity handles GET /api/v1/series/{authority}/intensity
func (h *IntensityHandler) GetCarbonIntensity(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CarbonIntensity(r.Context(), rangeRequestFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetRenewableShare handles GET /api/v1/series/{authority}/renewable-share
func (h *IntensityHandler) GetRenewableShare(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.RenewableShare(r.Context(), rangeRequestFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}
