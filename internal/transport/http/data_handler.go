package http

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gridpulse/internal/config"
	apierrors "gridpulse/internal/errors"
)

// DataHandler serves the dataset catalogs and generated report files
type DataHandler struct {
	service      DataServiceInterface
	paths        *config.Paths
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, paths *config.Paths, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:      service,
		paths:        paths,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/authorities", h.GetAuthorities)
	r.Get("/sub-series", h.GetSubSeries)
	r.Get("/reports", h.GetReports)
	r.Get("/download/reports/{filename}", h.DownloadReport)

	return r
}

// GetAuthorities handles GET /api/v1/data/authorities
func (h *DataHandler) GetAuthorities(w http.ResponseWriter, r *http.Request) {
	authorities, err := h.service.Authorities(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"authorities": authorities,
		"count":       len(authorities),
	})
}

// GetSubSeries handles GET /api/v1/data/sub-series
func (h *DataHandler) GetSubSeries(w http.ResponseWriter, r *http.Request) {
	subSeries, err := h.service.SubSeries(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"authority":  config.ReferenceAuthority,
		"sub_series": subSeries,
		"count":      len(subSeries),
	})
}

// GetReports handles GET /api/v1/data/reports
func (h *DataHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.GetReports(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// DownloadReport handles GET /api/v1/data/download/reports/{filename}
func (h *DataHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filename", "Filename is required"))
		return
	}

	// reject traversal before touching the filesystem
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filename", "Invalid filename"))
		return
	}
	if strings.ToLower(filepath.Ext(filename)) != ".csv" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filename", "Only CSV reports can be downloaded"))
		return
	}

	path := h.paths.GetReportPath(filename)
	h.logger.InfoContext(r.Context(), "report download",
		slog.String("filename", filename))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, path)
}
