package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gridpulse/internal/errors"
	"gridpulse/internal/pipeline"
)

// RunPipelineRequest is the POST body for starting a pipeline run
type RunPipelineRequest struct {
	Authority string `json:"authority" validate:"required,authority"`
	From      string `json:"from" validate:"required,iso8601"`
	To        string `json:"to" validate:"required,iso8601"`
	Force     bool   `json:"force,omitempty"`
}

// Bind implements render.Binder. Field checks run through the validator
// tags once the body is decoded.
func (req *RunPipelineRequest) Bind(r *http.Request) error {
	return nil
}

// PipelineHandler triggers fetch/load/report pipeline runs over HTTP
type PipelineHandler struct {
	runner       PipelineRunner
	validator    RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(runner PipelineRunner, validator RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PipelineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineHandler{
		runner:       runner,
		validator:    validator,
		logger:       logger.With(slog.String("component", "pipeline_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the pipeline routes
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/run", h.RunPipeline)
	r.Get("/runs/{id}", h.GetRun)

	return r
}

// RunPipeline handles POST /api/v1/pipeline/run. The run executes
// synchronously; clients with long ranges should raise their timeout.
func (h *PipelineHandler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	data := &RunPipelineRequest{}
	if err := render.Bind(r, data); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(data); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "pipeline run requested",
		slog.String("authority", data.Authority),
		slog.String("from", data.From),
		slog.String("to", data.To),
		slog.Bool("force", data.Force))

	resp, err := h.runner.Execute(r.Context(), pipeline.RunRequest{
		Authority: data.Authority,
		FromDate:  data.From,
		ToDate:    data.To,
		Force:     data.Force,
	})
	if err != nil {
		if resp != nil {
			// the run started but a stage failed; return the stage detail
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, resp)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// GetRun handles GET /api/v1/pipeline/runs/{id}
func (h *PipelineHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, ok := h.runner.GetRun(id)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("pipeline run"))
		return
	}
	render.JSON(w, r, run)
}
