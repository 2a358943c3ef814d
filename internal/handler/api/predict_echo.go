package api

import (
	"net/http"

	"IrisServe/internal/domain/models"
	"IrisServe/internal/usecase"
	xhttp "IrisServe/pkg/http"
	xlogger "IrisServe/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictEchoHandler exposes the batch prediction API over Echo.
type PredictEchoHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.Predictor
}

func NewPredictEchoHandler(logger *xlogger.Logger, predictor *usecase.Predictor) *PredictEchoHandler {
	return &PredictEchoHandler{logger: logger, predictor: predictor}
}

func (h *PredictEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/predict", h.Predict)
	e.GET("/healthz", h.Health)
}

// Predict scores every feature row stored for the requested date range.
// This is the single error boundary: everything raised below is mapped to
// the flat error envelope here.
func (h *PredictEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if msg := xhttp.ReadAndValidateRequest(c, req); msg != "" {
		return xhttp.BadRequestResponse(c, msg+" (YYYY-MM-DD)")
	}

	res, err := h.predictor.Predict(c.Request().Context(), req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Error("predict failed",
			xlogger.String("start_date", req.StartDate),
			xlogger.String("end_date", req.EndDate),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}

	return xhttp.SuccessResponse(c, res)
}

// Health reports readiness of the storage and audit collaborators.
func (h *PredictEchoHandler) Health(c echo.Context) error {
	if err := h.predictor.Health(c.Request().Context()); err != nil {
		return xhttp.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
