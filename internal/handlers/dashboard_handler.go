package handlers

import (
	"log/slog"
	"net/http"

	"uniflash/internal/service"
	"uniflash/internal/webutil"
)

type DashboardHandler struct {
	service service.DashboardService
	logger  *slog.Logger
}

func NewDashboardHandler(s service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service: s,
		logger:  logger,
	}
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDashboard"))

	resp, err := h.service.GetDashboard(r.Context())
	if err != nil {
		logger.Error("Error building dashboard in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}
