package handlers

import (
	"log/slog"
	"net/http"

	"uniflash/internal/model"
	"uniflash/internal/service"
	"uniflash/internal/webutil"
)

type SettingsHandler struct {
	service service.SettingsService
	logger  *slog.Logger
}

func NewSettingsHandler(s service.SettingsService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		service: s,
		logger:  logger,
	}
}

func (h *SettingsHandler) GetIntervalPolicy(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetIntervalPolicy"))

	policy, err := h.service.GetIntervalPolicy(r.Context())
	if err != nil {
		logger.Error("Error reading interval policy in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, policy)
}

// PutIntervalPolicy stores a new policy. It takes effect at the next
// session start, never mid-session.
func (h *SettingsHandler) PutIntervalPolicy(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutIntervalPolicy"))

	var policy model.IntervalPolicy
	if err := webutil.DecodeJSONBody(r, &policy); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.PutIntervalPolicy(r.Context(), policy); err != nil {
		logger.Warn("Rejected interval policy", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Interval policy updated")
	webutil.RespondWithJSON(w, http.StatusOK, policy)
}

func (h *SettingsHandler) GetReviewPreferences(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetReviewPreferences"))

	prefs, err := h.service.GetReviewPreferences(r.Context())
	if err != nil {
		logger.Error("Error reading review preferences in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *SettingsHandler) PutReviewPreferences(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutReviewPreferences"))

	var prefs model.ReviewPreferences
	if err := webutil.DecodeJSONBody(r, &prefs); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.PutReviewPreferences(r.Context(), prefs); err != nil {
		logger.Error("Error storing review preferences in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, prefs)
}
