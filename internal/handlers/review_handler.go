package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"uniflash/internal/model"
	"uniflash/internal/service"
	"uniflash/internal/webutil"
)

// ReviewHandler exposes the review session lifecycle. A session lives in
// server memory; every endpoint after start addresses it by id.
type ReviewHandler struct {
	service service.ReviewService
	logger  *slog.Logger
}

func NewReviewHandler(s service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		service: s,
		logger:  logger,
	}
}

func (h *ReviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "StartSession"))

	var req model.StartSessionRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid session payload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.StartSession(r.Context(), &req)
	if err != nil {
		logger.Error("Error starting session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if resp.AllCaughtUp {
		logger.Info("No cards due, session not started")
	} else {
		logger.Info("Session started", slog.String("session_id", resp.SessionID.String()), slog.Int("cards", len(resp.Cards)))
	}
	webutil.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *ReviewHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Reveal"))

	sessionID, err := parseIDParam(r, "session_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.RevealAnswer(r.Context(), sessionID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) Rate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Rate"))

	sessionID, err := parseIDParam(r, "session_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	var req model.RateCardRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid rating payload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.RateCard(r.Context(), sessionID, req.Rating)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Session not found")
		} else {
			logger.Error("Error rating card in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// Finalize retries the summary write for a session whose last rating
// committed but whose summary insert failed.
func (h *ReviewHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Finalize"))

	sessionID, err := parseIDParam(r, "session_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	summary, err := h.service.FinalizeSession(r.Context(), sessionID)
	if err != nil {
		logger.Error("Error finalizing session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session finalized", slog.Int("cards_reviewed", summary.CardsReviewed))
	webutil.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *ReviewHandler) OpenOverlay(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "OpenOverlay"))

	sessionID, err := parseIDParam(r, "session_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.OpenSlideOverlay(r.Context(), sessionID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) CloseOverlay(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CloseOverlay"))

	sessionID, err := parseIDParam(r, "session_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.CloseSlideOverlay(r.Context(), sessionID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Shuffle"))

	sessionID, err := parseIDParam(r, "session_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	cards, err := h.service.ShuffleSession(r.Context(), sessionID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, cards)
}

func (h *ReviewHandler) SetReverse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SetReverse"))

	sessionID, err := parseIDParam(r, "session_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SetReverseRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.SetReverse(r.Context(), sessionID, *req.Reverse); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Abandon drops the session without writing a summary. Ratings already
// committed stay applied.
func (h *ReviewHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Abandon"))

	sessionID, err := parseIDParam(r, "session_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	if err := h.service.AbandonSession(r.Context(), sessionID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session abandoned")
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStreak"))

	streak, err := h.service.GetStreak(r.Context())
	if err != nil {
		logger.Error("Error fetching streak in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, streak)
}
