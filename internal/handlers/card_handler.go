package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"uniflash/internal/model"
	"uniflash/internal/repository"
	"uniflash/internal/service"
	"uniflash/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CardHandler struct {
	service service.CardService
	logger  *slog.Logger
}

func NewCardHandler(s service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		service: s,
		logger:  logger,
	}
}

func (h *CardHandler) PostCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostCard"))

	var req model.PostCardRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid card payload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	card, err := h.service.CreateCard(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating card in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Card created successfully", slog.String("card_id", card.CardID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, card)
}

// GetCards lists cards, optionally filtered by set, flag state or dueness
// via query parameters.
func (h *CardHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCards"))

	var filter repository.CardListFilter
	if raw := r.URL.Query().Get("set_id"); raw != "" {
		setID, err := uuid.Parse(raw)
		if err != nil {
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "set_id is not a valid UUID.", "set_id", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		filter.SetID = &setID
	}
	if raw := r.URL.Query().Get("flagged"); raw != "" {
		flagged, err := strconv.ParseBool(raw)
		if err != nil {
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "flagged must be true or false.", "flagged", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		filter.Flagged = &flagged
	}
	if raw := r.URL.Query().Get("due"); raw != "" {
		due, err := strconv.ParseBool(raw)
		if err != nil {
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "due must be true or false.", "due", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		filter.DueOnly = due
	}

	cards, err := h.service.ListCards(r.Context(), filter)
	if err != nil {
		logger.Error("Error listing cards in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if cards == nil {
		cards = []*model.Flashcard{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCard"))

	cardID, err := parseIDParam(r, "card_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("card_id", cardID.String()))

	card, err := h.service.GetCard(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Card not found")
		} else {
			logger.Error("Error getting card from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, card)
}

func (h *CardHandler) PutCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutCard"))

	cardID, err := parseIDParam(r, "card_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("card_id", cardID.String()))

	var req model.PutCardRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid card payload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	card, err := h.service.UpdateCard(r.Context(), cardID, &req)
	if err != nil {
		logger.Error("Error updating card in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Card updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, card)
}

func (h *CardHandler) PatchCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchCard"))

	cardID, err := parseIDParam(r, "card_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("card_id", cardID.String()))

	var req model.PatchCardRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid card payload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	card, err := h.service.PatchCard(r.Context(), cardID, &req)
	if err != nil {
		logger.Error("Error patching card in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Card patched successfully")
	webutil.RespondWithJSON(w, http.StatusOK, card)
}

func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteCard"))

	cardID, err := parseIDParam(r, "card_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("card_id", cardID.String()))

	if err := h.service.DeleteCard(r.Context(), cardID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Card not found")
		} else {
			logger.Error("Error deleting card in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Card deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// PutFlag toggles the review flag without touching the card content.
func (h *CardHandler) PutFlag(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutFlag"))

	cardID, err := parseIDParam(r, "card_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("card_id", cardID.String()))

	var req model.PutFlagRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.SetFlag(r.Context(), cardID, *req.IsFlagged); err != nil {
		logger.Error("Error setting flag in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PutNotes replaces the card's study notes.
func (h *CardHandler) PutNotes(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutNotes"))

	cardID, err := parseIDParam(r, "card_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("card_id", cardID.String()))

	var req model.PutNotesRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.SetNotes(r.Context(), cardID, *req.Notes); err != nil {
		logger.Error("Error setting notes in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseIDParam reads a UUID path parameter and wraps failures as input
// errors.
func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", name+" is not a valid UUID.", name, model.ErrInvalidInput)
	}
	return id, nil
}
