package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"uniflash/internal/model"
	"uniflash/internal/service"
	"uniflash/internal/webutil"
)

type SetHandler struct {
	service service.SetService
	logger  *slog.Logger
}

func NewSetHandler(s service.SetService, logger *slog.Logger) *SetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetHandler{
		service: s,
		logger:  logger,
	}
}

func (h *SetHandler) PostSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSet"))

	var req model.PostSetRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid set payload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	set, err := h.service.CreateSet(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating set in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Set created successfully", slog.String("set_id", set.SetID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, set)
}

func (h *SetHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSets"))

	sets, err := h.service.ListSets(r.Context())
	if err != nil {
		logger.Error("Error listing sets in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if sets == nil {
		sets = []*model.FlashcardSet{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, sets)
}

func (h *SetHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSet"))

	setID, err := parseIDParam(r, "set_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("set_id", setID.String()))

	set, err := h.service.GetSet(r.Context(), setID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Set not found")
		} else {
			logger.Error("Error getting set from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, set)
}

func (h *SetHandler) PutSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutSet"))

	setID, err := parseIDParam(r, "set_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("set_id", setID.String()))

	var req model.PutSetRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid set payload", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	set, err := h.service.UpdateSet(r.Context(), setID, &req)
	if err != nil {
		logger.Error("Error updating set in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Set updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, set)
}

// DeleteSet removes the set; its cards survive and become unassigned.
func (h *SetHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteSet"))

	setID, err := parseIDParam(r, "set_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("set_id", setID.String()))

	if err := h.service.DeleteSet(r.Context(), setID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Set not found")
		} else {
			logger.Error("Error deleting set in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Set deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
