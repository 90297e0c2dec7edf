package handlers

import (
	"log/slog"
	"net/http"

	"uniflash/internal/model"
	"uniflash/internal/service"
	"uniflash/internal/webutil"
)

// GenerationHandler serves the LLM-backed authoring helpers. Generated
// drafts are returned to the client for review; nothing is stored here.
type GenerationHandler struct {
	service service.GenerationService
	logger  *slog.Logger
}

func NewGenerationHandler(s service.GenerationService, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		service: s,
		logger:  logger,
	}
}

func (h *GenerationHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GenerateFlashcards"))

	var req model.GenerateFlashcardsRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	drafts, err := h.service.GenerateFlashcards(r.Context(), &req)
	if err != nil {
		logger.Error("Error generating flashcards in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Flashcards generated", slog.Int("count", len(drafts)))
	webutil.RespondWithJSON(w, http.StatusOK, drafts)
}

func (h *GenerationHandler) GenerateCloze(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GenerateCloze"))

	var req model.GenerateClozeRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	draft, err := h.service.GenerateCloze(r.Context(), &req)
	if err != nil {
		logger.Error("Error generating cloze deletions in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, draft)
}

func (h *GenerationHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GenerateQuiz"))

	var req model.GenerateQuizRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	questions, err := h.service.GenerateQuiz(r.Context(), &req)
	if err != nil {
		logger.Error("Error generating quiz in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Quiz generated", slog.Int("count", len(questions)))
	webutil.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *GenerationHandler) CleanupText(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CleanupText"))

	var req model.CleanupTextRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.CleanupText(r.Context(), &req)
	if err != nil {
		logger.Error("Error cleaning up text in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
}
