package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"uniflash/internal/config"
	"uniflash/internal/middleware"
	"uniflash/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI client the generation service
// uses. Tests substitute a canned implementation.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type openAIChatCompleter struct {
	client *openai.Client
	model  string
}

// NewChatCompleter builds a completer against the configured endpoint. A
// custom base URL lets the service talk to OpenAI-compatible servers.
func NewChatCompleter(cfg config.OpenAIConfig) ChatCompleter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &openAIChatCompleter{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.ChatModel,
	}
}

func (c *openAIChatCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat response")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerationService turns source text into card drafts, cloze markup, quiz
// questions or cleaned text. Nothing it produces is persisted.
type GenerationService interface {
	GenerateFlashcards(ctx context.Context, req *model.GenerateFlashcardsRequest) ([]model.FlashcardDraft, error)
	GenerateCloze(ctx context.Context, req *model.GenerateClozeRequest) (*model.ClozeDraft, error)
	GenerateQuiz(ctx context.Context, req *model.GenerateQuizRequest) ([]model.QuizQuestion, error)
	CleanupText(ctx context.Context, req *model.CleanupTextRequest) (*model.CleanupTextResponse, error)
}

type generationService struct {
	completer ChatCompleter
}

func NewGenerationService(completer ChatCompleter) GenerationService {
	return &generationService{completer: completer}
}

const (
	flashcardSystemPrompt = `You create study flashcards from text supplied by the user.
Respond with a JSON array only, no prose and no markdown fences.
Each element is an object with "front" (a question or term) and "back"
(the answer or definition). Keep fronts short and backs precise.`

	clozeSystemPrompt = `You create cloze deletion study material from text supplied by the user.
Respond with the source text only, rewritten so the key facts are wrapped
in cloze markers of the form {{c1::hidden text}}, {{c2::...}} and so on,
numbered sequentially from 1. No prose, no markdown fences.`

	quizSystemPrompt = `You create multiple-choice quiz questions from text supplied by the user.
Respond with a JSON array only, no prose and no markdown fences.
Each element is an object with "question", "options" (exactly four
strings), "answer" (the zero-based index of the correct option) and an
optional short "explanation".`

	cleanupSystemPrompt = `You clean up text pasted from PDFs and web pages for studying.
Fix broken line wraps, remove page numbers, headers, footers and
citation markers, and normalize whitespace. Do not summarize, reorder
or reword the content. Respond with the cleaned text only.`
)

func (s *generationService) GenerateFlashcards(ctx context.Context, req *model.GenerateFlashcardsRequest) ([]model.FlashcardDraft, error) {
	logger := middleware.GetLogger(ctx)

	count := req.Count
	if count == 0 {
		count = 10
	}
	user := fmt.Sprintf("Create up to %d flashcards from the following text:\n\n%s", count, req.Text)

	raw, err := s.completer.Complete(ctx, flashcardSystemPrompt, user)
	if err != nil {
		logger.Error("Flashcard generation failed", "error", err)
		return nil, model.NewAppError("GENERATION_FAILED", "Could not generate flashcards.", "", model.ErrUnavailable)
	}

	var drafts []model.FlashcardDraft
	if err := json.Unmarshal([]byte(stripFences(raw)), &drafts); err != nil {
		logger.Error("Flashcard generation returned unparseable output", "error", err)
		return nil, model.NewAppError("GENERATION_MALFORMED", "The generated flashcards could not be parsed.", "", model.ErrUnavailable)
	}
	if len(drafts) > count {
		drafts = drafts[:count]
	}
	return drafts, nil
}

func (s *generationService) GenerateCloze(ctx context.Context, req *model.GenerateClozeRequest) (*model.ClozeDraft, error) {
	logger := middleware.GetLogger(ctx)

	count := req.Count
	if count == 0 {
		count = 5
	}
	user := fmt.Sprintf("Add up to %d cloze deletions to the following text:\n\n%s", count, req.Text)

	raw, err := s.completer.Complete(ctx, clozeSystemPrompt, user)
	if err != nil {
		logger.Error("Cloze generation failed", "error", err)
		return nil, model.NewAppError("GENERATION_FAILED", "Could not generate cloze deletions.", "", model.ErrUnavailable)
	}

	source := strings.TrimSpace(stripFences(raw))
	if len(model.ParseClozeExtractions(source)) == 0 {
		logger.Error("Cloze generation returned no deletions")
		return nil, model.NewAppError("GENERATION_MALFORMED", "The generated text contains no cloze deletions.", "", model.ErrUnavailable)
	}
	return &model.ClozeDraft{SourceText: source}, nil
}

func (s *generationService) GenerateQuiz(ctx context.Context, req *model.GenerateQuizRequest) ([]model.QuizQuestion, error) {
	logger := middleware.GetLogger(ctx)

	count := req.Count
	if count == 0 {
		count = 5
	}
	user := fmt.Sprintf("Create up to %d quiz questions from the following text:\n\n%s", count, req.Text)

	raw, err := s.completer.Complete(ctx, quizSystemPrompt, user)
	if err != nil {
		logger.Error("Quiz generation failed", "error", err)
		return nil, model.NewAppError("GENERATION_FAILED", "Could not generate quiz questions.", "", model.ErrUnavailable)
	}

	var questions []model.QuizQuestion
	if err := json.Unmarshal([]byte(stripFences(raw)), &questions); err != nil {
		logger.Error("Quiz generation returned unparseable output", "error", err)
		return nil, model.NewAppError("GENERATION_MALFORMED", "The generated quiz could not be parsed.", "", model.ErrUnavailable)
	}
	for i, q := range questions {
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			logger.Error("Quiz question has out-of-range answer index", "index", i)
			return nil, model.NewAppError("GENERATION_MALFORMED", "The generated quiz could not be parsed.", "", model.ErrUnavailable)
		}
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

func (s *generationService) CleanupText(ctx context.Context, req *model.CleanupTextRequest) (*model.CleanupTextResponse, error) {
	logger := middleware.GetLogger(ctx)

	raw, err := s.completer.Complete(ctx, cleanupSystemPrompt, req.Text)
	if err != nil {
		logger.Error("Text cleanup failed", "error", err)
		return nil, model.NewAppError("GENERATION_FAILED", "Could not clean up the text.", "", model.ErrUnavailable)
	}
	return &model.CleanupTextResponse{Text: strings.TrimSpace(stripFences(raw))}, nil
}

// stripFences removes a surrounding markdown code fence that models add
// despite instructions not to.
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
