package model

// Requests and drafts for the LLM generation endpoints. Drafts are not
// persisted; the client reviews them and creates cards explicitly.

type GenerateFlashcardsRequest struct {
	Text  string `json:"text" validate:"required,min=20"`
	Count int    `json:"count,omitempty" validate:"omitempty,gte=1,lte=50"`
}

type FlashcardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type GenerateClozeRequest struct {
	Text  string `json:"text" validate:"required,min=20"`
	Count int    `json:"count,omitempty" validate:"omitempty,gte=1,lte=50"`
}

// ClozeDraft carries the raw cloze markup; one card per numbered deletion is
// created from it on the client's confirmation.
type ClozeDraft struct {
	SourceText string `json:"source_text"`
}

type GenerateQuizRequest struct {
	Text  string `json:"text" validate:"required,min=20"`
	Count int    `json:"count,omitempty" validate:"omitempty,gte=1,lte=30"`
}

type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

type CleanupTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type CleanupTextResponse struct {
	Text string `json:"text"`
}
