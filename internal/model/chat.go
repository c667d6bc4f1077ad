package model

// ChatRequest is the body of a chat call.
type ChatRequest struct {
	// Query is the user's question. Required; validated by the chat
	// service so the tenant check runs first.
	Query string `json:"query"`

	// UserID is the tenant the question runs against.
	UserID string `json:"user_id"`

	// ContextItemID optionally pins the context to a single note instead
	// of running similarity search.
	ContextItemID string `json:"context_item_id,omitempty"`
}

// QuizItem is one generated multiple-choice question.
type QuizItem struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// ChatResult is the body of a successful chat response. Exactly one of
// Answer and Quiz is set.
type ChatResult struct {
	// Answer is the free-text reply.
	Answer string `json:"answer,omitempty"`

	// Quiz is the structured reply for quiz-mode queries.
	Quiz *QuizItem `json:"quizJSON,omitempty"`
}

// ChatStats summarizes a tenant's stored notes.
type ChatStats struct {
	TotalNotes    int64 `json:"total_notes"`
	ReadNotes     int64 `json:"read_notes"`
	PDFNotes      int64 `json:"pdf_notes"`
	WithEmbedding int64 `json:"with_embedding"`
}
