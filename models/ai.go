package models

// AIRequest is the payload coming from the frontend into /api/ai/chat.
type AIRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text" binding:"required"`
}

// AIAction is a suggested follow-up shown under a reply.
type AIAction struct {
	Label     string `json:"label"`
	Type      string `json:"type"` // "open_package", "open_service", "contact"
	PackageID string `json:"packageId,omitempty"`
	Service   string `json:"service,omitempty"`
}

// AIResponse is what the chat handler returns to the frontend.
type AIResponse struct {
	Intent       string     `json:"intent"`
	ResponseText string     `json:"response"`
	Source       string     `json:"source"` // "gemini" or "local"
	Actions      []AIAction `json:"actions,omitempty"`
}

// ChatTurn is one exchange kept in the per-user context.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// AIContext is the conversation state stored per user.
type AIContext struct {
	History []ChatTurn `json:"history"`
}
