package backend

// MessageRequest represents the request body for POST /message
type MessageRequest struct {
	Text   string `json:"text"`
	UserID int    `json:"user_id"`
}

// MessageResponse represents the response from POST /message
type MessageResponse struct {
	Response       *Reply `json:"response"`
	ConversationID int    `json:"conversation_id"`
}

// Reply is the assistant turn nested in a MessageResponse. Only text is required;
// the service may add intent or entity fields that the widget ignores.
type Reply struct {
	Text *string `json:"text"`
}

// ConversationResponse represents the response from GET /conversation/{id}
type ConversationResponse struct {
	ConversationID int                   `json:"conversation_id"`
	Messages       []ConversationMessage `json:"messages"`
}

// ConversationMessage is one stored turn of a server-side conversation
type ConversationMessage struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	IsUser    bool   `json:"is_user"`
	Timestamp string `json:"timestamp"`
}

// FeedbackResponse represents the response from POST /feedback/{id}
type FeedbackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
