package model

// Turn is a single prior message in an assistant conversation.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// AIRequest is the inbound payload for one assistant dispatch.
type AIRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history,omitempty"`
	Context string `json:"context,omitempty"` // optional page context from the caller
}

// ActionType classifies what an assistant action asks the client to do.
type ActionType string

const (
	ActionNavigate ActionType = "navigate"
	ActionCreate   ActionType = "create"
	ActionUpdate   ActionType = "update"
	ActionDelete   ActionType = "delete"
	ActionQuery    ActionType = "query"
)

// Action is a structured side effect or navigation hint attached to a reply.
type Action struct {
	Type                 ActionType     `json:"type"`
	Description          string         `json:"description"`
	Function             string         `json:"function,omitempty"`
	Parameters           map[string]any `json:"parameters,omitempty"`
	RequiresConfirmation bool           `json:"requires_confirmation,omitempty"`
}

// AIResponse is the outcome of one assistant dispatch.
type AIResponse struct {
	Content     string   `json:"content"`
	Actions     []Action `json:"actions,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
