package domain

// Query is the canonical user question extracted from a request body.
type Query struct {
	Text string `json:"text"`
}

// Answer is the assistant reply returned to every caller.
type Answer struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Outcome records why an Answer has the content it has.
type Outcome string

// Outcome constants.
const (
	OutcomeAnswered  Outcome = "answered"
	OutcomeNoMessage Outcome = "no_message"
	OutcomeDegraded  Outcome = "degraded"
)

// Fixed reply texts.
const (
	RoleAssistant = "assistant"

	RefusalText   = "I don't have that information in my knowledge base."
	ApologyText   = "Sorry, something went wrong. Please try again."
	NoMessageText = "I did not receive a valid message."
)

// NewAnswer builds an assistant Answer.
func NewAnswer(content string) Answer {
	return Answer{Role: RoleAssistant, Content: content}
}
