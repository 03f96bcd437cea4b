package handler

import (
	"strings"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/arturoeanton/knowledge-chat/internal/service"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// Protocol identifies the response shape a caller expects.
type Protocol int

const (
	// ProtocolOpenAI is the chat-completions shape used by the voice platform and
	// OpenAI-style clients. It is always answered with 200.
	ProtocolOpenAI Protocol = iota
	// ProtocolLegacy is the bare {role, content} shape of the original chat widget.
	ProtocolLegacy
)

func (p Protocol) String() string {
	if p == ProtocolLegacy {
		return "legacy"
	}
	return "openai"
}

// DetectProtocol maps a route path to its protocol. Anything ending in
// /chat/completions speaks OpenAI; everything else is legacy.
func DetectProtocol(path string) Protocol {
	if strings.HasSuffix(strings.TrimRight(path, "/"), "/chat/completions") {
		return ProtocolOpenAI
	}
	return ProtocolLegacy
}

// Envelope is a response body. The set of implementations is closed.
type Envelope interface {
	envelope()
}

// OpenAIEnvelope is a non-streaming chat.completion object.
type OpenAIEnvelope struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []OpenAIChoice `json:"choices"`
}

// OpenAIChoice is the single choice of an OpenAIEnvelope.
type OpenAIChoice struct {
	Index        int                 `json:"index"`
	Message      domain.Answer       `json:"message"`
	FinishReason openai.FinishReason `json:"finish_reason"`
}

// MessageEnvelope is the legacy {role, content} body.
type MessageEnvelope struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ErrorEnvelope is a validation error body. Only the legacy protocol and the
// document routes ever send one.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

func (OpenAIEnvelope) envelope()  {}
func (MessageEnvelope) envelope() {}
func (ErrorEnvelope) envelope()   {}

// Error texts returned to legacy callers.
const (
	msgInvalidJSON     = "Invalid JSON body"
	msgMessageRequired = "Message is required"
)

// NewOpenAIEnvelope wraps answer in a chat.completion object with a fresh id.
func NewOpenAIEnvelope(model string, answer domain.Answer) OpenAIEnvelope {
	return OpenAIEnvelope{
		ID:      "chatcmpl-" + uuid.New().String(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []OpenAIChoice{{
			Index:        0,
			Message:      answer,
			FinishReason: openai.FinishReasonStop,
		}},
	}
}

// Shape packages a pipeline reply for protocol. It never inspects or rewrites
// the answer content.
func Shape(protocol Protocol, reply service.Reply) (int, Envelope) {
	if protocol == ProtocolLegacy {
		if reply.Outcome == domain.OutcomeNoMessage {
			return fiber.StatusBadRequest, ErrorEnvelope{Error: msgMessageRequired}
		}
		return fiber.StatusOK, MessageEnvelope{Role: reply.Answer.Role, Content: reply.Answer.Content}
	}
	return fiber.StatusOK, NewOpenAIEnvelope(reply.Model, reply.Answer)
}

// Reject answers a request whose body could not be decoded. OpenAI callers get
// the no-message answer with 200; legacy callers get a 400 with reason.
func Reject(protocol Protocol, model, reason string) (int, Envelope) {
	if protocol == ProtocolLegacy {
		return fiber.StatusBadRequest, ErrorEnvelope{Error: reason}
	}
	return fiber.StatusOK, NewOpenAIEnvelope(model, domain.NewAnswer(domain.NoMessageText))
}
