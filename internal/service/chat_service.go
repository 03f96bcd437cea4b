package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/arturoeanton/knowledge-chat/internal/observability"
	"github.com/arturoeanton/knowledge-chat/internal/port"
	"go.opentelemetry.io/otel/attribute"
)

// SystemPrompt is sent with every completion. Callers cannot replace it.
const SystemPrompt = `You are a professional AI assistant.
Use ONLY the provided context to answer the question.
If the answer is not in the context, say:
"I don't have that information in my knowledge base."

Be clear, natural, and concise.`

// ChatOptions tunes retrieval and the per-call timeouts.
type ChatOptions struct {
	MatchThreshold  float64
	MatchCount      int
	EmbedTimeout    time.Duration
	RetrieveTimeout time.Duration
	CompleteTimeout time.Duration
}

// DefaultChatOptions returns threshold 0.3, top 5, and 5s/5s/15s timeouts.
func DefaultChatOptions() ChatOptions {
	return ChatOptions{
		MatchThreshold:  domain.DefaultMatchThreshold,
		MatchCount:      domain.DefaultMatchCount,
		EmbedTimeout:    5 * time.Second,
		RetrieveTimeout: 5 * time.Second,
		CompleteTimeout: 15 * time.Second,
	}
}

// Reply is the result of one pass through the pipeline. It always carries an Answer.
type Reply struct {
	Answer  domain.Answer
	Outcome domain.Outcome
	Query   domain.Query
	Matches []domain.RetrievalMatch
	Model   string
	// Err is the contained failure when degraded, or port.ErrNoMessage.
	Err error
}

// ChatService runs retrieval-augmented generation over the knowledge base.
type ChatService struct {
	embedder  port.Embedder
	retriever port.Retriever
	completer port.Completer
	opts      ChatOptions
}

// NewChatService creates a new chat service. A MatchCount or timeout that is zero
// or negative falls back to its default. MatchThreshold is used as given, since 0
// is a valid threshold.
func NewChatService(embedder port.Embedder, retriever port.Retriever, completer port.Completer, opts ChatOptions) *ChatService {
	def := DefaultChatOptions()
	if opts.MatchCount <= 0 {
		opts.MatchCount = def.MatchCount
	}
	if opts.EmbedTimeout <= 0 {
		opts.EmbedTimeout = def.EmbedTimeout
	}
	if opts.RetrieveTimeout <= 0 {
		opts.RetrieveTimeout = def.RetrieveTimeout
	}
	if opts.CompleteTimeout <= 0 {
		opts.CompleteTimeout = def.CompleteTimeout
	}
	return &ChatService{embedder: embedder, retriever: retriever, completer: completer, opts: opts}
}

// ModelName reports the completion model named in every reply.
func (s *ChatService) ModelName() string { return s.completer.ModelName() }

// Respond answers the question found in body.
//
// It never fails: a body without a message yields the no-message answer, and any
// embedding, retrieval or completion failure (timeouts and panics included) is
// logged and turned into the apology answer.
func (s *ChatService) Respond(ctx context.Context, body interface{}) (reply Reply) {
	start := time.Now()
	ctx, span := observability.StartStageSpan(ctx, observability.StageChat)
	defer span.End()

	reply.Model = s.completer.ModelName()

	q, ok := ExtractQuery(body)
	if !ok {
		slog.Info("chat: no user message found")
		reply.Outcome = domain.OutcomeNoMessage
		reply.Answer = domain.NewAnswer(domain.NoMessageText)
		reply.Err = port.ErrNoMessage
		span.SetAttributes(attribute.String("rag.outcome", string(reply.Outcome)))
		return reply
	}
	reply.Query = q

	defer func() {
		if r := recover(); r != nil {
			reply = s.degrade(reply, fmt.Errorf("pipeline panic: %v", r))
			observability.RecordError(span, reply.Err)
			span.SetAttributes(attribute.String("rag.outcome", string(reply.Outcome)))
		}
	}()

	slog.Debug("chat: query", "query", q.Text)

	content, matches, err := s.generate(ctx, q)
	reply.Matches = matches
	if err != nil {
		observability.RecordError(span, err)
		reply = s.degrade(reply, err)
	} else {
		reply.Outcome = domain.OutcomeAnswered
		reply.Answer = domain.NewAnswer(content)
	}

	span.SetAttributes(
		attribute.String("rag.outcome", string(reply.Outcome)),
		attribute.Int("rag.match_count", len(reply.Matches)),
	)
	slog.Info("chat: answered",
		"outcome", reply.Outcome,
		"query_len", len(q.Text),
		"matches", len(reply.Matches),
		"model", reply.Model,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return reply
}

func (s *ChatService) degrade(reply Reply, err error) Reply {
	slog.Error("chat: pipeline failed, answering with apology", "error", err)
	reply.Outcome = domain.OutcomeDegraded
	reply.Answer = domain.NewAnswer(domain.ApologyText)
	reply.Err = err
	return reply
}

// generate runs embed → retrieve → assemble → complete for a normalized query.
func (s *ChatService) generate(ctx context.Context, q domain.Query) (string, []domain.RetrievalMatch, error) {
	vec, err := s.embed(ctx, q.Text)
	if err != nil {
		return "", nil, err
	}

	matches, err := s.retrieve(ctx, vec)
	if err != nil {
		return "", nil, err
	}

	userPrompt := BuildUserPrompt(AssembleContext(matches), q.Text)

	content, err := s.complete(ctx, userPrompt)
	if err != nil {
		return "", matches, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		content = domain.RefusalText
	}
	return content, matches, nil
}

func (s *ChatService) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, span := observability.StartStageSpan(ctx, observability.StageEmbed,
		attribute.String("rag.model", s.embedder.ModelName()))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.EmbedTimeout)
	defer cancel()

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		err = classify(err, port.ErrEmbeddingProvider)
		observability.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("rag.dimension", len(vec)))
	return vec, nil
}

func (s *ChatService) retrieve(ctx context.Context, vec []float32) ([]domain.RetrievalMatch, error) {
	ctx, span := observability.StartStageSpan(ctx, observability.StageRetrieve,
		attribute.Float64("rag.match_threshold", s.opts.MatchThreshold),
		attribute.Int("rag.match_count_limit", s.opts.MatchCount))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.RetrieveTimeout)
	defer cancel()

	matches, err := s.retriever.Match(ctx, vec, s.opts.MatchThreshold, s.opts.MatchCount)
	if err != nil {
		err = classify(err, port.ErrRetrieval)
		observability.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("rag.match_count", len(matches)))
	return matches, nil
}

func (s *ChatService) complete(ctx context.Context, userPrompt string) (string, error) {
	ctx, span := observability.StartStageSpan(ctx, observability.StageComplete,
		attribute.String("rag.model", s.completer.ModelName()))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.opts.CompleteTimeout)
	defer cancel()

	content, err := s.completer.Complete(ctx, SystemPrompt, userPrompt)
	if err != nil {
		err = classify(err, port.ErrCompletionProvider)
		observability.RecordError(span, err)
		return "", err
	}
	return content, nil
}

// AssembleContext renders matches as "- content" lines joined by newlines, in the
// order given. No matches yields an empty string.
func AssembleContext(matches []domain.RetrievalMatch) string {
	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = "- " + m.Content
	}
	return strings.Join(lines, "\n")
}

// BuildUserPrompt renders the single user turn sent to the completion model.
func BuildUserPrompt(groundedContext, query string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", groundedContext, query)
}

// classify makes sure err can be matched against the stage's sentinel.
func classify(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
