// Package answer generates grounded answers: it retrieves and reranks
// chunks for a question, packs them into a prompt with conversation
// history, and asks the configured model.
package answer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ragline-ai/go-ragline/pkg/config"
	"github.com/ragline-ai/go-ragline/pkg/llm"
	"github.com/ragline-ai/go-ragline/pkg/ragline"
	"github.com/ragline-ai/go-ragline/pkg/retrieval"
	"github.com/ragline-ai/go-ragline/pkg/session"
)

var tracer = otel.Tracer("github.com/ragline-ai/go-ragline/pkg/answer")

// Searcher retrieves scored chunks for a query. retrieval.VectorIndex
// satisfies this.
type Searcher interface {
	Search(ctx context.Context, query string) []retrieval.ScoredChunk
}

// Config tunes the answer engine.
type Config struct {
	// SystemPrompt template with {context} and {question} placeholders.
	// Empty uses the default Chinese QA template.
	SystemPrompt string

	// MaxContextLength is the rune budget for the packed context block.
	MaxContextLength int

	// MaxPromptTokens caps the full prompt's approximate token count.
	MaxPromptTokens int

	// HistoryWindow is how many recent turns prefix the prompt. Zero
	// disables history.
	HistoryWindow int

	// Streaming selects the model's streaming API even when no handler
	// is attached.
	Streaming bool

	// GenerationTimeout bounds one model call. Zero means no deadline
	// beyond the caller's context.
	GenerationTimeout time.Duration
}

// Result is one answered question.
type Result struct {
	Question      string                `json:"question"`
	Answer        string                `json:"answer"`
	Sources       []retrieval.SourceRef `json:"sources"`
	Context       string                `json:"context"`
	SourceSummary string                `json:"source_summary"`
}

// Engine wires retrieval, reranking, prompt assembly, and generation.
type Engine struct {
	searcher  Searcher
	reranker  *retrieval.Reranker
	completer llm.Completer
	sessions  session.Store
	config    Config
}

// New creates an engine. A nil session store disables history tracking.
func New(searcher Searcher, reranker *retrieval.Reranker, completer llm.Completer, sessions session.Store, cfg Config) *Engine {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = config.DefaultSystemPrompt
	}
	if cfg.MaxContextLength <= 0 {
		cfg.MaxContextLength = 4000
	}
	if cfg.MaxPromptTokens <= 0 {
		cfg.MaxPromptTokens = 6000
	}
	if sessions == nil {
		cfg.HistoryWindow = 0
	}
	return &Engine{
		searcher:  searcher,
		reranker:  reranker,
		completer: completer,
		sessions:  sessions,
		config:    cfg,
	}
}

// Ask answers a question for the given session.
//
// Behavior: retrieval failures degrade to the no-context sentinel; a
// generation failure returns an apologetic answer in the Result along with
// the error, which matches ragline.ErrGenerationTimeout when the model
// call hit its deadline. On success the turn is appended to the session.
func (e *Engine) Ask(ctx context.Context, sessionID, question string) (Result, error) {
	return e.ask(ctx, sessionID, question, nil)
}

// AskStream is Ask with a handler receiving answer deltas as the model
// produces them.
func (e *Engine) AskStream(ctx context.Context, sessionID, question string, handler llm.StreamHandler) (Result, error) {
	return e.ask(ctx, sessionID, question, handler)
}

func (e *Engine) ask(ctx context.Context, sessionID, question string, handler llm.StreamHandler) (Result, error) {
	ctx, span := tracer.Start(ctx, "answer.ask")
	defer span.End()

	ragline.LogInfo(ctx, "answering question", "session_id", sessionID, "question_len", len(question))

	results := e.searcher.Search(ctx, question)
	if e.reranker != nil {
		results = e.reranker.Rerank(ctx, question, results)
	}

	contextBlock := retrieval.BuildContext(results, e.config.MaxContextLength)
	sources := retrieval.SourceRefs(results)

	prompt := e.buildPrompt(ctx, sessionID, question, contextBlock)

	response, err := e.generate(ctx, prompt, handler)
	if err != nil {
		ragline.LogError(ctx, "answer generation failed", err, "session_id", sessionID)
		return Result{
			Question: question,
			Answer:   fmt.Sprintf("抱歉，处理您的问题时出现错误: %v", err),
			Sources:  []retrieval.SourceRef{},
		}, err
	}

	e.recordTurn(ctx, sessionID, session.Turn{
		Question: question,
		Answer:   response,
		Context:  contextBlock,
		Sources:  sources,
	})

	ragline.LogInfo(ctx, "answer complete", "session_id", sessionID, "sources", len(sources))
	return Result{
		Question:      question,
		Answer:        response,
		Sources:       sources,
		Context:       contextBlock,
		SourceSummary: FormatSources(sources),
	}, nil
}

// MultiTurnAsk answers questions in order within one session, so each
// answer can build on the previous turns.
func (e *Engine) MultiTurnAsk(ctx context.Context, sessionID string, questions []string) []Result {
	results := make([]Result, 0, len(questions))
	for i, question := range questions {
		ragline.LogInfo(ctx, "multi-turn question", "index", i+1, "total", len(questions))
		result, err := e.Ask(ctx, sessionID, question)
		if err != nil {
			ragline.LogWarn(ctx, "turn failed, continuing", "index", i+1, "error", err)
		}
		results = append(results, result)
	}
	return results
}

// History returns the session's conversation turns.
func (e *Engine) History(ctx context.Context, sessionID string) ([]session.Turn, error) {
	if e.sessions == nil {
		return nil, nil
	}
	return e.sessions.History(ctx, sessionID)
}

// ClearHistory removes the session's conversation turns.
func (e *Engine) ClearHistory(ctx context.Context, sessionID string) error {
	if e.sessions == nil {
		return nil
	}
	return e.sessions.Clear(ctx, sessionID)
}

func (e *Engine) buildPrompt(ctx context.Context, sessionID, question, contextBlock string) string {
	var history []session.Turn
	if e.sessions != nil && e.config.HistoryWindow > 0 {
		turns, err := e.sessions.History(ctx, sessionID)
		if err != nil {
			ragline.LogWarn(ctx, "reading session history failed", "session_id", sessionID, "error", err)
		} else {
			history = turns
		}
	}

	prompt := BuildPrompt(e.config.SystemPrompt, contextBlock, question, history, e.config.HistoryWindow)
	return TruncateByTokens(prompt, e.config.MaxPromptTokens)
}

func (e *Engine) generate(ctx context.Context, prompt string, handler llm.StreamHandler) (string, error) {
	if e.config.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.GenerationTimeout)
		defer cancel()
	}

	var response string
	var err error
	if e.config.Streaming || handler != nil {
		response, err = e.completer.Stream(ctx, prompt, handler)
	} else {
		response, err = e.completer.Complete(ctx, prompt)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ragline.WrapErr(ctx, ragline.ErrGenerationTimeout, "model call exceeded deadline")
		}
		return "", fmt.Errorf("%w: %v", ragline.ErrGeneration, err)
	}
	return response, nil
}

func (e *Engine) recordTurn(ctx context.Context, sessionID string, turn session.Turn) {
	if e.sessions == nil {
		return
	}
	turn.Timestamp = time.Now()
	if err := e.sessions.Append(ctx, sessionID, turn); err != nil {
		ragline.LogWarn(ctx, "recording turn failed", "session_id", sessionID, "error", err)
	}
}
