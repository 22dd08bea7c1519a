// Package orchestrator runs one conversation turn.
//
// A turn is a fixed two-round protocol driven as an explicit state
// machine:
//
//	awaiting_model -> executing_tools -> awaiting_final -> done
//	awaiting_model -> done (the model asked for no operations)
//
// The model never gets a third round. Operations run sequentially, each
// under its own deadline, and at most one of them may describe a write.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/legacyprime/foreman/internal/audit"
	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/config"
	"github.com/legacyprime/foreman/internal/events"
	"github.com/legacyprime/foreman/internal/llm"
	"github.com/legacyprime/foreman/internal/ops"
	"github.com/legacyprime/foreman/internal/prompts"
	"github.com/legacyprime/foreman/internal/snapshot"
	"github.com/legacyprime/foreman/internal/talents"
	"github.com/legacyprime/foreman/internal/usage"
)

// State is a step of a turn.
type State int

const (
	StateAwaitingModel State = iota
	StateExecutingTools
	StateAwaitingFinal
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateExecutingTools:
		return "executing_tools"
	case StateAwaitingFinal:
		return "awaiting_final"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Message is one conversation entry as the app sends it.
type Message struct {
	Role  string           `json:"role"` // user | assistant
	Text  string           `json:"text"`
	Files []ops.Attachment `json:"files,omitempty"`
}

// Request is one user turn.
type Request struct {
	Messages    []Message
	Snapshot    *snapshot.Snapshot
	PageContext string
}

// Response is the assistant's reply. ActionRequired and ActionData are
// set only when an operation in the turn described a write.
type Response struct {
	Type           string `json:"type"`
	Content        string `json:"content"`
	ActionRequired string `json:"actionRequired,omitempty"`
	ActionData     any    `json:"actionData,omitempty"`

	RequestID string `json:"-"`
}

// ErrNoMessages is returned for a turn without messages.
var ErrNoMessages = errors.New("messages must contain at least one entry")

// ModelError reports a failed model call.
type ModelError struct {
	Model string
	State State
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s failed while %s: %v", e.Model, e.State, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// UsageRecorder persists model-call usage.
type UsageRecorder interface {
	Record(ctx context.Context, rec usage.Record) error
}

// CallRecorder persists executed operations.
type CallRecorder interface {
	Record(ctx context.Context, c audit.Call) error
}

// Config holds the turn settings.
type Config struct {
	Model        string
	Company      string
	Location     *time.Location
	ModelTimeout time.Duration // per model call; zero means none
	ToolTimeout  time.Duration // per operation; zero means none
	Pricing      map[string]config.PricingEntry
	Talents      []talents.Talent

	// Provider names the provider behind a model for the usage ledger.
	Provider func(model string) string
}

// Orchestrator runs turns. It holds no per-turn state and is safe for
// concurrent use.
type Orchestrator struct {
	llm      llm.Client
	executor *ops.Executor
	cfg      Config
	usage    UsageRecorder
	audit    CallRecorder
	bus      *events.Bus
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Orchestrator.
func New(client llm.Client, executor *ops.Executor, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Orchestrator{
		llm:      client,
		executor: executor,
		cfg:      cfg,
		logger:   logger.With("component", "orchestrator"),
		now:      time.Now,
	}
}

// SetUsageRecorder enables the usage ledger.
func (o *Orchestrator) SetUsageRecorder(u UsageRecorder) { o.usage = u }

// SetCallRecorder enables the tool-call ledger.
func (o *Orchestrator) SetCallRecorder(c CallRecorder) { o.audit = c }

// SetEventBus enables operational events.
func (o *Orchestrator) SetEventBus(b *events.Bus) { o.bus = b }

// SetClock replaces the wall clock, for tests and replays.
func (o *Orchestrator) SetClock(now func() time.Time) { o.now = now }

// turn is the state carried between steps.
type turn struct {
	id      string
	state   State
	now     time.Time
	started time.Time
	snap    *snapshot.Snapshot

	history   []llm.Message // system prompt + conversation, images on the newest user message
	latest    int           // index of the newest user message in history
	imageRefs string        // stands in for the images on the final call
	images    []ops.Attachment

	requested []llm.ToolCall
	assistant llm.Message
	results   []llm.Message

	reply  string
	action string
	data   any
	calls  int

	tokensIn, tokensOut int
	cost                float64
}

// Run executes one turn and returns the reply. Model failures are
// returned as *ModelError; operation failures never are.
func (o *Orchestrator) Run(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	t := o.newTurn(req)
	log := o.logger.With("request_id", t.id)
	log.Info("turn started",
		"messages", len(req.Messages),
		"images", len(t.images),
		"page", req.PageContext,
		"model", o.cfg.Model,
	)
	o.bus.Emit(events.SourceOrchestrator, events.KindRequestStart, map[string]any{
		"request_id":  t.id,
		"messages":    len(req.Messages),
		"attachments": len(t.images),
	})

	for t.state != StateDone {
		var err error
		switch t.state {
		case StateAwaitingModel:
			err = o.awaitModel(ctx, t)
		case StateExecutingTools:
			o.executeTools(ctx, t)
		case StateAwaitingFinal:
			err = o.awaitFinal(ctx, t)
		}
		if err != nil {
			log.Error("turn failed", "state", t.state, "error", err)
			o.bus.Emit(events.SourceOrchestrator, events.KindRequestFailed, map[string]any{
				"request_id": t.id,
				"state":      t.state.String(),
				"error":      err.Error(),
			})
			return nil, err
		}
	}

	if t.reply == "" {
		t.reply = prompts.FallbackReply
	}
	elapsed := time.Since(t.started)
	log.Info("turn complete",
		"tool_calls", t.calls,
		"action", t.action,
		"tokens_in", t.tokensIn,
		"tokens_out", t.tokensOut,
		"cost_usd", fmt.Sprintf("%.4f", t.cost),
		"elapsed", elapsed.Round(time.Millisecond),
	)
	o.bus.Emit(events.SourceOrchestrator, events.KindRequestComplete, map[string]any{
		"request_id":       t.id,
		"model":            o.cfg.Model,
		"tool_calls":       t.calls,
		"action":           t.action,
		"total_tokens_in":  t.tokensIn,
		"total_tokens_out": t.tokensOut,
		"total_cost_usd":   t.cost,
		"elapsed_ms":       elapsed.Milliseconds(),
	})

	return &Response{
		Type:           "text",
		Content:        t.reply,
		ActionRequired: t.action,
		ActionData:     t.data,
		RequestID:      t.id,
	}, nil
}

func (o *Orchestrator) newTurn(req *Request) *turn {
	now := o.now().In(o.cfg.Location)
	t := &turn{
		id:      newRequestID(),
		state:   StateAwaitingModel,
		now:     now,
		started: time.Now(),
		snap:    req.Snapshot,
	}

	system := prompts.AssistantSystemPrompt(prompts.SystemContext{
		Company:     o.cfg.Company,
		Now:         now,
		PageContext: req.PageContext,
		Talents:     talents.FilterByTags(o.cfg.Talents, talents.PageTags(req.PageContext)),
	})
	conv := buildHistory(req.Messages)
	t.history = append([]llm.Message{{Role: "system", Content: system}}, conv.messages...)
	t.latest = conv.latest + 1
	t.imageRefs = conv.imageRefs
	t.images = conv.images
	return t
}

// awaitModel is round one: history plus catalog, one blocking call.
func (o *Orchestrator) awaitModel(ctx context.Context, t *turn) error {
	resp, err := o.chat(ctx, t, 1, t.history)
	if err != nil {
		return err
	}
	if len(resp.Message.ToolCalls) == 0 {
		t.reply = resp.Message.Content
		t.state = StateDone
		return nil
	}
	t.requested = resp.Message.ToolCalls
	t.assistant = llm.Message{
		Role:      "assistant",
		Content:   resp.Message.Content,
		ToolCalls: resp.Message.ToolCalls,
	}
	t.state = StateExecutingTools
	return nil
}

// executeTools runs the requested operations one at a time. Failures
// become tool results; nothing here ends the turn.
func (o *Orchestrator) executeTools(ctx context.Context, t *turn) {
	req := &ops.Request{Snapshot: t.snap, Now: t.now, Attachments: t.images}
	for i, tc := range t.requested {
		if tc.ID == "" {
			tc.ID = fmt.Sprintf("call_%d", i+1)
			t.requested[i] = tc
		}
		result := o.runTool(ctx, t, req, tc)
		t.results = append(t.results, llm.Message{
			Role:       "tool",
			Content:    result,
			ToolCallID: tc.ID,
		})
	}
	t.assistant.ToolCalls = t.requested
	t.state = StateAwaitingFinal
}

// awaitFinal is round two. The catalog is sent again because providers
// reject tool results without tool definitions, but any calls the model
// asks for now are dropped.
func (o *Orchestrator) awaitFinal(ctx context.Context, t *turn) error {
	msgs := finalHistory(t.history, t.latest, t.imageRefs)
	msgs = append(msgs, t.assistant)
	msgs = append(msgs, t.results...)

	resp, err := o.chat(ctx, t, 2, msgs)
	if err != nil {
		return err
	}
	if n := len(resp.Message.ToolCalls); n > 0 {
		names := make([]string, n)
		for i, tc := range resp.Message.ToolCalls {
			names[i] = tc.Function.Name
		}
		o.logger.Warn("ignoring tool calls on final round",
			"request_id", t.id,
			"tools", names,
		)
	}
	t.reply = resp.Message.Content
	t.state = StateDone
	return nil
}

// chat makes one model call under the model deadline and books its
// usage.
func (o *Orchestrator) chat(ctx context.Context, t *turn, round int, msgs []llm.Message) (*llm.ChatResponse, error) {
	callCtx, cancel := withTimeout(ctx, o.cfg.ModelTimeout)
	defer cancel()

	o.bus.Emit(events.SourceOrchestrator, events.KindLLMCall, map[string]any{
		"request_id": t.id,
		"round":      round,
		"model":      o.cfg.Model,
	})
	o.logger.Log(ctx, llm.LevelTrace, "model request",
		"request_id", t.id,
		"round", round,
		"messages", msgs,
	)

	start := time.Now()
	resp, err := o.llm.Chat(callCtx, o.cfg.Model, msgs, catalog.ToolSpecs())
	if err != nil {
		return nil, &ModelError{Model: o.cfg.Model, State: t.state, Err: err}
	}

	cost := usage.ComputeCost(o.cfg.Model, resp.InputTokens, resp.OutputTokens, o.cfg.Pricing)
	t.tokensIn += resp.InputTokens
	t.tokensOut += resp.OutputTokens
	t.cost += cost

	o.logger.Debug("model response",
		"request_id", t.id,
		"round", round,
		"model", resp.Model,
		"tokens_in", resp.InputTokens,
		"tokens_out", resp.OutputTokens,
		"tool_calls", len(resp.Message.ToolCalls),
		"stop", resp.StopReason,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	o.bus.Emit(events.SourceOrchestrator, events.KindLLMResponse, map[string]any{
		"request_id": t.id,
		"round":      round,
		"model":      resp.Model,
		"tokens_in":  resp.InputTokens,
		"tokens_out": resp.OutputTokens,
		"cost_usd":   cost,
		"tool_calls": len(resp.Message.ToolCalls),
	})

	if o.usage != nil {
		rec := usage.Record{
			RequestID:    t.id,
			Model:        o.cfg.Model,
			Purpose:      usage.PurposeAssistant,
			Round:        round,
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
			CostUSD:      cost,
		}
		if o.cfg.Provider != nil {
			rec.Provider = o.cfg.Provider(o.cfg.Model)
		}
		if err := o.usage.Record(ctx, rec); err != nil {
			o.logger.Warn("failed to record usage", "request_id", t.id, "error", err)
		}
	}
	return resp, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// newRequestID returns a short random ID such as "r_1a2b3c4d".
func newRequestID() string {
	id := uuid.New()
	return fmt.Sprintf("r_%x", id[:4])
}
