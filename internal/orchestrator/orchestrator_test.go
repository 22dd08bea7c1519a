package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/legacyprime/foreman/internal/audit"
	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/events"
	"github.com/legacyprime/foreman/internal/llm"
	"github.com/legacyprime/foreman/internal/ops"
	"github.com/legacyprime/foreman/internal/prompts"
	"github.com/legacyprime/foreman/internal/snapshot"
	"github.com/legacyprime/foreman/internal/talents"
	"github.com/legacyprime/foreman/internal/usage"
)

type mockCall struct {
	Model    string
	Messages []llm.Message
	Tools    []map[string]any
}

// mockLLM replays scripted responses and records every call.
type mockLLM struct {
	mu        sync.Mutex
	responses []*llm.ChatResponse
	errs      []error
	calls     []mockCall
}

func (m *mockLLM) Chat(_ context.Context, model string, msgs []llm.Message, tools []map[string]any, _ ...llm.Option) (*llm.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.calls)
	m.calls = append(m.calls, mockCall{Model: model, Messages: msgs, Tools: tools})
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.responses) {
		return nil, errors.New("mockLLM: no more scripted responses")
	}
	return m.responses[i], nil
}

func (m *mockLLM) Ping(context.Context) error { return nil }

func text(s string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Model:        "test-model",
		Message:      llm.Message{Role: "assistant", Content: s},
		InputTokens:  100,
		OutputTokens: 20,
	}
}

func toolCalls(calls ...llm.ToolCall) *llm.ChatResponse {
	return &llm.ChatResponse{
		Model:        "test-model",
		Message:      llm.Message{Role: "assistant", ToolCalls: calls},
		InputTokens:  200,
		OutputTokens: 30,
	}
}

func call(id, name string, args map[string]any) llm.ToolCall {
	return llm.ToolCall{ID: id, Function: llm.FunctionCall{Name: name, Arguments: args}}
}

type usageSink struct{ recs []usage.Record }

func (u *usageSink) Record(_ context.Context, r usage.Record) error {
	u.recs = append(u.recs, r)
	return nil
}

type auditSink struct{ calls []audit.Call }

func (a *auditSink) Record(_ context.Context, c audit.Call) error {
	a.calls = append(a.calls, c)
	return nil
}

func testSnapshot() *snapshot.Snapshot {
	return snapshot.New(snapshot.Data{
		Company:       snapshot.Company{Name: "Legacy Prime"},
		CurrentUserID: "u1",
		Clients: []snapshot.Client{
			{ID: "c1", Name: "Sarah Johnson", Email: "sj@example.com", Status: snapshot.ClientProject},
			{ID: "c2", Name: "Sarah Lee", Email: "slee@example.com", Status: snapshot.ClientLead},
		},
		Projects: []snapshot.Project{
			{ID: "p1", Name: "Kitchen Remodel", Budget: 45000, Status: snapshot.ProjectActive},
		},
		TeamMembers: []snapshot.TeamMember{
			{ID: "u1", Name: "Mike Torres", Role: "admin", IsActive: true},
		},
	})
}

func newTestOrchestrator(m *mockLLM) *Orchestrator {
	o := New(m, ops.NewExecutor(nil, nil), Config{
		Model:        "test-model",
		Company:      "Legacy Prime",
		Location:     time.UTC,
		ModelTimeout: 5 * time.Second,
		ToolTimeout:  time.Second,
		Provider:     func(string) string { return "openai" },
		Talents: []talents.Talent{
			{Name: "tone", Content: "Always sign off with the crew motto."},
			{Name: "projects", Tags: []string{"project"}, Content: "Mention the remaining budget."},
		},
	}, nil)
	o.SetClock(func() time.Time { return time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC) })
	return o
}

func userTurn(text string) *Request {
	return &Request{
		Messages: []Message{{Role: "user", Text: text}},
		Snapshot: testSnapshot(),
	}
}

var expenseArgs = map[string]any{
	"projectName": "Kitchen",
	"amount":      212.4,
	"store":       "Home Depot",
	"type":        "Material",
}

func TestNoToolCallsSkipsToDone(t *testing.T) {
	m := &mockLLM{responses: []*llm.ChatResponse{text("Hi! How can I help?")}}
	o := newTestOrchestrator(m)

	resp, err := o.Run(context.Background(), userTurn("hello"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(m.calls) != 1 {
		t.Fatalf("model calls = %d, want 1", len(m.calls))
	}
	if resp.Type != "text" || resp.Content != "Hi! How can I help?" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.ActionRequired != "" || resp.ActionData != nil {
		t.Errorf("unexpected action %q %v", resp.ActionRequired, resp.ActionData)
	}
	if !strings.HasPrefix(resp.RequestID, "r_") {
		t.Errorf("RequestID = %q, want r_ prefix", resp.RequestID)
	}
}

func TestWriteProducesAction(t *testing.T) {
	m := &mockLLM{responses: []*llm.ChatResponse{
		toolCalls(call("call-1", "add_expense", expenseArgs)),
		text("I'm adding the $212.40 Home Depot expense to Kitchen Remodel."),
	}}
	o := newTestOrchestrator(m)

	resp, err := o.Run(context.Background(), userTurn("add 212.40 at home depot for the kitchen"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(m.calls) != 2 {
		t.Fatalf("model calls = %d, want 2", len(m.calls))
	}
	if resp.ActionRequired != "add_expense" {
		t.Fatalf("ActionRequired = %q, want add_expense", resp.ActionRequired)
	}
	data, ok := resp.ActionData.(ops.ExpenseData)
	if !ok {
		t.Fatalf("ActionData = %T, want ops.ExpenseData", resp.ActionData)
	}
	if data.ProjectID != "p1" || data.Amount != 212.4 || data.Date != "2026-10-18" {
		t.Errorf("ActionData = %+v", data)
	}

	// The final call sees the assistant's tool call and its result.
	final := m.calls[1].Messages
	last := final[len(final)-1]
	if last.Role != "tool" || last.ToolCallID != "call-1" {
		t.Fatalf("last message = %+v, want tool result for call-1", last)
	}
	if !strings.Contains(last.Content, "pending_confirmation") {
		t.Errorf("tool result = %s", last.Content)
	}
	prev := final[len(final)-2]
	if prev.Role != "assistant" || len(prev.ToolCalls) != 1 {
		t.Errorf("assistant message = %+v", prev)
	}
}

func TestCatalogSentOnBothRounds(t *testing.T) {
	m := &mockLLM{responses: []*llm.ChatResponse{
		toolCalls(call("call-1", "query_projects", map[string]any{})),
		text("You have one active project."),
	}}
	o := newTestOrchestrator(m)

	if _, err := o.Run(context.Background(), userTurn("what projects do we have")); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := len(catalog.Names())
	for i, c := range m.calls {
		if len(c.Tools) != want {
			t.Errorf("call %d sent %d tools, want %d", i, len(c.Tools), want)
		}
		if c.Model != "test-model" {
			t.Errorf("call %d model = %q", i, c.Model)
		}
	}
}

func TestOneWritePerTurn(t *testing.T) {
	second := map[string]any{"projectName": "Kitchen", "amount": 50.0, "store": "Lowe's", "type": "Material"}
	m := &mockLLM{responses: []*llm.ChatResponse{
		toolCalls(
			call("call-1", "add_expense", expenseArgs),
			call("call-2", "add_expense", second),
		),
		text("I'm adding the Home Depot expense. Want me to add the Lowe's one next?"),
	}}
	o := newTestOrchestrator(m)
	calls := &auditSink{}
	o.SetCallRecorder(calls)

	resp, err := o.Run(context.Background(), userTurn("add both receipts"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	data, ok := resp.ActionData.(ops.ExpenseData)
	if !ok || data.Store != "Home Depot" {
		t.Fatalf("ActionData = %+v, want the first expense", resp.ActionData)
	}

	final := m.calls[1].Messages
	refused := final[len(final)-1]
	if refused.ToolCallID != "call-2" || !strings.Contains(refused.Content, ruleOneWrite) {
		t.Errorf("second result = %s, want refusal", refused.Content)
	}
	if len(calls.calls) != 2 || !calls.calls[0].OK || calls.calls[1].OK {
		t.Errorf("audited calls = %+v, want first ok and second refused", calls.calls)
	}
	if calls.calls[1].ActionRequired != "" {
		t.Errorf("refused call recorded action %q", calls.calls[1].ActionRequired)
	}
}

func TestAmbiguityRelayedToModel(t *testing.T) {
	m := &mockLLM{responses: []*llm.ChatResponse{
		toolCalls(call("call-1", "set_followup", map[string]any{"clientName": "Sarah", "followUpDate": "tomorrow"})),
		text("I found two clients named Sarah:\n1. Sarah Johnson\n2. Sarah Lee\nWhich one?"),
	}}
	o := newTestOrchestrator(m)

	resp, err := o.Run(context.Background(), userTurn("follow up with Sarah tomorrow"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if resp.ActionRequired != "" {
		t.Errorf("ActionRequired = %q, want none", resp.ActionRequired)
	}
	result := m.calls[1].Messages[len(m.calls[1].Messages)-1].Content
	for _, want := range []string{`"multiple":true`, "Sarah Johnson", "Sarah Lee", `"number":1`, `"number":2`} {
		if !strings.Contains(result, want) {
			t.Errorf("tool result missing %s: %s", want, result)
		}
	}
}

func TestOperationErrorDoesNotEndTurn(t *testing.T) {
	m := &mockLLM{responses: []*llm.ChatResponse{
		toolCalls(call("call-1", "add_expense", map[string]any{"projectName": "Kitchen", "amount": -5.0, "store": "Home Depot", "type": "Material"})),
		text("The amount has to be more than zero. What was the total?"),
	}}
	o := newTestOrchestrator(m)

	resp, err := o.Run(context.Background(), userTurn("add -5 at home depot"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if resp.ActionRequired != "" {
		t.Errorf("ActionRequired = %q, want none", resp.ActionRequired)
	}
	result := m.calls[1].Messages[len(m.calls[1].Messages)-1].Content
	if !strings.Contains(result, `"field":"amount"`) {
		t.Errorf("tool result = %s, want amount validation error", result)
	}
}

func TestFinalRoundToolCallsIgnored(t *testing.T) {
	final := text("Done looking.")
	final.Message.ToolCalls = []llm.ToolCall{call("call-9", "add_expense", expenseArgs)}
	m := &mockLLM{responses: []*llm.ChatResponse{
		toolCalls(call("call-1", "query_projects", map[string]any{})),
		final,
	}}
	o := newTestOrchestrator(m)

	resp, err := o.Run(context.Background(), userTurn("projects?"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(m.calls) != 2 {
		t.Errorf("model calls = %d, want exactly 2", len(m.calls))
	}
	if resp.Content != "Done looking." || resp.ActionRequired != "" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestEmptyReplyFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		responses []*llm.ChatResponse
	}{
		{"first round", []*llm.ChatResponse{text("")}},
		{"final round", []*llm.ChatResponse{toolCalls(call("call-1", "query_projects", map[string]any{})), text("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrchestrator(&mockLLM{responses: tt.responses})
			resp, err := o.Run(context.Background(), userTurn("hi"))
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if resp.Content != prompts.FallbackReply {
				t.Errorf("Content = %q, want fallback", resp.Content)
			}
		})
	}
}

func TestModelFailure(t *testing.T) {
	boom := errors.New("upstream 503")
	tests := []struct {
		name      string
		m         *mockLLM
		wantState State
	}{
		{"first round", &mockLLM{errs: []error{boom}}, StateAwaitingModel},
		{"final round", &mockLLM{
			responses: []*llm.ChatResponse{toolCalls(call("call-1", "add_expense", expenseArgs))},
			errs:      []error{nil, boom},
		}, StateAwaitingFinal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newTestOrchestrator(tt.m).Run(context.Background(), userTurn("add it"))
			if resp != nil {
				t.Errorf("resp = %+v, want nil on failure", resp)
			}
			var me *ModelError
			if !errors.As(err, &me) {
				t.Fatalf("err = %v, want *ModelError", err)
			}
			if me.State != tt.wantState || !errors.Is(err, boom) {
				t.Errorf("ModelError = %+v, want state %s wrapping %v", me, tt.wantState, boom)
			}
		})
	}
}

func TestNoMessages(t *testing.T) {
	m := &mockLLM{}
	_, err := newTestOrchestrator(m).Run(context.Background(), &Request{})
	if !errors.Is(err, ErrNoMessages) {
		t.Errorf("err = %v, want ErrNoMessages", err)
	}
	if len(m.calls) != 0 {
		t.Errorf("model called %d times for an empty turn", len(m.calls))
	}
}

func TestImagesOnlyOnFirstRound(t *testing.T) {
	m := &mockLLM{responses: []*llm.ChatResponse{
		toolCalls(call("call-1", "query_projects", map[string]any{})),
		text("That's a receipt from Home Depot."),
	}}
	o := newTestOrchestrator(m)

	req := &Request{
		Snapshot: testSnapshot(),
		Messages: []Message{
			{Role: "user", Text: "here's an old photo", Files: []ops.Attachment{
				{Name: "old.jpg", MIMEType: "image/jpeg", URI: "data:image/jpeg;base64,AAAA"},
			}},
			{Role: "assistant", Text: "Got it."},
			{Role: "user", Text: "what is this?", Files: []ops.Attachment{
				{Name: "receipt.png", MIMEType: "image/png", URI: "data:image/png;base64,iVBO"},
				{Name: "plans.pdf", MIMEType: "application/pdf", URI: "https://files.example/plans.pdf"},
			}},
		},
	}
	if _, err := o.Run(context.Background(), req); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	first := m.calls[0].Messages
	if first[0].Role != "system" {
		t.Fatalf("first message role = %q, want system", first[0].Role)
	}
	older, newest := first[1], first[3]
	if len(older.Images) != 0 || !strings.Contains(older.Content, "[Attached file: old.jpg (image/jpeg)]") {
		t.Errorf("older message = %+v, want only a reference", older)
	}
	if len(newest.Images) != 1 || newest.Images[0].MIMEType != "image/png" {
		t.Errorf("newest images = %+v, want the png", newest.Images)
	}
	if !strings.Contains(newest.Content, "[Attached file: plans.pdf (application/pdf)]") {
		t.Errorf("newest content = %q, want pdf reference", newest.Content)
	}

	final := m.calls[1].Messages[3]
	if len(final.Images) != 0 {
		t.Errorf("final round still carries %d images", len(final.Images))
	}
	if !strings.Contains(final.Content, "[Attached file: receipt.png (image/png)]") {
		t.Errorf("final content = %q, want image reference", final.Content)
	}
	if len(m.calls[0].Messages[3].Images) != 1 {
		t.Error("final history mutated the first round's message")
	}
}

func TestSystemPromptContext(t *testing.T) {
	tests := []struct {
		page       string
		want       []string
		wantAbsent []string
	}{
		{
			page: "Project: Kitchen Remodel",
			want: []string{"Legacy Prime", "Sunday, October 18, 2026", "Project: Kitchen Remodel", "crew motto", "remaining budget"},
		},
		{
			page:       "",
			want:       []string{"crew motto"},
			wantAbsent: []string{"remaining budget", "Current Screen"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			m := &mockLLM{responses: []*llm.ChatResponse{text("ok")}}
			req := userTurn("hi")
			req.PageContext = tt.page
			if _, err := newTestOrchestrator(m).Run(context.Background(), req); err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			system := m.calls[0].Messages[0].Content
			for _, w := range tt.want {
				if !strings.Contains(system, w) {
					t.Errorf("system prompt missing %q", w)
				}
			}
			for _, w := range tt.wantAbsent {
				if strings.Contains(system, w) {
					t.Errorf("system prompt should not contain %q", w)
				}
			}
		})
	}
}

func TestUsageAndEvents(t *testing.T) {
	m := &mockLLM{responses: []*llm.ChatResponse{
		toolCalls(call("call-1", "query_projects", map[string]any{})),
		text("One project."),
	}}
	o := newTestOrchestrator(m)
	sink := &usageSink{}
	o.SetUsageRecorder(sink)
	bus := events.New()
	ch := bus.Subscribe(64, events.Filter{})
	defer bus.Unsubscribe(ch)
	o.SetEventBus(bus)

	resp, err := o.Run(context.Background(), userTurn("projects?"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(sink.recs) != 2 {
		t.Fatalf("usage records = %d, want 2", len(sink.recs))
	}
	for i, r := range sink.recs {
		if r.Round != i+1 || r.RequestID != resp.RequestID || r.Provider != "openai" || r.Purpose != usage.PurposeAssistant {
			t.Errorf("usage record %d = %+v", i, r)
		}
	}

	var kinds []string
	for len(ch) > 0 {
		kinds = append(kinds, (<-ch).Kind)
	}
	want := []string{
		events.KindRequestStart,
		events.KindLLMCall, events.KindLLMResponse,
		events.KindToolCall, events.KindToolDone,
		events.KindLLMCall, events.KindLLMResponse,
		events.KindRequestComplete,
	}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", kinds, want)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateAwaitingModel:  "awaiting_model",
		StateExecutingTools: "executing_tools",
		StateAwaitingFinal:  "awaiting_final",
		StateDone:           "done",
		State(9):            "state(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
