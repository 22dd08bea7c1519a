package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/legacyprime/foreman/internal/audit"
	"github.com/legacyprime/foreman/internal/connwatch"
	"github.com/legacyprime/foreman/internal/events"
	"github.com/legacyprime/foreman/internal/orchestrator"
	"github.com/legacyprime/foreman/internal/usage"
)

type fakeAssistant struct {
	resp *orchestrator.Response
	err  error
	got  *orchestrator.Request
}

func (f *fakeAssistant) Run(_ context.Context, req *orchestrator.Request) (*orchestrator.Response, error) {
	f.got = req
	return f.resp, f.err
}

type fakeUsage struct{}

func (fakeUsage) Summary(context.Context, time.Time, time.Time) (*usage.Summary, error) {
	return &usage.Summary{Calls: 4, Requests: 2, InputTokens: 1200, OutputTokens: 300, CostUSD: 0.02}, nil
}

func (fakeUsage) SummaryByModel(context.Context, time.Time, time.Time) (map[string]*usage.Summary, error) {
	return map[string]*usage.Summary{"gpt-4o": {Calls: 4}}, nil
}

type fakeCalls struct{ limit int }

func (f *fakeCalls) Recent(_ context.Context, limit int) ([]audit.Call, error) {
	f.limit = limit
	return []audit.Call{{ID: "1", RequestID: "r_1", Operation: "clock_in", OK: true}}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(a Assistant) *Server {
	return NewServer("127.0.0.1", 0, 1024, a, quietLogger())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAssistantRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErr    string
	}{
		{"not json", `{"messages": [`, http.StatusBadRequest, "invalid request body"},
		{"missing messages", `{"appData": {}}`, http.StatusBadRequest, "must be an array"},
		{"messages not array", `{"messages": {"role": "user"}}`, http.StatusBadRequest, "must be an array"},
		{"messages null", `{"messages": null}`, http.StatusBadRequest, "must be an array"},
		{"empty messages", `{"messages": []}`, http.StatusBadRequest, "at least one"},
		{"malformed message", `{"messages": [{"role": 7}]}`, http.StatusBadRequest, "malformed"},
		{"malformed appData", `{"messages": [{"role":"user","text":"hi"}], "appData": {"clients": 3}}`, http.StatusBadRequest, "appData"},
		{"too large", `{"messages": [{"role":"user","text":"` + strings.Repeat("x", 2048) + `"}]}`, http.StatusRequestEntityTooLarge, "exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeAssistant{resp: &orchestrator.Response{Type: "text", Content: "unused"}}
			rec := do(t, newTestServer(a).Handler(), http.MethodPost, "/v1/assistant", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if !strings.Contains(body["error"], tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", body["error"], tt.wantErr)
			}
			if a.got != nil {
				t.Error("assistant ran for a rejected request")
			}
		})
	}
}

func TestAssistantReply(t *testing.T) {
	a := &fakeAssistant{resp: &orchestrator.Response{
		Type:           "text",
		Content:        "I'm adding Sarah Lee to your CRM.",
		ActionRequired: "add_client",
		ActionData:     map[string]any{"name": "Sarah Lee"},
		RequestID:      "r_abcd1234",
	}}
	body := `{
		"messages": [{"role": "user", "text": "add Sarah Lee", "files": [{"name": "card.jpg", "mimeType": "image/jpeg", "uri": "data:image/jpeg;base64,AA"}]}],
		"appData": {"clients": [{"id": "c1", "name": "Sarah Johnson"}]},
		"pageContext": "Clients"
	}`
	rec := do(t, newTestServer(a).Handler(), http.MethodPost, "/v1/assistant", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "r_abcd1234" {
		t.Errorf("X-Request-ID = %q", got)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["type"] != "text" || resp["actionRequired"] != "add_client" {
		t.Errorf("response = %v", resp)
	}
	if _, ok := resp["RequestID"]; ok {
		t.Error("request ID leaked into the body")
	}

	if a.got == nil {
		t.Fatal("assistant did not run")
	}
	if len(a.got.Messages) != 1 || len(a.got.Messages[0].Files) != 1 || a.got.Messages[0].Files[0].MIMEType != "image/jpeg" {
		t.Errorf("messages = %+v", a.got.Messages)
	}
	if len(a.got.Snapshot.Clients()) != 1 || a.got.PageContext != "Clients" {
		t.Errorf("snapshot or page context not passed through")
	}
}

func TestAssistantReadsOmitAction(t *testing.T) {
	a := &fakeAssistant{resp: &orchestrator.Response{Type: "text", Content: "You have 2 active projects."}}
	rec := do(t, newTestServer(a).Handler(), http.MethodPost, "/v1/assistant", `{"messages":[{"role":"user","text":"projects?"}]}`)

	if strings.Contains(rec.Body.String(), "actionRequired") || strings.Contains(rec.Body.String(), "actionData") {
		t.Errorf("body = %s, want no action fields", rec.Body)
	}
}

func TestAssistantFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"model failure", &orchestrator.ModelError{Model: "gpt-4o", Err: errors.New("503")}, http.StatusBadGateway},
		{"no messages", orchestrator.ErrNoMessages, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeAssistant{err: tt.err}
			rec := do(t, newTestServer(a).Handler(), http.MethodPost, "/v1/assistant", `{"messages":[{"role":"user","text":"hi"}]}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if strings.Contains(rec.Body.String(), "503") {
				t.Errorf("provider detail leaked: %s", rec.Body)
			}
		})
	}
}

func TestRejectionPublishesEvent(t *testing.T) {
	s := newTestServer(&fakeAssistant{})
	bus := events.New()
	ch := bus.Subscribe(4, events.Filter{})
	defer bus.Unsubscribe(ch)
	s.SetEventBus(bus)

	do(t, s.Handler(), http.MethodPost, "/v1/assistant", `{"messages": []}`)

	select {
	case e := <-ch:
		if e.Source != events.SourceAPI || e.Kind != events.KindRequestRejected || e.Data["status"] != http.StatusBadRequest {
			t.Errorf("event = %+v", e)
		}
	default:
		t.Fatal("no rejection event published")
	}
}

func TestCatalogEndpoint(t *testing.T) {
	rec := do(t, newTestServer(&fakeAssistant{}).Handler(), http.MethodGet, "/v1/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Tools []map[string]any `json:"tools"`
		Count int              `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 66 || len(body.Tools) != 66 {
		t.Errorf("catalog has %d tools (count %d), want 66", len(body.Tools), body.Count)
	}
}

func TestLedgerEndpoints(t *testing.T) {
	s := newTestServer(&fakeAssistant{})
	h := s.Handler()

	if rec := do(t, h, http.MethodGet, "/v1/usage", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("usage without ledger: status = %d, want 503", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/v1/tools/calls", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("tool calls without ledger: status = %d, want 503", rec.Code)
	}

	calls := &fakeCalls{}
	s.SetUsageReporter(fakeUsage{})
	s.SetCallLister(calls)

	rec := do(t, h, http.MethodGet, "/v1/usage?hours=48", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("usage status = %d", rec.Code)
	}
	var u struct {
		Hours   int                       `json:"hours"`
		Total   usage.Summary             `json:"total"`
		ByModel map[string]*usage.Summary `json:"by_model"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&u); err != nil {
		t.Fatalf("decode usage: %v", err)
	}
	if u.Hours != 48 || u.Total.Calls != 4 || u.ByModel["gpt-4o"] == nil {
		t.Errorf("usage = %+v", u)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"?limit=5", 5},
		{"?limit=junk", 50},
		{"?limit=10000", 500},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodGet, "/v1/tools/calls"+tt.query, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("tool calls%s status = %d", tt.query, rec.Code)
		}
		if calls.limit != tt.want {
			t.Errorf("tool calls%s limit = %d, want %d", tt.query, calls.limit, tt.want)
		}
	}
}

func TestEmailCompose(t *testing.T) {
	h := newTestServer(&fakeAssistant{}).Handler()

	rec := do(t, h, http.MethodPost, "/v1/email/compose",
		`{"from":"office@legacyprime.example","to":["sj@example.com"],"subject":"Your estimate","body":"Hi Sarah,\n\n**Total:** $12,000"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "message/rfc822" {
		t.Errorf("Content-Type = %q", ct)
	}
	msg := rec.Body.String()
	for _, want := range []string{"Subject: Your estimate", "sj@example.com", "text/plain", "text/html"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	bad := []string{
		`{"to":[],"subject":"x","body":"y"}`,
		`{"to":["not-an-address"],"subject":"x","body":"y"}`,
		`{"to":["a@example.com"],"subject":"","body":"y"}`,
		`nope`,
	}
	for _, body := range bad {
		if rec := do(t, h, http.MethodPost, "/v1/email/compose", body); rec.Code != http.StatusBadRequest {
			t.Errorf("compose %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHealthAndVersion(t *testing.T) {
	h := newTestServer(&fakeAssistant{}).Handler()
	for _, path := range []string{"/", "/health", "/v1/version"} {
		if rec := do(t, h, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", rec.Code)
	}
}

type fakeHealth []connwatch.Status

func (f fakeHealth) Status() []connwatch.Status { return f }

func TestHealthReportsProviders(t *testing.T) {
	tests := []struct {
		name   string
		health fakeHealth
		want   string
	}{
		{"all ready", fakeHealth{{Provider: "openai", Ready: true}}, "healthy"},
		{"one down", fakeHealth{
			{Provider: "anthropic", Ready: false, LastError: "401"},
			{Provider: "openai", Ready: true},
		}, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeAssistant{})
			s.SetHealthReporter(tt.health)
			rec := do(t, s.Handler(), http.MethodGet, "/health", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var body struct {
				Status    string             `json:"status"`
				Providers []connwatch.Status `json:"providers"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.want {
				t.Errorf("status = %q, want %q", body.Status, tt.want)
			}
			if len(body.Providers) != len(tt.health) {
				t.Errorf("providers = %+v", body.Providers)
			}
		})
	}
}

func TestEventStream(t *testing.T) {
	s := newTestServer(&fakeAssistant{})
	bus := events.New()
	s.SetEventBus(bus)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/events?source=orchestrator"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for bus.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	bus.Emit(events.SourceAPI, events.KindRequestRejected, map[string]any{"status": 400})
	bus.Emit(events.SourceOrchestrator, events.KindToolDone, map[string]any{"tool": "clock_in"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got events.Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Kind != events.KindToolDone || got.Data["tool"] != "clock_in" {
		t.Errorf("event = %+v", got)
	}
}
