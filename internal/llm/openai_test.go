package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIClientImplementsInterface(t *testing.T) {
	var _ Client = (*OpenAIClient)(nil)
}

func TestDecodeArguments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{"empty", "", map[string]any{}},
		{"object", `{"clientName":"Sarah"}`, map[string]any{"clientName": "Sarah"}},
		{"malformed", `{"clientName":`, map[string]any{"_raw": `{"clientName":`}},
		{"null", `null`, map[string]any{"_raw": "null"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeArguments(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("decodeArguments(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("[%s] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestConvertToolsToOpenAI(t *testing.T) {
	tools := []map[string]any{
		{"type": "function", "function": map[string]any{
			"name":        "clock_in",
			"description": "Clock an employee in",
			"parameters":  map[string]any{"type": "object"},
		}},
		{"type": "function"},
	}
	got := convertToolsToOpenAI(tools)
	if len(got) != 1 {
		t.Fatalf("tools = %d, want 1", len(got))
	}
	if got[0].Function.Name != "clock_in" {
		t.Errorf("name = %q", got[0].Function.Name)
	}
}

func TestOpenAIChat_ToolCalls(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1760000000,
			"model": "gpt-4o-2024-08-06",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": null,
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "query_clients", "arguments": "{\"clientName\":\"Sarah\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 812, "completion_tokens": 19, "total_tokens": 831}
		}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL+"/", Defaults{Temperature: 0.7, MaxTokens: 2000}, nil)
	tools := []map[string]any{{"type": "function", "function": map[string]any{
		"name": "query_clients", "description": "Search clients",
		"parameters": map[string]any{"type": "object", "properties": map[string]any{}},
	}}}

	resp, err := c.Chat(context.Background(), "gpt-4o", []Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "find sarah", Images: []Image{{MIMEType: "image/png", URL: "https://x/y.png"}}},
	}, tools)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if len(resp.Message.ToolCalls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(resp.Message.ToolCalls))
	}
	tc := resp.Message.ToolCalls[0]
	if tc.ID != "call_1" || tc.Function.Name != "query_clients" || tc.Function.Arguments["clientName"] != "Sarah" {
		t.Errorf("tool call = %+v", tc)
	}
	if resp.InputTokens != 812 || resp.OutputTokens != 19 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if resp.StopReason != "tool_calls" {
		t.Errorf("StopReason = %q", resp.StopReason)
	}

	if body["model"] != "gpt-4o" {
		t.Errorf("model sent = %v", body["model"])
	}
	if _, ok := body["tools"]; !ok {
		t.Error("tools missing from request")
	}
}

func TestOpenAIChat_ErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL+"/", Defaults{}, nil)
	if _, err := c.Chat(context.Background(), "gpt-4o", []Message{{Role: "user", Content: "hi"}}, nil); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", calls)
	}
}
