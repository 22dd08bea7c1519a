package vision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/legacyprime/foreman/internal/llm"
)

type stubClient struct {
	content string
	err     error
	got     []llm.Message
	model   string
}

func (s *stubClient) Chat(_ context.Context, model string, msgs []llm.Message, _ []map[string]any, _ ...llm.Option) (*llm.ChatResponse, error) {
	s.model = model
	s.got = msgs
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatResponse{Message: llm.Message{Role: "assistant", Content: s.content}}, nil
}

func (s *stubClient) Ping(context.Context) error { return nil }

var testImage = llm.Image{MIMEType: "image/jpeg", URL: "data:image/jpeg;base64,AAAA"}

func TestAnalyzeReceipt(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   error
		wantStore string
		wantCat   string
	}{
		{
			name:      "plain json",
			content:   `{"store":"Home Depot","amount":86.12,"date":"2025-03-10","category":"plumbing","items":"PVC","confidence":90}`,
			wantStore: "Home Depot",
			wantCat:   "PLUMBING",
		},
		{
			name:      "fenced json",
			content:   "```json\n{\"store\":\"Lowe's\",\"amount\":12.5,\"category\":\"DRYWALL\"}\n```",
			wantStore: "Lowe's",
			wantCat:   "DRYWALL",
		},
		{
			name:    "not a receipt",
			content: `{"store":"","amount":0,"confidence":10}`,
			wantErr: ErrNotReceipt,
		},
		{
			name:    "garbage",
			content: "That is a picture of a dog.",
			wantErr: ErrNotReceipt,
		},
		{
			name:      "amount only still counts",
			content:   `{"store":"","amount":40}`,
			wantStore: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubClient{content: tt.content}
			a := NewAnalyzer(stub, "gpt-4o", nil)
			r, err := a.AnalyzeReceipt(context.Background(), testImage)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AnalyzeReceipt: %v", err)
			}
			if r.Store != tt.wantStore {
				t.Errorf("Store = %q, want %q", r.Store, tt.wantStore)
			}
			if tt.wantCat != "" && r.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", r.Category, tt.wantCat)
			}
			if len(stub.got) != 1 || len(stub.got[0].Images) != 1 {
				t.Errorf("image not sent: %+v", stub.got)
			}
			if stub.model != "gpt-4o" {
				t.Errorf("model = %q", stub.model)
			}
		})
	}
}

func TestAnalyzeReceiptProviderError(t *testing.T) {
	a := NewAnalyzer(&stubClient{err: errors.New("boom")}, "m", nil)
	_, err := a.AnalyzeReceipt(context.Background(), testImage)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v", err)
	}
}

func TestTakeoff(t *testing.T) {
	t.Run("items", func(t *testing.T) {
		stub := &stubClient{content: "```\n[" +
			`{"name":"2x4x8 Lumber","category":"Framing","quantity":120,"unit":"EA","unitPrice":4.25},` +
			`{"name":"","quantity":3},` +
			`{"name":"Drywall 1/2\"","category":"Drywall","quantity":40,"unit":"EA","unitPrice":14}` +
			"]\n```"}
		a := NewAnalyzer(stub, "gpt-4o", nil)
		items, err := a.Takeoff(context.Background(), testImage, "floor plan", []string{"Framing"})
		if err != nil {
			t.Fatalf("Takeoff: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("got %d items, want 2", len(items))
		}
		if items[0].Total() != 510 {
			t.Errorf("Total = %v, want 510", items[0].Total())
		}
		if !strings.Contains(stub.got[0].Content, "Focus on these categories: Framing") {
			t.Error("categories not passed to prompt")
		}
	})

	t.Run("refusal", func(t *testing.T) {
		a := NewAnalyzer(&stubClient{content: "I'm unable to analyze this document."}, "m", nil)
		if _, err := a.Takeoff(context.Background(), testImage, "", nil); !errors.Is(err, ErrUnreadable) {
			t.Errorf("err = %v, want ErrUnreadable", err)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		a := NewAnalyzer(&stubClient{content: "[]"}, "m", nil)
		if _, err := a.Takeoff(context.Background(), testImage, "", nil); !errors.Is(err, ErrUnreadable) {
			t.Errorf("err = %v, want ErrUnreadable", err)
		}
	})
}

func TestStripFences(t *testing.T) {
	tests := []struct{ in, want string }{
		{"{}", "{}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n[1]\n```", "[1]"},
		{"  [2]  ", "[2]"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
