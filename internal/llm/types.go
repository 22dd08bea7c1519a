package llm

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
)

// LevelTrace is below Debug, used for wire-level payload logging.
const LevelTrace = slog.Level(-8)

// Message represents a chat message for the model.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Images     []Image    `json:"images,omitempty"` // user messages only
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // For tool responses
}

// Image is a visual attachment. URL is either an http(s) URL or a
// data: URI carrying the base64 payload.
type Image struct {
	MIMEType string `json:"mime_type"`
	URL      string `json:"url"`
}

// DataURI splits a data: URI into its media type and base64 payload.
// ok is false for any other URL form.
func (i Image) DataURI() (mediaType, data string, ok bool) {
	rest, found := strings.CutPrefix(i.URL, "data:")
	if !found {
		return "", "", false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", "", false
	}
	if mediaType == "" {
		mediaType = i.MIMEType
	}
	return mediaType, payload, true
}

// ImageFromBytes builds a data: URI image from raw bytes.
func ImageFromBytes(mimeType string, b []byte) Image {
	return Image{
		MIMEType: mimeType,
		URL:      fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(b)),
	}
}

// ToolCall represents a tool call from the model.
type ToolCall struct {
	ID       string       `json:"id,omitempty"` // Provider-assigned ID used to correlate the result
	Function FunctionCall `json:"function"`
}

// FunctionCall is the named operation and its decoded arguments.
// Arguments that were not valid JSON are preserved under "_raw".
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ChatResponse is the unified response from any provider. Wire format
// conversion happens at provider boundaries (openai.go, anthropic.go).
type ChatResponse struct {
	Model   string
	Message Message

	// Token usage (provider-neutral)
	InputTokens  int
	OutputTokens int

	// StopReason is the provider's finish reason, normalized to
	// "stop", "tool_calls" or "length" where possible.
	StopReason string
}
