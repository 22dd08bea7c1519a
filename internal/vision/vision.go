// Package vision reads receipts and construction documents through a
// vision-capable model.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/legacyprime/foreman/internal/llm"
	"github.com/legacyprime/foreman/internal/prompts"
)

// ErrNotReceipt means the image did not yield a store or a positive
// total.
var ErrNotReceipt = errors.New("the image does not look like a receipt")

// ErrUnreadable means the model said it could not read the document.
var ErrUnreadable = errors.New("the document could not be read; try a clearer image or a text-based PDF")

// Receipt is what was read off a receipt image.
type Receipt struct {
	Store      string  `json:"store"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Category   string  `json:"category"`
	Items      string  `json:"items"`
	Confidence int     `json:"confidence"`
}

// LineItem is one row of a material takeoff.
type LineItem struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unitPrice"`
	Notes     string  `json:"notes,omitempty"`
}

// Total is quantity times unit price, rounded to cents.
func (li LineItem) Total() float64 {
	return math.Round(li.Quantity*li.UnitPrice*100) / 100
}

const (
	receiptTemperature = 0.2
	receiptMaxTokens   = 1000
	takeoffTemperature = 0.3
	takeoffMaxTokens   = 4096
)

// Analyzer sends images to the configured vision model.
type Analyzer struct {
	client llm.Client
	model  string
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer that uses model through client.
func NewAnalyzer(client llm.Client, model string, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, model: model, logger: logger.With("component", "vision")}
}

// AnalyzeReceipt reads a receipt image. It returns ErrNotReceipt
// rather than inventing a record when neither a store nor a positive
// amount could be found.
func (a *Analyzer) AnalyzeReceipt(ctx context.Context, img llm.Image) (*Receipt, error) {
	content, err := a.ask(ctx, prompts.ReceiptPrompt(), img, receiptTemperature, receiptMaxTokens)
	if err != nil {
		return nil, err
	}

	var r Receipt
	if err := json.Unmarshal([]byte(stripFences(content)), &r); err != nil {
		a.logger.Warn("receipt response not JSON", "error", err, "content", truncate(content, 200))
		return nil, ErrNotReceipt
	}
	r.Store = strings.TrimSpace(r.Store)
	if r.Store == "" && r.Amount <= 0 {
		return nil, ErrNotReceipt
	}
	r.Category = canonicalCategory(r.Category)

	a.logger.Debug("receipt analyzed", "store", r.Store, "amount", r.Amount, "confidence", r.Confidence)
	return &r, nil
}

// Takeoff reads a plan or construction document and returns the
// material line items found on it. categories steer the model toward
// the company's price list.
func (a *Analyzer) Takeoff(ctx context.Context, img llm.Image, document string, categories []string) ([]LineItem, error) {
	content, err := a.ask(ctx, prompts.TakeoffPrompt(document, categories), img, takeoffTemperature, takeoffMaxTokens)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(content)
	for _, refusal := range []string{"unable to analyze", "cannot analyze", "can't analyze"} {
		if strings.Contains(lower, refusal) {
			return nil, ErrUnreadable
		}
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(stripFences(content)), &items); err != nil {
		return nil, fmt.Errorf("parse takeoff response: %w", err)
	}

	kept := items[:0]
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" || it.Quantity <= 0 {
			continue
		}
		kept = append(kept, it)
	}
	if len(kept) == 0 {
		return nil, ErrUnreadable
	}

	a.logger.Debug("takeoff analyzed", "items", len(kept))
	return kept, nil
}

func (a *Analyzer) ask(ctx context.Context, prompt string, img llm.Image, temp float64, maxTokens int) (string, error) {
	msgs := []llm.Message{{Role: "user", Content: prompt, Images: []llm.Image{img}}}
	resp, err := a.client.Chat(ctx, a.model, msgs, nil, llm.WithTemperature(temp), llm.WithMaxTokens(maxTokens))
	if err != nil {
		return "", fmt.Errorf("vision model: %w", err)
	}
	content := strings.TrimSpace(resp.Message.Content)
	if content == "" {
		return "", fmt.Errorf("vision model: empty response")
	}
	return content, nil
}

// stripFences removes a surrounding markdown code fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func canonicalCategory(c string) string {
	c = strings.TrimSpace(c)
	for _, known := range prompts.ReceiptCategories {
		if strings.EqualFold(c, known) {
			return known
		}
	}
	return c
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
