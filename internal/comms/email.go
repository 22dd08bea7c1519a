// Package comms builds the payloads for outbound messages: email
// drafts, text messages and contact cards. Nothing here sends
// anything; delivery belongs to whoever applies the action.
package comms

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/yuin/goldmark"
)

// Draft is an email to be composed. Body is markdown.
type Draft struct {
	From    string // optional; the sending account fills it in when empty
	To      []string
	Subject string
	Body    string
}

// ComposeEmail renders a draft as an RFC 5322 message with
// text/plain and text/html alternatives.
func ComposeEmail(d Draft, now time.Time) ([]byte, error) {
	if len(d.To) == 0 {
		return nil, fmt.Errorf("compose email: no recipients")
	}

	var h mail.Header
	h.SetDate(now)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generate message-id: %w", err)
	}
	h.SetSubject(d.Subject)

	if d.From != "" {
		from, err := mail.ParseAddress(d.From)
		if err != nil {
			return nil, fmt.Errorf("parse from address %q: %w", d.From, err)
		}
		h.SetAddressList("From", []*mail.Address{from})
	}

	to := make([]*mail.Address, 0, len(d.To))
	for _, a := range d.To {
		parsed, err := mail.ParseAddress(a)
		if err != nil {
			return nil, fmt.Errorf("parse address %q: %w", a, err)
		}
		to = append(to, parsed)
	}
	h.SetAddressList("To", to)

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create mail writer: %w", err)
	}
	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline writer: %w", err)
	}

	text, html, err := RenderBody(d.Body)
	if err != nil {
		return nil, err
	}
	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", text},
		{"text/html; charset=utf-8", html},
	}
	for _, p := range parts {
		var ih mail.InlineHeader
		ih.Set("Content-Type", p.contentType)
		pw, err := tw.CreatePart(ih)
		if err != nil {
			return nil, fmt.Errorf("create %s part: %w", p.contentType, err)
		}
		if _, err := io.WriteString(pw, p.body); err != nil {
			return nil, fmt.Errorf("write %s part: %w", p.contentType, err)
		}
		if err := pw.Close(); err != nil {
			return nil, fmt.Errorf("close %s part: %w", p.contentType, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close inline writer: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close mail writer: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBody renders a markdown body as the plain-text and HTML
// alternatives of an email.
func RenderBody(md string) (text, html string, err error) {
	html, err = markdownToHTML(md)
	if err != nil {
		return "", "", fmt.Errorf("render markdown to HTML: %w", err)
	}
	return MarkdownToPlain(md), html, nil
}

// ValidAddress reports whether s parses as a single email address.
func ValidAddress(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

func markdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; font-size: 14px; line-height: 1.5;">
%s
</body></html>`, buf.String()), nil
}

var (
	mdBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdItalic     = regexp.MustCompile(`\*(.+?)\*`)
	mdLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdInlineCode = regexp.MustCompile("`([^`]+)`")
)

// MarkdownToPlain strips markdown emphasis, links and headings. It is
// also used for text messages, which have no formatting.
func MarkdownToPlain(md string) string {
	s := mdLink.ReplaceAllString(md, "$1 ($2)")
	s = mdBold.ReplaceAllString(s, "$1")
	s = mdItalic.ReplaceAllString(s, "$1")
	s = mdInlineCode.ReplaceAllString(s, "$1")
	s = mdHeading.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
