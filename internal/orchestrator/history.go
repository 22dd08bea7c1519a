package orchestrator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/legacyprime/foreman/internal/llm"
	"github.com/legacyprime/foreman/internal/ops"
)

type conversation struct {
	messages  []llm.Message
	latest    int // index of the newest user message, -1 if none
	imageRefs string
	images    []ops.Attachment
}

// buildHistory converts the app's messages for the model. Only the
// images on the newest user message travel as images; every other file
// becomes a text reference. Empty messages are dropped.
func buildHistory(msgs []Message) conversation {
	newest := -1
	for i, m := range msgs {
		if role(m.Role) == "user" {
			newest = i
		}
	}

	c := conversation{latest: -1}
	for i, m := range msgs {
		content := strings.TrimSpace(m.Text)
		var (
			images []llm.Image
			refs   []string
		)
		for _, f := range m.Files {
			if i == newest && f.IsImage() && f.URI != "" {
				images = append(images, f.Image())
				c.images = append(c.images, f)
				c.imageRefs = joinLines(c.imageRefs, fileRef(f))
				continue
			}
			refs = append(refs, fileRef(f))
		}
		content = joinLines(content, strings.Join(refs, "\n"))
		if content == "" && len(images) == 0 {
			continue
		}
		if i == newest {
			c.latest = len(c.messages)
		}
		c.messages = append(c.messages, llm.Message{
			Role:    role(m.Role),
			Content: content,
			Images:  images,
		})
	}
	return c
}

// finalHistory copies history for the second model call, replacing the
// images on the newest user message with their text references.
func finalHistory(history []llm.Message, latest int, imageRefs string) []llm.Message {
	out := slices.Clone(history)
	if latest > 0 && latest < len(out) && len(out[latest].Images) > 0 {
		m := out[latest]
		m.Images = nil
		m.Content = joinLines(m.Content, imageRefs)
		out[latest] = m
	}
	return out
}

func role(r string) string {
	if strings.EqualFold(strings.TrimSpace(r), "assistant") {
		return "assistant"
	}
	return "user"
}

func fileRef(f ops.Attachment) string {
	name := f.Name
	if name == "" {
		name = "unnamed"
	}
	mime := f.MIMEType
	if mime == "" {
		mime = "unknown type"
	}
	return fmt.Sprintf("[Attached file: %s (%s)]", name, mime)
}

func joinLines(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n" + b
}
