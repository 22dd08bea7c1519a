// Package talents loads operator guidance documents that are appended
// to the assistant's system prompt.
//
// A talent is a markdown file in the talents directory. Optional YAML
// frontmatter restricts it to certain screens of the app:
//
//	---
//	tags: [project, estimate]
//	---
//	When the user is on a project page...
//
// Untagged talents always load. Tagged talents load when the request's
// page context names one of their tags (see PageTags).
package talents

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Talent is one parsed guidance file.
type Talent struct {
	Name    string   // filename without .md
	Tags    []string // nil = always load
	Content string   // markdown with frontmatter stripped
}

type frontmatter struct {
	Tags []string `yaml:"tags"`
}

// Loader reads talents from a directory.
type Loader struct {
	dir string
}

// NewLoader creates a loader for dir. An empty dir loads nothing.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// List returns the talent names in the directory, sorted.
func (l *Loader) List() ([]string, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = strings.TrimSuffix(f, ".md")
	}
	return names, nil
}

// LoadAll reads and parses every talent, sorted by filename.
func (l *Loader) LoadAll() ([]Talent, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}

	var talents []Talent
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(l.dir, f))
		if err != nil {
			return nil, fmt.Errorf("read talent %s: %w", f, err)
		}
		tags, content, err := parseFrontmatter(string(data))
		if err != nil {
			return nil, fmt.Errorf("talent %s: %w", f, err)
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		talents = append(talents, Talent{
			Name:    strings.TrimSuffix(f, ".md"),
			Tags:    tags,
			Content: strings.TrimSpace(content),
		})
	}
	return talents, nil
}

func (l *Loader) files() ([]string, error) {
	if l.dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no talents dir is fine
		}
		return nil, fmt.Errorf("read talents dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

// FilterByTags returns the combined content of the talents that apply
// under the active tags, under a "## Company Guidance" heading. A nil
// active set includes everything.
func FilterByTags(talents []Talent, active map[string]bool) string {
	var parts []string
	for _, t := range talents {
		if applies(t, active) {
			parts = append(parts, t.Content)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "## Company Guidance\n\n" + strings.Join(parts, "\n\n---\n\n")
}

func applies(t Talent, active map[string]bool) bool {
	if len(t.Tags) == 0 || active == nil {
		return true
	}
	return slices.ContainsFunc(t.Tags, func(tag string) bool { return active[tag] })
}

// PageTags derives the active tags from a page context such as
// "Project: Kitchen Remodel" (tag "project"). The result is never nil,
// so tagged talents stay out when there is no page context.
func PageTags(pageContext string) map[string]bool {
	tags := make(map[string]bool)
	kind, _, found := strings.Cut(pageContext, ":")
	if !found {
		return tags
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return tags
	}
	tags[kind] = true
	if singular, ok := strings.CutSuffix(kind, "s"); ok && singular != "" {
		tags[singular] = true
	}
	return tags
}

// parseFrontmatter splits "---" delimited YAML frontmatter from the
// body. A file without frontmatter has no tags.
func parseFrontmatter(raw string) ([]string, string, error) {
	rest, ok := strings.CutPrefix(raw, "---")
	if !ok {
		return nil, raw, nil
	}
	rest = strings.TrimLeft(rest, " \t")
	switch {
	case strings.HasPrefix(rest, "\n"):
		rest = rest[1:]
	case strings.HasPrefix(rest, "\r\n"):
		rest = rest[2:]
	default:
		return nil, raw, nil
	}

	head, body, found := strings.Cut(rest, "\n---")
	if !found {
		return nil, raw, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	var tags []string
	for _, t := range fm.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, strings.TrimLeft(body, "\r\n"), nil
}
