package talents

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTags []string
		wantBody string
		wantErr  bool
	}{
		{
			name:     "no frontmatter",
			raw:      "# Receipts\n\nAlways ask which project.",
			wantBody: "# Receipts\n\nAlways ask which project.",
		},
		{
			name:     "flow list",
			raw:      "---\ntags: [project, estimate]\n---\n# Projects",
			wantTags: []string{"project", "estimate"},
			wantBody: "# Projects",
		},
		{
			name:     "block list is lowercased",
			raw:      "---\ntags:\n  - Client\n---\nBody.",
			wantTags: []string{"client"},
			wantBody: "Body.",
		},
		{
			name:     "extra fields ignored",
			raw:      "---\nauthor: ops\ntags: [timecard]\n---\nBody.",
			wantTags: []string{"timecard"},
			wantBody: "Body.",
		},
		{
			name:     "no closing delimiter",
			raw:      "---\ntags: [project]\nBody without close.",
			wantBody: "---\ntags: [project]\nBody without close.",
		},
		{
			name:     "delimiter not at start",
			raw:      "Intro\n---\ntags: [project]\n---\nBody.",
			wantBody: "Intro\n---\ntags: [project]\n---\nBody.",
		},
		{
			name:    "invalid yaml",
			raw:     "---\ntags: [project\n---\nBody.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, body, err := parseFrontmatter(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFrontmatter: %v", err)
			}
			if !slices.Equal(tags, tt.wantTags) {
				t.Errorf("tags = %v, want %v", tags, tt.wantTags)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestFilterByTags(t *testing.T) {
	all := []Talent{
		{Name: "tone", Content: "tone guidance"},
		{Name: "projects", Tags: []string{"project"}, Content: "project guidance"},
		{Name: "sales", Tags: []string{"client", "estimate"}, Content: "sales guidance"},
	}

	tests := []struct {
		name       string
		active     map[string]bool
		want       []string
		wantAbsent []string
	}{
		{
			name:   "nil includes all",
			active: nil,
			want:   []string{"tone guidance", "project guidance", "sales guidance"},
		},
		{
			name:       "project page",
			active:     map[string]bool{"project": true},
			want:       []string{"tone guidance", "project guidance"},
			wantAbsent: []string{"sales guidance"},
		},
		{
			name:       "estimate page",
			active:     map[string]bool{"estimate": true},
			want:       []string{"tone guidance", "sales guidance"},
			wantAbsent: []string{"project guidance"},
		},
		{
			name:       "no page loads only untagged",
			active:     map[string]bool{},
			want:       []string{"tone guidance"},
			wantAbsent: []string{"project guidance", "sales guidance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterByTags(all, tt.active)
			if !strings.HasPrefix(result, "## Company Guidance") {
				t.Errorf("result missing heading:\n%s", result)
			}
			for _, want := range tt.want {
				if !strings.Contains(result, want) {
					t.Errorf("result missing %q:\n%s", want, result)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(result, absent) {
					t.Errorf("result should not contain %q:\n%s", absent, result)
				}
			}
		})
	}

	if got := FilterByTags(nil, nil); got != "" {
		t.Errorf("FilterByTags(nil, nil) = %q, want empty", got)
	}
}

func TestPageTags(t *testing.T) {
	tests := []struct {
		page string
		want []string
	}{
		{"Project: Kitchen Remodel", []string{"project"}},
		{"Clients: all", []string{"clients", "client"}},
		{"  Estimate :  E-1042", []string{"estimate"}},
		{"Dashboard", nil},
		{"", nil},
		{": nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			got := PageTags(tt.page)
			if got == nil {
				t.Fatal("PageTags returned nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("PageTags(%q) = %v, want %v", tt.page, got, tt.want)
			}
			for _, w := range tt.want {
				if !got[w] {
					t.Errorf("PageTags(%q) missing %q", tt.page, w)
				}
			}
		})
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tone.md", "# Tone\nKeep it short.")
	writeFile(t, dir, "projects.md", "---\ntags: [project]\n---\n# Projects\nMention the budget.")
	writeFile(t, dir, "empty.md", "---\ntags: [client]\n---\n\n")
	writeFile(t, dir, "notes.txt", "ignored")

	talents, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(talents) != 2 {
		t.Fatalf("len(talents) = %d, want 2 (empty and non-md skipped)", len(talents))
	}
	if talents[0].Name != "projects" || !slices.Equal(talents[0].Tags, []string{"project"}) {
		t.Errorf("talents[0] = %+v, want projects tagged [project]", talents[0])
	}
	if talents[1].Name != "tone" || talents[1].Tags != nil {
		t.Errorf("talents[1] = %+v, want untagged tone", talents[1])
	}
	if !strings.Contains(talents[1].Content, "Keep it short.") {
		t.Errorf("talents[1].Content = %q", talents[1].Content)
	}

	names, err := NewLoader(dir).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !slices.Equal(names, []string{"empty", "projects", "tone"}) {
		t.Errorf("List() = %v", names)
	}
}

func TestLoadAllInvalidFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.md", "---\ntags: [project\n---\nBody.")

	_, err := NewLoader(dir).LoadAll()
	if err == nil || !strings.Contains(err.Error(), "broken.md") {
		t.Errorf("LoadAll() error = %v, want one naming broken.md", err)
	}
}

func TestLoadAllNoDir(t *testing.T) {
	for _, dir := range []string{"", "/nonexistent/path"} {
		talents, err := NewLoader(dir).LoadAll()
		if err != nil {
			t.Fatalf("LoadAll(%q) error = %v", dir, err)
		}
		if talents != nil {
			t.Errorf("LoadAll(%q) = %v, want nil", dir, talents)
		}
	}
}
