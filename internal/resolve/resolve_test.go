package resolve

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/legacyprime/foreman/internal/snapshot"
)

func testSnapshot() *snapshot.Snapshot {
	return snapshot.New(snapshot.Data{
		Clients: []snapshot.Client{
			{ID: "c1", Name: "Sarah Johnson", Email: "sj@example.com", Phone: "555-0100"},
			{ID: "c2", Name: "Sarah Lee", Email: "slee@example.com"},
			{ID: "c3", Name: "Claudia Reyes", Phone: "555-0300"},
			{ID: "c4", Name: "Dan Whitaker"},
		},
		Estimates: []snapshot.Estimate{
			{ID: "e1", ClientID: "c3", Status: snapshot.EstimateApproved},
			{ID: "e2", ClientID: "c3", Status: snapshot.EstimateDraft},
			{ID: "e3", ClientID: "c4", Status: snapshot.EstimateDraft},
		},
		Projects: []snapshot.Project{
			{ID: "p1", Name: "Kitchen Remodel", EstimateID: "e9"},
			{ID: "p2", Name: "Home Office", EstimateID: "e2"},
			{ID: "p3", Name: "Basement Finish", EstimateID: "e1"},
			{ID: "p4", Name: "Kitchen Backsplash"},
		},
		TeamMembers: []snapshot.TeamMember{
			{ID: "u1", Name: "Mike Torres", Phone: "555-0900", Role: "field-employee"},
		},
		Subcontractors: []snapshot.Subcontractor{
			{ID: "s1", Name: "Ace Electric", Trade: "Electrical", Phone: "555-0700"},
		},
		DailyTasks: []snapshot.DailyTask{
			{ID: "d1", Title: "Call supplier", DueDate: "2026-10-15"},
		},
	})
}

func TestClient(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr string // "notfound" or "ambiguous"
	}{
		{"exact", "Claudia Reyes", "c3", ""},
		{"substring", "claudia", "c3", ""},
		{"case insensitive", "SARAH LEE", "c2", ""},
		{"surrounding space", "  dan ", "c4", ""},
		{"by id", "c1", "c1", ""},
		{"ambiguous", "Sarah", "", "ambiguous"},
		{"reverse containment does not match", "Claudia Reyes Smith", "", "notfound"},
		{"no match", "Zed", "", "notfound"},
		{"blank", "   ", "", "notfound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Client(s, tt.query)
			switch tt.wantErr {
			case "":
				if err != nil {
					t.Fatalf("Client(%q) error: %v", tt.query, err)
				}
				if got.ID != tt.wantID {
					t.Errorf("Client(%q) = %s, want %s", tt.query, got.ID, tt.wantID)
				}
			case "notfound":
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("Client(%q) err = %v, want NotFoundError", tt.query, err)
				}
				if got.ID != "" {
					t.Errorf("not-found returned a match: %+v", got)
				}
			case "ambiguous":
				var amb *AmbiguousError
				if !errors.As(err, &amb) {
					t.Fatalf("Client(%q) err = %v, want AmbiguousError", tt.query, err)
				}
			}
		})
	}
}

func TestAmbiguousThenDisambiguated(t *testing.T) {
	s := snapshot.New(snapshot.Data{Clients: []snapshot.Client{
		{ID: "a", Name: "Sarah Johnson", Email: "sj@example.com"},
		{ID: "b", Name: "Sarah Lee", Phone: "555-0102"},
	}})

	_, err := Client(s, "Sarah")
	var amb *AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("err = %v, want AmbiguousError", err)
	}
	if len(amb.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(amb.Matches))
	}
	first, second := amb.Matches[0], amb.Matches[1]
	if first.Number != 1 || first.Name != "Sarah Johnson" || first.Email != "sj@example.com" || first.Phone != "No phone" {
		t.Errorf("first = %+v", first)
	}
	if second.Number != 2 || second.Name != "Sarah Lee" || second.Email != "No email" || second.ID != "b" {
		t.Errorf("second = %+v", second)
	}
	if !strings.Contains(amb.Prompt(), "2. Sarah Lee") {
		t.Errorf("prompt = %q", amb.Prompt())
	}

	got, err := Client(s, "Sarah Lee")
	if err != nil || got.ID != "b" {
		t.Fatalf("Client(Sarah Lee) = %+v, %v", got, err)
	}
}

func TestAmbiguousListsEveryMatch(t *testing.T) {
	var clients []snapshot.Client
	for i := 0; i < 40; i++ {
		clients = append(clients, snapshot.Client{ID: fmt.Sprint(i), Name: fmt.Sprintf("Smith %02d", i)})
	}
	s := snapshot.New(snapshot.Data{Clients: clients})

	_, err := Client(s, "smith")
	var amb *AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("err = %v", err)
	}
	if len(amb.Matches) != 40 {
		t.Fatalf("matches = %d, want all 40", len(amb.Matches))
	}
	for i, m := range amb.Matches {
		if m.Number != i+1 {
			t.Errorf("match %d numbered %d", i, m.Number)
		}
	}
}

func TestNotFoundMessage(t *testing.T) {
	_, err := Client(testSnapshot(), "Zed")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal(err)
	}
	msg := nf.Error()
	if !strings.Contains(msg, `"Zed"`) || !strings.Contains(msg, "Claudia Reyes") {
		t.Errorf("message = %q", msg)
	}
}

func TestProject(t *testing.T) {
	s := testSnapshot()

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr string
	}{
		{"direct", "home office", "p2", ""},
		{"direct wins over client fallback", "Basement", "p3", ""},
		{"ambiguous direct", "kitchen", "", "ambiguous"},
		{"client fallback takes first project in project order", "Claudia", "p2", ""},
		{"client with estimate but no project", "Dan", "", "notfound"},
		{"client with no estimates", "Sarah Lee", "", "notfound"},
		{"ambiguous client in fallback", "Sarah", "", "ambiguous"},
		{"nothing", "garage", "", "notfound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(s, tt.query)
			switch tt.wantErr {
			case "":
				if err != nil {
					t.Fatalf("Project(%q) error: %v", tt.query, err)
				}
				if got.ID != tt.wantID {
					t.Errorf("Project(%q) = %s, want %s", tt.query, got.ID, tt.wantID)
				}
			case "notfound":
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("Project(%q) err = %v, want NotFoundError", tt.query, err)
				}
				if nf.Kind != KindProject {
					t.Errorf("kind = %s, want project", nf.Kind)
				}
			case "ambiguous":
				var amb *AmbiguousError
				if !errors.As(err, &amb) {
					t.Fatalf("Project(%q) err = %v, want AmbiguousError", tt.query, err)
				}
			}
		})
	}
}

func TestContact(t *testing.T) {
	s := testSnapshot()

	r, err := Contact(s, "mike")
	if err != nil || r.Kind != KindTeamMember || r.Phone != "555-0900" {
		t.Errorf("Contact(mike) = %+v, %v", r, err)
	}
	r, err = Contact(s, "ace")
	if err != nil || r.Kind != KindSubcontractor {
		t.Errorf("Contact(ace) = %+v, %v", r, err)
	}
	if _, err := Contact(s, "sarah"); err == nil {
		t.Error("Contact(sarah) should be ambiguous")
	}
	var nf *NotFoundError
	if _, err := Contact(s, "nobody"); !errors.As(err, &nf) || nf.Kind != KindRecipient {
		t.Errorf("Contact(nobody) err = %v", err)
	}
}

func TestDailyTask(t *testing.T) {
	got, err := DailyTask(testSnapshot(), "supplier")
	if err != nil || got.ID != "d1" {
		t.Errorf("DailyTask(supplier) = %+v, %v", got, err)
	}
}
