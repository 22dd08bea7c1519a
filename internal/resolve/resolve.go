// Package resolve maps the names people use in conversation onto
// snapshot records.
//
// Matching is case-insensitive substring containment of the query in
// the candidate's display name. Every candidate is scanned and every
// match is kept: one match resolves, none is a NotFoundError, several
// is an AmbiguousError listing them all in snapshot order. The
// resolver never picks among several matches; the user does, and the
// operation is re-run with the exact name (or the record id, which is
// also accepted).
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/legacyprime/foreman/internal/snapshot"
)

// Kind names an entity collection in user-facing messages.
type Kind string

const (
	KindClient        Kind = "client"
	KindProject       Kind = "project"
	KindSubcontractor Kind = "subcontractor"
	KindTeamMember    Kind = "team member"
	KindDailyTask     Kind = "daily task"
	KindTask          Kind = "task"
	KindEstimate      Kind = "estimate"
	KindCall          Kind = "call"
	KindRecipient     Kind = "contact"
)

// Plural returns the plural form used in messages.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// maxAlternatives caps the names listed in a NotFoundError.
const maxAlternatives = 15

// Candidate is one entry in a disambiguation list.
type Candidate struct {
	Number int    `json:"number"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Spec tells the generic resolver how to read one entity type.
type Spec[T any] struct {
	Kind Kind
	ID   func(T) string
	Name func(T) string
	// Describe fills the disambiguating fields; Number, ID and Name are
	// set by the resolver.
	Describe func(T) Candidate
}

// Matches returns every item whose name contains query, ignoring case,
// in input order.
func Matches[T any](items []T, query string, name func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []T
	for _, it := range items {
		if strings.Contains(strings.ToLower(name(it)), q) {
			out = append(out, it)
		}
	}
	return out
}

// One resolves query to exactly one item. A query equal to an item's
// id resolves to that item directly.
func One[T any](items []T, query string, spec Spec[T]) (T, error) {
	var zero T
	q := strings.TrimSpace(query)

	if q != "" && spec.ID != nil {
		for _, it := range items {
			if spec.ID(it) == q {
				return it, nil
			}
		}
	}

	found := Matches(items, q, spec.Name)
	switch len(found) {
	case 0:
		return zero, &NotFoundError{Kind: spec.Kind, Query: q, Alternatives: alternatives(items, spec.Name)}
	case 1:
		return found[0], nil
	}

	amb := &AmbiguousError{Kind: spec.Kind, Query: q, Matches: make([]Candidate, len(found))}
	for i, it := range found {
		var c Candidate
		if spec.Describe != nil {
			c = spec.Describe(it)
		}
		c.Number = i + 1
		c.Name = spec.Name(it)
		if spec.ID != nil {
			c.ID = spec.ID(it)
		}
		amb.Matches[i] = c
	}
	return zero, amb
}

func alternatives[T any](items []T, name func(T) string) []string {
	if len(items) == 0 || len(items) > maxAlternatives {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if n := name(it); n != "" {
			out = append(out, n)
		}
	}
	return out
}

var (
	clientSpec = Spec[snapshot.Client]{
		Kind: KindClient,
		ID:   func(c snapshot.Client) string { return c.ID },
		Name: func(c snapshot.Client) string { return c.Name },
		Describe: func(c snapshot.Client) Candidate {
			return Candidate{Email: orDefault(c.Email, "No email"), Phone: orDefault(c.Phone, "No phone")}
		},
	}
	projectSpec = Spec[snapshot.Project]{
		Kind: KindProject,
		ID:   func(p snapshot.Project) string { return p.ID },
		Name: func(p snapshot.Project) string { return p.Name },
		Describe: func(p snapshot.Project) Candidate {
			return Candidate{Detail: fmt.Sprintf("%s, budget $%.2f", p.Status, p.Budget)}
		},
	}
	teamSpec = Spec[snapshot.TeamMember]{
		Kind: KindTeamMember,
		ID:   func(m snapshot.TeamMember) string { return m.ID },
		Name: func(m snapshot.TeamMember) string { return m.Name },
		Describe: func(m snapshot.TeamMember) Candidate {
			return Candidate{Email: m.Email, Phone: m.Phone, Detail: m.Role}
		},
	}
	subcontractorSpec = Spec[snapshot.Subcontractor]{
		Kind: KindSubcontractor,
		ID:   func(s snapshot.Subcontractor) string { return s.ID },
		Name: func(s snapshot.Subcontractor) string { return s.Name },
		Describe: func(s snapshot.Subcontractor) Candidate {
			return Candidate{Email: s.Email, Phone: s.Phone, Detail: s.Trade}
		},
	}
	dailyTaskSpec = Spec[snapshot.DailyTask]{
		Kind: KindDailyTask,
		ID:   func(t snapshot.DailyTask) string { return t.ID },
		Name: func(t snapshot.DailyTask) string { return t.Title },
		Describe: func(t snapshot.DailyTask) Candidate {
			return Candidate{Detail: "due " + t.DueDate}
		},
	}
	callSpec = Spec[snapshot.CallLog]{
		Kind: KindCall,
		ID:   func(c snapshot.CallLog) string { return c.ID },
		Name: func(c snapshot.CallLog) string { return c.CallerName },
		Describe: func(c snapshot.CallLog) Candidate {
			return Candidate{Email: c.CallerEmail, Phone: c.CallerPhone, Detail: c.CallDate}
		},
	}
	taskSpec = Spec[snapshot.Task]{
		Kind: KindTask,
		ID:   func(t snapshot.Task) string { return t.ID },
		Name: func(t snapshot.Task) string { return t.Name },
		Describe: func(t snapshot.Task) Candidate {
			return Candidate{Detail: t.Date}
		},
	}
)

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Client resolves a client by name or id.
func Client(s *snapshot.Snapshot, query string) (snapshot.Client, error) {
	return One(s.Clients(), query, clientSpec)
}

// TeamMember resolves a team member by name or id.
func TeamMember(s *snapshot.Snapshot, query string) (snapshot.TeamMember, error) {
	return One(s.TeamMembers(), query, teamSpec)
}

// Subcontractor resolves a subcontractor by name or id.
func Subcontractor(s *snapshot.Snapshot, query string) (snapshot.Subcontractor, error) {
	return One(s.Subcontractors(), query, subcontractorSpec)
}

// DailyTask resolves one of the user's daily tasks by title or id.
func DailyTask(s *snapshot.Snapshot, query string) (snapshot.DailyTask, error) {
	return One(s.DailyTasks(), query, dailyTaskSpec)
}

// CallLog resolves a logged call by caller name or id.
func CallLog(s *snapshot.Snapshot, query string) (snapshot.CallLog, error) {
	return One(s.CallLogs(), query, callSpec)
}

// Task resolves a project task by name or id within tasks.
func Task(tasks []snapshot.Task, query string) (snapshot.Task, error) {
	return One(tasks, query, taskSpec)
}

// Project resolves a project by name or id. When no project name
// matches, the query is resolved as a client name and the first
// project reached through that client's estimates is returned.
func Project(s *snapshot.Snapshot, query string) (snapshot.Project, error) {
	projects := s.Projects()
	p, err := One(projects, query, projectSpec)
	var nf *NotFoundError
	if err == nil || !errors.As(err, &nf) {
		return p, err
	}

	client, cerr := Client(s, query)
	var amb *AmbiguousError
	if errors.As(cerr, &amb) {
		return snapshot.Project{}, cerr
	}
	if cerr != nil {
		return snapshot.Project{}, nf
	}

	owned := make(map[string]bool)
	for _, e := range s.EstimatesForClient(client.ID) {
		owned[e.ID] = true
	}
	for _, p := range projects {
		if p.EstimateID != "" && owned[p.EstimateID] {
			return p, nil
		}
	}
	return snapshot.Project{}, nf
}

func isNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Recipient is a person who can be messaged or called.
type Recipient struct {
	Kind  Kind
	ID    string
	Name  string
	Email string
	Phone string
}

// Contact resolves a person across clients, then team members, then
// subcontractors. The first collection with any match decides; a
// multi-match there is ambiguous.
func Contact(s *snapshot.Snapshot, query string) (Recipient, error) {
	if c, err := Client(s, query); err == nil {
		return Recipient{Kind: KindClient, ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}, nil
	} else if !isNotFound(err) {
		return Recipient{}, err
	}
	if m, err := TeamMember(s, query); err == nil {
		return Recipient{Kind: KindTeamMember, ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone}, nil
	} else if !isNotFound(err) {
		return Recipient{}, err
	}
	if sc, err := Subcontractor(s, query); err == nil {
		return Recipient{Kind: KindSubcontractor, ID: sc.ID, Name: sc.Name, Email: sc.Email, Phone: sc.Phone}, nil
	} else if !isNotFound(err) {
		return Recipient{}, err
	}
	return Recipient{}, &NotFoundError{Kind: KindRecipient, Query: strings.TrimSpace(query)}
}
