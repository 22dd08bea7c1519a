// Package snapshot is the read-only view of a tenant's business data
// supplied with each assistant request.
//
// A Snapshot is built once per request and never changes. Collection
// accessors return copies, so no caller can mutate what another
// caller sees. Lookups that cross the Project → Estimate → Client join
// live here so every component traverses it the same way.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Data is the wire shape of a snapshot ("appData" in requests).
type Data struct {
	Clients        []Client        `json:"clients"`
	Estimates      []Estimate      `json:"estimates"`
	Projects       []Project       `json:"projects"`
	Expenses       []Expense       `json:"expenses"`
	ClockEntries   []ClockEntry    `json:"clockEntries"`
	Payments       []Payment       `json:"payments"`
	ChangeOrders   []ChangeOrder   `json:"changeOrders"`
	Proposals      []Proposal      `json:"proposals"`
	Subcontractors []Subcontractor `json:"subcontractors"`
	DailyLogs      []DailyLog      `json:"dailyLogs"`
	Tasks          []Task          `json:"tasks"`
	DailyTasks     []DailyTask     `json:"dailyTasks"`
	CallLogs       []CallLog       `json:"callLogs"`
	TeamMembers    []TeamMember    `json:"users"`
	PriceList      []PriceListItem `json:"priceList"`
	Photos         []Photo         `json:"photos"`
	Company        Company         `json:"company"`

	// CurrentUserID identifies the signed-in user; it is the default
	// employee for time tracking and the owner of daily tasks.
	CurrentUserID string `json:"currentUserId,omitempty"`
}

// Snapshot is an immutable view over Data.
type Snapshot struct {
	d Data
}

// New copies d into a new Snapshot.
func New(d Data) *Snapshot {
	c := d
	c.Clients = slices.Clone(d.Clients)
	c.Estimates = make([]Estimate, len(d.Estimates))
	for i, e := range d.Estimates {
		e.Items = slices.Clone(e.Items)
		c.Estimates[i] = e
	}
	c.Projects = slices.Clone(d.Projects)
	c.Expenses = slices.Clone(d.Expenses)
	c.ClockEntries = slices.Clone(d.ClockEntries)
	c.Payments = slices.Clone(d.Payments)
	c.ChangeOrders = slices.Clone(d.ChangeOrders)
	c.Proposals = slices.Clone(d.Proposals)
	c.Subcontractors = slices.Clone(d.Subcontractors)
	c.DailyLogs = slices.Clone(d.DailyLogs)
	c.Tasks = slices.Clone(d.Tasks)
	c.DailyTasks = slices.Clone(d.DailyTasks)
	c.CallLogs = slices.Clone(d.CallLogs)
	c.TeamMembers = slices.Clone(d.TeamMembers)
	c.PriceList = slices.Clone(d.PriceList)
	c.Photos = slices.Clone(d.Photos)
	return &Snapshot{d: c}
}

// Decode parses request appData. Absent, null or empty input yields an
// empty snapshot; unknown keys are ignored.
func Decode(raw []byte) (*Snapshot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return New(Data{}), nil
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode appData: %w", err)
	}
	return New(d), nil
}

func (s *Snapshot) Clients() []Client { return slices.Clone(s.d.Clients) }
func (s *Snapshot) Projects() []Project { return slices.Clone(s.d.Projects) }
func (s *Snapshot) Expenses() []Expense { return slices.Clone(s.d.Expenses) }
func (s *Snapshot) ClockEntries() []ClockEntry { return slices.Clone(s.d.ClockEntries) }
func (s *Snapshot) Payments() []Payment { return slices.Clone(s.d.Payments) }
func (s *Snapshot) ChangeOrders() []ChangeOrder { return slices.Clone(s.d.ChangeOrders) }
func (s *Snapshot) Proposals() []Proposal { return slices.Clone(s.d.Proposals) }
func (s *Snapshot) Subcontractors() []Subcontractor { return slices.Clone(s.d.Subcontractors) }
func (s *Snapshot) DailyLogs() []DailyLog { return slices.Clone(s.d.DailyLogs) }
func (s *Snapshot) Tasks() []Task { return slices.Clone(s.d.Tasks) }
func (s *Snapshot) DailyTasks() []DailyTask { return slices.Clone(s.d.DailyTasks) }
func (s *Snapshot) CallLogs() []CallLog { return slices.Clone(s.d.CallLogs) }
func (s *Snapshot) TeamMembers() []TeamMember { return slices.Clone(s.d.TeamMembers) }
func (s *Snapshot) PriceList() []PriceListItem { return slices.Clone(s.d.PriceList) }
func (s *Snapshot) Photos() []Photo { return slices.Clone(s.d.Photos) }
func (s *Snapshot) Company() Company { return s.d.Company }
func (s *Snapshot) CurrentUserID() string { return s.d.CurrentUserID }

// Estimates returns a deep copy of the estimates, line items included.
func (s *Snapshot) Estimates() []Estimate {
	out := make([]Estimate, len(s.d.Estimates))
	for i, e := range s.d.Estimates {
		e.Items = slices.Clone(e.Items)
		out[i] = e
	}
	return out
}

func findByID[T any](items []T, id string, idOf func(T) string) (T, bool) {
	for _, it := range items {
		if idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Client returns the client with the given id.
func (s *Snapshot) Client(id string) (Client, bool) {
	return findByID(s.d.Clients, id, func(c Client) string { return c.ID })
}

// Project returns the project with the given id.
func (s *Snapshot) Project(id string) (Project, bool) {
	return findByID(s.d.Projects, id, func(p Project) string { return p.ID })
}

// Estimate returns the estimate with the given id.
func (s *Snapshot) Estimate(id string) (Estimate, bool) {
	e, ok := findByID(s.d.Estimates, id, func(e Estimate) string { return e.ID })
	e.Items = slices.Clone(e.Items)
	return e, ok
}

// TeamMember returns the team member with the given id.
func (s *Snapshot) TeamMember(id string) (TeamMember, bool) {
	return findByID(s.d.TeamMembers, id, func(m TeamMember) string { return m.ID })
}

// Subcontractor returns the subcontractor with the given id.
func (s *Snapshot) Subcontractor(id string) (Subcontractor, bool) {
	return findByID(s.d.Subcontractors, id, func(c Subcontractor) string { return c.ID })
}

// Expense returns the expense with the given id.
func (s *Snapshot) Expense(id string) (Expense, bool) {
	return findByID(s.d.Expenses, id, func(e Expense) string { return e.ID })
}

// ChangeOrder returns the change order with the given id.
func (s *Snapshot) ChangeOrder(id string) (ChangeOrder, bool) {
	return findByID(s.d.ChangeOrders, id, func(c ChangeOrder) string { return c.ID })
}

// Proposal returns the proposal with the given id.
func (s *Snapshot) Proposal(id string) (Proposal, bool) {
	return findByID(s.d.Proposals, id, func(p Proposal) string { return p.ID })
}

// DailyLog returns the daily log with the given id.
func (s *Snapshot) DailyLog(id string) (DailyLog, bool) {
	return findByID(s.d.DailyLogs, id, func(l DailyLog) string { return l.ID })
}

// EstimatesForClient returns the client's estimates in snapshot order.
func (s *Snapshot) EstimatesForClient(clientID string) []Estimate {
	var out []Estimate
	for _, e := range s.d.Estimates {
		if e.ClientID == clientID {
			e.Items = slices.Clone(e.Items)
			out = append(out, e)
		}
	}
	return out
}

// ProjectsForClient walks Client → Estimate → Project and returns the
// client's projects in snapshot project order.
func (s *Snapshot) ProjectsForClient(clientID string) []Project {
	owned := make(map[string]bool)
	for _, e := range s.d.Estimates {
		if e.ClientID == clientID {
			owned[e.ID] = true
		}
	}
	var out []Project
	for _, p := range s.d.Projects {
		if p.EstimateID != "" && owned[p.EstimateID] {
			out = append(out, p)
		}
	}
	return out
}

// ClientForProject walks Project → Estimate → Client.
func (s *Snapshot) ClientForProject(projectID string) (Client, bool) {
	p, ok := s.Project(projectID)
	if !ok || p.EstimateID == "" {
		return Client{}, false
	}
	e, ok := s.Estimate(p.EstimateID)
	if !ok {
		return Client{}, false
	}
	return s.Client(e.ClientID)
}

// OpenClockEntry returns the employee's entry with no clock-out.
func (s *Snapshot) OpenClockEntry(employeeID string) (ClockEntry, bool) {
	for _, c := range s.d.ClockEntries {
		if c.EmployeeID == employeeID && c.Open() {
			return c, true
		}
	}
	return ClockEntry{}, false
}

// ExpensesForProject returns the project's expenses.
func (s *Snapshot) ExpensesForProject(projectID string) []Expense {
	var out []Expense
	for _, e := range s.d.Expenses {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

// PriceCategories returns the distinct price list categories in first
// seen order.
func (s *Snapshot) PriceCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range s.d.PriceList {
		key := strings.ToLower(it.Category)
		if it.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it.Category)
	}
	return out
}
