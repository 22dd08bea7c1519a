package ops

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/legacyprime/foreman/internal/snapshot"
)

// ReportData is the payload for generate_report, saved as-is by the
// caller.
type ReportData struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	GeneratedAt string         `json:"generatedAt"`
	ProjectID   string         `json:"projectId,omitempty"`
	ProjectName string         `json:"projectName,omitempty"`
	DateRange   *DateRange     `json:"dateRange,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Data        map[string]any `json:"data"`
}

const regularHoursPerDay = 8

// reportScope narrows every section of a report.
type reportScope struct {
	projectID string
	start     string
	end       string
}

func (s reportScope) project(id string) bool {
	return s.projectID == "" || s.projectID == id
}

func (s reportScope) dated(date string) bool {
	return inRange(date, s.start, s.end)
}

func (c *call) generateReport(o *GenerateReport) (*reply, error) {
	var scope reportScope
	data := ReportData{Type: o.ReportType, GeneratedAt: c.stamp(c.now), Notes: o.Notes}
	projectID, err := c.projectScope(o.ProjectID, o.ProjectName)
	if err != nil {
		return nil, err
	}
	if projectID != "" {
		scope.projectID = projectID
		data.ProjectID, data.ProjectName = projectID, c.projectName(projectID)
	}
	if o.DateRange != nil {
		scope.start = c.dateFilter("dateRange.startDate", o.DateRange.StartDate)
		scope.end = c.dateFilter("dateRange.endDate", o.DateRange.EndDate)
		if scope.start != "" && scope.end != "" && scope.start > scope.end {
			scope.start, scope.end = scope.end, scope.start
			c.notef("The date range was reversed; using %s to %s.", scope.start, scope.end)
		}
		if scope.start != "" || scope.end != "" {
			data.DateRange = &DateRange{StartDate: scope.start, EndDate: scope.end}
		}
	}

	switch o.ReportType {
	case "expenses":
		data.Data = c.expenseReport(scope, o.WithReceipts)
	case "time-tracking":
		data.Data = c.timeReport(scope)
	case "daily-logs":
		data.Data = c.dailyLogReport(scope)
	case "projects":
		data.Data = c.projectReport(scope)
	case "financial":
		data.Data = c.financialReport(scope)
	case "clients":
		data.Data = c.clientReport()
	case "custom":
		data.Data = map[string]any{
			"expenses":     c.expenseReport(scope, o.WithReceipts),
			"timeTracking": c.timeReport(scope),
			"dailyLogs":    c.dailyLogReport(scope),
		}
	default: // administrative
		data.Data = map[string]any{
			"projects":     c.projectReport(scope),
			"financial":    c.financialReport(scope),
			"timeTracking": c.timeReport(scope),
		}
	}

	data.Name = reportName(data)
	return pending(data, fmt.Sprintf("Report %q is ready and will be saved once confirmed.", data.Name), map[string]any{
		"report": data.Data,
	})
}

func reportName(d ReportData) string {
	title := map[string]string{
		"administrative": "Administrative",
		"expenses":       "Expense",
		"time-tracking":  "Time Tracking",
		"daily-logs":     "Daily Log",
		"custom":         "Custom",
		"projects":       "Projects",
		"financial":      "Financial",
		"clients":        "Client",
	}[d.Type]
	if title == "" {
		title = "Custom"
	}
	name := title + " Report"
	if d.ProjectName != "" {
		name = d.ProjectName + " " + name
	}
	if d.DateRange != nil {
		name += fmt.Sprintf(" (%s to %s)", orOpen(d.DateRange.StartDate), orOpen(d.DateRange.EndDate))
	} else if len(d.GeneratedAt) >= 10 {
		name += " " + d.GeneratedAt[:10]
	}
	return name
}

func orOpen(s string) string {
	if s == "" {
		return "..."
	}
	return s
}

func (c *call) expenseReport(s reportScope, withReceipts bool) map[string]any {
	var total float64
	byType := map[string]float64{}
	list := []snapshot.Expense{}
	for _, e := range c.snap.Expenses() {
		if !s.project(e.ProjectID) || !s.dated(e.Date) || (withReceipts && e.ReceiptURL == "") {
			continue
		}
		total += e.Amount
		t := string(e.Type)
		if t == "" {
			t = string(snapshot.ExpenseOthers)
		}
		byType[t] += e.Amount
		list = append(list, e)
	}
	return map[string]any{
		"totalExpenses": round2(total),
		"count":         len(list),
		"withReceipts":  withReceipts,
		"byCategory":    byType,
		"expenses":      list,
	}
}

// dayHours is one employee's closed hours on one day.
type dayHours struct {
	EmployeeID string  `json:"employeeId"`
	Employee   string  `json:"employee"`
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
	Regular    float64 `json:"regular"`
	Overtime   float64 `json:"overtime"`
}

// employeeHours is one employee's totals across a report. Employees
// are keyed by ID so namesakes stay apart.
type employeeHours struct {
	EmployeeID string  `json:"employeeId"`
	Employee   string  `json:"employee"`
	Hours      float64 `json:"hours"`
	Regular    float64 `json:"regular"`
	Overtime   float64 `json:"overtime"`
}

// splitDays totals closed clock entries per employee per day. Hours
// beyond eight in a day are overtime.
func (c *call) splitDays(entries []snapshot.ClockEntry) []dayHours {
	type key struct{ emp, date string }
	sums := map[key]float64{}
	for _, e := range entries {
		if e.Open() {
			continue
		}
		k := key{e.EmployeeID, e.ClockIn.In(c.now.Location()).Format(time.DateOnly)}
		sums[k] += e.Hours(c.now)
	}
	keys := slices.SortedFunc(maps.Keys(sums), func(a, b key) int {
		if a.date != b.date {
			return cmp.Compare(a.date, b.date)
		}
		return cmp.Compare(a.emp, b.emp)
	})
	out := make([]dayHours, 0, len(keys))
	for _, k := range keys {
		h := sums[k]
		reg := min(h, regularHoursPerDay)
		out = append(out, dayHours{
			EmployeeID: k.emp,
			Employee:   c.memberName(k.emp),
			Date:       k.date,
			Hours:      round2(h),
			Regular:    round2(reg),
			Overtime:   round2(h - reg),
		})
	}
	return out
}

func (c *call) timeReport(s reportScope) map[string]any {
	var entries []snapshot.ClockEntry
	open := 0
	for _, e := range c.snap.ClockEntries() {
		if !s.project(e.ProjectID) || !s.dated(e.ClockIn.In(c.now.Location()).Format(time.DateOnly)) {
			continue
		}
		if e.Open() {
			open++
		}
		entries = append(entries, e)
	}
	days := c.splitDays(entries)
	var total, regular, overtime float64
	perEmployee := map[string]*employeeHours{}
	for _, d := range days {
		total += d.Hours
		regular += d.Regular
		overtime += d.Overtime
		eh, ok := perEmployee[d.EmployeeID]
		if !ok {
			eh = &employeeHours{EmployeeID: d.EmployeeID, Employee: d.Employee}
			perEmployee[d.EmployeeID] = eh
		}
		eh.Hours = round2(eh.Hours + d.Hours)
		eh.Regular = round2(eh.Regular + d.Regular)
		eh.Overtime = round2(eh.Overtime + d.Overtime)
	}
	byEmployee := make([]employeeHours, 0, len(perEmployee))
	for _, eh := range perEmployee {
		byEmployee = append(byEmployee, *eh)
	}
	slices.SortFunc(byEmployee, func(a, b employeeHours) int {
		return cmp.Or(cmp.Compare(a.Employee, b.Employee), cmp.Compare(a.EmployeeID, b.EmployeeID))
	})
	return map[string]any{
		"totalEntries":  len(entries),
		"openEntries":   open,
		"totalHours":    round2(total),
		"regularHours":  round2(regular),
		"overtimeHours": round2(overtime),
		"byEmployee":    byEmployee,
		"days":          days,
	}
}

func (c *call) dailyLogReport(s reportScope) map[string]any {
	logs := []map[string]any{}
	withIssues := 0
	for _, l := range c.snap.DailyLogs() {
		if !s.project(l.ProjectID) || !s.dated(l.LogDate) {
			continue
		}
		if l.Issues != "" {
			withIssues++
		}
		logs = append(logs, map[string]any{
			"projectName":   c.projectName(l.ProjectID),
			"date":          l.LogDate,
			"workPerformed": l.WorkPerformed,
			"issues":        l.Issues,
			"generalNotes":  l.GeneralNotes,
			"createdBy":     c.memberName(l.CreatedBy),
		})
	}
	return map[string]any{"count": len(logs), "withIssues": withIssues, "logs": logs}
}

func (c *call) projectReport(s reportScope) map[string]any {
	var budget, spent float64
	active, completed := 0, 0
	list := []snapshot.Project{}
	for _, p := range c.snap.Projects() {
		if !s.project(p.ID) {
			continue
		}
		switch p.Status {
		case snapshot.ProjectActive:
			active++
		case snapshot.ProjectCompleted:
			completed++
		}
		budget += p.Budget
		spent += p.Expenses
		list = append(list, p)
	}
	margin := 0.0
	if budget > 0 {
		margin = round2((budget - spent) / budget * 100)
	}
	return map[string]any{
		"totalProjects":     len(list),
		"activeProjects":    active,
		"completedProjects": completed,
		"totalBudget":       round2(budget),
		"totalExpenses":     round2(spent),
		"profitMargin":      margin,
		"projects":          list,
	}
}

func (c *call) financialReport(s reportScope) map[string]any {
	var budget, spent, received float64
	projects := 0
	for _, p := range c.snap.Projects() {
		if s.project(p.ID) {
			budget += p.Budget
			projects++
		}
	}
	for _, e := range c.snap.Expenses() {
		if s.project(e.ProjectID) && s.dated(e.Date) {
			spent += e.Amount
		}
	}
	for _, p := range c.snap.Payments() {
		if s.project(p.ProjectID) && s.dated(p.Date) {
			received += p.Amount
		}
	}
	return map[string]any{
		"totalBudget":   round2(budget),
		"totalExpenses": round2(spent),
		"totalPayments": round2(received),
		"profit":        round2(received - spent),
		"projects":      projects,
	}
}

func (c *call) clientReport() map[string]any {
	clients := c.snap.Clients()
	counts := map[snapshot.ClientStatus]int{}
	for _, cl := range clients {
		counts[cl.Status]++
	}
	return map[string]any{
		"totalClients":     len(clients),
		"leads":            counts[snapshot.ClientLead],
		"activeClients":    counts[snapshot.ClientProject],
		"completedClients": counts[snapshot.ClientCompleted],
		"clients":          clients,
	}
}
