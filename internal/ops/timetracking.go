package ops

import (
	"fmt"
	"slices"
	"time"

	"github.com/legacyprime/foreman/internal/snapshot"
)

// ClockInData is the payload for clock_in.
type ClockInData struct {
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	ProjectID     string `json:"projectId"`
	ProjectName   string `json:"projectName"`
	ClockIn       string `json:"clockIn"`
	WorkPerformed string `json:"workPerformed,omitempty"`
	Category      string `json:"category,omitempty"`
}

// ShiftData is the payload for clock_out and the lunch break
// operations, all of which act on the employee's open entry.
type ShiftData struct {
	EntryID       string  `json:"entryId"`
	EmployeeID    string  `json:"employeeId"`
	EmployeeName  string  `json:"employeeName"`
	ProjectName   string  `json:"projectName"`
	At            string  `json:"at"`
	Hours         float64 `json:"hours,omitempty"`
	WorkPerformed string  `json:"workPerformed,omitempty"`
}

func (c *call) entryView(e snapshot.ClockEntry) map[string]any {
	v := map[string]any{
		"id":            e.ID,
		"employeeName":  c.memberName(e.EmployeeID),
		"projectName":   c.projectName(e.ProjectID),
		"clockIn":       c.stamp(e.ClockIn),
		"hours":         round2(e.Hours(c.now)),
		"open":          e.Open(),
		"workPerformed": e.WorkPerformed,
	}
	if e.ClockOut != nil {
		v["clockOut"] = c.stamp(*e.ClockOut)
	}
	if onBreak(e) {
		v["onLunchBreak"] = true
	}
	return v
}

func onBreak(e snapshot.ClockEntry) bool {
	n := len(e.LunchBreaks)
	return e.Open() && n > 0 && e.LunchBreaks[n-1].End == nil
}

func (c *call) localDate(t time.Time) string {
	return t.In(c.now.Location()).Format(time.DateOnly)
}

func (c *call) queryClockEntries(o *QueryClockEntries) (*reply, error) {
	var empID, projID string
	if o.EmployeeName != "" {
		m, err := c.employee(o.EmployeeName)
		if err != nil {
			return nil, err
		}
		empID = m.ID
	}
	if o.ProjectName != "" {
		p, err := c.project(o.ProjectName)
		if err != nil {
			return nil, err
		}
		projID = p.ID
	}
	date := c.dateFilter("date", o.Date)

	var total float64
	out := []map[string]any{}
	for _, e := range c.snap.ClockEntries() {
		if empID != "" && e.EmployeeID != empID {
			continue
		}
		if projID != "" && e.ProjectID != projID {
			continue
		}
		if date != "" && c.localDate(e.ClockIn) != date {
			continue
		}
		total += e.Hours(c.now)
		out = append(out, c.entryView(e))
	}
	return read(map[string]any{"count": len(out), "totalHours": round2(total), "entries": out})
}

func (c *call) clockIn(o *ClockIn) (*reply, error) {
	m, err := c.employee(o.EmployeeName)
	if err != nil {
		return nil, err
	}
	if open, ok := c.snap.OpenClockEntry(m.ID); ok {
		return nil, ruleErr("already_clocked_in", "%s is already clocked in on %s since %s. Clock out first.",
			m.Name, c.projectName(open.ProjectID), open.ClockIn.In(c.now.Location()).Format(time.Kitchen))
	}
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	if p.Status == snapshot.ProjectArchived || p.Status == snapshot.ProjectCompleted {
		return nil, ruleErr("project_closed", "%s is %s; time cannot be logged against it.", p.Name, p.Status)
	}
	data := ClockInData{
		EmployeeID:    m.ID,
		EmployeeName:  m.Name,
		ProjectID:     p.ID,
		ProjectName:   p.Name,
		ClockIn:       c.stamp(c.now),
		WorkPerformed: o.WorkPerformed,
		Category:      o.Category,
	}
	return pending(data, fmt.Sprintf("%s will be clocked in on %s at %s once confirmed.", m.Name, p.Name, c.now.Format(time.Kitchen)), nil)
}

// openShift finds the employee's open clock entry.
func (c *call) openShift(name string) (snapshot.TeamMember, snapshot.ClockEntry, error) {
	m, err := c.employee(name)
	if err != nil {
		return m, snapshot.ClockEntry{}, err
	}
	e, ok := c.snap.OpenClockEntry(m.ID)
	if !ok {
		return m, e, ruleErr("not_clocked_in", "%s is not clocked in.", m.Name)
	}
	return m, e, nil
}

func (c *call) shift(m snapshot.TeamMember, e snapshot.ClockEntry) ShiftData {
	return ShiftData{
		EntryID:      e.ID,
		EmployeeID:   m.ID,
		EmployeeName: m.Name,
		ProjectName:  c.projectName(e.ProjectID),
		At:           c.stamp(c.now),
	}
}

func (c *call) clockOut(o *ClockOut) (*reply, error) {
	m, e, err := c.openShift(o.EmployeeName)
	if err != nil {
		return nil, err
	}
	if onBreak(e) {
		c.notef("%s was still on a lunch break; it ends at clock-out.", m.Name)
		stop := c.now
		e.LunchBreaks = slices.Clone(e.LunchBreaks)
		e.LunchBreaks[len(e.LunchBreaks)-1].End = &stop
	}
	data := c.shift(m, e)
	data.Hours = round2(e.Hours(c.now))
	data.WorkPerformed = o.WorkPerformed
	return pending(data, fmt.Sprintf("%s will be clocked out of %s after %.2f hours once confirmed.", m.Name, data.ProjectName, data.Hours), nil)
}

func (c *call) startLunchBreak(o *StartLunchBreak) (*reply, error) {
	m, e, err := c.openShift(o.EmployeeName)
	if err != nil {
		return nil, err
	}
	if onBreak(e) {
		return nil, ruleErr("already_on_break", "%s is already on a lunch break.", m.Name)
	}
	data := c.shift(m, e)
	return pending(data, fmt.Sprintf("%s's lunch break will start at %s once confirmed.", m.Name, c.now.Format(time.Kitchen)), nil)
}

func (c *call) endLunchBreak(o *EndLunchBreak) (*reply, error) {
	m, e, err := c.openShift(o.EmployeeName)
	if err != nil {
		return nil, err
	}
	if !onBreak(e) {
		return nil, ruleErr("not_on_break", "%s is not on a lunch break.", m.Name)
	}
	data := c.shift(m, e)
	started := e.LunchBreaks[len(e.LunchBreaks)-1].Start
	mins := int(c.now.Sub(started).Minutes())
	return pending(data, fmt.Sprintf("%s's %d-minute lunch break will end once confirmed.", m.Name, mins), nil)
}

func (c *call) getTimecard(o *GetTimecard) (*reply, error) {
	m, err := c.employee(o.EmployeeName)
	if err != nil {
		return nil, err
	}
	start := c.dateFilter("startDate", o.StartDate)
	end := c.dateFilter("endDate", o.EndDate)
	if start == "" {
		offset := (int(c.now.Weekday()) + 6) % 7
		start = c.now.AddDate(0, 0, -offset).Format(time.DateOnly)
	}
	if end == "" {
		end = c.today()
	}

	var entries []snapshot.ClockEntry
	open := []map[string]any{}
	for _, e := range c.snap.ClockEntries() {
		if e.EmployeeID != m.ID || !inRange(c.localDate(e.ClockIn), start, end) {
			continue
		}
		if e.Open() {
			open = append(open, c.entryView(e))
		}
		entries = append(entries, e)
	}
	days := c.splitDays(entries)
	var total, regular, overtime float64
	for _, d := range days {
		total += d.Hours
		regular += d.Regular
		overtime += d.Overtime
	}
	result := map[string]any{
		"employeeName":  m.Name,
		"startDate":     start,
		"endDate":       end,
		"days":          days,
		"totalHours":    round2(total),
		"regularHours":  round2(regular),
		"overtimeHours": round2(overtime),
	}
	if m.HourlyRate > 0 {
		result["estimatedPay"] = round2(regular*m.HourlyRate + overtime*m.HourlyRate*1.5)
	}
	if len(open) > 0 {
		result["openShift"] = open[0]
	}
	return read(result)
}

func (c *call) whoIsClockedIn(o *WhoIsClockedIn) (*reply, error) {
	var projID string
	if o.ProjectName != "" {
		p, err := c.project(o.ProjectName)
		if err != nil {
			return nil, err
		}
		projID = p.ID
	}
	out := []map[string]any{}
	for _, e := range c.snap.ClockEntries() {
		if !e.Open() || (projID != "" && e.ProjectID != projID) {
			continue
		}
		out = append(out, c.entryView(e))
	}
	result := map[string]any{"count": len(out), "clockedIn": out}
	if len(out) == 0 {
		result["message"] = "Nobody is clocked in right now."
	}
	return read(result)
}
