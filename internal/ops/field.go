package ops

import (
	"fmt"
	"strings"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/resolve"
	"github.com/legacyprime/foreman/internal/snapshot"
)

// DailyLogData is the payload for add_daily_log.
type DailyLogData struct {
	ProjectID     string `json:"projectId"`
	ProjectName   string `json:"projectName"`
	LogDate       string `json:"logDate"`
	WorkPerformed string `json:"workPerformed"`
	Issues        string `json:"issues,omitempty"`
	GeneralNotes  string `json:"generalNotes,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty"`
}

// PhotoData is the payload for add_photo: one photo per attached image.
type PhotoData struct {
	ProjectID   string       `json:"projectId"`
	ProjectName string       `json:"projectName"`
	Category    string       `json:"category"`
	Notes       string       `json:"notes,omitempty"`
	Date        string       `json:"date"`
	Files       []Attachment `json:"files"`
}

// TaskData is the payload for create_task.
type TaskData struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Reminder    string `json:"reminder,omitempty"`
}

// SubcontractorData is the payload for add_subcontractor.
type SubcontractorData struct {
	Name        string  `json:"name"`
	CompanyName string  `json:"companyName,omitempty"`
	Trade       string  `json:"trade"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	HourlyRate  float64 `json:"hourlyRate,omitempty"`
	Approved    bool    `json:"approved"`
}

// AssignmentData is the payload for assign_subcontractor and
// request_proposal.
type AssignmentData struct {
	SubcontractorID   string `json:"subcontractorId"`
	SubcontractorName string `json:"subcontractorName"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	ProjectID         string `json:"projectId"`
	ProjectName       string `json:"projectName"`
	Notes             string `json:"notes,omitempty"`
	Scope             string `json:"scope,omitempty"`
	DueDate           string `json:"dueDate,omitempty"`
}

func (c *call) queryDailyLogs(o *QueryDailyLogs) (*reply, error) {
	projID, err := c.projectScope(o.ProjectID, o.ProjectName)
	if err != nil {
		return nil, err
	}
	date := c.dateFilter("date", o.Date)
	out := []map[string]any{}
	for _, l := range c.snap.DailyLogs() {
		if projID != "" && l.ProjectID != projID {
			continue
		}
		if date != "" && !inRange(l.LogDate, date, date) {
			continue
		}
		out = append(out, map[string]any{
			"id":            l.ID,
			"projectName":   c.projectName(l.ProjectID),
			"logDate":       l.LogDate,
			"workPerformed": l.WorkPerformed,
			"issues":        l.Issues,
			"generalNotes":  l.GeneralNotes,
			"createdBy":     c.memberName(l.CreatedBy),
		})
	}
	return read(map[string]any{"count": len(out), "logs": out})
}

func (c *call) addDailyLog(o *AddDailyLog) (*reply, error) {
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	data := DailyLogData{
		ProjectID:     p.ID,
		ProjectName:   p.Name,
		LogDate:       c.date("date", o.Date, c.today()),
		WorkPerformed: o.WorkPerformed,
		Issues:        o.Issues,
		GeneralNotes:  o.GeneralNotes,
		CreatedBy:     c.snap.CurrentUserID(),
	}
	for _, l := range c.snap.DailyLogs() {
		if l.ProjectID == p.ID && inRange(l.LogDate, data.LogDate, data.LogDate) {
			c.notef("%s already has a daily log for %s; this adds another.", p.Name, data.LogDate)
			break
		}
	}
	return pending(data, fmt.Sprintf("A daily log for %s on %s will be added once confirmed.", p.Name, data.LogDate), nil)
}

func (c *call) deleteDailyLog(o *DeleteDailyLog) (*reply, error) {
	l, ok := c.snap.DailyLog(o.LogID)
	if !ok {
		return nil, ruleErr("no_such_record", "No daily log with id %s exists. Use query_daily_logs to find it.", o.LogID)
	}
	name := c.projectName(l.ProjectID)
	data := RecordRef{ID: l.ID, ProjectID: l.ProjectID, ProjectName: name}
	return pending(data, fmt.Sprintf("The %s daily log for %s will be deleted once confirmed.", l.LogDate, name), nil)
}

func (c *call) queryPhotos(o *QueryPhotos) (*reply, error) {
	const limit = 10
	projID, err := c.projectScope(o.ProjectID, o.ProjectName)
	if err != nil {
		return nil, err
	}
	var found []snapshot.Photo
	byCategory := map[string]int{}
	for _, ph := range c.snap.Photos() {
		if projID != "" && ph.ProjectID != projID {
			continue
		}
		if o.Category != "" && ph.Category != o.Category {
			continue
		}
		byCategory[ph.Category]++
		found = append(found, ph)
	}
	out := []map[string]any{}
	for _, ph := range found[:min(len(found), limit)] {
		out = append(out, map[string]any{
			"id":          ph.ID,
			"projectName": c.projectName(ph.ProjectID),
			"category":    ph.Category,
			"notes":       ph.Notes,
			"url":         ph.URL,
			"date":        ph.Date,
		})
	}
	return read(map[string]any{
		"count":      len(found),
		"byCategory": byCategory,
		"photos":     out,
		"hasMore":    len(found) > limit,
	})
}

func (c *call) addPhoto(o *AddPhoto) (*reply, error) {
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	if _, err := c.firstImage("site"); err != nil {
		return nil, err
	}
	category := o.Category
	if category == "" {
		category = "progress"
	}
	data := PhotoData{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Category:    category,
		Notes:       o.Notes,
		Date:        c.today(),
		Files:       c.images(),
	}
	return pending(data, fmt.Sprintf("%d %s photo(s) will be added to %s once confirmed.", len(data.Files), category, p.Name), nil)
}

func (c *call) queryTasks(o *QueryTasks) (*reply, error) {
	projID, err := c.projectScope(o.ProjectID, o.ProjectName)
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	open := 0
	for _, t := range c.snap.Tasks() {
		if projID != "" && t.ProjectID != projID {
			continue
		}
		if o.Completed != nil && t.Completed != *o.Completed {
			continue
		}
		if !t.Completed {
			open++
		}
		out = append(out, map[string]any{
			"id":          t.ID,
			"name":        t.Name,
			"projectName": c.projectName(t.ProjectID),
			"date":        t.Date,
			"completed":   t.Completed,
			"overdue":     !t.Completed && t.Date != "" && t.Date < c.today(),
		})
	}
	return read(map[string]any{"count": len(out), "open": open, "tasks": out})
}

func (c *call) createTask(o *CreateTask) (*reply, error) {
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	data := TaskData{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Name:        o.Name,
		Date:        c.date("date", o.Date, ""),
		Reminder:    o.Reminder,
	}
	return pending(data, fmt.Sprintf("Task %q will be added to %s for %s once confirmed.", o.Name, p.Name, data.Date), nil)
}

func (c *call) completeTask(o *CompleteTask) (*reply, error) {
	tasks := c.snap.Tasks()
	if o.ProjectName != "" {
		p, err := c.project(o.ProjectName)
		if err != nil {
			return nil, err
		}
		scoped := tasks[:0:0]
		for _, t := range tasks {
			if t.ProjectID == p.ID {
				scoped = append(scoped, t)
			}
		}
		tasks = scoped
	}
	t, err := resolve.Task(tasks, o.TaskName)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return nil, ruleErr("already_completed", "Task %q is already complete.", t.Name)
	}
	data := RecordRef{ID: t.ID, ProjectID: t.ProjectID, ProjectName: c.projectName(t.ProjectID)}
	return pending(data, fmt.Sprintf("Task %q will be marked complete once confirmed.", t.Name), nil)
}

func (c *call) querySubcontractors(o *QuerySubcontractors) (*reply, error) {
	out := []map[string]any{}
	for _, s := range c.snap.Subcontractors() {
		if o.Trade != "" && !containsFold(s.Trade, o.Trade) {
			continue
		}
		if o.Availability != "" && s.Availability != o.Availability {
			continue
		}
		if o.Approved != nil && s.Approved != *o.Approved {
			continue
		}
		out = append(out, map[string]any{
			"id":           s.ID,
			"name":         s.Name,
			"companyName":  s.CompanyName,
			"trade":        s.Trade,
			"phone":        s.Phone,
			"email":        s.Email,
			"hourlyRate":   s.HourlyRate,
			"rating":       s.Rating,
			"availability": s.Availability,
			"approved":     s.Approved,
		})
	}
	return read(map[string]any{"count": len(out), "subcontractors": out})
}

func (c *call) addSubcontractor(o *AddSubcontractor) (*reply, error) {
	if o.HourlyRate < 0 {
		return nil, &catalog.ValidationError{Field: "hourlyRate", Message: "The hourly rate cannot be negative."}
	}
	for _, s := range c.snap.Subcontractors() {
		if strings.EqualFold(s.Name, strings.TrimSpace(o.Name)) || sameEmail(s.Email, o.Email) || samePhone(s.Phone, o.Phone) {
			return nil, ruleErr("duplicate_subcontractor", "%s (%s) is already in the subcontractor list.", s.Name, s.Trade)
		}
	}
	data := SubcontractorData{
		Name:        o.Name,
		CompanyName: o.CompanyName,
		Trade:       o.Trade,
		Phone:       o.Phone,
		Email:       o.Email,
		HourlyRate:  o.HourlyRate,
	}
	if o.Phone == "" && o.Email == "" {
		c.notef("No phone or email was given for %s.", o.Name)
	}
	return pending(data, fmt.Sprintf("%s (%s) will be added as a subcontractor once confirmed.", o.Name, o.Trade), nil)
}

func (c *call) assignment(subName, projectName string) (AssignmentData, error) {
	s, err := resolve.Subcontractor(c.snap, subName)
	if err != nil {
		return AssignmentData{}, err
	}
	p, err := c.project(projectName)
	if err != nil {
		return AssignmentData{}, err
	}
	if s.Availability == "unavailable" {
		c.notef("%s is marked unavailable.", s.Name)
	}
	return AssignmentData{
		SubcontractorID:   s.ID,
		SubcontractorName: s.Name,
		Email:             s.Email,
		Phone:             s.Phone,
		ProjectID:         p.ID,
		ProjectName:       p.Name,
	}, nil
}

func (c *call) assignSubcontractor(o *AssignSubcontractor) (*reply, error) {
	data, err := c.assignment(o.SubcontractorName, o.ProjectName)
	if err != nil {
		return nil, err
	}
	data.Notes = o.Notes
	return pending(data, fmt.Sprintf("%s will be assigned to %s once confirmed.", data.SubcontractorName, data.ProjectName), nil)
}

func (c *call) requestProposal(o *RequestProposal) (*reply, error) {
	data, err := c.assignment(o.SubcontractorName, o.ProjectName)
	if err != nil {
		return nil, err
	}
	if data.Email == "" && data.Phone == "" {
		return nil, ruleErr("no_contact", "%s has no email or phone on file to send the request to.", data.SubcontractorName)
	}
	data.Scope = o.Scope
	if o.DueDate != "" {
		data.DueDate = c.date("dueDate", o.DueDate, "")
	}
	return pending(data, fmt.Sprintf("A proposal request for %s will be sent to %s once confirmed.", data.ProjectName, data.SubcontractorName), nil)
}

func (c *call) queryTeamMembers(o *QueryTeamMembers) (*reply, error) {
	out := []map[string]any{}
	for _, m := range c.snap.TeamMembers() {
		if o.Role != "" && m.Role != o.Role {
			continue
		}
		if o.IsActive != nil && m.IsActive != *o.IsActive {
			continue
		}
		_, clocked := c.snap.OpenClockEntry(m.ID)
		out = append(out, map[string]any{
			"id":        m.ID,
			"name":      m.Name,
			"email":     m.Email,
			"phone":     m.Phone,
			"role":      m.Role,
			"isActive":  m.IsActive,
			"clockedIn": clocked,
		})
	}
	return read(map[string]any{"count": len(out), "members": out})
}
