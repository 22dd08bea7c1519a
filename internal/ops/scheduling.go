package ops

import (
	"fmt"
	"strings"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/resolve"
	"github.com/legacyprime/foreman/internal/snapshot"
)

// DailyTaskData is the payload for add_daily_task.
type DailyTaskData struct {
	UserID   string `json:"userId,omitempty"`
	Title    string `json:"title"`
	DueDate  string `json:"dueDate"`
	DueTime  string `json:"dueTime"`
	Reminder bool   `json:"reminder"`
	Notes    string `json:"notes,omitempty"`
}

// DailyTaskUpdate is the payload for update, complete and delete of a
// daily task.
type DailyTaskUpdate struct {
	TaskID  string         `json:"taskId"`
	Title   string         `json:"title"`
	Updates map[string]any `json:"updates,omitempty"`
}

func dailyTaskView(t snapshot.DailyTask) map[string]any {
	return map[string]any{
		"id":        t.ID,
		"title":     t.Title,
		"dueDate":   t.DueDate,
		"dueTime":   t.DueTime,
		"reminder":  t.Reminder,
		"completed": t.Completed,
		"notes":     t.Notes,
	}
}

func (c *call) queryDailyTasks(o *QueryDailyTasks) (*reply, error) {
	date := c.dateFilter("date", o.Date)
	user := c.snap.CurrentUserID()
	out := []map[string]any{}
	overdue := 0
	for _, t := range c.snap.DailyTasks() {
		if user != "" && t.UserID != "" && t.UserID != user {
			continue
		}
		if date != "" && t.DueDate != date {
			continue
		}
		if o.Completed != nil && t.Completed != *o.Completed {
			continue
		}
		v := dailyTaskView(t)
		if !t.Completed && t.DueDate < c.today() {
			v["overdue"] = true
			overdue++
		}
		out = append(out, v)
	}
	return read(map[string]any{"count": len(out), "overdue": overdue, "tasks": out})
}

func (c *call) addDailyTask(o *AddDailyTask) (*reply, error) {
	data := DailyTaskData{
		UserID:   c.snap.CurrentUserID(),
		Title:    strings.TrimSpace(o.Title),
		DueDate:  c.date("dueDate", o.DueDate, ""),
		DueTime:  c.clock("dueTime", o.DueTime),
		Reminder: o.Reminder,
		Notes:    o.Notes,
	}
	return pending(data, fmt.Sprintf("%q will be scheduled for %s at %s once confirmed.", data.Title, data.DueDate, data.DueTime), nil)
}

func (c *call) updateDailyTask(o *UpdateDailyTask) (*reply, error) {
	t, err := resolve.DailyTask(c.snap, o.TaskTitle)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if s := strings.TrimSpace(o.NewTitle); s != "" && s != t.Title {
		updates["title"] = s
	}
	if o.DueDate != "" {
		updates["dueDate"] = c.date("dueDate", o.DueDate, "")
	}
	if o.DueTime != "" {
		updates["dueTime"] = c.clock("dueTime", o.DueTime)
	}
	if o.Reminder != nil && *o.Reminder != t.Reminder {
		updates["reminder"] = *o.Reminder
	}
	if o.Notes != "" {
		updates["notes"] = o.Notes
	}
	if len(updates) == 0 {
		return nil, &catalog.ValidationError{Message: fmt.Sprintf("Nothing to change. Ask what should be updated on %q.", t.Title)}
	}
	data := DailyTaskUpdate{TaskID: t.ID, Title: t.Title, Updates: updates}
	return pending(data, fmt.Sprintf("%q will be updated once confirmed.", t.Title), map[string]any{"updates": updates})
}

func (c *call) completeDailyTask(o *CompleteDailyTask) (*reply, error) {
	t, err := resolve.DailyTask(c.snap, o.TaskTitle)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return nil, ruleErr("already_completed", "%q is already complete.", t.Title)
	}
	data := DailyTaskUpdate{TaskID: t.ID, Title: t.Title, Updates: map[string]any{"completed": true}}
	return pending(data, fmt.Sprintf("%q will be marked complete once confirmed.", t.Title), nil)
}

func (c *call) deleteDailyTask(o *DeleteDailyTask) (*reply, error) {
	t, err := resolve.DailyTask(c.snap, o.TaskTitle)
	if err != nil {
		return nil, err
	}
	data := DailyTaskUpdate{TaskID: t.ID, Title: t.Title}
	return pending(data, fmt.Sprintf("%q will be deleted once confirmed.", t.Title), nil)
}
