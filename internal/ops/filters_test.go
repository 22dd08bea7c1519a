package ops

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/legacyprime/foreman/internal/snapshot"
)

func runWith(t *testing.T, d snapshot.Data, name string, args map[string]any) Outcome {
	t.Helper()
	req := &Request{Snapshot: snapshot.New(d), Now: testNow}
	return NewExecutor(nil, nil).Execute(context.Background(), req, name, args)
}

// filterData extends the shared fixture with records on both projects.
func filterData() snapshot.Data {
	d := testData()
	d.Payments = []snapshot.Payment{
		{ID: "pay1", ProjectID: "p3", ClientID: "c3", Amount: 700, Date: "2026-10-18", Method: "check"},
		{ID: "pay2", ProjectID: "p3", ClientID: "c3", Amount: 500, Date: "2026-09-01", Method: "cash"},
		{ID: "pay3", ProjectID: "p1", Amount: 300, Date: "2026-10-18", Method: "card"},
	}
	d.Subcontractors = []snapshot.Subcontractor{
		{ID: "s1", Name: "Dan's Electric", Trade: "Electrical"},
		{ID: "s2", Name: "Dan Plumbing", Trade: "Plumbing"},
	}
	d.Proposals = []snapshot.Proposal{
		{ID: "pr1", SubcontractorID: "s1", ProjectID: "p3", Amount: 4000, Status: "submitted"},
		{ID: "pr2", SubcontractorID: "s2", ProjectID: "p1", Amount: 2500, Status: "accepted"},
		{ID: "pr3", SubcontractorID: "s1", ProjectID: "p1", Amount: 1800, Status: "negotiating"},
	}
	d.DailyLogs = []snapshot.DailyLog{
		{ID: "l1", ProjectID: "p3", LogDate: "2026-10-17", WorkPerformed: "Framed soffits"},
		{ID: "l2", ProjectID: "p1", LogDate: "2026-10-17", WorkPerformed: "Demo cabinets"},
	}
	d.Photos = []snapshot.Photo{
		{ID: "ph1", ProjectID: "p3", Category: "progress", URL: "https://img.example/1.jpg", Date: "2026-10-17"},
		{ID: "ph2", ProjectID: "p1", Category: "before", URL: "https://img.example/2.jpg", Date: "2026-10-12"},
		{ID: "ph3", ProjectID: "p1", Category: "progress", URL: "https://img.example/3.jpg", Date: "2026-10-17"},
	}
	d.Tasks = []snapshot.Task{
		{ID: "t1", ProjectID: "p3", Name: "Order drywall", Date: "2026-10-20"},
		{ID: "t2", ProjectID: "p1", Name: "Template counters", Date: "2026-10-22"},
	}
	return d
}

func TestQueryFilters(t *testing.T) {
	tests := []struct {
		name      string
		op        string
		args      map[string]any
		wantCount int
		wantTotal float64 // checked when non-zero
		totalKey  string
	}{
		{"payments on one day", "query_payments", map[string]any{"date": "today"}, 2, 1000, "total"},
		{"payments by project id", "query_payments", map[string]any{"projectId": "p1"}, 1, 300, "total"},
		{"payments by project id and day", "query_payments", map[string]any{"projectId": "p3", "date": "2026-09-01"}, 1, 500, "total"},
		{"day overrides range", "query_payments", map[string]any{"date": "2026-10-18", "startDate": "2026-01-01"}, 2, 1000, "total"},
		{"payments by range", "query_payments", map[string]any{"startDate": "2026-09-01", "endDate": "2026-09-30"}, 1, 500, "total"},
		{"change orders by project id", "query_change_orders", map[string]any{"projectId": "p1"}, 0, 0, ""},
		{"change orders by other project id", "query_change_orders", map[string]any{"projectId": "p3"}, 2, 1700, "totalAmount"},
		{"proposals by subcontractor id", "query_proposals", map[string]any{"subcontractorId": "s1"}, 2, 5800, "totalAmount"},
		{"proposals by project and subcontractor id", "query_proposals", map[string]any{"projectId": "p1", "subcontractorId": "s1"}, 1, 1800, "totalAmount"},
		{"daily logs by project id", "query_daily_logs", map[string]any{"projectId": "p1"}, 1, 0, ""},
		{"photos by project id", "query_photos", map[string]any{"projectId": "p1"}, 2, 0, ""},
		{"photos by project id and category", "query_photos", map[string]any{"projectId": "p1", "category": "before"}, 1, 0, ""},
		{"tasks by project id", "query_tasks", map[string]any{"projectId": "p3"}, 1, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runWith(t, filterData(), tt.op, tt.args)
			if out.Err != nil {
				t.Fatalf("unexpected error: %v", out.Result)
			}
			if got := out.Result["count"]; got != tt.wantCount {
				t.Errorf("count = %v, want %d (result %v)", got, tt.wantCount, out.Result)
			}
			if tt.wantTotal != 0 && out.Result[tt.totalKey] != tt.wantTotal {
				t.Errorf("%s = %v, want %v", tt.totalKey, out.Result[tt.totalKey], tt.wantTotal)
			}
		})
	}
}

func TestQueryFilters_UnknownID(t *testing.T) {
	tests := []struct {
		op   string
		args map[string]any
	}{
		{"query_payments", map[string]any{"projectId": "p9"}},
		{"query_tasks", map[string]any{"projectId": "p9"}},
		{"query_proposals", map[string]any{"subcontractorId": "s9"}},
		{"generate_report", map[string]any{"reportType": "expenses", "projectId": "p9"}},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			out := runWith(t, filterData(), tt.op, tt.args)
			if out.Err == nil {
				t.Fatalf("expected not_found, got %v", out.Result)
			}
			if out.Result["kind"] != "not_found" {
				t.Errorf("kind = %v, want not_found", out.Result["kind"])
			}
		})
	}
}

func TestGenerateReport_ProjectID(t *testing.T) {
	tests := []struct {
		projectID string
		wantName  string
		wantCount int
	}{
		{"p1", "Kitchen Remodel", 0},
		{"p3", "Basement Finish", 1},
	}
	for _, tt := range tests {
		t.Run(tt.projectID, func(t *testing.T) {
			out := runWith(t, filterData(), "generate_report", map[string]any{"reportType": "expenses", "projectId": tt.projectID})
			if out.Err != nil {
				t.Fatalf("unexpected error: %v", out.Result)
			}
			d := out.ActionData.(ReportData)
			if d.ProjectID != tt.projectID || d.ProjectName != tt.wantName {
				t.Errorf("report scoped to %s/%s, want %s/%s", d.ProjectID, d.ProjectName, tt.projectID, tt.wantName)
			}
			if !strings.HasPrefix(d.Name, tt.wantName) {
				t.Errorf("report name = %q", d.Name)
			}
			report := out.Result["report"].(map[string]any)
			if report["count"] != tt.wantCount {
				t.Errorf("expense count = %v, want %d", report["count"], tt.wantCount)
			}
		})
	}
}

func TestTimeReport_NamesakesStayApart(t *testing.T) {
	d := testData()
	d.TeamMembers = append(d.TeamMembers,
		snapshot.TeamMember{ID: "u3", Name: "Chris Hall", IsActive: true},
		snapshot.TeamMember{ID: "u4", Name: "Chris Hall", IsActive: true},
	)
	d.ClockEntries = append(d.ClockEntries,
		snapshot.ClockEntry{ID: "ce3", EmployeeID: "u3", ProjectID: "p1",
			ClockIn:  time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC),
			ClockOut: ptrTime(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))},
		snapshot.ClockEntry{ID: "ce4", EmployeeID: "u4", ProjectID: "p1",
			ClockIn:  time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC),
			ClockOut: ptrTime(time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC))},
	)

	out := runWith(t, d, "generate_report", map[string]any{"reportType": "time-tracking"})
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Result)
	}
	report := out.Result["report"].(map[string]any)
	got := map[string]employeeHours{}
	for _, eh := range report["byEmployee"].([]employeeHours) {
		got[eh.EmployeeID] = eh
	}
	if len(got) != 3 {
		t.Fatalf("byEmployee has %d employees, want 3: %+v", len(got), report["byEmployee"])
	}
	tests := []struct {
		id                    string
		hours, regular, extra float64
	}{
		{"u1", 10, 8, 2},
		{"u3", 4, 4, 0},
		{"u4", 10, 8, 2},
	}
	for _, tt := range tests {
		eh := got[tt.id]
		if eh.Hours != tt.hours || eh.Regular != tt.regular || eh.Overtime != tt.extra {
			t.Errorf("%s = %+v, want %v hours (%v regular, %v overtime)", tt.id, eh, tt.hours, tt.regular, tt.extra)
		}
	}
	if got["u3"].Employee != "Chris Hall" || got["u4"].Employee != "Chris Hall" {
		t.Errorf("namesakes lost their names: %+v %+v", got["u3"], got["u4"])
	}
}

func TestClockInTwiceNamesCurrentProject(t *testing.T) {
	out := run(t, NewExecutor(nil, nil), "clock_in", map[string]any{"employeeName": "Ana", "projectName": "Kitchen"})
	if out.Result["rule"] != "already_clocked_in" {
		t.Fatalf("rule = %v, want already_clocked_in", out.Result["rule"])
	}
	msg, _ := out.Result["error"].(string)
	if !strings.Contains(msg, "Basement Finish") {
		t.Errorf("error %q does not name the project Ana is clocked into", msg)
	}
}
