package ops

import (
	"fmt"
	"strings"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/snapshot"
)

// ProjectData is the payload for create_project. Estimate is a
// placeholder estimate that links the new project to its client, since
// projects reach clients only through an estimate.
type ProjectData struct {
	Name      string               `json:"name"`
	Budget    float64              `json:"budget"`
	StartDate string               `json:"startDate"`
	Status    string               `json:"status"`
	ClientID  string               `json:"clientId,omitempty"`
	Estimate  *PlaceholderEstimate `json:"estimate,omitempty"`
}

// PlaceholderEstimate is created alongside a project made for a client.
type PlaceholderEstimate struct {
	ClientID string  `json:"clientId"`
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
	Status   string  `json:"status"`
}

// ProjectUpdate is the payload for update_project and archive_project.
type ProjectUpdate struct {
	ProjectID   string         `json:"projectId"`
	ProjectName string         `json:"projectName"`
	Updates     map[string]any `json:"updates"`
}

// ConversionData is the payload for convert_estimate_to_project.
type ConversionData struct {
	EstimateID    string  `json:"estimateId"`
	EstimateName  string  `json:"estimateName"`
	ClientID      string  `json:"clientId"`
	ClientName    string  `json:"clientName"`
	ProjectName   string  `json:"projectName"`
	Budget        float64 `json:"budget"`
	StartDate     string  `json:"startDate"`
	NeedsApproval bool    `json:"needsApproval"`
}

func (c *call) queryProjects(o *QueryProjects) (*reply, error) {
	out := []map[string]any{}
	for _, p := range c.snap.Projects() {
		if o.ProjectName != "" && !containsFold(p.Name, o.ProjectName) {
			continue
		}
		if o.Status != "" && string(p.Status) != o.Status {
			continue
		}
		out = append(out, map[string]any{
			"id":         p.ID,
			"name":       p.Name,
			"status":     p.Status,
			"budget":     p.Budget,
			"expenses":   p.Expenses,
			"progress":   p.Progress,
			"clientName": c.clientName(p.ID),
		})
	}
	return read(map[string]any{"count": len(out), "projects": out})
}

func (c *call) getProjectDetails(o *GetProjectDetails) (*reply, error) {
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}

	var spent float64
	byType := map[string]float64{}
	for _, e := range c.snap.ExpensesForProject(p.ID) {
		spent += e.Amount
		byType[string(e.Type)] += e.Amount
	}
	var paid float64
	for _, pay := range c.snap.Payments() {
		if pay.ProjectID == p.ID {
			paid += pay.Amount
		}
	}
	var approvedCO float64
	pendingCO := 0
	for _, co := range c.snap.ChangeOrders() {
		if co.ProjectID != p.ID {
			continue
		}
		switch co.Status {
		case "approved":
			approvedCO += co.Amount
		case "pending":
			pendingCO++
		}
	}
	var hours float64
	onSite := []string{}
	for _, ce := range c.snap.ClockEntries() {
		if ce.ProjectID != p.ID {
			continue
		}
		hours += ce.Hours(c.now)
		if ce.Open() {
			onSite = append(onSite, c.memberName(ce.EmployeeID))
		}
	}
	openTasks := []string{}
	for _, t := range c.snap.Tasks() {
		if t.ProjectID == p.ID && !t.Completed {
			openTasks = append(openTasks, t.Name)
		}
	}

	result := map[string]any{
		"id":                   p.ID,
		"name":                 p.Name,
		"status":               p.Status,
		"progress":             p.Progress,
		"budget":               p.Budget,
		"spent":                round2(spent),
		"remaining":            round2(p.Budget - spent),
		"expensesByType":       byType,
		"paymentsReceived":     round2(paid),
		"approvedChangeOrders": round2(approvedCO),
		"pendingChangeOrders":  pendingCO,
		"hoursWorked":          round2(hours),
		"clockedIn":            onSite,
		"openTasks":            openTasks,
		"startDate":            p.StartDate,
		"endDate":              p.EndDate,
	}
	if p.Budget > 0 {
		result["budgetUsedPercent"] = round2(spent / p.Budget * 100)
	}
	if cl, ok := c.snap.ClientForProject(p.ID); ok {
		result["clientName"] = cl.Name
		result["clientPhone"] = cl.Phone
		result["clientEmail"] = cl.Email
	}
	return read(result)
}

func (c *call) createProject(o *CreateProject) (*reply, error) {
	if o.Budget <= 0 {
		return nil, &catalog.ValidationError{Field: "budget", Message: "The budget must be greater than zero."}
	}
	for _, p := range c.snap.Projects() {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(o.Name)) {
			return nil, ruleErr("duplicate_project", "A project named %q already exists.", p.Name)
		}
	}
	data := ProjectData{
		Name:      o.Name,
		Budget:    o.Budget,
		StartDate: c.date("startDate", o.StartDate, c.today()),
		Status:    string(snapshot.ProjectActive),
	}
	fields := map[string]any{"name": o.Name, "budget": o.Budget, "startDate": data.StartDate}
	if o.ClientName != "" {
		cl, err := c.client(o.ClientName)
		if err != nil {
			return nil, err
		}
		data.ClientID = cl.ID
		data.Estimate = &PlaceholderEstimate{
			ClientID: cl.ID,
			Name:     o.Name,
			Total:    o.Budget,
			Status:   string(snapshot.EstimateApproved),
		}
		fields["clientName"] = cl.Name
	}
	return pending(data, fmt.Sprintf("Project %q will be created once confirmed.", o.Name), fields)
}

func (c *call) updateProject(o *UpdateProject) (*reply, error) {
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if o.Name != "" && o.Name != p.Name {
		updates["name"] = o.Name
	}
	if o.Budget != nil {
		if *o.Budget <= 0 {
			return nil, &catalog.ValidationError{Field: "budget", Message: "The budget must be greater than zero."}
		}
		updates["budget"] = *o.Budget
	}
	if o.Progress != nil {
		if *o.Progress < 0 || *o.Progress > 100 {
			return nil, &catalog.ValidationError{Field: "progress", Message: "Progress is a percentage between 0 and 100."}
		}
		updates["progress"] = *o.Progress
	}
	if o.Status != "" && o.Status != string(p.Status) {
		updates["status"] = o.Status
	}
	if o.EndDate != "" {
		updates["endDate"] = c.date("endDate", o.EndDate, "")
	}
	if len(updates) == 0 {
		return nil, &catalog.ValidationError{Message: fmt.Sprintf("Nothing to change. Ask what should be updated on %s.", p.Name)}
	}
	data := ProjectUpdate{ProjectID: p.ID, ProjectName: p.Name, Updates: updates}
	return pending(data, fmt.Sprintf("%s will be updated once confirmed.", p.Name), map[string]any{"updates": updates})
}

func (c *call) archiveProject(o *ArchiveProject) (*reply, error) {
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	if p.Status == snapshot.ProjectArchived {
		return nil, ruleErr("already_archived", "%s is already archived.", p.Name)
	}
	var onSite []string
	for _, ce := range c.snap.ClockEntries() {
		if ce.ProjectID == p.ID && ce.Open() {
			onSite = append(onSite, c.memberName(ce.EmployeeID))
		}
	}
	if len(onSite) > 0 {
		return nil, ruleErr("crew_on_site", "%s cannot be archived while crew is clocked in on it: %s.", p.Name, strings.Join(onSite, ", "))
	}
	data := ProjectUpdate{ProjectID: p.ID, ProjectName: p.Name, Updates: map[string]any{"status": string(snapshot.ProjectArchived)}}
	return pending(data, fmt.Sprintf("%s will be archived once confirmed.", p.Name), nil)
}

func convertible(e snapshot.Estimate) bool {
	return e.ProjectID == "" && e.Status != snapshot.EstimateRejected
}

func (c *call) convertEstimateToProject(o *ConvertEstimateToProject) (*reply, error) {
	est, err := c.pickEstimate(o.ClientName, o.EstimateID, convertible, "convert")
	if err != nil {
		return nil, err
	}
	switch {
	case est.ProjectID != "":
		return nil, ruleErr("already_converted", "Estimate %q was already converted into %s.", est.Name, c.projectName(est.ProjectID))
	case est.Status == snapshot.EstimateRejected:
		return nil, ruleErr("estimate_rejected", "Estimate %q was rejected and cannot become a project.", est.Name)
	case len(est.Items) == 0:
		return nil, ruleErr("empty_estimate", "Estimate %q has no line items. Add items before converting it.", est.Name)
	}

	cl, _ := c.snap.Client(est.ClientID)
	approved := est.Status == snapshot.EstimateApproved || est.Status == snapshot.EstimatePaid
	if !approved && !o.AutoApprove {
		return read(map[string]any{
			"needsApproval": true,
			"estimateId":    est.ID,
			"estimateName":  est.Name,
			"status":        est.Status,
			"total":         est.Total,
			"message":       fmt.Sprintf("Estimate %q is %s, not approved. Ask whether to approve it and create the project.", est.Name, est.Status),
		})
	}

	name := strings.TrimSpace(o.ProjectName)
	if name == "" {
		name = est.Name
	}
	data := ConversionData{
		EstimateID:    est.ID,
		EstimateName:  est.Name,
		ClientID:      est.ClientID,
		ClientName:    cl.Name,
		ProjectName:   name,
		Budget:        est.Total,
		StartDate:     c.date("startDate", o.StartDate, c.today()),
		NeedsApproval: !approved,
	}
	msg := fmt.Sprintf("Project %q will be created from estimate %q once confirmed.", name, est.Name)
	if !approved {
		msg = fmt.Sprintf("Estimate %q will be approved and project %q created from it once confirmed.", est.Name, name)
	}
	return pending(data, msg, map[string]any{"projectName": name, "budget": est.Total})
}

func (c *call) getSummary(o *GetSummary) (*reply, error) {
	projects := c.snap.Projects()
	clients := c.snap.Clients()
	countProjects := func(s snapshot.ProjectStatus) int {
		n := 0
		for _, p := range projects {
			if p.Status == s {
				n++
			}
		}
		return n
	}
	countClients := func(s snapshot.ClientStatus) int {
		n := 0
		for _, cl := range clients {
			if cl.Status == s {
				n++
			}
		}
		return n
	}
	var budget, spent, received float64
	for _, p := range projects {
		budget += p.Budget
	}
	for _, e := range c.snap.Expenses() {
		spent += e.Amount
	}
	for _, p := range c.snap.Payments() {
		received += p.Amount
	}
	margin := 0.0
	if budget > 0 {
		margin = round2((budget - spent) / budget * 100)
	}

	switch o.Type {
	case "financial":
		return read(map[string]any{
			"totalBudget":   round2(budget),
			"totalExpenses": round2(spent),
			"totalPayments": round2(received),
			"profit":        round2(received - spent),
			"profitMargin":  margin,
		})
	case "projects":
		list := make([]map[string]any, len(projects))
		for i, p := range projects {
			list[i] = map[string]any{"name": p.Name, "status": p.Status, "budget": p.Budget, "progress": p.Progress}
		}
		return read(map[string]any{
			"total":     len(projects),
			"active":    countProjects(snapshot.ProjectActive),
			"completed": countProjects(snapshot.ProjectCompleted),
			"onHold":    countProjects(snapshot.ProjectOnHold),
			"projects":  list,
		})
	case "clients":
		return read(map[string]any{
			"total":     len(clients),
			"leads":     countClients(snapshot.ClientLead),
			"active":    countClients(snapshot.ClientProject),
			"completed": countClients(snapshot.ClientCompleted),
		})
	}

	sent := 0
	for _, e := range c.snap.Estimates() {
		if e.Status == snapshot.EstimateSent {
			sent++
		}
	}
	company := c.snap.Company().Name
	if company == "" {
		company = "Your Company"
	}
	return read(map[string]any{
		"companyName":      company,
		"activeProjects":   countProjects(snapshot.ProjectActive),
		"totalProjects":    len(projects),
		"totalClients":     len(clients),
		"newLeads":         countClients(snapshot.ClientLead),
		"totalBudget":      round2(budget),
		"totalExpenses":    round2(spent),
		"pendingEstimates": sent,
	})
}
