package ops

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/snapshot"
	"github.com/legacyprime/foreman/internal/vision"
)

// ExpenseData is the payload for add_expense and analyze_receipt.
type ExpenseData struct {
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName"`
	Type        string  `json:"type"`
	Category    string  `json:"category,omitempty"`
	Amount      float64 `json:"amount"`
	Store       string  `json:"store"`
	Date        string  `json:"date"`
	ReceiptURL  string  `json:"receiptUrl,omitempty"`
}

// RecordRef identifies one record to delete, accept or reject.
type RecordRef struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// PaymentData is the payload for add_payment.
type PaymentData struct {
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName"`
	ClientID    string  `json:"clientId,omitempty"`
	ClientName  string  `json:"clientName,omitempty"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method,omitempty"`
	Date        string  `json:"date"`
	Notes       string  `json:"notes,omitempty"`
}

// ChangeOrderData is the payload for create_change_order.
type ChangeOrderData struct {
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
}

// ChangeOrderApproval is the payload for approve_change_order. The
// project budget grows by the change order amount.
type ChangeOrderApproval struct {
	ChangeOrderID string  `json:"changeOrderId"`
	ProjectID     string  `json:"projectId"`
	ProjectName   string  `json:"projectName"`
	Amount        float64 `json:"amount"`
	NewBudget     float64 `json:"newBudget"`
}

func (c *call) queryExpenses(o *QueryExpenses) (*reply, error) {
	projectID := o.ProjectID
	if projectID == "" && o.ProjectName != "" {
		p, err := c.project(o.ProjectName)
		if err != nil {
			return nil, err
		}
		projectID = p.ID
	}
	start := c.dateFilter("startDate", o.StartDate)
	end := c.dateFilter("endDate", o.EndDate)

	var total float64
	byType := map[string]float64{}
	out := []map[string]any{}
	for _, e := range c.snap.Expenses() {
		if projectID != "" && e.ProjectID != projectID {
			continue
		}
		if o.Type != "" && string(e.Type) != o.Type {
			continue
		}
		if o.WithReceipts && e.ReceiptURL == "" {
			continue
		}
		if !inRange(e.Date, start, end) {
			continue
		}
		total += e.Amount
		byType[string(e.Type)] += e.Amount
		out = append(out, map[string]any{
			"id":          e.ID,
			"projectName": c.projectName(e.ProjectID),
			"type":        e.Type,
			"category":    e.Category,
			"amount":      e.Amount,
			"store":       e.Store,
			"date":        e.Date,
			"hasReceipt":  e.ReceiptURL != "",
		})
	}
	return read(map[string]any{
		"count":    len(out),
		"total":    round2(total),
		"byType":   byType,
		"expenses": out,
	})
}

func (c *call) addExpense(o *AddExpense) (*reply, error) {
	if o.Amount <= 0 {
		return nil, &catalog.ValidationError{Field: "amount", Message: "The amount must be greater than zero."}
	}
	if o.Type == string(snapshot.ExpenseSubcontractor) && strings.TrimSpace(o.Category) == "" {
		return nil, &catalog.ValidationError{Field: "category", Message: "Subcontractor expenses need a category (the trade). Ask which one."}
	}
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	data := ExpenseData{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Type:        o.Type,
		Category:    o.Category,
		Amount:      round2(o.Amount),
		Store:       o.Store,
		Date:        c.date("date", o.Date, c.today()),
		ReceiptURL:  o.ReceiptURL,
	}
	if !o.AllowDuplicate {
		if dup, ok := c.duplicateExpense(data); ok {
			return nil, ruleErr("duplicate_expense", "An expense of $%.2f at %s on %s is already recorded for %s. Confirm with the user, then call again with allowDuplicate true.",
				dup.Amount, dup.Store, dup.Date, p.Name)
		}
	}
	return pending(data, fmt.Sprintf("A $%.2f %s expense at %s will be added to %s once confirmed.", data.Amount, data.Type, data.Store, p.Name), map[string]any{
		"expense": data,
	})
}

func (c *call) duplicateExpense(d ExpenseData) (snapshot.Expense, bool) {
	for _, e := range c.snap.ExpensesForProject(d.ProjectID) {
		if math.Abs(e.Amount-d.Amount) < 0.005 && strings.EqualFold(e.Store, d.Store) && inRange(e.Date, d.Date, d.Date) {
			return e, true
		}
	}
	return snapshot.Expense{}, false
}

func (c *call) deleteExpense(o *DeleteExpense) (*reply, error) {
	e, ok := c.snap.Expense(o.ExpenseID)
	if !ok {
		return nil, ruleErr("no_such_record", "No expense with id %s exists. Use query_expenses to find it.", o.ExpenseID)
	}
	name := c.projectName(e.ProjectID)
	data := RecordRef{ID: e.ID, ProjectID: e.ProjectID, ProjectName: name}
	return pending(data, fmt.Sprintf("The $%.2f expense at %s on %s will be deleted from %s once confirmed.", e.Amount, e.Store, e.Date, name), nil)
}

func (c *call) analyzeReceipt(o *AnalyzeReceipt) (*reply, error) {
	img, err := c.firstImage("receipt")
	if err != nil {
		return nil, err
	}
	var project snapshot.Project
	if o.ProjectName != "" {
		if project, err = c.project(o.ProjectName); err != nil {
			return nil, err
		}
	}
	if c.x.vision == nil {
		return nil, &ExternalServiceError{Service: "vision model", Err: errors.New("not configured")}
	}

	rc, err := c.x.vision.AnalyzeReceipt(c.ctx, img.Image())
	switch {
	case errors.Is(err, vision.ErrNotReceipt):
		return nil, ruleErr("not_a_receipt", "The attached image does not look like a receipt. Ask for a clearer photo.")
	case err != nil:
		return nil, &ExternalServiceError{Service: "vision model", Err: err}
	}

	expType := o.Type
	if expType == "" {
		expType = string(snapshot.ExpenseMaterial)
	}
	date := rc.Date
	if date == "" {
		date = c.today()
		c.notef("The receipt date could not be read; assumed %s.", date)
	}
	receipt := map[string]any{
		"store":      rc.Store,
		"amount":     rc.Amount,
		"date":       date,
		"category":   rc.Category,
		"items":      rc.Items,
		"confidence": rc.Confidence,
	}
	if rc.Amount <= 0 {
		return read(map[string]any{
			"receipt": receipt,
			"message": "The total on the receipt could not be read. Ask the user for the amount, then use add_expense.",
		})
	}
	if project.ID == "" {
		return read(map[string]any{
			"receipt": receipt,
			"message": "Receipt read. Ask which project the expense belongs to, then call again with projectName.",
		})
	}

	data := ExpenseData{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Type:        expType,
		Category:    rc.Category,
		Amount:      round2(rc.Amount),
		Store:       rc.Store,
		Date:        date,
	}
	if lower := strings.ToLower(img.URI); strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		data.ReceiptURL = img.URI
	}
	if dup, ok := c.duplicateExpense(data); ok {
		c.notef("An expense of $%.2f at %s on %s is already recorded for %s; check this is not the same receipt.", dup.Amount, dup.Store, dup.Date, project.Name)
	}
	return pending(data, fmt.Sprintf("A $%.2f expense at %s will be added to %s once confirmed.", data.Amount, data.Store, project.Name), map[string]any{
		"receipt": receipt,
	})
}

func (c *call) queryPayments(o *QueryPayments) (*reply, error) {
	projectID, err := c.projectScope(o.ProjectID, o.ProjectName)
	if err != nil {
		return nil, err
	}
	var clientID string
	if o.ClientName != "" {
		cl, err := c.client(o.ClientName)
		if err != nil {
			return nil, err
		}
		clientID = cl.ID
	}
	start := c.dateFilter("startDate", o.StartDate)
	end := c.dateFilter("endDate", o.EndDate)
	if day := c.dateFilter("date", o.Date); day != "" {
		start, end = day, day
	}

	var total float64
	out := []map[string]any{}
	for _, p := range c.snap.Payments() {
		if projectID != "" && p.ProjectID != projectID {
			continue
		}
		if clientID != "" && !c.paymentFrom(p, clientID) {
			continue
		}
		if !inRange(p.Date, start, end) {
			continue
		}
		total += p.Amount
		out = append(out, map[string]any{
			"id":          p.ID,
			"amount":      p.Amount,
			"date":        p.Date,
			"method":      p.Method,
			"clientName":  p.ClientName,
			"projectName": c.projectName(p.ProjectID),
			"notes":       p.Notes,
		})
	}
	return read(map[string]any{"count": len(out), "total": round2(total), "payments": out})
}

func (c *call) paymentFrom(p snapshot.Payment, clientID string) bool {
	if p.ClientID != "" {
		return p.ClientID == clientID
	}
	cl, ok := c.snap.ClientForProject(p.ProjectID)
	return ok && cl.ID == clientID
}

func (c *call) addPayment(o *AddPayment) (*reply, error) {
	if o.Amount <= 0 {
		return nil, &catalog.ValidationError{Field: "amount", Message: "The amount must be greater than zero."}
	}
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	data := PaymentData{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Amount:      round2(o.Amount),
		Method:      o.Method,
		Date:        c.date("date", o.Date, c.today()),
		Notes:       o.Notes,
	}
	if cl, ok := c.snap.ClientForProject(p.ID); ok {
		data.ClientID, data.ClientName = cl.ID, cl.Name
	}
	return pending(data, fmt.Sprintf("A $%.2f payment on %s will be recorded once confirmed.", data.Amount, p.Name), nil)
}

func (c *call) queryChangeOrders(o *QueryChangeOrders) (*reply, error) {
	projectID, err := c.projectScope(o.ProjectID, o.ProjectName)
	if err != nil {
		return nil, err
	}
	all := c.snap.ChangeOrders()
	var total float64
	counts := map[string]int{}
	out := []map[string]any{}
	for _, co := range all {
		counts[co.Status]++
		if projectID != "" && co.ProjectID != projectID {
			continue
		}
		if o.Status != "" && co.Status != o.Status {
			continue
		}
		total += co.Amount
		out = append(out, map[string]any{
			"id":          co.ID,
			"description": co.Description,
			"amount":      co.Amount,
			"status":      co.Status,
			"projectName": c.projectName(co.ProjectID),
			"date":        co.Date,
		})
	}
	return read(map[string]any{
		"count":        len(out),
		"totalAmount":  round2(total),
		"pending":      counts["pending"],
		"approved":     counts["approved"],
		"changeOrders": out,
	})
}

func (c *call) createChangeOrder(o *CreateChangeOrder) (*reply, error) {
	if o.Amount == 0 {
		return nil, &catalog.ValidationError{Field: "amount", Message: "The change order amount cannot be zero."}
	}
	p, err := c.project(o.ProjectName)
	if err != nil {
		return nil, err
	}
	data := ChangeOrderData{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Description: o.Description,
		Amount:      round2(o.Amount),
		Date:        c.today(),
		Status:      "pending",
	}
	return pending(data, fmt.Sprintf("A $%.2f change order on %s will be created once confirmed.", data.Amount, p.Name), nil)
}

func (c *call) pendingChangeOrder(id string) (snapshot.ChangeOrder, error) {
	co, ok := c.snap.ChangeOrder(id)
	if !ok {
		return co, ruleErr("no_such_record", "No change order with id %s exists. Use query_change_orders to find it.", id)
	}
	if co.Status != "pending" {
		return co, ruleErr("change_order_closed", "Change order %q is already %s.", co.Description, co.Status)
	}
	return co, nil
}

func (c *call) approveChangeOrder(o *ApproveChangeOrder) (*reply, error) {
	co, err := c.pendingChangeOrder(o.ChangeOrderID)
	if err != nil {
		return nil, err
	}
	p, _ := c.snap.Project(co.ProjectID)
	data := ChangeOrderApproval{
		ChangeOrderID: co.ID,
		ProjectID:     co.ProjectID,
		ProjectName:   p.Name,
		Amount:        co.Amount,
		NewBudget:     round2(p.Budget + co.Amount),
	}
	return pending(data, fmt.Sprintf("Change order %q will be approved and the %s budget raised to $%.2f once confirmed.", co.Description, p.Name, data.NewBudget), nil)
}

func (c *call) rejectChangeOrder(o *RejectChangeOrder) (*reply, error) {
	co, err := c.pendingChangeOrder(o.ChangeOrderID)
	if err != nil {
		return nil, err
	}
	data := RecordRef{ID: co.ID, ProjectID: co.ProjectID, ProjectName: c.projectName(co.ProjectID), Reason: o.Reason}
	return pending(data, fmt.Sprintf("Change order %q will be rejected once confirmed.", co.Description), nil)
}

func (c *call) queryProposals(o *QueryProposals) (*reply, error) {
	projectID, err := c.projectScope(o.ProjectID, o.ProjectName)
	if err != nil {
		return nil, err
	}
	subID, err := c.subcontractorScope(o.SubcontractorID, o.SubcontractorName)
	if err != nil {
		return nil, err
	}
	all := c.snap.Proposals()
	var total float64
	counts := map[string]int{}
	out := []map[string]any{}
	for _, p := range all {
		counts[p.Status]++
		if projectID != "" && p.ProjectID != projectID {
			continue
		}
		if subID != "" && p.SubcontractorID != subID {
			continue
		}
		if o.Status != "" && p.Status != o.Status {
			continue
		}
		total += p.Amount
		sub := p.SubcontractorID
		if s, ok := c.snap.Subcontractor(p.SubcontractorID); ok {
			sub = s.Name
		}
		out = append(out, map[string]any{
			"id":                p.ID,
			"subcontractorName": sub,
			"projectName":       c.projectName(p.ProjectID),
			"amount":            p.Amount,
			"timeline":          p.Timeline,
			"status":            p.Status,
			"proposalDate":      p.ProposalDate,
		})
	}
	return read(map[string]any{
		"count":       len(out),
		"totalAmount": round2(total),
		"submitted":   counts["submitted"],
		"accepted":    counts["accepted"],
		"proposals":   out,
	})
}

func (c *call) acceptProposal(o *AcceptProposal) (*reply, error) {
	p, ok := c.snap.Proposal(o.ProposalID)
	if !ok {
		return nil, ruleErr("no_such_record", "No proposal with id %s exists. Use query_proposals to find it.", o.ProposalID)
	}
	if p.Status == "accepted" || p.Status == "rejected" {
		return nil, ruleErr("proposal_closed", "That proposal is already %s.", p.Status)
	}
	sub := p.SubcontractorID
	if s, ok := c.snap.Subcontractor(p.SubcontractorID); ok {
		sub = s.Name
	}
	name := c.projectName(p.ProjectID)
	data := RecordRef{ID: p.ID, ProjectID: p.ProjectID, ProjectName: name}
	return pending(data, fmt.Sprintf("%s's $%.2f proposal for %s will be accepted once confirmed.", sub, p.Amount, name), nil)
}
