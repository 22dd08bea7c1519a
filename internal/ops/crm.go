package ops

import (
	"fmt"
	"strings"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/comms"
	"github.com/legacyprime/foreman/internal/resolve"
	"github.com/legacyprime/foreman/internal/snapshot"
)

// ClientData is the payload for add_client.
type ClientData struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	CallLogID string `json:"callLogId,omitempty"`
}

// ClientUpdate is the payload for update_client.
type ClientUpdate struct {
	ClientID   string         `json:"clientId"`
	ClientName string         `json:"clientName"`
	Updates    map[string]any `json:"updates"`
}

// FollowupData is the payload for set_followup.
type FollowupData struct {
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	Date       string `json:"date"`
	Notes      string `json:"notes,omitempty"`
}

// InspectionLinkData is the payload for send_inspection_link.
type InspectionLinkData struct {
	ClientID    string `json:"clientId"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
}

func clientSummary(cl snapshot.Client) map[string]any {
	return map[string]any{
		"id":               cl.ID,
		"name":             cl.Name,
		"email":            cl.Email,
		"phone":            cl.Phone,
		"status":           cl.Status,
		"source":           cl.Source,
		"lastContactDate":  cl.LastContactDate,
		"nextFollowUpDate": cl.NextFollowUpDate,
	}
}

func (c *call) queryClients(o *QueryClients) (*reply, error) {
	clients := c.snap.Clients()
	if o.ClientName != "" {
		clients = resolve.Matches(clients, o.ClientName, func(cl snapshot.Client) string { return cl.Name })
	}
	out := []map[string]any{}
	for _, cl := range clients {
		if o.Status != "" && string(cl.Status) != o.Status {
			continue
		}
		out = append(out, clientSummary(cl))
	}
	result := map[string]any{"count": len(out), "clients": out}
	if len(out) == 0 && o.ClientName != "" {
		result["message"] = fmt.Sprintf("No clients match %q.", o.ClientName)
	}
	return read(result)
}

func (c *call) addClient(o *AddClient) (*reply, error) {
	email, phone := strings.TrimSpace(o.Email), strings.TrimSpace(o.Phone)
	if email == "" && phone == "" {
		return nil, &catalog.ValidationError{
			Field:   "email",
			Message: fmt.Sprintf("Ask for %s's email address or phone number. At least one is required.", o.Name),
		}
	}
	if email != "" && !comms.ValidAddress(email) {
		return nil, &catalog.ValidationError{Field: "email", Message: fmt.Sprintf("%q is not a valid email address.", email)}
	}
	if err := c.duplicateClient(email, phone); err != nil {
		return nil, err
	}

	data := ClientData{
		Name:    o.Name,
		Email:   email,
		Phone:   phone,
		Address: o.Address,
		Source:  o.Source,
		Status:  string(snapshot.ClientLead),
	}
	return pending(data, fmt.Sprintf("Client %q will be added to the CRM as a lead once confirmed.", o.Name), map[string]any{"client": data})
}

func (c *call) updateClient(o *UpdateClient) (*reply, error) {
	cl, err := c.client(o.ClientName)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if o.NewName != "" && o.NewName != cl.Name {
		updates["name"] = o.NewName
	}
	if o.Email != "" {
		if !comms.ValidAddress(o.Email) {
			return nil, &catalog.ValidationError{Field: "email", Message: fmt.Sprintf("%q is not a valid email address.", o.Email)}
		}
		updates["email"] = o.Email
	}
	if o.Phone != "" {
		updates["phone"] = o.Phone
	}
	if o.Address != "" {
		updates["address"] = o.Address
	}
	if o.Status != "" && o.Status != string(cl.Status) {
		updates["status"] = o.Status
	}
	if len(updates) == 0 {
		return nil, &catalog.ValidationError{Message: fmt.Sprintf("Nothing to change. Ask what should be updated for %s.", cl.Name)}
	}
	data := ClientUpdate{ClientID: cl.ID, ClientName: cl.Name, Updates: updates}
	return pending(data, fmt.Sprintf("%s will be updated once confirmed.", cl.Name), map[string]any{"updates": updates})
}

func (c *call) setFollowup(o *SetFollowup) (*reply, error) {
	cl, err := c.client(o.ClientName)
	if err != nil {
		return nil, err
	}
	date := c.date("followUpDate", o.FollowUpDate, "")
	data := FollowupData{ClientID: cl.ID, ClientName: cl.Name, Date: date, Notes: o.Notes}
	return pending(data, fmt.Sprintf("Follow-up with %s will be set for %s once confirmed.", cl.Name, date), map[string]any{
		"clientName": cl.Name,
		"date":       date,
	})
}

func (c *call) sendInspectionLink(o *SendInspectionLink) (*reply, error) {
	cl, err := c.client(o.ClientName)
	if err != nil {
		return nil, err
	}
	if cl.Email == "" && cl.Phone == "" {
		return nil, ruleErr("no_contact", "%s has no email or phone on file, so the link cannot be sent. Ask for one first.", cl.Name)
	}
	data := InspectionLinkData{ClientID: cl.ID, ClientName: cl.Name, ClientEmail: cl.Email, ClientPhone: cl.Phone}
	return pending(data, fmt.Sprintf("The inspection link will be sent to %s once confirmed.", cl.Name), nil)
}

func (c *call) shareClientContact(o *ShareClientContact) (*reply, error) {
	cl, err := c.client(o.ClientName)
	if err != nil {
		return nil, err
	}
	card, err := comms.ClientCard(cl, c.snap.Company().Name)
	if err != nil {
		return nil, err
	}
	return read(map[string]any{
		"clientName": cl.Name,
		"fileName":   strings.ReplaceAll(cl.Name, " ", "_") + ".vcf",
		"mimeType":   "text/vcard",
		"vcard":      card,
	})
}

func (c *call) queryCallLogs(o *QueryCallLogs) (*reply, error) {
	date := c.dateFilter("date", o.Date)
	calls := []map[string]any{}
	notInCRM := 0
	for _, cl := range c.snap.CallLogs() {
		if o.CallerName != "" && !containsFold(cl.CallerName, o.CallerName) {
			continue
		}
		if o.Status != "" && cl.Status != o.Status {
			continue
		}
		if o.IsQualified != nil && cl.IsQualified != *o.IsQualified {
			continue
		}
		if date != "" && !inRange(cl.CallDate, date, date) {
			continue
		}
		if cl.IsQualified && !cl.AddedToCRM {
			notInCRM++
		}
		calls = append(calls, map[string]any{
			"id":          cl.ID,
			"callerName":  cl.CallerName,
			"callerPhone": cl.CallerPhone,
			"callDate":    cl.CallDate,
			"status":      cl.Status,
			"isQualified": cl.IsQualified,
			"addedToCRM":  cl.AddedToCRM,
			"projectType": cl.ProjectType,
			"budget":      cl.Budget,
			"notes":       cl.Notes,
		})
	}
	return read(map[string]any{"count": len(calls), "qualifiedNotInCRM": notInCRM, "calls": calls})
}

func (c *call) convertCallToLead(o *ConvertCallToLead) (*reply, error) {
	cl, err := resolve.CallLog(c.snap, o.CallerName)
	if err != nil {
		return nil, err
	}
	if cl.AddedToCRM || cl.ClientID != "" {
		return nil, ruleErr("already_lead", "%s is already in the CRM.", cl.CallerName)
	}
	if cl.CallerPhone == "" && cl.CallerEmail == "" {
		return nil, ruleErr("no_contact", "The call from %s has no phone or email recorded. Ask for a contact method and use add_client.", cl.CallerName)
	}
	if err := c.duplicateClient(cl.CallerEmail, cl.CallerPhone); err != nil {
		return nil, err
	}

	var notes []string
	if cl.ProjectType != "" {
		notes = append(notes, "Project: "+cl.ProjectType)
	}
	if cl.Budget != "" {
		notes = append(notes, "Budget: "+cl.Budget)
	}
	if cl.Notes != "" {
		notes = append(notes, cl.Notes)
	}
	data := ClientData{
		Name:      cl.CallerName,
		Email:     cl.CallerEmail,
		Phone:     cl.CallerPhone,
		Source:    "Phone Call",
		Status:    string(snapshot.ClientLead),
		Notes:     strings.Join(notes, ". "),
		CallLogID: cl.ID,
	}
	return pending(data, fmt.Sprintf("%s will be added to the CRM as a lead once confirmed.", cl.CallerName), map[string]any{"client": data})
}
