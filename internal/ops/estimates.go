package ops

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/resolve"
	"github.com/legacyprime/foreman/internal/snapshot"
	"github.com/legacyprime/foreman/internal/vision"
)

// EstimateRequest is the payload for generate_estimate.
type EstimateRequest struct {
	ClientID    string  `json:"clientId"`
	ClientName  string  `json:"clientName"`
	ClientEmail string  `json:"clientEmail,omitempty"`
	ProjectType string  `json:"projectType"`
	Budget      float64 `json:"budget"`
	Description string  `json:"description,omitempty"`
}

// TakeoffData is the payload for create_takeoff_estimate.
type TakeoffData struct {
	ClientID     string                  `json:"clientId"`
	ClientName   string                  `json:"clientName"`
	EstimateName string                  `json:"estimateName"`
	Items        []snapshot.EstimateItem `json:"items"`
	Subtotal     float64                 `json:"subtotal"`
	SourceFile   string                  `json:"sourceFile,omitempty"`
}

// EstimateDelivery is the payload for send_estimate and request_payment.
type EstimateDelivery struct {
	ClientID     string     `json:"clientId"`
	ClientName   string     `json:"clientName"`
	ClientEmail  string     `json:"clientEmail,omitempty"`
	EstimateID   string     `json:"estimateId"`
	EstimateName string     `json:"estimateName"`
	Amount       float64    `json:"amount"`
	Email        *EmailData `json:"email,omitempty"` // set when the client has an email address
}

// EstimateDecision is the payload for approve_estimate and
// reject_estimate.
type EstimateDecision struct {
	EstimateID   string `json:"estimateId"`
	EstimateName string `json:"estimateName"`
	ClientID     string `json:"clientId"`
	ClientName   string `json:"clientName"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
}

// PriceItemsData is the payload for create_price_list_items.
type PriceItemsData struct {
	Category      string         `json:"category"`
	IsNewCategory bool           `json:"isNewCategory"`
	Items         []NewPriceItem `json:"items"`
}

// estimateCategories maps a project-type keyword to the price list
// categories an estimate for it draws on.
var estimateCategories = []struct {
	keyword    string
	categories []string
}{
	{"bathroom", []string{"Bathroom", "Plumbing", "Tile"}},
	{"kitchen", []string{"Kitchen", "Appliances", "Countertops", "Cabinets"}},
	{"painting", []string{"Paint", "Drywall"}},
	{"flooring", []string{"Flooring", "Tile"}},
	{"roofing", []string{"Roofing", "Roof"}},
	{"remodel", []string{"Pre-Construction", "Demolition", "Drywall", "Paint"}},
	{"renovation", []string{"Pre-Construction", "Demolition", "Drywall", "Paint"}},
	{"pool", []string{"Pool", "Concrete", "Excavation"}},
	{"solar", []string{"Solar", "Electrical"}},
	{"hvac", []string{"HVAC", "Mechanical"}},
	{"landscaping", []string{"Landscaping", "Exterior"}},
}

func categoriesFor(projectType string) []string {
	t := strings.ToLower(projectType)
	var out []string
	for _, m := range estimateCategories {
		if strings.Contains(t, m.keyword) {
			out = append(out, m.categories...)
		}
	}
	if len(out) == 0 {
		return []string{"Pre-Construction", "General"}
	}
	return out
}

// suggestedItems proposes price list lines for a project type the
// price list does not cover yet.
func suggestedItems(projectType string) []string {
	t := strings.ToLower(projectType)
	has := func(words ...string) bool {
		return slices.ContainsFunc(words, func(w string) bool { return strings.Contains(t, w) })
	}
	switch {
	case has("pool", "spa"):
		return []string{"Pool Excavation & Grading", "Pool Shell & Concrete Work", "Pool Plumbing & Equipment", "Pool Tile & Interior Finish", "Pool Decking & Coping"}
	case has("solar"):
		return []string{"Solar Panels", "Solar Inverter", "Mounting Hardware & Racking", "Electrical Work & Wiring", "Permits & Inspection"}
	case has("hvac", "heating", "cooling"):
		return []string{"HVAC Equipment", "Ductwork Installation", "Electrical Connections", "Thermostat & Controls", "Labor & Installation"}
	case has("landscape"):
		return []string{"Design & Planning", "Plants & Materials", "Irrigation System", "Hardscape Work", "Labor & Installation"}
	case has("fence", "fencing"):
		return []string{"Fence Posts & Hardware", "Fence Panels/Materials", "Gate & Hardware", "Labor & Installation"}
	case has("deck", "patio"):
		return []string{"Deck Framing & Structure", "Decking Materials", "Railing & Hardware", "Finishing & Sealing", "Labor & Installation"}
	}
	var out []string
	for _, s := range []string{"Materials", "Labor", "Equipment", "Permits & Fees", "Project Management"} {
		out = append(out, projectType+" - "+s)
	}
	return out
}

func (c *call) queryEstimates(o *QueryEstimates) (*reply, error) {
	list := c.snap.Estimates()
	var client snapshot.Client
	if o.ClientName != "" {
		cl, err := c.client(o.ClientName)
		if err != nil {
			return nil, err
		}
		client = cl
		list = c.snap.EstimatesForClient(cl.ID)
	}
	out := []map[string]any{}
	for _, e := range list {
		if o.ProjectID != "" && e.ProjectID != o.ProjectID {
			continue
		}
		if o.Status != "" && string(e.Status) != o.Status {
			continue
		}
		s := estimateSummary(e)
		if cl, ok := c.snap.Client(e.ClientID); ok {
			s["clientName"] = cl.Name
		}
		out = append(out, s)
	}
	result := map[string]any{"count": len(out), "estimates": out}
	if client.ID != "" && len(out) == 0 {
		result["message"] = fmt.Sprintf("%s has no estimates matching that request.", client.Name)
	}
	return read(result)
}

func (c *call) generateEstimate(o *GenerateEstimate) (*reply, error) {
	if o.Budget <= 0 {
		return nil, &catalog.ValidationError{Field: "budget", Message: "The budget must be greater than zero."}
	}
	cl, err := c.client(o.ClientName)
	if err != nil {
		return nil, err
	}

	cats := categoriesFor(o.ProjectType)
	var matching int
	for _, item := range c.snap.PriceList() {
		if slices.ContainsFunc(cats, func(cat string) bool { return containsFold(item.Category, cat) }) {
			matching++
		}
	}
	if matching == 0 || (matching < 3 && o.Budget > 10000) {
		items := suggestedItems(o.ProjectType)
		lines := make([]string, len(items))
		for i, it := range items {
			lines[i] = fmt.Sprintf("%d. %s", i+1, it)
		}
		return read(map[string]any{
			"noMatchingItems": true,
			"clientName":      cl.Name,
			"projectType":     o.ProjectType,
			"budget":          o.Budget,
			"suggestedItems":  items,
			"message": fmt.Sprintf("The price list has no %q items yet. I can create a new category with these items:\n\n%s\n\nAsk for the unit (EA, SF, HR, etc.) and price of each.",
				o.ProjectType, strings.Join(lines, "\n")),
		})
	}

	data := EstimateRequest{
		ClientID:    cl.ID,
		ClientName:  cl.Name,
		ClientEmail: cl.Email,
		ProjectType: o.ProjectType,
		Budget:      o.Budget,
		Description: o.Description,
	}
	return pending(data, fmt.Sprintf("A %s estimate for %s will be generated once confirmed.", o.ProjectType, cl.Name), map[string]any{
		"clientName":    cl.Name,
		"budget":        o.Budget,
		"matchingItems": matching,
	})
}

func (c *call) createTakeoffEstimate(o *CreateTakeoffEstimate) (*reply, error) {
	cl, err := c.client(o.ClientName)
	if err != nil {
		return nil, err
	}
	img, err := c.firstImage("plans or document")
	if err != nil {
		return nil, err
	}
	if c.x.vision == nil {
		return nil, &ExternalServiceError{Service: "vision model", Err: errors.New("not configured")}
	}

	lines, err := c.x.vision.Takeoff(c.ctx, img.Image(), img.Name, c.snap.PriceCategories())
	switch {
	case errors.Is(err, vision.ErrUnreadable):
		return nil, ruleErr("unreadable_document", "No line items could be read from %s. Ask for a clearer image of the plans.", img.Name)
	case err != nil:
		return nil, &ExternalServiceError{Service: "vision model", Err: err}
	}

	name := strings.TrimSpace(o.EstimateName)
	if name == "" {
		name = fmt.Sprintf("%s Takeoff %s", cl.Name, c.today())
	}
	data := TakeoffData{ClientID: cl.ID, ClientName: cl.Name, EstimateName: name, SourceFile: img.Name}
	for i, l := range lines {
		total := round2(l.Total())
		data.Items = append(data.Items, snapshot.EstimateItem{
			ID:        fmt.Sprintf("takeoff-%d", i+1),
			Name:      l.Name,
			Category:  l.Category,
			Quantity:  l.Quantity,
			Unit:      l.Unit,
			UnitPrice: l.UnitPrice,
			Total:     total,
			Notes:     l.Notes,
		})
		data.Subtotal += total
	}
	data.Subtotal = round2(data.Subtotal)
	return pending(data, fmt.Sprintf("Estimate %q with %d line items will be created for %s once confirmed.", name, len(data.Items), cl.Name), map[string]any{
		"estimateName": name,
		"itemCount":    len(data.Items),
		"subtotal":     data.Subtotal,
		"items":        data.Items,
	})
}

func (c *call) sendEstimate(o *SendEstimate) (*reply, error) {
	cl, err := c.client(o.ClientName)
	if err != nil {
		return nil, err
	}
	list := c.snap.EstimatesForClient(cl.ID)
	if len(list) == 0 {
		return nil, ruleErr("no_estimates", "%s has no estimates. Offer to create one.", cl.Name)
	}

	var est snapshot.Estimate
	switch {
	case o.EstimateID != "":
		i := slices.IndexFunc(list, func(e snapshot.Estimate) bool { return e.ID == o.EstimateID })
		if i < 0 {
			return nil, &resolve.NotFoundError{Kind: resolve.KindEstimate, Query: o.EstimateID, Alternatives: estimateNames(list)}
		}
		est = list[i]
	case len(list) == 1:
		est = list[0]
	default:
		return read(map[string]any{
			"needsSelection": true,
			"clientName":     cl.Name,
			"message":        fmt.Sprintf("%s has %d estimates. Ask which one to send.", cl.Name, len(list)),
			"estimates":      estimateCandidates(list),
		})
	}

	data := EstimateDelivery{
		ClientID:     cl.ID,
		ClientName:   cl.Name,
		ClientEmail:  cl.Email,
		EstimateID:   est.ID,
		EstimateName: est.Name,
		Amount:       est.Total,
	}
	if cl.Email != "" {
		to := Contact{Kind: string(resolve.KindClient), ID: cl.ID, Name: cl.Name, Email: cl.Email, Phone: cl.Phone}
		email, err := c.email(to, fmt.Sprintf("Estimate: %s", est.Name), estimateEmailBody(cl, est, c.snap.Company()))
		if err != nil {
			return nil, err
		}
		data.Email = email
	} else {
		c.notef("%s has no email on file; the estimate will have to be shared another way.", cl.Name)
	}
	return pending(data, fmt.Sprintf("Estimate %q ($%.2f) will be sent to %s once confirmed.", est.Name, est.Total, cl.Name), map[string]any{
		"estimateId": est.ID,
	})
}

func estimateEmailBody(cl snapshot.Client, e snapshot.Estimate, co snapshot.Company) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nPlease find your estimate **%s** below.\n\n", cl.Name, e.Name)
	for _, it := range e.Items {
		fmt.Fprintf(&b, "- %s: %g %s x $%.2f = $%.2f\n", it.Name, it.Quantity, it.Unit, it.UnitPrice, it.Total)
	}
	if e.TaxAmount > 0 {
		fmt.Fprintf(&b, "\nSubtotal: $%.2f\nTax: $%.2f\n", e.Subtotal, e.TaxAmount)
	}
	fmt.Fprintf(&b, "\n**Total: $%.2f**\n\nThank you,\n%s\n", e.Total, co.Name)
	if co.Phone != "" {
		b.WriteString(co.Phone + "\n")
	}
	return b.String()
}

func estimateNames(list []snapshot.Estimate) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}

func decidable(e snapshot.Estimate) bool {
	return e.Status == snapshot.EstimateDraft || e.Status == snapshot.EstimateSent
}

func (c *call) decideEstimate(clientName, estimateID string, status snapshot.EstimateStatus, reason, verb string) (*reply, error) {
	est, err := c.pickEstimate(clientName, estimateID, decidable, verb)
	if err != nil {
		return nil, err
	}
	if !decidable(est) {
		return nil, ruleErr("estimate_closed", "Estimate %q is already %s.", est.Name, est.Status)
	}
	cl, _ := c.snap.Client(est.ClientID)
	data := EstimateDecision{
		EstimateID:   est.ID,
		EstimateName: est.Name,
		ClientID:     est.ClientID,
		ClientName:   cl.Name,
		Status:       string(status),
		Reason:       reason,
	}
	return pending(data, fmt.Sprintf("Estimate %q will be marked %s once confirmed.", est.Name, status), map[string]any{
		"estimateId": est.ID,
		"total":      est.Total,
	})
}

func (c *call) approveEstimate(o *ApproveEstimate) (*reply, error) {
	return c.decideEstimate(o.ClientName, o.EstimateID, snapshot.EstimateApproved, "", "approve")
}

func (c *call) rejectEstimate(o *RejectEstimate) (*reply, error) {
	return c.decideEstimate(o.ClientName, o.EstimateID, snapshot.EstimateRejected, o.Reason, "reject")
}

func (c *call) requestPayment(o *RequestPayment) (*reply, error) {
	payable := func(e snapshot.Estimate) bool {
		return e.Status == snapshot.EstimateApproved || e.Status == snapshot.EstimateSent
	}
	cl, err := c.client(o.ClientName)
	if err != nil {
		return nil, err
	}
	est, err := c.pickEstimate(cl.ID, o.EstimateID, payable, "request payment for")
	if err != nil {
		return nil, err
	}
	if est.ClientID != cl.ID {
		return nil, &resolve.NotFoundError{Kind: resolve.KindEstimate, Query: o.EstimateID, Alternatives: estimateNames(c.snap.EstimatesForClient(cl.ID))}
	}
	if !payable(est) {
		return nil, ruleErr("not_payable", "Estimate %q is %s; payment can only be requested on sent or approved estimates.", est.Name, est.Status)
	}

	amount := est.Total
	if o.Amount != 0 {
		if o.Amount < 0 || o.Amount > est.Total {
			return nil, &catalog.ValidationError{Field: "amount", Message: fmt.Sprintf("The amount must be between $0 and the estimate total of $%.2f.", est.Total)}
		}
		amount = o.Amount
	}
	data := EstimateDelivery{
		ClientID:     cl.ID,
		ClientName:   cl.Name,
		ClientEmail:  cl.Email,
		EstimateID:   est.ID,
		EstimateName: est.Name,
		Amount:       round2(amount),
	}
	return pending(data, fmt.Sprintf("A payment request for $%.2f on %q will be sent to %s once confirmed.", data.Amount, est.Name, cl.Name), nil)
}

func (c *call) queryPriceList(o *QueryPriceList) (*reply, error) {
	const limit = 20
	var found []snapshot.PriceListItem
	for _, it := range c.snap.PriceList() {
		if o.SearchTerm != "" && !containsFold(it.Name, o.SearchTerm) && !containsFold(it.Description, o.SearchTerm) {
			continue
		}
		if o.Category != "" && !containsFold(it.Category, o.Category) {
			continue
		}
		found = append(found, it)
	}
	items := []snapshot.PriceListItem{}
	items = append(items, found[:min(len(found), limit)]...)
	return read(map[string]any{
		"count":      len(found),
		"items":      items,
		"hasMore":    len(found) > limit,
		"categories": c.snap.PriceCategories(),
	})
}

func (c *call) createPriceListItems(o *CreatePriceListItems) (*reply, error) {
	for i, it := range o.Items {
		if it.UnitPrice < 0 {
			return nil, &catalog.ValidationError{
				Field:   fmt.Sprintf("items[%d].unitPrice", i+1),
				Message: fmt.Sprintf("The price of %s cannot be negative.", it.Name),
			}
		}
	}
	isNew := !slices.ContainsFunc(c.snap.PriceCategories(), func(cat string) bool { return strings.EqualFold(cat, o.Category) })
	if o.IsNewCategory != isNew {
		if isNew {
			c.notef("%q is not an existing category; it will be created.", o.Category)
		} else {
			c.notef("%q already exists; the items will be added to it.", o.Category)
		}
	}
	data := PriceItemsData{Category: o.Category, IsNewCategory: isNew, Items: o.Items}
	return pending(data, fmt.Sprintf("%d items will be added to the %q category once confirmed.", len(o.Items), o.Category), map[string]any{
		"category":      o.Category,
		"isNewCategory": isNew,
		"itemCount":     len(o.Items),
	})
}
