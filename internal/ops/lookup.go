package ops

import (
	"fmt"
	"strings"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/comms"
	"github.com/legacyprime/foreman/internal/resolve"
	"github.com/legacyprime/foreman/internal/snapshot"
)

func (c *call) client(q string) (snapshot.Client, error) {
	return resolve.Client(c.snap, q)
}

func (c *call) project(q string) (snapshot.Project, error) {
	return resolve.Project(c.snap, q)
}

// projectScope narrows a query to one project. An id is used as given;
// otherwise a name is resolved. Neither means every project.
func (c *call) projectScope(id, name string) (string, error) {
	if id = strings.TrimSpace(id); id != "" {
		if _, ok := c.snap.Project(id); !ok {
			return "", &resolve.NotFoundError{Kind: resolve.KindProject, Query: id}
		}
		return id, nil
	}
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	p, err := c.project(name)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func (c *call) subcontractorScope(id, name string) (string, error) {
	if id = strings.TrimSpace(id); id != "" {
		if _, ok := c.snap.Subcontractor(id); !ok {
			return "", &resolve.NotFoundError{Kind: resolve.KindSubcontractor, Query: id}
		}
		return id, nil
	}
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	s, err := resolve.Subcontractor(c.snap, name)
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

// employee resolves a team member by name, defaulting to the signed-in
// user when name is empty.
func (c *call) employee(name string) (snapshot.TeamMember, error) {
	if strings.TrimSpace(name) != "" {
		return resolve.TeamMember(c.snap, name)
	}
	id := c.snap.CurrentUserID()
	if id == "" {
		return snapshot.TeamMember{}, &catalog.ValidationError{
			Field:   "employeeName",
			Message: "Which employee? Nobody is signed in, so ask for the employee's name.",
		}
	}
	if m, ok := c.snap.TeamMember(id); ok {
		return m, nil
	}
	return snapshot.TeamMember{ID: id, Name: "You"}, nil
}

func (c *call) projectName(id string) string {
	if p, ok := c.snap.Project(id); ok {
		return p.Name
	}
	return id
}

func (c *call) memberName(id string) string {
	if m, ok := c.snap.TeamMember(id); ok {
		return m.Name
	}
	return id
}

func (c *call) clientName(projectID string) string {
	if cl, ok := c.snap.ClientForProject(projectID); ok {
		return cl.Name
	}
	return ""
}

func (c *call) images() []Attachment {
	var out []Attachment
	for _, a := range c.attachments {
		if a.IsImage() && a.URI != "" {
			out = append(out, a)
		}
	}
	return out
}

func (c *call) firstImage(what string) (Attachment, error) {
	imgs := c.images()
	if len(imgs) == 0 {
		return Attachment{}, &catalog.ValidationError{
			Field:   "attachments",
			Message: fmt.Sprintf("No image is attached. Ask the user to attach a photo of the %s.", what),
		}
	}
	return imgs[0], nil
}

// pickEstimate selects one estimate, by id or among a client's
// estimates that satisfy eligible. Several eligible estimates are
// reported for the user to choose from.
func (c *call) pickEstimate(clientName, estimateID string, eligible func(snapshot.Estimate) bool, what string) (snapshot.Estimate, error) {
	if id := strings.TrimSpace(estimateID); id != "" {
		if e, ok := c.snap.Estimate(id); ok {
			return e, nil
		}
		return snapshot.Estimate{}, &resolve.NotFoundError{Kind: resolve.KindEstimate, Query: id}
	}
	if strings.TrimSpace(clientName) == "" {
		return snapshot.Estimate{}, &catalog.ValidationError{
			Field:   "clientName",
			Message: fmt.Sprintf("Which client's estimate should I %s?", what),
		}
	}
	cl, err := c.client(clientName)
	if err != nil {
		return snapshot.Estimate{}, err
	}
	all := c.snap.EstimatesForClient(cl.ID)
	if len(all) == 0 {
		return snapshot.Estimate{}, ruleErr("no_estimates", "%s has no estimates.", cl.Name)
	}
	var found []snapshot.Estimate
	for _, e := range all {
		if eligible == nil || eligible(e) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return snapshot.Estimate{}, ruleErr("no_eligible_estimate", "None of %s's estimates can be used to %s: %s.", cl.Name, what, describeEstimates(all))
	case 1:
		return found[0], nil
	}
	return snapshot.Estimate{}, &resolve.AmbiguousError{
		Kind:    resolve.KindEstimate,
		Query:   cl.Name,
		Matches: estimateCandidates(found),
	}
}

func estimateCandidates(list []snapshot.Estimate) []resolve.Candidate {
	out := make([]resolve.Candidate, len(list))
	for i, e := range list {
		out[i] = resolve.Candidate{
			Number: i + 1,
			ID:     e.ID,
			Name:   e.Name,
			Detail: fmt.Sprintf("%s, $%.2f", e.Status, e.Total),
		}
	}
	return out
}

func describeEstimates(list []snapshot.Estimate) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = fmt.Sprintf("%s (%s)", e.Name, e.Status)
	}
	return strings.Join(parts, ", ")
}

func estimateSummary(e snapshot.Estimate) map[string]any {
	return map[string]any{
		"id":          e.ID,
		"name":        e.Name,
		"total":       e.Total,
		"status":      e.Status,
		"createdDate": e.CreatedDate,
		"itemCount":   len(e.Items),
	}
}

// samePhone compares phone numbers by their dialable form.
func samePhone(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	na, okA := comms.NormalizePhone(a)
	nb, okB := comms.NormalizePhone(b)
	if okA && okB {
		return na == nb
	}
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func sameEmail(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// duplicateClient finds an existing client sharing email or phone.
func (c *call) duplicateClient(email, phone string) error {
	for _, cl := range c.snap.Clients() {
		switch {
		case sameEmail(cl.Email, email):
			return ruleErr("duplicate_client", "A client with this email already exists: %s.", cl.Name)
		case samePhone(cl.Phone, phone):
			return ruleErr("duplicate_client", "A client with this phone number already exists: %s.", cl.Name)
		}
	}
	return nil
}
