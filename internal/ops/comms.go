package ops

import (
	"fmt"
	"strings"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/comms"
	"github.com/legacyprime/foreman/internal/resolve"
)

// Contact is one message recipient.
type Contact struct {
	Kind  string `json:"kind,omitempty"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// SMSData is the payload for send_sms and send_bulk_sms.
type SMSData struct {
	Recipients []Contact `json:"recipients"`
	Message    string    `json:"message"`
	Segments   int       `json:"segments"`
}

// EmailData is the payload for send_email. Body is markdown; Text and
// HTML are its rendered alternatives.
type EmailData struct {
	From    string  `json:"from,omitempty"`
	To      Contact `json:"to"`
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Text    string  `json:"text"`
	HTML    string  `json:"html"`
}

func (c *call) email(to Contact, subject, body string) (*EmailData, error) {
	text, html, err := comms.RenderBody(body)
	if err != nil {
		return nil, err
	}
	return &EmailData{
		From:    c.snap.Company().Email,
		To:      to,
		Subject: subject,
		Body:    body,
		Text:    text,
		HTML:    html,
	}, nil
}

// CallData is the payload for make_call.
type CallData struct {
	To      Contact `json:"to"`
	Purpose string  `json:"purpose,omitempty"`
}

// recipient resolves who to reach. An explicit address wins over a
// name; a name is looked up across clients, team and subcontractors.
func (c *call) recipient(name, explicit, field string) (Contact, error) {
	if strings.TrimSpace(explicit) != "" {
		return Contact{Name: strings.TrimSpace(name)}, nil
	}
	if strings.TrimSpace(name) == "" {
		return Contact{}, &catalog.ValidationError{Field: field, Message: "Who should receive this? Ask for a name or " + strings.ToLower(field) + "."}
	}
	r, err := resolve.Contact(c.snap, name)
	if err != nil {
		return Contact{}, err
	}
	return Contact{Kind: string(r.Kind), ID: r.ID, Name: r.Name, Phone: r.Phone, Email: r.Email}, nil
}

func (c *call) dialable(to Contact, explicit string) (Contact, error) {
	raw := explicit
	if strings.TrimSpace(raw) == "" {
		raw = to.Phone
	}
	if strings.TrimSpace(raw) == "" {
		return to, ruleErr("no_contact", "%s has no phone number on file. Ask for one.", to.Name)
	}
	num, ok := comms.NormalizePhone(raw)
	if !ok {
		return to, &catalog.ValidationError{Field: "phoneNumber", Message: fmt.Sprintf("%q is not a valid phone number.", raw)}
	}
	to.Phone = num
	return to, nil
}

func (c *call) sendSMS(o *SendSMS) (*reply, error) {
	to, err := c.recipient(o.RecipientName, o.PhoneNumber, "phoneNumber")
	if err != nil {
		return nil, err
	}
	if to, err = c.dialable(to, o.PhoneNumber); err != nil {
		return nil, err
	}
	data := SMSData{Recipients: []Contact{to}, Message: o.Message, Segments: comms.SMSSegments(o.Message)}
	if data.Segments > 1 {
		c.notef("The message is %d SMS segments long.", data.Segments)
	}
	who := to.Name
	if who == "" {
		who = to.Phone
	}
	return pending(data, fmt.Sprintf("A text will be sent to %s once confirmed.", who), map[string]any{"to": to.Phone})
}

func (c *call) sendBulkSMS(o *SendBulkSMS) (*reply, error) {
	var (
		to      []Contact
		skipped []string
		seen    = map[string]bool{}
	)
	for _, cl := range c.snap.Clients() {
		if o.ClientStatus != "" && string(cl.Status) != o.ClientStatus {
			continue
		}
		num, ok := comms.NormalizePhone(cl.Phone)
		if !ok {
			skipped = append(skipped, cl.Name)
			continue
		}
		if seen[num] {
			continue
		}
		seen[num] = true
		to = append(to, Contact{Kind: string(resolve.KindClient), ID: cl.ID, Name: cl.Name, Phone: num})
	}
	if len(to) == 0 {
		return nil, ruleErr("no_recipients", "No clients with a phone number match that filter.")
	}
	if len(skipped) > 0 {
		c.notef("Skipped %d client(s) without a usable phone number: %s.", len(skipped), strings.Join(skipped, ", "))
	}
	data := SMSData{Recipients: to, Message: o.Message, Segments: comms.SMSSegments(o.Message)}
	return pending(data, fmt.Sprintf("The text will be sent to %d clients once confirmed.", len(to)), map[string]any{
		"recipientCount": len(to),
	})
}

func (c *call) sendEmail(o *SendEmail) (*reply, error) {
	to, err := c.recipient(o.RecipientName, o.EmailAddress, "emailAddress")
	if err != nil {
		return nil, err
	}
	if addr := strings.TrimSpace(o.EmailAddress); addr != "" {
		to.Email = addr
	}
	if to.Email == "" {
		return nil, ruleErr("no_contact", "%s has no email address on file. Ask for one.", to.Name)
	}
	if !comms.ValidAddress(to.Email) {
		return nil, &catalog.ValidationError{Field: "emailAddress", Message: fmt.Sprintf("%q is not a valid email address.", to.Email)}
	}
	data, err := c.email(to, o.Subject, o.Body)
	if err != nil {
		return nil, err
	}
	return pending(data, fmt.Sprintf("The email %q will be sent to %s once confirmed.", o.Subject, to.Email), nil)
}

func (c *call) makeCall(o *MakeCall) (*reply, error) {
	to, err := c.recipient(o.RecipientName, o.PhoneNumber, "phoneNumber")
	if err != nil {
		return nil, err
	}
	if to, err = c.dialable(to, o.PhoneNumber); err != nil {
		return nil, err
	}
	data := CallData{To: to, Purpose: o.Purpose}
	who := to.Name
	if who == "" {
		who = to.Phone
	}
	return pending(data, fmt.Sprintf("Ready to call %s at %s.", who, to.Phone), nil)
}
