package comms

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/legacyprime/foreman/internal/snapshot"
)

// ClientCard renders a client as a vCard 4.0 document. When company
// is set the card carries a note naming it.
func ClientCard(c snapshot.Client, company string) (string, error) {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldFormattedName, c.Name)

	given, family := splitName(c.Name)
	card.SetName(&vcard.Name{GivenName: given, FamilyName: family})
	card.SetKind(vcard.KindIndividual)

	if c.Phone != "" {
		phone := c.Phone
		if e164, ok := NormalizePhone(c.Phone); ok {
			phone = e164
		}
		card.Add(vcard.FieldTelephone, &vcard.Field{
			Value:  phone,
			Params: vcard.Params{vcard.ParamType: {vcard.TypeCell}},
		})
	}
	if c.Email != "" {
		card.AddValue(vcard.FieldEmail, c.Email)
	}
	if c.Address != "" {
		card.AddAddress(&vcard.Address{StreetAddress: c.Address})
	}
	if company != "" {
		card.SetValue(vcard.FieldNote, fmt.Sprintf("%s client (%s)", company, c.Status))
	}
	if c.ID != "" {
		card.SetValue(vcard.FieldUID, "urn:foreman:client:"+c.ID)
	}

	vcard.ToV4(card)

	var buf bytes.Buffer
	if err := vcard.NewEncoder(&buf).Encode(card); err != nil {
		return "", fmt.Errorf("encode vcard: %w", err)
	}
	return buf.String(), nil
}

func splitName(name string) (given, family string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}
