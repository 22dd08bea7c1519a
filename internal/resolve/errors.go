package resolve

import (
	"fmt"
	"strings"
)

// NotFoundError means no entity of Kind matched Query.
type NotFoundError struct {
	Kind         Kind
	Query        string
	Alternatives []string // known names, capped, when the collection is small enough to list
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("No %s found matching %q", e.Kind, e.Query)
	if len(e.Alternatives) > 0 {
		msg += fmt.Sprintf(". Known %s: %s", e.Kind.Plural(), strings.Join(e.Alternatives, ", "))
	}
	return msg
}

// AmbiguousError means more than one entity matched. It carries every
// match, numbered from 1, for the user to choose from.
type AmbiguousError struct {
	Kind    Kind
	Query   string
	Matches []Candidate
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("Multiple %s match %q. Which one did you mean?", e.Kind.Plural(), e.Query)
}

// Prompt renders the numbered choice list shown to the user.
func (e *AmbiguousError) Prompt() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, c := range e.Matches {
		fmt.Fprintf(&b, "\n%d. %s", c.Number, c.Name)
		var extra []string
		for _, s := range []string{c.Email, c.Phone, c.Detail} {
			if s != "" {
				extra = append(extra, s)
			}
		}
		if len(extra) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(extra, ", "))
		}
	}
	return b.String()
}
