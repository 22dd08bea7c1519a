// Package catalog is the single list of operations the assistant can
// invoke. Each entry names the operation, tells the model when to use
// it, declares its parameters, and records the action token it emits
// when it describes a write.
//
// The executor implements exactly this set and the orchestrator sends
// exactly this set to the model on every turn.
package catalog

import "sort"

// Op is an operation name as the model sees it.
type Op string

// Domain groups operations for listing and documentation.
type Domain string

const (
	DomainCRM        Domain = "crm"
	DomainProjects   Domain = "projects"
	DomainFinancials Domain = "financials"
	DomainTime       Domain = "time"
	DomainField      Domain = "field"
	DomainComms      Domain = "communications"
	DomainScheduling Domain = "scheduling"
)

// Parameter types.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Param is one parameter in an operation's contract.
type Param struct {
	Name        string
	Type        string
	Description string
	Enum        []string
	Required    bool
	Items       *Param  // element schema for arrays
	Properties  []Param // fields for objects
}

// Entry is one operation.
type Entry struct {
	Op          Op
	Domain      Domain
	Description string
	Params      []Param

	// Action is the actionRequired token the operation emits when it
	// succeeds. Empty for pure reads.
	Action string

	// Attachments marks operations that consume the images attached
	// to the user's message.
	Attachments bool
}

// Writes reports whether the operation describes a write.
func (e Entry) Writes() bool { return e.Action != "" }

var index = func() map[Op]int {
	m := make(map[Op]int, len(entries))
	for i, e := range entries {
		if _, dup := m[e.Op]; dup {
			panic("catalog: duplicate operation " + string(e.Op))
		}
		m[e.Op] = i
	}
	return m
}()

// Entries returns every operation in declaration order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Lookup finds an operation by name.
func Lookup(name string) (Entry, bool) {
	i, ok := index[Op(name)]
	if !ok {
		return Entry{}, false
	}
	return entries[i], true
}

// Names returns every operation name, sorted.
func Names() []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, string(e.Op))
	}
	sort.Strings(out)
	return out
}

// ToolSpecs renders the catalog in the function-tool format the model
// providers accept.
func ToolSpecs() []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        string(e.Op),
				"description": e.Description,
				"parameters":  objectSchema(e.Params),
			},
		})
	}
	return out
}

// Schema renders the operation's parameters as a JSON schema object.
func (e Entry) Schema() map[string]any {
	return objectSchema(e.Params)
}

func objectSchema(params []Param) map[string]any {
	props := make(map[string]any, len(params))
	required := []string{}
	for _, p := range params {
		props[p.Name] = paramSchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       TypeObject,
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func paramSchema(p Param) map[string]any {
	if p.Type == TypeObject {
		s := objectSchema(p.Properties)
		if p.Description != "" {
			s["description"] = p.Description
		}
		return s
	}
	s := map[string]any{"type": p.Type}
	if p.Description != "" {
		s["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		s["enum"] = p.Enum
	}
	if p.Items != nil {
		s["items"] = paramSchema(*p.Items)
	}
	return s
}

// Parameter constructors keep the entry table readable.

func str(name, desc string) Param { return Param{Name: name, Type: TypeString, Description: desc} }
func num(name, desc string) Param { return Param{Name: name, Type: TypeNumber, Description: desc} }
func integer(name, desc string) Param {
	return Param{Name: name, Type: TypeInteger, Description: desc}
}
func boolean(name, desc string) Param {
	return Param{Name: name, Type: TypeBoolean, Description: desc}
}
func enum(name, desc string, values ...string) Param {
	return Param{Name: name, Type: TypeString, Description: desc, Enum: values}
}
func object(name, desc string, props ...Param) Param {
	return Param{Name: name, Type: TypeObject, Description: desc, Properties: props}
}
func array(name, desc string, items Param) Param {
	return Param{Name: name, Type: TypeArray, Description: desc, Items: &items}
}

func required(p Param) Param {
	p.Required = true
	return p
}
