package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawArgumentsKey holds tool-call arguments the provider could not
// parse as JSON.
const RawArgumentsKey = "_raw"

// ValidationError reports arguments that do not satisfy an
// operation's contract.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Validate checks args against the entry's parameters and returns a
// copy with values coerced to their declared types and enum values
// rewritten to their canonical spelling. Unknown keys pass through.
func Validate(e Entry, args map[string]any) (map[string]any, error) {
	if raw, ok := args[RawArgumentsKey]; ok {
		return nil, &ValidationError{
			Field:   "arguments",
			Message: fmt.Sprintf("arguments are not valid JSON: %v", raw),
		}
	}
	return validateObject("", e.Params, args)
}

func validateObject(prefix string, params []Param, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	for _, p := range params {
		field := p.Name
		if prefix != "" {
			field = prefix + "." + p.Name
		}
		v, present := out[p.Name]
		if !present || v == nil || isBlank(v) {
			if p.Required {
				return nil, &ValidationError{Field: field, Message: "Missing required field " + field}
			}
			delete(out, p.Name)
			continue
		}
		cv, err := coerce(field, p, v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = cv
	}
	return out, nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	}
	return false
}

func coerce(field string, p Param, v any) (any, error) {
	switch p.Type {
	case TypeString:
		s, err := toString(field, v)
		if err != nil {
			return nil, err
		}
		if len(p.Enum) > 0 {
			return canonicalEnum(field, p.Enum, s)
		}
		return s, nil
	case TypeNumber:
		return toNumber(field, v)
	case TypeInteger:
		f, err := toNumber(field, v)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, &ValidationError{Field: field, Message: fmt.Sprintf("%s must be a whole number, got %v", field, v)}
		}
		return f, nil
	case TypeBoolean:
		return toBool(field, v)
	case TypeArray:
		list, ok := v.([]any)
		if !ok {
			return nil, &ValidationError{Field: field, Message: field + " must be a list"}
		}
		if p.Items == nil {
			return list, nil
		}
		out := make([]any, len(list))
		for i, item := range list {
			itemField := fmt.Sprintf("%s[%d]", field, i)
			cv, err := coerce(itemField, *p.Items, item)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case TypeObject:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &ValidationError{Field: field, Message: field + " must be an object"}
		}
		return validateObject(field, p.Properties, m)
	}
	return v, nil
}

func toString(field string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", &ValidationError{Field: field, Message: field + " must be text"}
}

func toNumber(field string, v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case string:
		s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(t)
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
	}
	return 0, &ValidationError{Field: field, Message: fmt.Sprintf("%s must be a number, got %v", field, v)}
}

func toBool(field string, v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0":
			return false, nil
		}
	}
	return false, &ValidationError{Field: field, Message: fmt.Sprintf("%s must be true or false, got %v", field, v)}
}

func canonicalEnum(field string, values []string, s string) (string, error) {
	key := enumKey(s)
	for _, v := range values {
		if enumKey(v) == key {
			return v, nil
		}
	}
	return "", &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s must be one of %s, got %q", field, strings.Join(values, ", "), s),
	}
}

func enumKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(s))
}
