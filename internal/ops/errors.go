package ops

import "fmt"

// UnknownOperationError is returned for a tool call naming an
// operation the catalog does not have.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("Unknown operation: %s", e.Name)
}

// BusinessRuleError means the request is well formed but the business
// does not allow it, e.g. clocking in twice. The operation is aborted
// and no action is produced.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string { return e.Message }

// ExternalServiceError wraps a failure of a downstream service such as
// the vision model. It is reported to the user and never retried.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func ruleErr(rule, format string, args ...any) error {
	return &BusinessRuleError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}
