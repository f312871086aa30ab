package errors

import "sort"

const EmailTakenMessage = "The email has already been taken."

// ValidationError carries one message per offending input field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Error returns the message of the alphabetically first field, which keeps
// the summary stable across runs.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "The given data was invalid."
	}

	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return e.Fields[fields[0]]
}
