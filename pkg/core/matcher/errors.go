package matcher

import "fmt"

// ValidationError reports malformed input: unknown identifiers in the
// preference table, inverted min/max bounds, or duplicate IDs.
// Always fatal; the input has to be fixed before retrying.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Msg
}

// ValidationErrorf builds a ValidationError from a format string.
func ValidationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InfeasibleError reports that no assignment satisfies all hard
// constraints. Distinct from ValidationError so a caller can decide to
// relax constraints and retry with different input.
type InfeasibleError struct {
	Msg string
}

func (e *InfeasibleError) Error() string {
	return "infeasible: " + e.Msg
}

// InfeasibleErrorf builds an InfeasibleError from a format string.
func InfeasibleErrorf(format string, args ...any) *InfeasibleError {
	return &InfeasibleError{Msg: fmt.Sprintf(format, args...)}
}
