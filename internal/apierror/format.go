package apierror

// Constraint is one violated rule on a property.
type Constraint struct {
	Name    string
	Message string
}

// FieldFailure is a node in the validation failure tree. A node carries
// either its own constraint violations or child failures for nested values.
type FieldFailure struct {
	Property    string
	Constraints []Constraint
	Children    []FieldFailure
}

// FormatFailures flattens the failure tree into a mapping from property name
// to the first constraint message, recursing into children as nested maps.
func FormatFailures(failures []FieldFailure) map[string]any {
	out := make(map[string]any, len(failures))
	for _, failure := range failures {
		if len(failure.Children) > 0 {
			out[failure.Property] = FormatFailures(failure.Children)
			continue
		}
		// A leaf without violations contributes nothing.
		if len(failure.Constraints) == 0 {
			continue
		}
		out[failure.Property] = failure.Constraints[0].Message
	}
	return out
}
