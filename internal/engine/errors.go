package engine

import "fmt"

// NotFoundError reports a country that is not in the dataset.
type NotFoundError struct {
	Country string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("country %q not found in dataset", e.Country)
}

// InvalidSelectionError reports a selection the caller has not filled in
// yet, such as an empty country list. It is distinct from a selection that
// simply matches no data.
type InvalidSelectionError struct {
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return "invalid selection: " + e.Reason
}

func invalidSelection(format string, args ...interface{}) error {
	return &InvalidSelectionError{Reason: fmt.Sprintf(format, args...)}
}
