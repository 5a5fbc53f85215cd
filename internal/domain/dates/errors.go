package dates

import "fmt"

// InvalidDateFormatError is returned when a value is not one of the accepted
// date shapes.
type InvalidDateFormatError struct {
	Field string
	Value any
	// PresentNotAllowed marks a "present" start date.
	PresentNotAllowed bool
}

func (e *InvalidDateFormatError) Error() string {
	if e.PresentNotAllowed {
		msg := fmt.Sprintf("%q is only allowed as an end date", PresentKeyword)
		if e.Field != "" {
			return e.Field + ": " + msg
		}
		return msg
	}
	msg := fmt.Sprintf("%q is not a valid date; use YYYY-MM-DD, YYYY-MM, YYYY or %q", Text(e.Value), PresentKeyword)
	if e.Field != "" {
		return e.Field + ": " + msg
	}
	return msg
}

// DateOrderingError is returned when a concrete start date falls after the
// concrete end date.
type DateOrderingError struct {
	Start string
	End   string
}

func (e *DateOrderingError) Error() string {
	return fmt.Sprintf("start_date %s is after end_date %s", e.Start, e.End)
}
