package bluesky

import (
	"fmt"
	"strconv"
)

// FetchError reports a failed upstream request. Status is the HTTP status
// code, or zero when no response was received or it could not be decoded.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bluesky fetch error (%s): %v", e.Reason(), e.Err)
	}
	return fmt.Sprintf("bluesky fetch error (%s)", e.Reason())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Reason is the status code as text, or "unavailable" without one.
func (e *FetchError) Reason() string {
	if e.Status > 0 {
		return strconv.Itoa(e.Status)
	}
	return "unavailable"
}
