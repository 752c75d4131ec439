package client

import (
	"errors"
	"fmt"

	"task-manager/service"
)

// FallbackMessage is shown for failures whose details the user cannot act on.
const FallbackMessage = "Something went wrong. Please try again."

// APIError is a failed call to the REST API. Message is safe to show.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Describe turns any DataSource error into the alert text shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		if verr.Field == "title" {
			return "Title is required"
		}
		return verr.Message
	}
	if errors.Is(err, service.ErrNotFound) {
		return "Task not found"
	}
	return FallbackMessage
}
