package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrQuotaExceeded   = errors.New("API quota exceeded")
	ErrInvalidKey      = errors.New("API key is invalid or missing")
	ErrNoImageReturned = errors.New("the model did not return an image")
)

// APIError is any other failure reported by the remote service.
type APIError struct {
	Code    int
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
	}
	return "API error: " + e.Message
}

const (
	statusResourceExhausted = "RESOURCE_EXHAUSTED"
	notFoundMessage         = "Requested entity was not found."
	invalidKeyMessage       = "API key not valid"
)

// ClassifyStatus maps a remote error's code, status and message to one of
// the error categories above.
func ClassifyStatus(code int, status, message string) error {
	switch {
	case code == http.StatusTooManyRequests || status == statusResourceExhausted:
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, message)
	case strings.Contains(message, notFoundMessage), strings.Contains(message, invalidKeyMessage):
		return fmt.Errorf("%w: %s", ErrInvalidKey, message)
	case message != "":
		return &APIError{Code: code, Status: status, Message: message}
	}
	return nil
}

// Classify converts an arbitrary error into a categorized one. Errors that
// are already categorized pass through; otherwise the message is searched for
// an embedded JSON error body.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrNoImageReturned) {
		return err
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}

	if body, ok := parseErrorBody(err.Error()); ok {
		if classified := ClassifyStatus(body.Code, body.Status, body.Message); classified != nil {
			return classified
		}
	}
	return err
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func parseErrorBody(msg string) (errorBody, bool) {
	start := strings.Index(msg, "{")
	if start < 0 {
		return errorBody{}, false
	}

	var envelope struct {
		Error *errorBody `json:"error"`
	}
	dec := json.NewDecoder(strings.NewReader(msg[start:]))
	if err := dec.Decode(&envelope); err != nil || envelope.Error == nil {
		return errorBody{}, false
	}
	return *envelope.Error, true
}
