package httputil

import (
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorRate      ErrorType = "rate"
	ErrorTransient ErrorType = "transient"
	ErrorNotFound  ErrorType = "not_found"
	ErrorPermanent ErrorType = "permanent"
)

// ClassifyStatus maps an HTTP status to a retry class. 2xx/3xx classify as ""
// (no error).
func ClassifyStatus(code int) ErrorType {
	switch {
	case code < 400:
		return ""
	case code == http.StatusNotFound:
		return ErrorNotFound
	case code == http.StatusTooManyRequests:
		return ErrorRate
	case code >= 500:
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}

// ClassifyError maps an error from an HTTP call to a retry class by message.
// Upstream services wrap statuses into plain errors, so this stays string-based.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "429"), strings.Contains(e, "rate"):
		return ErrorRate
	case strings.Contains(e, "404"), strings.Contains(e, "not found"):
		return ErrorNotFound
	case strings.Contains(e, "timeout"), strings.Contains(e, "temporarily"),
		strings.Contains(e, "unavailable"), strings.Contains(e, "connection refused"),
		strings.Contains(e, "502"), strings.Contains(e, "503"):
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}

// Retryable reports whether the class is worth another attempt.
func (t ErrorType) Retryable() bool {
	return t == ErrorRate || t == ErrorTransient
}
