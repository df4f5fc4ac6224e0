package httputil

import (
	"errors"
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	cases := map[int]ErrorType{
		http.StatusOK:                  "",
		http.StatusFound:               "",
		http.StatusNotFound:            ErrorNotFound,
		http.StatusTooManyRequests:     ErrorRate,
		http.StatusInternalServerError: ErrorTransient,
		http.StatusServiceUnavailable:  ErrorTransient,
		http.StatusBadRequest:          ErrorPermanent,
		http.StatusForbidden:           ErrorPermanent,
	}
	for code, want := range cases {
		if got := ClassifyStatus(code); got != want {
			t.Fatalf("classify status %d: got %s want %s", code, got, want)
		}
	}
}

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"429 rate limited":             ErrorRate,
		"fetch: 404 not found":         ErrorNotFound,
		"dial tcp: connection refused": ErrorTransient,
		"request timeout":              ErrorTransient,
		"bad request":                  ErrorPermanent,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
	if got := ClassifyError(nil); got != "" {
		t.Fatalf("classify nil: got %s", got)
	}
}

func TestRetryable(t *testing.T) {
	if !ErrorRate.Retryable() || !ErrorTransient.Retryable() {
		t.Fatal("rate and transient should be retryable")
	}
	if ErrorPermanent.Retryable() || ErrorNotFound.Retryable() {
		t.Fatal("permanent and not_found should not be retryable")
	}
}
