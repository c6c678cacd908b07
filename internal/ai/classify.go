package ai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// Classify maps a model client error onto a Failure reason.
func Classify(err error) Failure {
	if err == nil {
		return FailureNone
	}

	var ae *apierror.APIError
	if errors.As(err, &ae) {
		if f := byHTTP(ae.HTTPCode()); f != FailureNone {
			return f
		}
		if st := ae.GRPCStatus(); st != nil {
			switch st.Code() {
			case codes.ResourceExhausted:
				return FailureQuota
			case codes.Unauthenticated, codes.PermissionDenied:
				return FailureCredential
			}
		}
	}

	var ge *googleapi.Error
	if errors.As(err, &ge) {
		if f := byHTTP(ge.Code); f != FailureNone {
			return f
		}
	}

	// Gemini отвечает 400 INVALID_ARGUMENT на битый ключ, поэтому смотрим и текст
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"), strings.Contains(strings.ToLower(msg), "quota"):
		return FailureQuota
	case strings.Contains(msg, "API key"), strings.Contains(msg, "API_KEY_INVALID"):
		return FailureCredential
	}
	return FailureUnavailable
}

func byHTTP(code int) Failure {
	switch code {
	case http.StatusTooManyRequests:
		return FailureQuota
	case http.StatusUnauthorized, http.StatusForbidden:
		return FailureCredential
	}
	return FailureNone
}
