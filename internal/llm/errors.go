package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// HTTPStatusCoder is implemented by errors that know the provider's HTTP status
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusError is a provider failure annotated with its HTTP status
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %v", e.Code, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the HTTP status of the failed call
func (e *StatusError) HTTPStatusCode() int {
	return e.Code
}

// StatusCode reports the HTTP status carried by err, or 0 when none is known.
// gRPC ResourceExhausted is reported as 429.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}

	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}

	var aerr *apierror.APIError
	if errors.As(err, &aerr) {
		if code := aerr.HTTPCode(); code > 0 {
			return code
		}
		if st := aerr.GRPCStatus(); st != nil {
			return grpcToHTTP(st.Code())
		}
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		return grpcToHTTP(st.Code())
	}
	return 0
}

func grpcToHTTP(code codes.Code) int {
	switch code {
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.NotFound:
		return http.StatusNotFound
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return 0
	}
}

func wrapProviderError(err error) error {
	if code := StatusCode(err); code > 0 {
		return &StatusError{Code: code, Err: fmt.Errorf("failed to generate content: %w", err)}
	}
	return fmt.Errorf("failed to generate content: %w", err)
}
