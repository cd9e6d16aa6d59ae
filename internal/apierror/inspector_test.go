package apierror

import (
	"errors"
	"fmt"
	"testing"
)

func TestRESTErrorInspector_IsPermissionError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "403 forbidden",
			err:  errors.New("403 Forbidden"),
			want: true,
		},
		{
			name: "permission message",
			err:  errors.New("User not permitted to view content"),
			want: true,
		},
		{
			name: "wrapped permission error",
			err:  fmt.Errorf("failed to list: %w", errors.New("403 Forbidden")),
			want: true,
		},
		{
			name: "not a permission error",
			err:  errors.New("something went wrong"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsPermissionError(tt.err); got != tt.want {
				t.Errorf("IsPermissionError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRESTErrorInspector_IsAuthError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "401 unauthorized",
			err:  errors.New("401 Unauthorized"),
			want: true,
		},
		{
			name: "authentication required",
			err:  errors.New("Basic auth with API token required"),
			want: true,
		},
		{
			name: "not an auth error",
			err:  errors.New("internal server error"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRESTErrorInspector_IsNotFoundError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "404 not found",
			err:  errors.New("404 Not Found"),
			want: true,
		},
		{
			name: "no space with key",
			err:  errors.New("No space with the given key exists"),
			want: true,
		},
		{
			name: "wrapped not found error",
			err:  fmt.Errorf("failed to count: %w", errors.New("404 Not Found")),
			want: true,
		},
		{
			name: "not a not found error",
			err:  errors.New("internal server error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRESTErrorInspector_IsRateLimitError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "429 status",
			err:  errors.New("429 Too Many Requests"),
			want: true,
		},
		{
			name: "rate limit message",
			err:  errors.New("API rate limit exceeded"),
			want: true,
		},
		{
			name: "not a rate limit error",
			err:  errors.New("500 Internal Server Error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRESTErrorInspector_IsNetworkError(t *testing.T) {
	inspector := NewInspector()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:443: connection refused"),
			want: true,
		},
		{
			name: "dns failure",
			err:  errors.New("no such host"),
			want: true,
		},
		{
			name: "timeout",
			err:  errors.New("context deadline exceeded (Client.Timeout exceeded)"),
			want: true,
		},
		{
			name: "tls failure",
			err:  errors.New("TLS handshake error"),
			want: true,
		},
		{
			name: "not a network error",
			err:  errors.New("400 Bad Request"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspector.IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type typedPermissionError struct{}

func (typedPermissionError) Error() string           { return "opaque failure" }
func (typedPermissionError) IsPermissionError() bool { return true }

func TestErrorChainInspector(t *testing.T) {
	inspector := NewErrorChainInspector(NewInspector())

	// Typed error in the chain wins even when the message says nothing.
	err := fmt.Errorf("request failed: %w", typedPermissionError{})
	if !inspector.IsPermissionError(err) {
		t.Error("expected typed permission error to be detected in chain")
	}

	// Falls back to string inspection for plain errors.
	if !inspector.IsNetworkError(errors.New("dial tcp: connection refused")) {
		t.Error("expected fallback string inspection to detect network error")
	}
	if inspector.IsPermissionError(errors.New("500 Internal Server Error")) {
		t.Error("did not expect a permission error")
	}
}
