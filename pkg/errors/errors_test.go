package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidShape, "layer %d has %d quadrants", 2, 3), "INVALID_SHAPE: layer 2 has 3 quadrants"},
		{"wrapped", Wrap(ErrCodeCorruptTable, errors.New("short read"), "read %s", "t.bin"), "CORRUPT_TABLE: read t.bin: short read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("open store: %w", Wrap(ErrCodeNetwork, cause, "mongo"))
	if !errors.Is(err, cause) {
		t.Error("cause lost through Wrap")
	}
	if GetCode(err) != ErrCodeNetwork {
		t.Errorf("GetCode() = %q", GetCode(err))
	}
	if UserMessage(err) != "mongo" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"match", New(ErrCodeWidthMismatch, "x"), ErrCodeWidthMismatch, true},
		{"other code", New(ErrCodeWidthMismatch, "x"), ErrCodeInvalidShape, false},
		{"outer code wins", Wrap(ErrCodeInvalidConfig, New(ErrCodeEncodingOverflow, "inner"), "outer"), ErrCodeInvalidConfig, true},
		{"inner code hidden", Wrap(ErrCodeInvalidConfig, New(ErrCodeEncodingOverflow, "inner"), "outer"), ErrCodeEncodingOverflow, false},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessagePlain(t *testing.T) {
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q", got)
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidShape, "bad glyph"), http.StatusBadRequest},
		{New(ErrCodeWidthMismatch, "width"), http.StatusBadRequest},
		{New(ErrCodeEncodingOverflow, "too tall"), http.StatusBadRequest},
		{New(ErrCodeNotFound, "missing"), http.StatusNotFound},
		{New(ErrCodeFileNotFound, "no table"), http.StatusNotFound},
		{Wrap(ErrCodeNetwork, errors.New("dial"), "redis"), http.StatusServiceUnavailable},
		{New(ErrCodeUnsupported, "pdf"), http.StatusNotImplemented},
		{New(ErrCodeCorruptTable, "size"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
