package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidRule, "rule %d has an empty groupId", 2), "INVALID_RULE: rule 2 has an empty groupId"},
		{Wrap(ErrCodeNetwork, errors.New("connection refused"), "GET %s", "central"), "NETWORK_ERROR: GET central: connection refused"},
		{Wrap(ErrCodeConfigLoad, nil, "no cause"), "CONFIG_LOAD: no cause"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := Wrap(ErrCodeTimeout, cause, "lookup junit:junit")

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should reach the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
}

func TestIsWalksChain(t *testing.T) {
	inner := New(ErrCodeMetadataRetrieval, "no metadata for junit:junit")
	batch := Wrap(ErrCodeBatchFailed, inner, "unable to acquire metadata")
	plain := fmt.Errorf("check: %w", batch)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"outer code", batch, ErrCodeBatchFailed, true},
		{"inner code", batch, ErrCodeMetadataRetrieval, true},
		{"through fmt wrapping", plain, ErrCodeMetadataRetrieval, true},
		{"absent code", batch, ErrCodeNetwork, false},
		{"uncoded error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("serve: %w", Wrap(ErrCodeNotFound, New(ErrCodeNetwork, "x"), "artifact %s not found", "g:a"))

	if got := GetCode(err); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %q, want outermost NOT_FOUND", got)
	}
	if got := UserMessage(err); got != "artifact g:a not found" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := errors.New("disk full")
	if GetCode(plain) != "" || UserMessage(plain) != "disk full" {
		t.Errorf("uncoded: code %q, message %q", GetCode(plain), UserMessage(plain))
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), ExitFailure},
		{New(ErrCodeInvalidCoordinate, "bad"), ExitUsage},
		{New(ErrCodeInvalidManifest, "bad pom"), ExitUsage},
		{New(ErrCodeConfigLoad, "bad toml"), ExitConfig},
		{New(ErrCodeInvalidRule, "bad rule"), ExitConfig},
		{Wrap(ErrCodeBatchFailed, New(ErrCodeNetwork, "down"), "batch"), ExitMetadata},
		{New(ErrCodeInternal, "bug"), ExitFailure},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
