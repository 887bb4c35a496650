package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *MonitorError
		want string
	}{
		{
			name: "without cause",
			err:  New(SnapshotNotFound, "no snapshot for fingerprint abc", nil),
			want: "[SNAPSHOT_NOT_FOUND] no snapshot for fingerprint abc",
		},
		{
			name: "with cause",
			err:  New(FetchError, "catalog request failed", fmt.Errorf("connection refused")),
			want: "[FETCH_ERROR] catalog request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New(StoreWriteError, "failed to persist snapshot", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestCodeOf(t *testing.T) {
	err := New(NormalizationError, "unparseable unit", nil)
	wrapped := fmt.Errorf("entry rejected: %w", err)

	if got := CodeOf(wrapped); got != NormalizationError {
		t.Errorf("CodeOf(wrapped) = %v, want %v", got, NormalizationError)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != InternalError {
		t.Errorf("CodeOf(plain) = %v, want %v", got, InternalError)
	}
}

func TestHasCode(t *testing.T) {
	err := Newf(SnapshotNotFound, nil, "no snapshot for fingerprint %s", "deadbeef")

	if !HasCode(err, SnapshotNotFound) {
		t.Error("HasCode should match the error's code")
	}
	if HasCode(err, FetchError) {
		t.Error("HasCode should not match a different code")
	}
	if !strings.Contains(err.Error(), "deadbeef") {
		t.Errorf("Newf should format the message: %q", err.Error())
	}
}
