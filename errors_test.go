package goblockly

import (
	"errors"
	"io/fs"
	"testing"
)

func TestIssues_UnwrapReachesCauses(t *testing.T) {
	dup := &DuplicateKeyError{Key: "type", Path: "/blocks/blocks/0"}
	err := error(Issues{
		{Code: CodeInvalidWorkspace, Message: "no cause", Offset: -1},
		{Code: CodeInvalidWorkspace, Message: "duplicate", Cause: dup, Offset: -1},
		{Code: CodeInvalidManifest, Message: "missing", Cause: fs.ErrNotExist, Offset: -1},
	})

	var got *DuplicateKeyError
	if !errors.As(err, &got) || got != dup {
		t.Fatalf("errors.As did not reach the duplicate key cause: %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("errors.Is did not reach fs.ErrNotExist")
	}
	if n := len(err.(Issues).Unwrap()); n != 2 {
		t.Fatalf("Unwrap returned %d causes, want 2", n)
	}
	if iss, ok := AsIssues(err); !ok || len(iss) != 3 {
		t.Fatalf("AsIssues = %v, %v", iss, ok)
	}
}

func TestDecodeWorkspace_DuplicateKeyCause(t *testing.T) {
	_, err := DecodeWorkspace([]byte(`{"blocks":{"blocks":[{"type":"a","type":"b"}]}}`))
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) || dup.Key != "type" {
		t.Fatalf("expected DuplicateKeyError cause, got %v", err)
	}
}
