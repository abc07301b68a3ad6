package cperr

import (
	"errors"
	"testing"

	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

func TestErrorMessage(t *testing.T) {
	e := New(errorkind.NotFound, "component not found")
	if e.Error() != "not_found: component not found" {
		t.Fatalf("unexpected message: %s", e.Error())
	}

	wrapped := Wrap(errorkind.GitError, "clone failed", errors.New("boom"))
	if wrapped.Error() != "git_error: clone failed: boom" {
		t.Fatalf("unexpected wrapped message: %s", wrapped.Error())
	}
	if wrapped.Unwrap().Error() != "boom" {
		t.Fatalf("unwrap did not return cause")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(New(errorkind.FailedToRead, "x")) != errorkind.FailedToRead {
		t.Fatalf("expected FailedToRead")
	}
	if KindOf(errors.New("plain")) != errorkind.UnexpectedResponseType {
		t.Fatalf("expected fallback kind for non-cperr errors")
	}
}
