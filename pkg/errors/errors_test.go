package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	if got := MetadataFor(CodeValidation).HTTPStatus; got != http.StatusBadRequest {
		t.Fatalf("validation status = %d", got)
	}
	if got := MetadataFor(CodeStateConflict).HTTPStatus; got != http.StatusUnprocessableEntity {
		t.Fatalf("state conflict status = %d", got)
	}
	if got := MetadataFor(Code("bogus")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code should fall back to internal, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("row not found")
	err := Wrap(CodeNotFound, cause, "order missing")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "NOT_FOUND: order missing" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestAsUnwrapsThroughFmt(t *testing.T) {
	inner := New(CodeStateConflict, "only draft purchase orders can be deleted")
	wrapped := fmt.Errorf("deleting po: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "insufficient stock").
		WithDetails(map[string]any{"product": "DSLR Camera", "available": 0})

	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["available"] != 0 {
		t.Fatalf("details not preserved: %v", details)
	}
}
