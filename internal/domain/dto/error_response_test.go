package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestErrorResponse_Error(t *testing.T) {
	e := ErrorResponse{Message: "oops"}
	if e.Error() != "oops" {
		t.Fatalf("want 'oops' got %q", e.Error())
	}
	e2 := ErrorResponse{Message: "oops", ErrorDetails: "bad"}
	if e2.Error() != "oops: bad" {
		t.Fatalf("want 'oops: bad' got %q", e2.Error())
	}
}

func TestNewErrorResponse(t *testing.T) {
	// without inner error
	e := NewErrorResponse("msg", nil)
	if e.Message != "msg" || e.ErrorDetails != "" {
		t.Fatalf("unexpected %+v", e)
	}
	if e.Timestamp.IsZero() || time.Since(e.Timestamp) > time.Second {
		t.Fatalf("timestamp not set")
	}

	// with inner error
	err := errors.New("boom")
	e2 := NewErrorResponse("msg", err)
	if e2.ErrorDetails != "boom" || e2.Message != "msg" {
		t.Fatalf("unexpected %+v", e2)
	}
}

func TestErrorResponse_JSONOmitsEmptyDetails(t *testing.T) {
	b, err := json.Marshal(NewErrorResponse("not found", nil))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), `"error"`) {
		t.Fatalf("unexpected error field in %s", b)
	}
	if !strings.Contains(string(b), `"message":"not found"`) {
		t.Fatalf("missing message in %s", b)
	}
}

func TestRateLimitResponse_JSON(t *testing.T) {
	b, err := json.Marshal(RateLimitResponse{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"active":false}` {
		t.Fatalf("got %s", b)
	}
}
