package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"rento/shared/failure"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "start_date must be before end_date",
	}

	if f.Error() != "start_date must be before end_date" {
		t.Errorf("expected error message to be 'start_date must be before end_date', got %s", f.Error())
	}
}

func TestBadRequest(t *testing.T) {
	if err := failure.BadRequest(nil); err != nil {
		t.Errorf("expected nil for nil input, got %v", err)
	}

	err := failure.BadRequest(errors.New("validation failed"))
	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}
}

func TestConstructorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "validation", err: failure.BadRequestFromString("price must be positive"), code: http.StatusBadRequest},
		{name: "unauthorized", err: failure.Unauthorized("missing token"), code: http.StatusUnauthorized},
		{name: "authorization", err: failure.Forbidden("not a party to this booking"), code: http.StatusForbidden},
		{name: "not found", err: failure.NotFound("item not found"), code: http.StatusNotFound},
		{name: "conflict", err: failure.Conflict("email already registered"), code: http.StatusConflict},
		{name: "invalid transition", err: failure.InvalidTransition("booking is not pending"), code: http.StatusConflict},
		{name: "internal", err: failure.InternalError(errors.New("boom")), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

func TestGetCode_WrappedAndPlain(t *testing.T) {
	wrapped := fmt.Errorf("approve booking: %w", failure.InvalidTransition("booking is not pending"))
	if failure.GetCode(wrapped) != http.StatusConflict {
		t.Errorf("expected wrapped failure to keep its code, got %d", failure.GetCode(wrapped))
	}

	if failure.GetCode(errors.New("connection refused")) != http.StatusInternalServerError {
		t.Error("expected plain errors to map to 500")
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", failure.Forbidden("nope"))

	if !failure.Is(err, http.StatusForbidden) {
		t.Error("expected Is to match forbidden code")
	}

	if failure.Is(err, http.StatusNotFound) {
		t.Error("expected Is not to match a different code")
	}

	if failure.Is(errors.New("plain"), http.StatusForbidden) {
		t.Error("expected Is to be false for plain errors")
	}
}
