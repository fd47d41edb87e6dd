package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kash05/court-connect/internal/contract"
	"github.com/kash05/court-connect/internal/wizard"
)

func TestWriteJSONEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]float64{"distanceKm": math.NaN()})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Error != "internal error" {
		t.Errorf("unexpected body %+v", resp)
	}
	if !strings.Contains(logs.String(), "encoding response") {
		t.Errorf("encode failure was not logged: %q", logs.String())
	}
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &wizard.ValidationError{Step: "media", Field: wizard.FieldError{Field: "images"}}, http.StatusUnprocessableEntity},
		{"contract", &contract.Error{Location: "/media", Message: "missing"}, http.StatusUnprocessableEntity},
		{"contract inside submission", &wizard.SubmissionError{Err: &contract.Error{Location: "/media", Message: "missing"}}, http.StatusUnprocessableEntity},
		{"validation inside submission", &wizard.SubmissionError{Err: &wizard.ValidationError{Step: "media"}}, http.StatusUnprocessableEntity},
		{"store failure inside submission", &wizard.SubmissionError{Err: errors.New("disk full")}, http.StatusBadGateway},
		{"bad update", fmt.Errorf("%w: x", wizard.ErrBadUpdate), http.StatusBadRequest},
		{"closed", wizard.ErrClosed, http.StatusConflict},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeDomainError(w, tt.err)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
