package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kash05/court-connect/internal/contract"
	"github.com/kash05/court-connect/internal/wizard"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldErrorResponse is returned when a section fails validation.
type FieldErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
	Step  string `json:"step,omitempty"`
}

// requestError is a malformed request detected inside a handler body.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

// writeJSON encodes v before writing the status. An encoding failure is
// logged and answered with 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding response", "type", fmt.Sprintf("%T", v), "err", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{Error: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDomainError maps wizard, contract and store errors to responses. A
// validation or contract rejection keeps its 422 even inside a
// SubmissionError.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		verr *wizard.ValidationError
		serr *wizard.SubmissionError
		cerr *contract.Error
		berr *BookingError
		rerr *requestError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, FieldErrorResponse{
			Error: verr.Field.Message,
			Field: verr.Field.Field,
			Step:  string(verr.Step),
		})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusUnprocessableEntity, FieldErrorResponse{Error: cerr.Message, Field: cerr.Location})
	case errors.As(err, &berr):
		writeJSON(w, http.StatusUnprocessableEntity, FieldErrorResponse{Error: berr.Message, Field: berr.Field})
	case errors.Is(err, ErrSlotFull), errors.Is(err, ErrPropertyClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &serr):
		writeError(w, http.StatusBadGateway, "property submission failed, please try again")
	case errors.As(err, &rerr):
		writeError(w, http.StatusBadRequest, rerr.msg)
	case errors.Is(err, wizard.ErrBadUpdate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrClosed), errors.Is(err, wizard.ErrStepMismatch):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
