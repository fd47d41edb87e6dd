package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kash05/court-connect/internal/courtconnect"
	"github.com/kash05/court-connect/internal/wizard"
)

type WizardStepState struct {
	courtconnect.Step
	Completed bool `json:"completed"`
	Current   bool `json:"current"`
}

// WizardState is the client's view of a wizard session.
type WizardState struct {
	ID          string                    `json:"id"`
	Status      wizard.Status             `json:"status"`
	CurrentStep courtconnect.StepKey      `json:"currentStep"`
	Steps       []WizardStepState         `json:"steps"`
	Form        courtconnect.PropertyForm `json:"form"`
	// Draft is the current step's local, possibly unsaved and invalid,
	// section value.
	Draft      any                 `json:"draft"`
	IsValid    bool                `json:"isValid"`
	FirstError *wizard.FieldError  `json:"firstError,omitempty"`
	Errors     []wizard.FieldError `json:"errors"`
	PropertyID string              `json:"propertyId,omitempty"`
	CreatedAt  string              `json:"createdAt"`
}

type UpdateFieldRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

type ApplyHoursRequest struct {
	Type string `json:"type" enum:"open,close"`
	Time string `json:"time"`
}

// wizardState must be called with sess.mu held.
func wizardState(sess *wizardSession) WizardState {
	o := sess.orch
	c := o.Controller()
	errs := c.Errors()

	st := WizardState{
		ID:          sess.id,
		Status:      o.Status(),
		CurrentStep: o.Current().Key,
		Form:        o.Form(),
		Draft:       c.Data(),
		IsValid:     c.Valid(),
		Errors:      errs,
		PropertyID:  o.PropertyID(),
		CreatedAt:   sess.createdAt,
	}
	if len(errs) > 0 {
		st.FirstError = &errs[0]
	}
	for _, s := range courtconnect.Steps {
		st.Steps = append(st.Steps, WizardStepState{
			Step:      s,
			Completed: o.Completed(s.Key),
			Current:   s.Key == st.CurrentStep,
		})
	}
	return st
}

func handleCreateWizard(wizards *WizardRegistry, svc *PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := principalFrom(r).UserID
		sess, err := wizards.Create(owner, svc.SubmitterFor(owner))
		if errors.Is(err, ErrRegistryFull) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()
		writeJSON(w, http.StatusCreated, wizardState(sess))
	}
}

// withWizard resolves the {id} session of the caller and runs fn under the
// session lock. fn returns the status for a successful response.
func withWizard(wizards *WizardRegistry, fn func(r *http.Request, sess *wizardSession) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := wizards.Get(chi.URLParam(r, "id"), principalFrom(r).UserID)
		if err != nil {
			writeError(w, http.StatusNotFound, "wizard not found")
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		status, err := fn(r, sess)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, status, wizardState(sess))
	}
}

func handleGetWizard(wizards *WizardRegistry) http.HandlerFunc {
	return withWizard(wizards, func(*http.Request, *wizardSession) (int, error) {
		return http.StatusOK, nil
	})
}

func handleUpdateWizardField(wizards *WizardRegistry) http.HandlerFunc {
	return withWizard(wizards, func(r *http.Request, sess *wizardSession) (int, error) {
		if sess.orch.Status() == wizard.StatusSubmitted {
			return 0, wizard.ErrClosed
		}
		var req UpdateFieldRequest
		if err := readJSON(r, &req); err != nil || len(req.Value) == 0 {
			return 0, badRequest("body must be {path, value}")
		}
		if err := sess.orch.Controller().UpdateField(req.Path, req.Value); err != nil {
			return 0, err
		}
		return http.StatusOK, nil
	})
}

func handleApplyOpeningHours(wizards *WizardRegistry) http.HandlerFunc {
	return withWizard(wizards, func(r *http.Request, sess *wizardSession) (int, error) {
		if sess.orch.Status() == wizard.StatusSubmitted {
			return 0, wizard.ErrClosed
		}
		tc, ok := sess.orch.Controller().(*wizard.TimingController)
		if !ok {
			return 0, wizard.ErrStepMismatch
		}
		var req ApplyHoursRequest
		if err := readJSON(r, &req); err != nil {
			return 0, badRequest("body must be {type, time}")
		}
		if err := tc.ApplyToAllDays(req.Type, req.Time); err != nil {
			return 0, err
		}
		return http.StatusOK, nil
	})
}

func handleWizardNext(wizards *WizardRegistry) http.HandlerFunc {
	return withWizard(wizards, func(r *http.Request, sess *wizardSession) (int, error) {
		if err := sess.orch.Controller().Submit(r.Context()); err != nil {
			return 0, err
		}
		if sess.orch.Status() == wizard.StatusSubmitted {
			return http.StatusCreated, nil
		}
		return http.StatusOK, nil
	})
}

func handleWizardBack(wizards *WizardRegistry) http.HandlerFunc {
	return withWizard(wizards, func(r *http.Request, sess *wizardSession) (int, error) {
		if err := sess.orch.Controller().GoBack(); err != nil {
			return 0, err
		}
		return http.StatusOK, nil
	})
}

func handleDeleteWizard(wizards *WizardRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := wizards.Delete(chi.URLParam(r, "id"), principalFrom(r).UserID); err != nil {
			writeError(w, http.StatusNotFound, "wizard not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
