package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleCreateBooking(svc *BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookingRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PropertyID == "" {
			writeJSON(w, http.StatusUnprocessableEntity, FieldErrorResponse{Error: "Property is required", Field: "propertyId"})
			return
		}

		b, err := svc.Book(r.Context(), principalFrom(r).UserID, req)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func handleMyBookings(store BookingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListByPlayer(r.Context(), principalFrom(r).UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handlePropertyBookings(svc *BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.PropertyBookings(r.Context(), principalFrom(r).UserID, chi.URLParam(r, "id"))
		if errors.Is(err, errNotOwner) {
			writeError(w, http.StatusForbidden, "not your property")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
