package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kash05/court-connect/internal/courtconnect"
)

const (
	defaultSearchRadiusKm = 10
	defaultSearchLimit    = 50
	maxSearchLimit        = 100
)

type CreatePropertyResponse struct {
	ID string `json:"id"`
}

func handleCreateProperty(svc *PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form courtconnect.PropertyForm
		if err := readJSON(r, &form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p, err := svc.Create(r.Context(), principalFrom(r).UserID, form)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, CreatePropertyResponse{ID: p.ID})
	}
}

func handleMyProperties(store PropertyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListByOwner(r.Context(), principalFrom(r).UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// handleGetProperty hides inactive listings from everyone but their owner.
func handleGetProperty(store PropertyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.GetProperty(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !propertyActive(p) && p.OwnerID != principalFrom(r).UserID {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handleUpdateProperty(svc *PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form courtconnect.PropertyForm
		if err := readJSON(r, &form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p, err := svc.Update(r.Context(), principalFrom(r).UserID, chi.URLParam(r, "id"), form)
		if errors.Is(err, errNotOwner) {
			writeError(w, http.StatusForbidden, "not your property")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handleSearchProperties(store PropertyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, msg := parseSearchQuery(r)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		list, err := store.Search(r.Context(), q)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func parseSearchQuery(r *http.Request) (SearchQuery, string) {
	v := r.URL.Query()
	q := SearchQuery{Sport: v.Get("sport"), Limit: defaultSearchLimit}

	float := func(key string) (float64, bool, string) {
		s := v.Get(key)
		if s == "" {
			return 0, false, ""
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false, key + " must be a number"
		}
		return f, true, ""
	}

	lat, hasLat, msg := float("lat")
	if msg != "" {
		return q, msg
	}
	lng, hasLng, msg := float("lng")
	if msg != "" {
		return q, msg
	}
	if hasLat != hasLng {
		return q, "lat and lng must be given together"
	}
	if hasLat {
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return q, "lat or lng out of range"
		}
		q.Near = &Point{Lat: lat, Lng: lng}
		q.RadiusKm = defaultSearchRadiusKm
	}

	radius, hasRadius, msg := float("radiusKm")
	if msg != "" {
		return q, msg
	}
	if hasRadius {
		if radius <= 0 {
			return q, "radiusKm must be positive"
		}
		q.RadiusKm = radius
	}

	if s := v.Get("date"); s != "" {
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return q, "date must be YYYY-MM-DD"
		}
		q.Date = s
	}
	price := func(key string) (*float64, string) {
		f, ok, msg := float(key)
		if msg != "" || !ok {
			return nil, msg
		}
		if f < 0 {
			return nil, key + " must not be negative"
		}
		return &f, ""
	}
	if q.MinRate, msg = price("minPrice"); msg != "" {
		return q, msg
	}
	if q.MaxRate, msg = price("maxPrice"); msg != "" {
		return q, msg
	}
	if q.MinRate != nil && q.MaxRate != nil && *q.MinRate > *q.MaxRate {
		return q, "minPrice must not exceed maxPrice"
	}

	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return q, "limit must be a positive integer"
		}
		q.Limit = min(n, maxSearchLimit)
	}
	return q, ""
}
