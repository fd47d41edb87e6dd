package server

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72
)

// RegisterRequest is the request body for POST /api/auth/register.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"fullName"`
	Gender     string `json:"gender"`
	AgreeTerms bool   `json:"agreeTerms"`
	Role       string `json:"role"`
}

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresAt   string `json:"expiresAt"`
	User        User   `json:"user"`
}

type RoleOption struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

var roleOptions = []RoleOption{
	{Name: RoleOwner, DisplayName: "Property Owner"},
	{Name: RolePlayer, DisplayName: "Player"},
}

func (req *RegisterRequest) validate() *FieldErrorResponse {
	fail := func(field, msg string) *FieldErrorResponse {
		return &FieldErrorResponse{Error: msg, Field: field}
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return fail("email", "Valid email required")
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLen {
		return fail("password", "Password must be at least 8 characters")
	}
	if len(req.Password) > maxPasswordBytes {
		return fail("password", "Password must be at most 72 bytes")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return fail("fullName", "Full name is required")
	}
	if req.Gender != "" && req.Gender != "male" && req.Gender != "female" {
		return fail("gender", "Gender must be male or female")
	}
	if !req.AgreeTerms {
		return fail("agreeTerms", "You must accept the terms")
	}
	if req.Role != RoleOwner && req.Role != RolePlayer {
		return fail("role", "Role must be owner or player")
	}
	return nil
}

func handleRegister(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if ferr := req.validate(); ferr != nil {
			writeJSON(w, http.StatusUnprocessableEntity, ferr)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		u, err := users.CreateUser(r.Context(), User{
			Email:    req.Email,
			FullName: strings.TrimSpace(req.FullName),
			Gender:   req.Gender,
			Role:     req.Role,
		}, string(hash))
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, u)
	}
}

func handleLogin(users UserStore, tokens *TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		u, hash, err := users.UserByEmail(r.Context(), req.Email)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		sessionID, err := users.CreateSession(r.Context(), u.ID, time.Now().Add(tokens.TTL()))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		token, expires, err := tokens.Issue(u.ID, u.Role, sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresAt:   expires.UTC().Format(time.RFC3339),
			User:        u,
		})
	}
}

func handleLogout(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := users.DeleteSession(r.Context(), principalFrom(r).SessionID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleMe(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.UserByID(r.Context(), principalFrom(r).UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func handleRoles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, roleOptions)
	}
}
