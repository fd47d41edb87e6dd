package server

import (
	"net/http"
	"strings"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	token, user := env.signup(t, "Owner@Example.com", RoleOwner)

	if token == "" {
		t.Fatal("expected an access token")
	}
	if user.Email != "owner@example.com" {
		t.Errorf("expected email to be normalized, got %q", user.Email)
	}
	if user.Role != RoleOwner {
		t.Errorf("expected role owner, got %q", user.Role)
	}

	w := env.do(t, http.MethodGet, "/api/users/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	me := decode[User](t, w)
	if me.ID != user.ID {
		t.Errorf("me = %+v, want %+v", me, user)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	valid := func() RegisterRequest {
		return RegisterRequest{
			Email:      "player@example.com",
			Password:   "password123",
			FullName:   "Pat Player",
			AgreeTerms: true,
			Role:       RolePlayer,
		}
	}

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"bad email", func(r *RegisterRequest) { r.Email = "nope" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "password"},
		{"long password", func(r *RegisterRequest) { r.Password = strings.Repeat("p", 73) }, "password"},
		{"long multibyte password", func(r *RegisterRequest) { r.Password = strings.Repeat("é", 37) }, "password"},
		{"blank name", func(r *RegisterRequest) { r.FullName = "  " }, "fullName"},
		{"bad gender", func(r *RegisterRequest) { r.Gender = "robot" }, "gender"},
		{"terms not accepted", func(r *RegisterRequest) { r.AgreeTerms = false }, "agreeTerms"},
		{"unknown role", func(r *RegisterRequest) { r.Role = "admin" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			w := env.do(t, http.MethodPost, "/api/auth/register", "", req)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
			}
			if resp := decode[FieldErrorResponse](t, w); resp.Field != tt.field {
				t.Errorf("field = %q, want %q", resp.Field, tt.field)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signup(t, "dup@example.com", RolePlayer)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:      "DUP@example.com",
		Password:   "password123",
		FullName:   "Someone Else",
		AgreeTerms: true,
		Role:       RoleOwner,
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterUnknownField(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", `{"email":"a@b.co","isAdmin":true}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signup(t, "owner@example.com", RoleOwner)

	tests := []struct {
		name string
		req  LoginRequest
		code int
	}{
		{"wrong password", LoginRequest{Email: "owner@example.com", Password: "wrong-password"}, http.StatusUnauthorized},
		{"unknown email", LoginRequest{Email: "ghost@example.com", Password: "password123"}, http.StatusUnauthorized},
		{"missing password", LoginRequest{Email: "owner@example.com"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/login", "", tt.req)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t, nil)
	token, _ := env.signup(t, "owner@example.com", RoleOwner)

	w := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/users/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

func TestMeUnauthenticated(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := map[string]string{
		"no token":      "",
		"garbage token": "not-a-jwt",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/users/me", token, nil)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRoles(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/users/roles", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	roles := decode[[]RoleOption](t, w)
	if len(roles) != 2 || roles[0].Name != RoleOwner || roles[1].Name != RolePlayer {
		t.Errorf("unexpected roles %+v", roles)
	}
}
