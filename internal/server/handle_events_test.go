package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestEventsStream(t *testing.T) {
	env := newTestEnv(t, nil)
	token, _ := env.signup(t, "owner@example.com", RoleOwner)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet,
		srv.URL+"/api/properties/events?token="+url.QueryEscape(token), nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}

	id := createProperty(t, env, token, listing("Streamed Courts", 12.97, 77.59, "Tennis"))

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) != 2 || lines[0] != "event: property" {
		t.Fatalf("unexpected frame %q", lines)
	}
	if !strings.Contains(lines[1], id) || !strings.Contains(lines[1], EventPropertyCreated) {
		t.Errorf("data line %q", lines[1])
	}
}

func TestEventsRejects(t *testing.T) {
	env := newTestEnv(t, nil)
	player, _ := env.signup(t, "player@example.com", RolePlayer)

	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"bad token", "?token=nope", http.StatusUnauthorized},
		{"player", "?token=" + url.QueryEscape(player), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/properties/events"+tt.query, nil)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}
}
