package api

import (
	"net/http"
	"strings"
	"testing"

	"portfolio/internal/database"
	"portfolio/internal/portfolio"
)

func TestPortfolioFailsWhenNotSeeded(t *testing.T) {
	env := newTestEnv(t, true)
	w := env.do(t, http.MethodGet, "/api/portfolio", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
	body := decodeBody[map[string]string](t, w)
	if body["details"] == "" {
		t.Fatalf("expected details in %v", body)
	}

	if w := env.do(t, http.MethodGet, "/api/portfolio/metadata", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("metadata: expected 500 got %d", w.Code)
	}
}

func TestPortfolioEmptyCollections(t *testing.T) {
	env := newTestEnv(t, true)
	seedPersonalInfo(t, env.db)

	w := env.do(t, http.MethodGet, "/api/portfolio", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d %s", w.Code, w.Body.String())
	}
	body := decodeBody[map[string]any](t, w)
	for _, key := range []string{"skills", "work", "education", "projects", "hackathons", "languages"} {
		items, ok := body[key].([]any)
		if !ok || len(items) != 0 {
			t.Fatalf("%s: expected [] got %#v", key, body[key])
		}
	}
}

func TestPortfolioMetadata(t *testing.T) {
	env := newTestEnv(t, true)
	seedPersonalInfo(t, env.db)

	w := env.do(t, http.MethodGet, "/api/portfolio/metadata", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	meta := decodeBody[portfolio.Metadata](t, w)
	if meta.Title.Default != "Ada Lovelace" || meta.MetadataBase != "https://ada.example" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

func TestContactSubmit(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(t, http.MethodPost, "/api/contact", map[string]any{"name": "Bob", "email": "bob@example.com"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if got := decodeBody[map[string]string](t, w)["error"]; got != "Missing required fields" {
		t.Fatalf("unexpected error %q", got)
	}

	w = env.do(t, http.MethodPost, "/api/contact", "{not json")
	if got := decodeBody[map[string]string](t, w)["error"]; w.Code != http.StatusBadRequest || got != "Missing required fields" {
		t.Fatalf("malformed body: expected fixed 400 got %d %q", w.Code, got)
	}

	w = env.do(t, http.MethodPost, "/api/contact", map[string]any{
		"name":    "Bob",
		"email":   "bob@example.com",
		"message": "Hello",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if n := countRows[database.Message](t, env.db); n != 1 {
		t.Fatalf("expected 1 message got %d", n)
	}
}

func TestPersonalInfoUpsert(t *testing.T) {
	env := newTestEnv(t, true)

	if w := env.do(t, http.MethodGet, "/api/dashboard/personal-info", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}

	body := map[string]any{
		"name":        "Ada",
		"initials":    "A",
		"url":         "https://ada.example",
		"location":    "London",
		"description": "Engineer",
		"summary":     "Writes programs",
		"avatarUrl":   "/ada.png",
	}
	if w := env.do(t, http.MethodPut, "/api/dashboard/personal-info", body); w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	delete(body, "avatarUrl")
	body["name"] = "Ada Lovelace"
	w := env.do(t, http.MethodPut, "/api/dashboard/personal-info", body)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d", w.Code)
	}
	info := decodeBody[database.PersonalInfo](t, w)
	if info.Name != "Ada Lovelace" || info.AvatarURL == nil || *info.AvatarURL != "/ada.png" {
		t.Fatalf("unexpected personal info %+v", info)
	}
	if n := countRows[database.PersonalInfo](t, env.db); n != 1 {
		t.Fatalf("expected singleton got %d rows", n)
	}

	delete(body, "summary")
	if w := env.do(t, http.MethodPut, "/api/dashboard/personal-info", body); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, false)

	if w := env.do(t, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/health/db", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("db health: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"data":null`) {
		t.Fatalf("expected null data in %s", w.Body.String())
	}
}
