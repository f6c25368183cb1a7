package api

import (
	"net/http"
	"testing"
	"time"

	"gorm.io/datatypes"

	"portfolio/internal/database"
)

func TestDashboardOverviewCounts(t *testing.T) {
	env := newTestEnv(t, false)
	env.db.Create(&database.Skill{Name: "Go", Icon: "go"})
	env.db.Create(&database.Message{Name: "Bob", Email: "b@example.com", Message: "hi"})

	w := env.do(t, http.MethodGet, "/dashboard", nil, env.sessionCookie(t))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	body := decodeBody[struct {
		User   string           `json:"user"`
		Counts map[string]int64 `json:"counts"`
	}](t, w)
	if body.User != "admin" || body.Counts["skills"] != 1 || body.Counts["messages"] != 1 || body.Counts["projects"] != 0 {
		t.Fatalf("unexpected overview %+v", body)
	}
}

func TestDashboardMessagesNewestFirst(t *testing.T) {
	env := newTestEnv(t, true)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env.db.Create(&database.Message{Name: "old", Email: "a@example.com", Message: "1", CreatedAt: base})
	env.db.Create(&database.Message{Name: "new", Email: "b@example.com", Message: "2", CreatedAt: base.Add(time.Hour)})

	w := env.do(t, http.MethodGet, "/api/dashboard/messages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	messages := decodeBody[[]database.Message](t, w)
	if len(messages) != 2 || messages[0].Name != "new" {
		t.Fatalf("unexpected order %+v", messages)
	}
}

func TestDashboardContentDump(t *testing.T) {
	env := newTestEnv(t, true)
	seedPersonalInfo(t, env.db)

	w := env.do(t, http.MethodGet, "/api/dashboard/content", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	body := decodeBody[struct {
		Success bool                        `json:"success"`
		Data    map[string][]map[string]any `json:"data"`
	}](t, w)
	if !body.Success || len(body.Data["personalInfo"]) != 1 {
		t.Fatalf("unexpected content %+v", body)
	}
	for _, key := range []string{"skills", "projects", "workExperience", "education", "languages", "hackathons", "messages"} {
		if rows, ok := body.Data[key]; !ok || rows == nil {
			t.Fatalf("%s missing from dump", key)
		}
	}
}

func TestDashboardNormalizeRepairsColumns(t *testing.T) {
	env := newTestEnv(t, true)
	project := database.Project{
		Title:        "Site",
		Slug:         "site",
		Description:  "d",
		Technologies: datatypes.JSON(`"[\"Go\",\"Rust\"]"`),
		Links:        datatypes.JSON(`"{\"href\":\"https://x.example\"}"`),
	}
	work := database.WorkExperience{Company: "Acme", Title: "Eng", Description: "d", Start: "2020"}
	clean := database.Project{
		Title:        "Clean",
		Slug:         "clean",
		Description:  "d",
		Technologies: datatypes.JSON(`["Go"]`),
	}
	for _, row := range []any{&project, &work, &clean} {
		if err := env.db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	w := env.do(t, http.MethodPost, "/api/dashboard/maintenance/normalize", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d %s", w.Code, w.Body.String())
	}
	body := decodeBody[map[string]any](t, w)
	// project 的两列加上 work 的 NULL badges。
	if body["fixedCount"] != float64(3) {
		t.Fatalf("unexpected fixed count %v", body["fixedCount"])
	}

	var repaired database.Project
	env.db.First(&repaired, project.ID)
	if string(repaired.Technologies) != `["Go","Rust"]` {
		t.Fatalf("technologies not repaired: %s", repaired.Technologies)
	}
	if string(repaired.Links) != `{"href":"https://x.example"}` {
		t.Fatalf("links not repaired: %s", repaired.Links)
	}
	var repairedWork database.WorkExperience
	env.db.First(&repairedWork, work.ID)
	if string(repairedWork.Badges) != "[]" {
		t.Fatalf("badges not repaired: %s", repairedWork.Badges)
	}

	w = env.do(t, http.MethodPost, "/api/dashboard/maintenance/normalize", nil)
	if body := decodeBody[map[string]any](t, w); body["fixedCount"] != float64(0) {
		t.Fatalf("second run should be a no-op, got %v", body["fixedCount"])
	}
}
