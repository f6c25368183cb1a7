package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio/internal/database"
	"portfolio/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPersonalInfo(t *testing.T, db *gorm.DB) {
	t.Helper()
	info := database.PersonalInfo{
		Name:        "Ada Lovelace",
		Initials:    "AL",
		URL:         "https://ada.example",
		Location:    "London",
		Description: "Engineer",
		Summary:     "Writes programs",
	}
	if err := db.Create(&info).Error; err != nil {
		t.Fatalf("seed personal info: %v", err)
	}
}

func TestLoadFailsWithoutPersonalInfo(t *testing.T) {
	_, err := NewService(newTestDB(t)).Load(context.Background())
	if !errors.Is(err, ErrNotSeeded) {
		t.Fatalf("expected ErrNotSeeded got %v", err)
	}
}

func TestLoadEmptyCollections(t *testing.T) {
	db := newTestDB(t)
	seedPersonalInfo(t, db)

	p, err := NewService(db).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != "Ada Lovelace" || p.LocationLink != "" || p.AvatarURL != "" {
		t.Fatalf("unexpected personal fields %+v", p)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"skills", "work", "education", "projects", "hackathons", "languages"} {
		arr, ok := decoded[key].([]any)
		if !ok || len(arr) != 0 {
			t.Fatalf("expected %s to be [] got %#v", key, decoded[key])
		}
	}
}

func TestLoadNormalizesColumns(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedPersonalInfo(t, db)
	repos := repository.NewSet(db)

	if err := repos.Projects.CreateAppended(ctx, &database.Project{
		Title:        "Portfolio",
		Slug:         "portfolio",
		Description:  "d",
		Technologies: datatypes.JSON(`["Go","Rust"]`),
		Links:        datatypes.JSON(`"{\"github\":\"https://github.com/x\"}"`),
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := repos.Projects.CreateAppended(ctx, &database.Project{
		Title:        "Broken",
		Slug:         "broken",
		Description:  "d",
		Technologies: datatypes.JSON(`"not an array"`),
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := repos.WorkExperience.CreateAppended(ctx, &database.WorkExperience{
		Company: "Acme", Title: "Eng", Description: "d", Start: "2020",
	}); err != nil {
		t.Fatalf("create work: %v", err)
	}

	p, err := NewService(db).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(p.Projects) != 2 {
		t.Fatalf("expected 2 projects got %d", len(p.Projects))
	}
	if !reflect.DeepEqual(p.Projects[0].Technologies, []string{"Go", "Rust"}) {
		t.Fatalf("technologies not preserved: %#v", p.Projects[0].Technologies)
	}
	if !reflect.DeepEqual(p.Projects[0].Links, map[string]any{"github": "https://github.com/x"}) {
		t.Fatalf("links not normalized: %#v", p.Projects[0].Links)
	}
	if len(p.Projects[1].Technologies) != 0 || p.Projects[1].Links != nil {
		t.Fatalf("expected degraded defaults, got %+v", p.Projects[1])
	}
	if p.Work[0].Badges == nil || len(p.Work[0].Badges) != 0 {
		t.Fatalf("expected empty badges, got %#v", p.Work[0].Badges)
	}
}

func TestLanguagesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedPersonalInfo(t, db)
	repos := repository.NewSet(db)

	for _, name := range []string{"Spanish", "English"} {
		if err := repos.Languages.Create(ctx, &database.Language{Name: name, Level: "Fluent"}); err != nil {
			t.Fatalf("create language: %v", err)
		}
	}
	p, err := NewService(db).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Languages[0].Name != "Spanish" || p.Languages[0].FlagIcon != nil {
		t.Fatalf("unexpected languages %+v", p.Languages)
	}
}

func TestBuildMetadata(t *testing.T) {
	md := BuildMetadata(&Portfolio{Name: "Ada", Description: "Engineer", URL: "https://ada.example"})
	if md.Title.Template != "%s | Ada" {
		t.Fatalf("unexpected title template %q", md.Title.Template)
	}
	if md.OpenGraph.URL != "https://ada.example" || md.OpenGraph.Type != "website" {
		t.Fatalf("unexpected open graph %+v", md.OpenGraph)
	}
}
