package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio/internal/database"
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

func TestOrderedCreateAppendsAtMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkExperienceRepository(newTestDB(t))

	first := &database.WorkExperience{Company: "Acme", Title: "Engineer", Description: "d", Start: "2020"}
	if err := repo.CreateAppended(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.Order != 0 {
		t.Fatalf("expected first order 0 got %d", first.Order)
	}

	second := &database.WorkExperience{Company: "Globex", Title: "Lead", Description: "d", Start: "2022"}
	if err := repo.CreateAppended(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.Order != 1 {
		t.Fatalf("expected second order 1 got %d", second.Order)
	}

	// 存在空洞时仍取 max+1。
	second.Order = 7
	if err := repo.Update(ctx, second); err != nil {
		t.Fatalf("update: %v", err)
	}
	third := &database.WorkExperience{Company: "Initech", Title: "CTO", Description: "d", Start: "2024"}
	if err := repo.CreateAppended(ctx, third); err != nil {
		t.Fatalf("create third: %v", err)
	}
	if third.Order != 8 {
		t.Fatalf("expected third order 8 got %d", third.Order)
	}
}

func TestOrderedListUsesOrderThenID(t *testing.T) {
	ctx := context.Background()
	repo := NewEducationRepository(newTestDB(t))

	for _, row := range []database.Education{
		{School: "C", Degree: "x", Start: "1", End: "2", Order: 2},
		{School: "A", Degree: "x", Start: "1", End: "2", Order: 0},
		{School: "B", Degree: "x", Start: "1", End: "2", Order: 0},
	} {
		row := row
		if err := repo.Create(ctx, &row); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := []string{}
	for _, row := range rows {
		got = append(got, row.School)
	}
	if len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestListAllOnEmptyTableIsNotNil(t *testing.T) {
	rows, err := NewHackathonRepository(newTestDB(t)).ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice got %#v", rows)
	}
}

func TestSkillsListedByName(t *testing.T) {
	ctx := context.Background()
	repo := NewSkillRepository(newTestDB(t))
	for _, name := range []string{"Rust", "Go", "Python"} {
		if err := repo.Create(ctx, &database.Skill{Name: name, Icon: "i"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	rows, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows[0].Name != "Go" || rows[1].Name != "Python" || rows[2].Name != "Rust" {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(newTestDB(t))

	if err := repo.Create(ctx, &database.Project{Title: "p", Slug: "p", Description: "d"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected store unchanged, count=%d", count)
	}
	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from GetByID got %v", err)
	}
}

func TestProjectSlugLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(newTestDB(t))

	project := &database.Project{
		Title:        "Site",
		Slug:         "site",
		Description:  "d",
		Technologies: datatypes.JSON(`["Go","Rust"]`),
	}
	if err := repo.CreateAppended(ctx, project); err != nil {
		t.Fatalf("create: %v", err)
	}

	taken, err := repo.SlugTaken(ctx, "site", 0)
	if err != nil || !taken {
		t.Fatalf("expected slug taken, got %v err=%v", taken, err)
	}
	taken, err = repo.SlugTaken(ctx, "site", project.ID)
	if err != nil || taken {
		t.Fatalf("expected own slug to be free, got %v err=%v", taken, err)
	}

	found, err := repo.GetBySlug(ctx, "site")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if found.ID != project.ID {
		t.Fatalf("expected id %d got %d", project.ID, found.ID)
	}
	if _, err := repo.GetBySlug(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestPersonalInfoUpsertKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPersonalInfoRepository(db)

	if _, err := repo.First(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty table got %v", err)
	}

	created, err := repo.Upsert(ctx, func(info *database.PersonalInfo) {
		info.Name = "Ada"
		info.Initials = "AL"
	})
	if err != nil {
		t.Fatalf("upsert create: %v", err)
	}
	updated, err := repo.Upsert(ctx, func(info *database.PersonalInfo) {
		info.Name = "Ada Lovelace"
	})
	if err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same row, got %d and %d", created.ID, updated.ID)
	}
	if updated.Initials != "AL" {
		t.Fatalf("expected untouched field kept, got %q", updated.Initials)
	}

	var count int64
	db.Model(&database.PersonalInfo{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one row, got %d", count)
	}
}

func TestMessagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(newTestDB(t))
	for _, name := range []string{"first", "second"} {
		if err := repo.Create(ctx, &database.Message{Name: name, Email: "a@b.c", Message: "hi"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	rows, err := repo.ListNewestFirst(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "second" {
		t.Fatalf("unexpected order: %+v", rows)
	}
}
