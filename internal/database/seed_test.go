package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestSeedPopulatesEmptyDatabase(t *testing.T) {
	db := newSeedTestDB(t)

	result, err := Seed(context.Background(), db)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !result.PersonalInfoCreated {
		t.Fatalf("expected personal info to be created")
	}
	if result.SkillsCreated != len(defaultSkills()) {
		t.Fatalf("expected %d skills, got %d", len(defaultSkills()), result.SkillsCreated)
	}

	var info PersonalInfo
	if err := db.First(&info).Error; err != nil {
		t.Fatalf("load personal info: %v", err)
	}
	if info.Name != "Your Name" || info.AvatarURL == nil || *info.AvatarURL != "/avatar.jpg" {
		t.Fatalf("unexpected personal info: %+v", info)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newSeedTestDB(t)
	ctx := context.Background()

	if err := db.Create(&PersonalInfo{Name: "Ada", Initials: "AL", URL: "https://ada.example", Location: "London", Description: "d", Summary: "s"}).Error; err != nil {
		t.Fatalf("create personal info: %v", err)
	}
	if err := db.Create(&Skill{Name: "Go", Icon: "custom"}).Error; err != nil {
		t.Fatalf("create skill: %v", err)
	}

	first, err := Seed(ctx, db)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if first.PersonalInfoCreated {
		t.Fatalf("existing personal info must be kept")
	}
	if first.SkillsCreated != len(defaultSkills())-1 {
		t.Fatalf("expected existing skill to be skipped, created %d", first.SkillsCreated)
	}

	second, err := Seed(ctx, db)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second.PersonalInfoCreated || second.SkillsCreated != 0 {
		t.Fatalf("second seed should be a no-op: %+v", second)
	}

	var skill Skill
	if err := db.Where("name = ?", "Go").First(&skill).Error; err != nil {
		t.Fatalf("load skill: %v", err)
	}
	if skill.Icon != "custom" {
		t.Fatalf("existing skill was overwritten: %+v", skill)
	}
}
