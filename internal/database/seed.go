package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// SeedResult 记录本次写入了哪些默认数据。
type SeedResult struct {
	PersonalInfoCreated bool
	SkillsCreated       int
}

func strPtr(s string) *string { return &s }

func defaultPersonalInfo() PersonalInfo {
	return PersonalInfo{
		Name:         "Your Name",
		Initials:     "YN",
		URL:          "https://yourportfolio.com",
		Location:     "Your Location",
		LocationLink: strPtr("https://maps.google.com"),
		Description:  "Software Engineer",
		Summary:      "I am a passionate software engineer with experience in web development.",
		AvatarURL:    strPtr("/avatar.jpg"),
	}
}

func defaultSkills() []Skill {
	return []Skill{
		{Name: "Go", Icon: "golang", Category: strPtr("Backend")},
		{Name: "PostgreSQL", Icon: "database", Category: strPtr("Backend")},
		{Name: "TypeScript", Icon: "typescript", Category: strPtr("Frontend")},
		{Name: "React", Icon: "react", Category: strPtr("Frontend")},
		{Name: "Docker", Icon: "docker", Category: strPtr("Infrastructure")},
	}
}

// Seed 在空库中写入默认个人信息与技能，已存在的数据保持不变。
func Seed(ctx context.Context, db *gorm.DB) (SeedResult, error) {
	var result SeedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var info PersonalInfo
		switch err := tx.Order("id").First(&info).Error; {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			seeded := defaultPersonalInfo()
			if err := tx.Create(&seeded).Error; err != nil {
				return fmt.Errorf("seed personal info: %w", err)
			}
			result.PersonalInfoCreated = true
		default:
			return fmt.Errorf("query personal info: %w", err)
		}

		for _, skill := range defaultSkills() {
			var count int64
			if err := tx.Model(&Skill{}).Where("name = ?", skill.Name).Count(&count).Error; err != nil {
				return fmt.Errorf("query skill %q: %w", skill.Name, err)
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&skill).Error; err != nil {
				return fmt.Errorf("seed skill %q: %w", skill.Name, err)
			}
			result.SkillsCreated++
		}
		return nil
	})
	return result, err
}
