package database

import (
	"time"

	"gorm.io/datatypes"
)

// PersonalInfo 是站点主人信息，约定全表仅有一行。
type PersonalInfo struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Initials     string    `gorm:"size:16;not null" json:"initials"`
	URL          string    `gorm:"column:url;size:512;not null" json:"url"`
	Location     string    `gorm:"size:255;not null" json:"location"`
	LocationLink *string   `gorm:"size:512" json:"locationLink"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Summary      string    `gorm:"type:text;not null" json:"summary"`
	AvatarURL    *string   `gorm:"column:avatar_url;size:512" json:"avatarUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Skill 表示一项技能，按名称排序展示。
type Skill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Icon      string    `gorm:"size:128;not null" json:"icon"`
	Category  *string   `gorm:"size:128" json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkExperience 表示一段工作经历。End 为空表示至今。
// Badges 可能以 JSON 字符串、原生数组或 NULL 形式落库，读取时需经 normalize 处理。
type WorkExperience struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Company     string         `gorm:"size:255;not null" json:"company"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	LogoURL     *string        `gorm:"column:logo_url;size:512" json:"logoUrl"`
	Href        *string        `gorm:"size:512" json:"href"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Start       string         `gorm:"size:64;not null" json:"start"`
	End         *string        `gorm:"size:64" json:"end"`
	Badges      datatypes.JSON `json:"badges"`
	Order       int            `gorm:"column:order;not null;default:0;index" json:"order"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Education 表示一段教育经历。
type Education struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	School    string    `gorm:"size:255;not null" json:"school"`
	Degree    string    `gorm:"size:255;not null" json:"degree"`
	LogoURL   *string   `gorm:"column:logo_url;size:512" json:"logoUrl"`
	Href      *string   `gorm:"size:512" json:"href"`
	Start     string    `gorm:"size:64;not null" json:"start"`
	End       string    `gorm:"size:64;not null" json:"end"`
	Order     int       `gorm:"column:order;not null;default:0;index" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project 表示一个作品。Slug 的唯一性由应用层在写入前检查。
type Project struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Slug         string         `gorm:"size:255;not null;index" json:"slug"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Dates        *string        `gorm:"size:128" json:"dates"`
	Image        *string        `gorm:"size:512" json:"image"`
	Video        *string        `gorm:"size:512" json:"video"`
	Technologies datatypes.JSON `json:"technologies"`
	Links        datatypes.JSON `json:"links"`
	Featured     bool           `gorm:"not null;default:false" json:"featured"`
	Order        int            `gorm:"column:order;not null;default:0;index" json:"order"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Hackathon 表示一次黑客松经历。
type Hackathon struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Location    string         `gorm:"size:255;not null" json:"location"`
	Dates       string         `gorm:"size:128;not null" json:"dates"`
	Image       *string        `gorm:"size:512" json:"image"`
	Links       datatypes.JSON `json:"links"`
	Order       int            `gorm:"column:order;not null;default:0;index" json:"order"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Language 表示一门语言及掌握程度。
type Language struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Level     string    `gorm:"size:64;not null" json:"level"`
	FlagIcon  *string   `gorm:"size:128" json:"flagIcon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message 是公开联系表单提交的留言，只写不改。
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminUser 表示可登录后台的管理员账号。
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AllModels 返回需要迁移的全部模型。
func AllModels() []any {
	return []any{
		&PersonalInfo{},
		&Skill{},
		&WorkExperience{},
		&Education{},
		&Project{},
		&Hackathon{},
		&Language{},
		&Message{},
		&AdminUser{},
	}
}
