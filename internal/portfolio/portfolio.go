// Package portfolio 在一个只读事务中读取全部内容，组装站点页面使用的聚合视图。
package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"portfolio/internal/database"
	"portfolio/internal/normalize"
	"portfolio/internal/repository"
)

// ErrNotSeeded 表示库中没有 PersonalInfo，页面无法渲染。
var ErrNotSeeded = errors.New("no personal information found in the database, seed the database first")

// Portfolio 是页面渲染使用的聚合视图，个人信息字段被展开到顶层。
type Portfolio struct {
	Name         string      `json:"name"`
	Initials     string      `json:"initials"`
	URL          string      `json:"url"`
	Location     string      `json:"location"`
	LocationLink string      `json:"locationLink"`
	Description  string      `json:"description"`
	Summary      string      `json:"summary"`
	AvatarURL    string      `json:"avatarUrl"`
	Skills       []Skill     `json:"skills"`
	Work         []Work      `json:"work"`
	Education    []Education `json:"education"`
	Projects     []Project   `json:"projects"`
	Hackathons   []Hackathon `json:"hackathons"`
	Languages    []Language  `json:"languages"`
}

type Skill struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type Work struct {
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	LogoURL     string   `json:"logoUrl,omitempty"`
	Href        string   `json:"href,omitempty"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Badges      []string `json:"badges"`
}

type Education struct {
	School  string `json:"school"`
	Degree  string `json:"degree"`
	LogoURL string `json:"logoUrl,omitempty"`
	Href    string `json:"href,omitempty"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Project 中 Links 为任意 JSON 对象，无法解析时省略。
type Project struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Dates        string   `json:"dates,omitempty"`
	Image        string   `json:"image,omitempty"`
	Video        string   `json:"video,omitempty"`
	Technologies []string `json:"technologies"`
	Links        any      `json:"links,omitempty"`
	Featured     bool     `json:"featured"`
}

type Hackathon struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Dates       string `json:"dates"`
	Image       string `json:"image,omitempty"`
	Links       any    `json:"links,omitempty"`
}

type Language struct {
	Name     string  `json:"name"`
	Level    string  `json:"level"`
	FlagIcon *string `json:"flagIcon"`
}

// Service 负责聚合读取。
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type snapshot struct {
	info       *database.PersonalInfo
	skills     []database.Skill
	work       []database.WorkExperience
	education  []database.Education
	projects   []database.Project
	hackathons []database.Hackathon
	languages  []database.Language
}

// Load 在同一事务内读取全部实体并组装聚合视图。
// PersonalInfo 缺失时返回 ErrNotSeeded，不返回部分数据。
func (s *Service) Load(ctx context.Context) (*Portfolio, error) {
	var snap snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := repository.NewSet(tx)

		info, err := repos.PersonalInfo.First(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotSeeded
			}
			return err
		}
		snap.info = info

		if snap.skills, err = repos.Skills.ListAll(ctx); err != nil {
			return err
		}
		if snap.work, err = repos.WorkExperience.ListAll(ctx); err != nil {
			return err
		}
		if snap.education, err = repos.Education.ListAll(ctx); err != nil {
			return err
		}
		if snap.projects, err = repos.Projects.ListAll(ctx); err != nil {
			return err
		}
		if snap.hackathons, err = repos.Hackathons.ListAll(ctx); err != nil {
			return err
		}
		if snap.languages, err = repos.Languages.ListByID(ctx); err != nil {
			return err
		}
		return nil
	}, s.txOptions())
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	return snap.build(), nil
}

// txOptions 仅对 PostgreSQL 使用只读快照事务。
func (s *Service) txOptions() *sql.TxOptions {
	if s.db.Dialector != nil && s.db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

func (snap snapshot) build() *Portfolio {
	info := snap.info
	out := &Portfolio{
		Name:         info.Name,
		Initials:     info.Initials,
		URL:          info.URL,
		Location:     info.Location,
		LocationLink: deref(info.LocationLink),
		Description:  info.Description,
		Summary:      info.Summary,
		AvatarURL:    deref(info.AvatarURL),
		Skills:       make([]Skill, 0, len(snap.skills)),
		Work:         make([]Work, 0, len(snap.work)),
		Education:    make([]Education, 0, len(snap.education)),
		Projects:     make([]Project, 0, len(snap.projects)),
		Hackathons:   make([]Hackathon, 0, len(snap.hackathons)),
		Languages:    make([]Language, 0, len(snap.languages)),
	}

	for _, skill := range snap.skills {
		out.Skills = append(out.Skills, Skill{Name: skill.Name, Icon: skill.Icon})
	}
	for _, item := range snap.work {
		out.Work = append(out.Work, Work{
			Company:     item.Company,
			Title:       item.Title,
			LogoURL:     deref(item.LogoURL),
			Href:        deref(item.Href),
			Description: item.Description,
			Start:       item.Start,
			End:         deref(item.End),
			Badges:      normalize.EnsureStrings(item.Badges),
		})
	}
	for _, item := range snap.education {
		out.Education = append(out.Education, Education{
			School:  item.School,
			Degree:  item.Degree,
			LogoURL: deref(item.LogoURL),
			Href:    deref(item.Href),
			Start:   item.Start,
			End:     item.End,
		})
	}
	for _, project := range snap.projects {
		out.Projects = append(out.Projects, ProjectView(project))
	}
	for _, item := range snap.hackathons {
		out.Hackathons = append(out.Hackathons, Hackathon{
			Title:       item.Title,
			Description: item.Description,
			Location:    item.Location,
			Dates:       item.Dates,
			Image:       deref(item.Image),
			Links:       normalize.SafeJSONParse(item.Links, nil),
		})
	}
	for _, lang := range snap.languages {
		var flag *string
		if lang.FlagIcon != nil && *lang.FlagIcon != "" {
			flag = lang.FlagIcon
		}
		out.Languages = append(out.Languages, Language{Name: lang.Name, Level: lang.Level, FlagIcon: flag})
	}
	return out
}

// ProjectView 将项目行转换为页面使用的形态。
func ProjectView(project database.Project) Project {
	return Project{
		Title:        project.Title,
		Slug:         project.Slug,
		Description:  project.Description,
		Dates:        deref(project.Dates),
		Image:        deref(project.Image),
		Video:        deref(project.Video),
		Technologies: normalize.EnsureStrings(project.Technologies),
		Links:        normalize.SafeJSONParse(project.Links, nil),
		Featured:     project.Featured,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
