package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"portfolio/internal/database"
)

// SkillRepository 按名称排序。
type SkillRepository struct {
	table[database.Skill]
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{table: newTable[database.Skill](db, "skill", ascBy("name"), ascBy("id"))}
}

// LanguageRepository 在后台按名称排序，聚合页按创建顺序（id）排序。
type LanguageRepository struct {
	table[database.Language]
}

func NewLanguageRepository(db *gorm.DB) *LanguageRepository {
	return &LanguageRepository{table: newTable[database.Language](db, "language", ascBy("name"), ascBy("id"))}
}

// ListByID 按 id 升序返回全部语言。
func (r *LanguageRepository) ListByID(ctx context.Context) ([]database.Language, error) {
	rows := make([]database.Language, 0)
	if err := r.db.WithContext(ctx).Order(ascBy("id")).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list language by id: %w", err)
	}
	return rows, nil
}

type WorkExperienceRepository struct {
	orderedTable[database.WorkExperience]
}

func NewWorkExperienceRepository(db *gorm.DB) *WorkExperienceRepository {
	return &WorkExperienceRepository{orderedTable: newOrderedTable[database.WorkExperience](db, "work experience")}
}

// CreateAppended 将新记录追加到末尾。
func (r *WorkExperienceRepository) CreateAppended(ctx context.Context, row *database.WorkExperience) error {
	return r.orderedTable.CreateAppended(ctx, row, func(w *database.WorkExperience, order int) { w.Order = order })
}

type EducationRepository struct {
	orderedTable[database.Education]
}

func NewEducationRepository(db *gorm.DB) *EducationRepository {
	return &EducationRepository{orderedTable: newOrderedTable[database.Education](db, "education")}
}

func (r *EducationRepository) CreateAppended(ctx context.Context, row *database.Education) error {
	return r.orderedTable.CreateAppended(ctx, row, func(e *database.Education, order int) { e.Order = order })
}

type HackathonRepository struct {
	orderedTable[database.Hackathon]
}

func NewHackathonRepository(db *gorm.DB) *HackathonRepository {
	return &HackathonRepository{orderedTable: newOrderedTable[database.Hackathon](db, "hackathon")}
}

func (r *HackathonRepository) CreateAppended(ctx context.Context, row *database.Hackathon) error {
	return r.orderedTable.CreateAppended(ctx, row, func(h *database.Hackathon, order int) { h.Order = order })
}

// ProjectRepository 额外负责 slug 查询与唯一性检查。
// 唯一性只在写入前检查，并发写入同一 slug 时仍可能产生重复。
type ProjectRepository struct {
	orderedTable[database.Project]
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{orderedTable: newOrderedTable[database.Project](db, "project")}
}

func (r *ProjectRepository) CreateAppended(ctx context.Context, row *database.Project) error {
	return r.orderedTable.CreateAppended(ctx, row, func(p *database.Project, order int) { p.Order = order })
}

// GetBySlug 按 slug 查询项目，不存在时返回 ErrNotFound。
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*database.Project, error) {
	var project database.Project
	err := r.db.WithContext(ctx).Where("slug = ?", slug).Order(ascBy("id")).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project by slug %q: %w", slug, err)
	}
	return &project, nil
}

// SlugTaken 判断 slug 是否已被其它项目占用；excludeID 为 0 时检查全部记录。
func (r *ProjectRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&database.Project{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check project slug %q: %w", slug, err)
	}
	return count > 0, nil
}

// PersonalInfoRepository 管理单例的个人信息行。
type PersonalInfoRepository struct {
	db *gorm.DB
}

func NewPersonalInfoRepository(db *gorm.DB) *PersonalInfoRepository {
	return &PersonalInfoRepository{db: db}
}

// First 返回最早的一行，不存在时返回 ErrNotFound。
func (r *PersonalInfoRepository) First(ctx context.Context) (*database.PersonalInfo, error) {
	var info database.PersonalInfo
	if err := r.db.WithContext(ctx).Order(ascBy("id")).First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get personal info: %w", err)
	}
	return &info, nil
}

// ListAll 返回全部行，正常情况下至多一行。
func (r *PersonalInfoRepository) ListAll(ctx context.Context) ([]database.PersonalInfo, error) {
	rows := make([]database.PersonalInfo, 0)
	if err := r.db.WithContext(ctx).Order(ascBy("id")).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list personal info: %w", err)
	}
	return rows, nil
}

// Upsert 更新第一行，表为空时创建。apply 接收现有行（或空行）并写入新值。
func (r *PersonalInfoRepository) Upsert(ctx context.Context, apply func(*database.PersonalInfo)) (*database.PersonalInfo, error) {
	var saved database.PersonalInfo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order(ascBy("id")).First(&saved).Error
		switch {
		case err == nil:
			apply(&saved)
			return tx.Save(&saved).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = database.PersonalInfo{}
			apply(&saved)
			return tx.Create(&saved).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("upsert personal info: %w", err)
	}
	return &saved, nil
}

// MessageRepository 只提供写入与倒序浏览。
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *database.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListNewestFirst 按提交时间倒序返回全部留言。
func (r *MessageRepository) ListNewestFirst(ctx context.Context) ([]database.Message, error) {
	rows := make([]database.Message, 0)
	if err := r.db.WithContext(ctx).Order(descBy("created_at")).Order(descBy("id")).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return rows, nil
}

func (r *MessageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&database.Message{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

// AdminUserRepository 管理后台账号。
type AdminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// FindByUsername 不存在时返回 ErrNotFound。
func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*database.AdminUser, error) {
	var user database.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find admin user %q: %w", username, err)
	}
	return &user, nil
}

func (r *AdminUserRepository) GetByID(ctx context.Context, id uint) (*database.AdminUser, error) {
	var user database.AdminUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin user %d: %w", id, err)
	}
	return &user, nil
}

func (r *AdminUserRepository) Create(ctx context.Context, user *database.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

// Set 聚合全部仓库，便于在同一个 *gorm.DB（或事务）上一次性构造。
type Set struct {
	PersonalInfo   *PersonalInfoRepository
	Skills         *SkillRepository
	WorkExperience *WorkExperienceRepository
	Education      *EducationRepository
	Projects       *ProjectRepository
	Hackathons     *HackathonRepository
	Languages      *LanguageRepository
	Messages       *MessageRepository
	AdminUsers     *AdminUserRepository
}

// NewSet 在给定连接上构造全部仓库。
func NewSet(db *gorm.DB) *Set {
	return &Set{
		PersonalInfo:   NewPersonalInfoRepository(db),
		Skills:         NewSkillRepository(db),
		WorkExperience: NewWorkExperienceRepository(db),
		Education:      NewEducationRepository(db),
		Projects:       NewProjectRepository(db),
		Hackathons:     NewHackathonRepository(db),
		Languages:      NewLanguageRepository(db),
		Messages:       NewMessageRepository(db),
		AdminUsers:     NewAdminUserRepository(db),
	}
}
