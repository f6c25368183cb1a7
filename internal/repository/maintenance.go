package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"portfolio/internal/database"
	"portfolio/internal/normalize"
)

// RepairResult 统计修复的列数（同一行的多个列分别计数）。
type RepairResult struct {
	Projects        int `json:"projects"`
	WorkExperiences int `json:"workExperiences"`
	Hackathons      int `json:"hackathons"`
}

func (r RepairResult) Total() int {
	return r.Projects + r.WorkExperiences + r.Hackathons
}

// RepairJSONColumns 把历史遗留的 JSON 列改写为规范形态：
// 数组列（technologies、badges）必须是 JSON 数组，对象列（links）不能是编码后的字符串。
func RepairJSONColumns(ctx context.Context, db *gorm.DB) (RepairResult, error) {
	var result RepairResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var projects []database.Project
		if err := tx.Find(&projects).Error; err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		for _, p := range projects {
			updates := map[string]any{}
			if needsArrayRepair(p.Technologies) {
				updates["technologies"] = normalize.Canonical(p.Technologies, true)
			}
			if needsObjectRepair(p.Links) {
				updates["links"] = repairObject(p.Links)
			}
			if err := applyRepair(tx, &database.Project{ID: p.ID}, updates); err != nil {
				return fmt.Errorf("repair project %d: %w", p.ID, err)
			}
			result.Projects += len(updates)
		}

		var works []database.WorkExperience
		if err := tx.Find(&works).Error; err != nil {
			return fmt.Errorf("list work experiences: %w", err)
		}
		for _, w := range works {
			updates := map[string]any{}
			if needsArrayRepair(w.Badges) {
				updates["badges"] = normalize.Canonical(w.Badges, true)
			}
			if err := applyRepair(tx, &database.WorkExperience{ID: w.ID}, updates); err != nil {
				return fmt.Errorf("repair work experience %d: %w", w.ID, err)
			}
			result.WorkExperiences += len(updates)
		}

		var hackathons []database.Hackathon
		if err := tx.Find(&hackathons).Error; err != nil {
			return fmt.Errorf("list hackathons: %w", err)
		}
		for _, h := range hackathons {
			updates := map[string]any{}
			if needsObjectRepair(h.Links) {
				updates["links"] = repairObject(h.Links)
			}
			if err := applyRepair(tx, &database.Hackathon{ID: h.ID}, updates); err != nil {
				return fmt.Errorf("repair hackathon %d: %w", h.ID, err)
			}
			result.Hackathons += len(updates)
		}
		return nil
	})
	if err != nil {
		return RepairResult{}, err
	}
	return result, nil
}

func applyRepair(tx *gorm.DB, model any, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(model).UpdateColumns(updates).Error
}

// needsArrayRepair 对 NULL、无法解析以及非数组的值返回 true。
func needsArrayRepair(value datatypes.JSON) bool {
	var decoded any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return true
	}
	_, ok := decoded.([]any)
	return !ok
}

// needsObjectRepair 只处理被编码成字符串的值，NULL 保持不变。
func needsObjectRepair(value datatypes.JSON) bool {
	if len(value) == 0 {
		return false
	}
	var decoded any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return true
	}
	_, isString := decoded.(string)
	return isString
}

// repairObject 解开字符串编码；解不开的值置为 NULL。
func repairObject(value datatypes.JSON) datatypes.JSON {
	fixed := normalize.Canonical(value, false)
	if fixed == nil || needsObjectRepair(fixed) {
		return nil
	}
	return fixed
}
