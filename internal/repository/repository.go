// Package repository 封装各实体的读写，Handler 不直接拼装 SQL。
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound 表示按 ID/Slug 查询不到记录。
	ErrNotFound = errors.New("record not found")
	// ErrSlugTaken 表示 Project.Slug 已被其它记录占用。
	ErrSlugTaken = errors.New("slug already exists")
)

// orderColumn 是用户可调整的展示顺序列；order 为 SQL 关键字，统一经 clause 引用。
const orderColumn = "order"

func ascBy(column string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}}
}

func descBy(column string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: true}
}

// table 提供单表通用的增删改查，具体实体的仓库嵌入它并补充自己的排序约定。
type table[T any] struct {
	db     *gorm.DB
	listBy []clause.OrderByColumn
	name   string
}

func newTable[T any](db *gorm.DB, name string, listBy ...clause.OrderByColumn) table[T] {
	return table[T]{db: db, name: name, listBy: listBy}
}

// ListAll 按实体约定的顺序返回全部记录，结果永远非 nil。
func (t table[T]) ListAll(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	q := t.db.WithContext(ctx)
	for _, by := range t.listBy {
		q = q.Order(by)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return rows, nil
}

// GetByID 查询单条记录，不存在时返回 ErrNotFound。
func (t table[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := t.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s %d: %w", t.name, id, err)
	}
	return &row, nil
}

// Create 插入一条记录。
func (t table[T]) Create(ctx context.Context, row *T) error {
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create %s: %w", t.name, err)
	}
	return nil
}

// Update 以整行覆盖的方式保存记录（包括零值与 NULL）。
func (t table[T]) Update(ctx context.Context, row *T) error {
	if err := t.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	return nil
}

// Delete 硬删除记录，不存在时返回 ErrNotFound。
func (t table[T]) Delete(ctx context.Context, id uint) error {
	var row T
	result := t.db.WithContext(ctx).Delete(&row, id)
	if result.Error != nil {
		return fmt.Errorf("delete %s %d: %w", t.name, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count 返回记录总数。
func (t table[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	var row T
	if err := t.db.WithContext(ctx).Model(&row).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return count, nil
}

// orderedTable 额外提供“追加到末尾”的顺序号计算。
type orderedTable[T any] struct {
	table[T]
}

func newOrderedTable[T any](db *gorm.DB, name string) orderedTable[T] {
	return orderedTable[T]{table: newTable[T](db, name, ascBy(orderColumn), ascBy("id"))}
}

// NextOrder 返回 max(order)+1；表为空时返回 0。
func (t orderedTable[T]) NextOrder(ctx context.Context) (int, error) {
	var orders []int
	var model T
	err := t.db.WithContext(ctx).
		Model(&model).
		Order(descBy(orderColumn)).
		Limit(1).
		Pluck(orderColumn, &orders).Error
	if err != nil {
		return 0, fmt.Errorf("query max order of %s: %w", t.name, err)
	}
	if len(orders) == 0 {
		return 0, nil
	}
	return orders[0] + 1, nil
}

// CreateAppended 计算顺序号后插入；setOrder 负责把顺序号写回实体。
func (t orderedTable[T]) CreateAppended(ctx context.Context, row *T, setOrder func(*T, int)) error {
	next, err := t.NextOrder(ctx)
	if err != nil {
		return err
	}
	setOrder(row, next)
	return t.Create(ctx, row)
}
