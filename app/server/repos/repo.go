package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 通用 CRUD ，按实体类型参数化。零行不算错误，空结果的语义由调用方决定
type Repo[T any] struct {
	db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) *Repo[T] {
	return &Repo[T]{db: db}
}

func (r *Repo[T]) ListByOrder(ctx context.Context, orderColumn string) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderColumn}}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo[T]) ListByFieldOrder(ctx context.Context, column string, value any, orderColumn string) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).
		Where(map[string]any{column: value}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderColumn}}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo[T]) GetByField(ctx context.Context, column string, value any) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).
		Where(map[string]any{column: value}).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repo[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// 部分更新，合并进已有字段，返回更新后的行。没有匹配时返回 nil
func (r *Repo[T]) Update(ctx context.Context, column string, value any, fields map[string]any) (*T, error) {
	row, err := r.GetByField(ctx, column, value)
	if err != nil || row == nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(row).Updates(fields).Error; err != nil {
		return nil, err
	}

	// 重新读取，带回数据库生成的值（例如 updated_at ）
	return r.GetByField(ctx, column, value)
}

// 返回被删除的行用于响应回显。没有匹配时返回 nil
func (r *Repo[T]) Delete(ctx context.Context, column string, value any) (*T, error) {
	row, err := r.GetByField(ctx, column, value)
	if err != nil || row == nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
