package repos

import (
	"bug-tracker/app/server/models"
	"context"

	"gorm.io/gorm"
)

type BugRepo struct {
	*Repo[models.Bug]
	db *gorm.DB
}

func NewBugRepo(db *gorm.DB) *BugRepo {
	return &BugRepo{Repo: NewRepo[models.Bug](db), db: db}
}

func (r *BugRepo) ListAll(ctx context.Context) ([]models.Bug, error) {
	return r.ListByOrder(ctx, "updated_at")
}

func (r *BugRepo) ListByUser(ctx context.Context, userName string) ([]models.Bug, error) {
	return r.ListByFieldOrder(ctx, "user_name", userName, "updated_at")
}

func (r *BugRepo) GetByID(ctx context.Context, id uint) (*models.Bug, error) {
	return r.GetByField(ctx, "id", id)
}

func (r *BugRepo) UpdateByID(ctx context.Context, id uint, fields map[string]any) (*models.Bug, error) {
	return r.Update(ctx, "id", id, fields)
}

// bug 和它的默认关联行在同一个事务里创建，关联失败时整体回滚，
// 不会留下无法解析状态的孤儿 bug
func (r *BugRepo) CreateWithLinkages(ctx context.Context, bug *models.Bug, appName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bug).Error; err != nil {
			return err
		}
		return initLinkages(tx, bug.ID, appName)
	})
}
