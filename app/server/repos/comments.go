package repos

import (
	"bug-tracker/app/server/models"
	"context"

	"gorm.io/gorm"
)

type CommentRepo struct {
	*Repo[models.Comment]
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{Repo: NewRepo[models.Comment](db)}
}

func (r *CommentRepo) ListAll(ctx context.Context) ([]models.Comment, error) {
	return r.ListByOrder(ctx, "created_at")
}

func (r *CommentRepo) ListByUser(ctx context.Context, userName string) ([]models.Comment, error) {
	return r.ListByFieldOrder(ctx, "user_name", userName, "created_at")
}

func (r *CommentRepo) ListByBug(ctx context.Context, bugID uint) ([]models.Comment, error) {
	return r.ListByFieldOrder(ctx, "bug_id", bugID, "created_at")
}

func (r *CommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return r.GetByField(ctx, "id", id)
}

func (r *CommentRepo) UpdateByID(ctx context.Context, id uint, fields map[string]any) (*models.Comment, error) {
	return r.Update(ctx, "id", id, fields)
}

func (r *CommentRepo) DeleteByID(ctx context.Context, id uint) (*models.Comment, error) {
	return r.Delete(ctx, "id", id)
}
