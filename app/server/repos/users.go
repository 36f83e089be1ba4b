package repos

import (
	"bug-tracker/app/server/models"
	"context"

	"gorm.io/gorm"
)

type UserRepo struct {
	*Repo[models.User]
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{Repo: NewRepo[models.User](db)}
}

func (r *UserRepo) ListAll(ctx context.Context) ([]models.User, error) {
	return r.ListByOrder(ctx, "id")
}

func (r *UserRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return r.GetByField(ctx, "user_name", userName)
}
