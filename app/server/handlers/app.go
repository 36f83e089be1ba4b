package handlers

import (
	"bug-tracker/app/server/jwt"
	"bug-tracker/app/server/repos"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	l   *zap.Logger // 日志
	db  *gorm.DB    // 数据库
	jwt *jwt.JWT    // JWT ，用于无状态验证

	users    *repos.UserRepo
	bugs     *repos.BugRepo
	comments *repos.CommentRepo
	linkages *repos.LinkageRepo
}

func NewApp(l *zap.Logger, db *gorm.DB, j *jwt.JWT) *App {
	return &App{
		l:   l,
		db:  db,
		jwt: j,

		users:    repos.NewUserRepo(db),
		bugs:     repos.NewBugRepo(db),
		comments: repos.NewCommentRepo(db),
		linkages: repos.NewLinkageRepo(db),
	}
}
