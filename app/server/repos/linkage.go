package repos

import (
	"bug-tracker/app/server/constants"
	"bug-tracker/app/server/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrUnknownApp      = errors.New("unknown app")
	ErrUnknownStatus   = errors.New("unknown status")
	ErrUnknownSeverity = errors.New("unknown severity level")
)

// 一个 bug 解析出来的当前状态、应用、严重程度
type Links struct {
	StatusName string `gorm:"column:status_name"`
	AppName    string `gorm:"column:app_name"`
	Level      string `gorm:"column:level"`
}

type LinkageRepo struct {
	db *gorm.DB
}

func NewLinkageRepo(db *gorm.DB) *LinkageRepo {
	return &LinkageRepo{db: db}
}

// 一次调用沿三张关联表解析出人类可读的名称
func (r *LinkageRepo) GrabBugLinkages(ctx context.Context, bugID uint) (*Links, error) {
	var links Links
	if err := r.db.WithContext(ctx).
		Table("bug_status").
		Select("status.status_name, app.app_name, severity_level.level").
		Joins("JOIN status ON status.id = bug_status.status_id").
		Joins("JOIN bug_app ON bug_app.bug_id = bug_status.bug_id").
		Joins("JOIN app ON app.id = bug_app.app_id").
		Joins("JOIN bug_severity ON bug_severity.bug_id = bug_status.bug_id").
		Joins("JOIN severity_level ON severity_level.id = bug_severity.severity_id").
		Where("bug_status.bug_id = ?", bugID).
		Take(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve linkages for bug %d: %w", bugID, err)
	}
	return &links, nil
}

// 新建 bug 时的默认关联行，必须和 bug 插入在同一个事务里
func initLinkages(tx *gorm.DB, bugID uint, appName string) error {
	var status models.Status
	if err := tx.First(&status, "status_name = ?", constants.DefaultStatus).Error; err != nil {
		return fmt.Errorf("default status missing: %w", err)
	}

	var severity models.SeverityLevel
	if err := tx.First(&severity, "level = ?", constants.DefaultSeverity).Error; err != nil {
		return fmt.Errorf("default severity level missing: %w", err)
	}

	var app models.App
	if err := tx.First(&app, "app_name = ?", appName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownApp
		}
		return err
	}

	if err := tx.Create(&models.BugStatus{BugID: bugID, StatusID: status.ID}).Error; err != nil {
		return err
	}
	if err := tx.Create(&models.BugApp{BugID: bugID, AppID: app.ID}).Error; err != nil {
		return err
	}
	return tx.Create(&models.BugSeverity{BugID: bugID, SeverityID: severity.ID}).Error
}

// 原地更新关联行，不新增

func (r *LinkageRepo) SetStatus(ctx context.Context, bugID uint, statusName string) error {
	var status models.Status
	if err := r.db.WithContext(ctx).First(&status, "status_name = ?", statusName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownStatus
		}
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.BugStatus{}).
		Where("bug_id = ?", bugID).
		Update("status_id", status.ID).Error
}

func (r *LinkageRepo) SetApp(ctx context.Context, bugID uint, appName string) error {
	var app models.App
	if err := r.db.WithContext(ctx).First(&app, "app_name = ?", appName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownApp
		}
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.BugApp{}).
		Where("bug_id = ?", bugID).
		Update("app_id", app.ID).Error
}

func (r *LinkageRepo) SetSeverity(ctx context.Context, bugID uint, level string) error {
	var severity models.SeverityLevel
	if err := r.db.WithContext(ctx).First(&severity, "level = ?", level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownSeverity
		}
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.BugSeverity{}).
		Where("bug_id = ?", bugID).
		Update("severity_id", severity.ID).Error
}
