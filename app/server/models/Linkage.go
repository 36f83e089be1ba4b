package models

// 关联表：每个 bug 任意时刻有且只有一行，变更时原地更新而不是新增

type BugStatus struct {
	ID       uint `gorm:"primarykey"`
	BugID    uint `gorm:"column:bug_id;uniqueIndex"`
	StatusID uint `gorm:"column:status_id;index"`
}

func (BugStatus) TableName() string {
	return "bug_status"
}

type BugApp struct {
	ID    uint `gorm:"primarykey"`
	BugID uint `gorm:"column:bug_id;uniqueIndex"`
	AppID uint `gorm:"column:app_id;index"`
}

func (BugApp) TableName() string {
	return "bug_app"
}

type BugSeverity struct {
	ID         uint `gorm:"primarykey"`
	BugID      uint `gorm:"column:bug_id;uniqueIndex"`
	SeverityID uint `gorm:"column:severity_id;index"`
}

func (BugSeverity) TableName() string {
	return "bug_severity"
}
