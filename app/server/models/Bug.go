package models

import (
	"time"

	"gorm.io/gorm"
)

type Bug struct {
	gorm.Model

	// 基础信息
	UserName    string `gorm:"column:user_name;index"` // 提交者用户名
	BugName     string `gorm:"column:bug_name"`        // 标题
	Description string `gorm:"column:description"`     // 描述

	// 完成相关，未完成时为 NULL
	CompletedAt    *time.Time `gorm:"column:completed_at"`    // 完成时间
	CompletedNotes *string    `gorm:"column:completed_notes"` // 完成备注

	// 状态、应用、严重程度不存在这里，通过关联表解析（见 Linkage ）
}

func (Bug) TableName() string {
	return "bug"
}
