package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model

	BugID    uint   `gorm:"column:bug_id;index"`    // 所属 bug
	UserName string `gorm:"column:user_name;index"` // 评论者用户名
	Comment  string `gorm:"column:comment"`         // 评论内容
}

func (Comment) TableName() string {
	return "comment_thread"
}
