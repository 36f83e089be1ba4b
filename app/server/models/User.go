package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	// 基础信息
	UserName  string `gorm:"column:user_name;uniqueIndex"` // 用户名，全局唯一
	FirstName string `gorm:"column:first_name"`            // 名
	LastName  string `gorm:"column:last_name"`             // 姓
	Email     string `gorm:"column:email"`                 // 邮箱
	IsDev     bool   `gorm:"column:dev"`                   // 是否为开发者：开发者可以读取所有用户的数据，普通用户只能读取自己的

	// 登录认证相关
	Password string `gorm:"column:password"` // 密码，使用 argon2id 储存，序列化时永远不输出
}

func (User) TableName() string {
	return "users"
}
