package inits

import (
	"bug-tracker/app/server/constants"
	"bug-tracker/app/server/models"
	"fmt"

	"github.com/alexedwards/argon2id"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func DB(conn string) (db *gorm.DB, err error) {
	// 打开连接
	if db, err = gorm.Open(postgres.Open(conn), &gorm.Config{}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = Mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = InitData(db); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

func Mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Bug{},
		&models.Comment{},
		&models.Status{},
		&models.App{},
		&models.SeverityLevel{},
		&models.BugStatus{},
		&models.BugApp{},
		&models.BugSeverity{},
	)
}

func InitData(db *gorm.DB) (err error) {
	// 查询现有记录数量
	var counter int64

	// 初始化状态词表
	if err = db.Model(&models.Status{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get status count: %w", err)
	} else if counter == 0 {
		if err = db.Create([]*models.Status{
			{StatusName: constants.DefaultStatus},
			{StatusName: "in progress"},
			{StatusName: "completed"},
			{StatusName: "closed"},
		}).Error; err != nil {
			return fmt.Errorf("failed to create initial statuses: %w", err)
		}
	}

	// 初始化严重程度词表
	if err = db.Model(&models.SeverityLevel{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get severity level count: %w", err)
	} else if counter == 0 {
		if err = db.Create([]*models.SeverityLevel{
			{Level: constants.DefaultSeverity},
			{Level: "low"},
			{Level: "medium"},
			{Level: "high"},
			{Level: "critical"},
		}).Error; err != nil {
			return fmt.Errorf("failed to create initial severity levels: %w", err)
		}
	}

	// 初始化应用词表
	if err = db.Model(&models.App{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get app count: %w", err)
	} else if counter == 0 {
		if err = db.Create([]*models.App{
			{AppName: "bug tracker"},
		}).Error; err != nil {
			return fmt.Errorf("failed to create initial apps: %w", err)
		}
	}

	// 初始化用户
	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter == 0 { // 没有任何用户，添加初始开发者
		// 创建密码
		var password string
		if password, err = argon2id.CreateHash("password", argon2id.DefaultParams); err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}

		// 插入记录
		if err = db.Create(&models.User{
			UserName:  "admin",
			FirstName: "Bug",
			LastName:  "Admin",
			IsDev:     true,
			Password:  password,
		}).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
	}

	// 已有数据或全部导入成功
	return nil
}
