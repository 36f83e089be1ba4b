package models

// 受控词表：应用。种子数据，应用侧只读
type App struct {
	ID      uint   `gorm:"primarykey"`
	AppName string `gorm:"column:app_name;uniqueIndex"`
}

func (App) TableName() string {
	return "app"
}
