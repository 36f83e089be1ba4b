package models

// 受控词表：状态。种子数据，应用侧只读
type Status struct {
	ID         uint   `gorm:"primarykey"`
	StatusName string `gorm:"column:status_name;uniqueIndex"`
}

func (Status) TableName() string {
	return "status"
}
