package models

// 受控词表：严重程度。种子数据，应用侧只读
type SeverityLevel struct {
	ID    uint   `gorm:"primarykey"`
	Level string `gorm:"column:level;uniqueIndex"`
}

func (SeverityLevel) TableName() string {
	return "severity_level"
}
