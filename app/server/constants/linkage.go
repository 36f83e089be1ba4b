package constants

// 新建 bug 时的默认关联值
const (
	DefaultStatus   = "pending"
	DefaultSeverity = "pending"
)
