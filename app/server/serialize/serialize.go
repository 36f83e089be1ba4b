package serialize

import (
	"bug-tracker/app/server/models"
	"time"
)

// 行到 API 字段的单向改名：snake_case 列名变 camelCase ，
// 内部外键 id 和密码一类的敏感字段永远不输出，只输出已解析的名称

type ErrorMessage struct {
	Error string `json:"error"`
}

type BugView struct {
	ID             uint       `json:"id"`
	BugName        string     `json:"bugName"`
	Description    string     `json:"description"`
	BugPostedBy    string     `json:"bugPostedBy"`
	Status         string     `json:"status"`
	App            string     `json:"app"`
	Severity       string     `json:"severity"`
	CreatedDate    time.Time  `json:"createdDate"`
	UpdatedDate    time.Time  `json:"updatedDate"`
	CompletedDate  *time.Time `json:"completedDate"`
	CompletedNotes *string    `json:"completedNotes"`
}

type CommentView struct {
	ID          uint      `json:"id"`
	BugName     *string   `json:"bugName"` // 所属 bug 对当前用户不可见时为 null
	UserName    string    `json:"userName"`
	Comment     string    `json:"comment"`
	CreatedDate time.Time `json:"createdDate"`
}

type UserView struct {
	ID        uint   `json:"id"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsDev     bool   `json:"dev"`
}

// bug 行加上解析好的关联名称
type BugRecord struct {
	Bug      models.Bug
	Status   string
	App      string
	Severity string
}

type CommentRecord struct {
	Comment models.Comment
	BugName *string
}

func FormatBug(rec BugRecord) BugView {
	return BugView{
		ID:             rec.Bug.ID,
		BugName:        rec.Bug.BugName,
		Description:    rec.Bug.Description,
		BugPostedBy:    rec.Bug.UserName,
		Status:         rec.Status,
		App:            rec.App,
		Severity:       rec.Severity,
		CreatedDate:    rec.Bug.CreatedAt,
		UpdatedDate:    rec.Bug.UpdatedAt,
		CompletedDate:  rec.Bug.CompletedAt,
		CompletedNotes: rec.Bug.CompletedNotes,
	}
}

func FormatBugs(records []BugRecord) []BugView {
	views := make([]BugView, 0, len(records))
	for _, rec := range records {
		views = append(views, FormatBug(rec))
	}
	return views
}

func FormatComment(rec CommentRecord) CommentView {
	return CommentView{
		ID:          rec.Comment.ID,
		BugName:     rec.BugName,
		UserName:    rec.Comment.UserName,
		Comment:     rec.Comment.Comment,
		CreatedDate: rec.Comment.CreatedAt,
	}
}

func FormatComments(records []CommentRecord) []CommentView {
	views := make([]CommentView, 0, len(records))
	for _, rec := range records {
		views = append(views, FormatComment(rec))
	}
	return views
}

func FormatUser(user *models.User) UserView {
	return UserView{
		ID:        user.ID,
		UserName:  user.UserName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		IsDev:     user.IsDev,
	}
}

func FormatUsers(users []models.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, FormatUser(&user))
	}
	return views
}
