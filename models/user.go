package models

// User 用户模型，对应数据库 user 表
// 密码存 bcrypt 哈希，永远不下发给客户端
type User struct {
	UserID   int64  `json:"user_id,string" gorm:"column:user_id;primaryKey"`
	Username string `json:"username" gorm:"column:username;uniqueIndex;size:64;not null"`
	Email    string `json:"email" gorm:"column:email;size:255"`
	Password string `json:"-" gorm:"column:password;size:128;not null"`
}

func (User) TableName() string {
	return "user"
}
