package models

import "time"

// 成员角色
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// 成员状态
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidRole 校验角色枚举值
func ValidRole(role string) bool {
	switch role {
	case RoleMember, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ValidStatus 校验状态枚举值
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Membership 用户与社区的成员关系，(user_id, community_id) 全局唯一
// 创建者默认不落行：它的管理员身份由 logic 层的 creator fallback 保证
type Membership struct {
	ID          int64 `json:"id,string" gorm:"column:membership_id;primaryKey"`
	UserID      int64 `json:"user_id,string" gorm:"column:user_id;uniqueIndex:uk_user_community;not null"`
	CommunityID int64 `json:"community_id,string" gorm:"column:community_id;uniqueIndex:uk_user_community;index:idx_community_role,priority:1;not null"`

	Role   string `json:"role" gorm:"column:role;size:20;index:idx_community_role,priority:2;default:member"`
	Status string `json:"status" gorm:"column:status;size:20;index;default:approved"`

	JoinTime   time.Time `json:"join_time" gorm:"column:join_time;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:update_time;autoUpdateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:UserID"`
}

func (Membership) TableName() string {
	return "membership"
}

// IsApproved 是否已通过审批
func (m *Membership) IsApproved() bool {
	return m != nil && m.Status == StatusApproved
}

// CanAdminister 是否具备管理权限（admin 或 moderator）
// 注意与"展示层意义上的管理员"（仅 admin）区分开
func (m *Membership) CanAdminister() bool {
	return m.IsApproved() && (m.Role == RoleAdmin || m.Role == RoleModerator)
}
