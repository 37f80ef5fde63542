package models

import "time"

// Community 社区模型，映射数据库 community 表
// MemberCountCache 是持久化的冗余计数字段：仅当 > 0 时可直接信任，
// 0 有歧义（可能是"还没算过"），读取时走 logic 层的计数缓存兜底
type Community struct {
	ID        int64 `json:"id,string" gorm:"column:community_id;primaryKey"`
	CreatorID int64 `json:"creator_id,string" gorm:"column:creator_id;index;not null"`

	Name        string `json:"name" gorm:"column:community_name;uniqueIndex;size:128;not null"`
	Slug        string `json:"slug" gorm:"column:slug;uniqueIndex;size:150;not null"`
	Description string `json:"description" gorm:"column:introduction;type:text"`
	Rules       string `json:"rules" gorm:"column:rules;type:text"`

	IsPrivate        bool `json:"is_private" gorm:"column:is_private;index;default:false"`
	RequiresApproval bool `json:"requires_approval" gorm:"column:requires_approval;default:false"`

	MemberCountCache int64 `json:"-" gorm:"column:member_count_cache;default:0"`

	CreateTime time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:update_time;autoUpdateTime"`

	// GORM 关联字段，用于 Preload 预加载创建者信息，不映射数据库列
	Creator *User `json:"creator,omitempty" gorm:"foreignKey:CreatorID;references:UserID"`
}

func (Community) TableName() string {
	return "community"
}

// IsCreator 判断给定用户是否为社区创建者
// 创建者不写 Membership 行，但永远拥有管理员身份（见 logic 层的成员鉴权）
func (c *Community) IsCreator(userID int64) bool {
	return userID != 0 && c.CreatorID == userID
}

// ApiCommunityDetail 返回给客户端的社区详情
type ApiCommunityDetail struct {
	*Community
	MemberCount   int64   `json:"member_count"`
	PostCount     int64   `json:"post_count"`
	IsMember      bool    `json:"is_member"`
	IsAdmin       bool    `json:"is_admin"`
	Status        string  `json:"membership_status,omitempty"`
	RecentPostIDs []int64 `json:"recent_post_ids,omitempty"`
}

// Invitation 社区邀请记录，邮件通知经 MQ 异步投递
type Invitation struct {
	ID           int64     `json:"id,string" gorm:"column:invitation_id;primaryKey"`
	CommunityID  int64     `json:"community_id,string" gorm:"column:community_id;index;not null"`
	InviterID    int64     `json:"inviter_id,string" gorm:"column:inviter_id;not null"`
	InviteeEmail string    `json:"invitee_email" gorm:"column:invitee_email;size:255;not null"`
	Message      string    `json:"message" gorm:"column:message;type:text"`
	Status       string    `json:"status" gorm:"column:status;size:20;default:pending"`
	IsSent       bool      `json:"is_sent" gorm:"column:is_sent;default:false"`
	CreateTime   time.Time `json:"create_time" gorm:"column:create_time;autoCreateTime"`
}

func (Invitation) TableName() string {
	return "community_invitation"
}
