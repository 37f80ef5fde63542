package models

import "time"

// 帖子可见性
const (
	VisibilityPublic  = "public"  // 所有人可见（社区非私密时）
	VisibilityMembers = "members" // 仅已通过审批的成员可见
	VisibilityAdmin   = "admin"   // 仅管理员可见
)

// ValidVisibility 校验可见性枚举值
func ValidVisibility(v string) bool {
	switch v {
	case VisibilityPublic, VisibilityMembers, VisibilityAdmin:
		return true
	}
	return false
}

// Post 帖子模型，映射数据库 post 表
// 两个 *CountCache 字段与 Community.MemberCountCache 同语义：> 0 才可信
type Post struct {
	ID          int64 `json:"id,string" gorm:"column:post_id;primaryKey"`
	AuthorID    int64 `json:"author_id,string" gorm:"column:author_id;index;not null"`
	CommunityID int64 `json:"community_id,string" gorm:"column:community_id;index:idx_community_pinned_time,priority:1;not null"`

	Title      string `json:"title" gorm:"column:title;size:255;not null"`
	Content    string `json:"content" gorm:"column:content;type:text;not null"`
	Visibility string `json:"visibility" gorm:"column:visibility;size:20;index;default:public"`

	IsPinned bool `json:"is_pinned" gorm:"column:is_pinned;index:idx_community_pinned_time,priority:2;default:false"`

	UpvoteCountCache  int64 `json:"-" gorm:"column:upvote_count_cache;default:0"`
	CommentCountCache int64 `json:"-" gorm:"column:comment_count_cache;default:0"`

	CreateTime time.Time `json:"create_time" gorm:"column:create_time;index:idx_community_pinned_time,priority:3;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:update_time;autoUpdateTime"`

	Author    *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:UserID"`
	Community *Community `json:"community,omitempty" gorm:"foreignKey:CommunityID;references:ID"`
}

func (Post) TableName() string {
	return "post"
}

// PostUpvote 帖子点赞记录，(post_id, user_id) 唯一约束保证幂等
type PostUpvote struct {
	ID         int64     `gorm:"column:upvote_id;primaryKey"`
	PostID     int64     `gorm:"column:post_id;uniqueIndex:uk_post_user;not null"`
	UserID     int64     `gorm:"column:user_id;uniqueIndex:uk_post_user;not null"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
}

func (PostUpvote) TableName() string {
	return "post_upvote"
}

// ApiPostDetail 返回给客户端的帖子详情
type ApiPostDetail struct {
	*Post
	AuthorName   string `json:"author_name"`
	UpvoteCount  int64  `json:"upvote_count"`
	CommentCount int64  `json:"comment_count"`
	Upvoted      bool   `json:"upvoted"` // 当前观察者是否已点赞
}
