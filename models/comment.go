package models

import "time"

// Comment 帖子评论，ParentID 非空时表示一级回复（只允许一层）
type Comment struct {
	ID       int64  `json:"id,string" gorm:"column:comment_id;primaryKey"`
	PostID   int64  `json:"post_id,string" gorm:"column:post_id;index:idx_post_time,priority:1;not null"`
	AuthorID int64  `json:"author_id,string" gorm:"column:author_id;index;not null"`
	ParentID *int64 `json:"parent_id,string,omitempty" gorm:"column:parent_id;index"`

	Content string `json:"content" gorm:"column:content;type:text;not null"`

	UpvoteCountCache int64 `json:"-" gorm:"column:upvote_count_cache;default:0"`

	CreateTime time.Time `json:"create_time" gorm:"column:create_time;index:idx_post_time,priority:2;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:update_time;autoUpdateTime"`

	Author  *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:UserID"`
	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID;references:ID"`
}

func (Comment) TableName() string {
	return "comment"
}

// IsReply 是否为回复
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentUpvote 评论点赞记录，(comment_id, user_id) 唯一
type CommentUpvote struct {
	ID         int64     `gorm:"column:upvote_id;primaryKey"`
	CommentID  int64     `gorm:"column:comment_id;uniqueIndex:uk_comment_user;not null"`
	UserID     int64     `gorm:"column:user_id;uniqueIndex:uk_comment_user;not null"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
}

func (CommentUpvote) TableName() string {
	return "comment_upvote"
}
