package mysql

import (
	"errors"
	"fmt"

	"unihub/models"

	"gorm.io/gorm"
)

// CreateComment 插入评论
func CreateComment(c *models.Comment) error {
	if err := db.Create(c).Error; err != nil {
		return fmt.Errorf("insert comment failed: %w", err)
	}
	return nil
}

// GetCommentByID 查询评论
func GetCommentByID(id int64) (*models.Comment, error) {
	c := new(models.Comment)
	err := db.Where("comment_id = ?", id).First(c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query comment by id failed: %w", err)
	}
	return c, nil
}

// DeleteComment 删除评论及其一级回复
func DeleteComment(id int64) error {
	err := db.Where("comment_id = ? OR parent_id = ?", id, id).
		Delete(&models.Comment{}).Error
	if err != nil {
		return fmt.Errorf("delete comment failed: %w", err)
	}
	return nil
}

// ListCommentsByPost 帖子的顶层评论（带一级回复），时间正序
func ListCommentsByPost(postID int64) ([]*models.Comment, error) {
	list := make([]*models.Comment, 0)
	err := db.Preload("Author").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("create_time ASC")
		}).
		Preload("Replies.Author").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("create_time ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("query comment list failed: %w", err)
	}
	return list, nil
}

// CountCommentsByPost 帖子评论总数（计数缓存的事实来源）
func CountCommentsByPost(postID int64) (int64, error) {
	var count int64
	err := db.Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count comments failed: %w", err)
	}
	return count, nil
}

// UpdateCommentCountCache 直接写评论的冗余点赞计数（绕过钩子）
func UpdateCommentCountCache(commentID int64, n int64) error {
	if n < 0 {
		n = 0
	}
	err := db.Model(&models.Comment{}).
		Where("comment_id = ?", commentID).
		UpdateColumn("upvote_count_cache", n).Error
	if err != nil {
		return fmt.Errorf("update comment upvote count failed: %w", err)
	}
	return nil
}
