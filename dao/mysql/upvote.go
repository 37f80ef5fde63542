package mysql

import (
	"fmt"

	"unihub/models"

	"gorm.io/gorm/clause"
)

// 点赞记录靠唯一约束保证并发下的幂等：
// 重复插入被 OnConflict DoNothing 吞掉，删除不存在的行 RowsAffected 为 0，
// 计数永远按行数重算，多少人同时切换都会收敛到正确值

// AddPostUpvote 插入帖子点赞，返回是否真的新增了
func AddPostUpvote(upvote *models.PostUpvote) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(upvote)
	if result.Error != nil {
		return false, fmt.Errorf("insert post upvote failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RemovePostUpvote 删除帖子点赞，返回是否真的删了
func RemovePostUpvote(postID, userID int64) (bool, error) {
	result := db.Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostUpvote{})
	if result.Error != nil {
		return false, fmt.Errorf("delete post upvote failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// HasPostUpvote 用户是否已点赞该帖子
func HasPostUpvote(postID, userID int64) (bool, error) {
	var count int64
	err := db.Model(&models.PostUpvote{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check post upvote failed: %w", err)
	}
	return count > 0, nil
}

// CountPostUpvotes 帖子点赞总数（计数缓存的事实来源）
func CountPostUpvotes(postID int64) (int64, error) {
	var count int64
	err := db.Model(&models.PostUpvote{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count post upvotes failed: %w", err)
	}
	return count, nil
}

// AddCommentUpvote 插入评论点赞
func AddCommentUpvote(upvote *models.CommentUpvote) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(upvote)
	if result.Error != nil {
		return false, fmt.Errorf("insert comment upvote failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RemoveCommentUpvote 删除评论点赞
func RemoveCommentUpvote(commentID, userID int64) (bool, error) {
	result := db.Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentUpvote{})
	if result.Error != nil {
		return false, fmt.Errorf("delete comment upvote failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// HasCommentUpvote 用户是否已点赞该评论
func HasCommentUpvote(commentID, userID int64) (bool, error) {
	var count int64
	err := db.Model(&models.CommentUpvote{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check comment upvote failed: %w", err)
	}
	return count > 0, nil
}

// CountCommentUpvotes 评论点赞总数（计数缓存的事实来源）
func CountCommentUpvotes(commentID int64) (int64, error) {
	var count int64
	err := db.Model(&models.CommentUpvote{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count comment upvotes failed: %w", err)
	}
	return count, nil
}
