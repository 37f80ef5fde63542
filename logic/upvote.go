package logic

import (
	"unihub/dao/mysql"
	"unihub/models"
	"unihub/pkg/errorx"
	"unihub/pkg/snowflake"
)

// 点赞切换的收敛性靠两点保证：
// 行级唯一约束让重复插入/删除在数据库层就是幂等的，
// 计数每次整体按行数重算而不是加减一，并发切换最终一定收敛

// TogglePostUpvote 切换帖子点赞，返回切换后的状态和最新计数
func TogglePostUpvote(userID, postID int64) (upvoted bool, count int64, err error) {
	if _, err = visiblePost(userID, postID); err != nil {
		return false, 0, err
	}

	has, err := mysql.HasPostUpvote(postID, userID)
	if err != nil {
		return false, 0, err
	}
	if has {
		if _, err = mysql.RemovePostUpvote(postID, userID); err != nil {
			return false, 0, err
		}
		upvoted = false
	} else {
		_, err = mysql.AddPostUpvote(&models.PostUpvote{
			ID:     snowflake.GenID(),
			PostID: postID,
			UserID: userID,
		})
		if err != nil {
			return false, 0, err
		}
		upvoted = true
	}

	count, err = PostUpvoteCounter(postID, 0).Refresh(cache)
	if err != nil {
		return false, 0, err
	}
	bus.PostUpvoteToggled(postID)
	return upvoted, count, nil
}

// ToggleCommentUpvote 切换评论点赞
func ToggleCommentUpvote(userID, commentID int64) (upvoted bool, count int64, err error) {
	comment, err := mysql.GetCommentByID(commentID)
	if err != nil {
		return false, 0, err
	}
	if comment == nil {
		return false, 0, errorx.ErrNotFound
	}
	if _, err = visiblePost(userID, comment.PostID); err != nil {
		return false, 0, err
	}

	has, err := mysql.HasCommentUpvote(commentID, userID)
	if err != nil {
		return false, 0, err
	}
	if has {
		if _, err = mysql.RemoveCommentUpvote(commentID, userID); err != nil {
			return false, 0, err
		}
		upvoted = false
	} else {
		_, err = mysql.AddCommentUpvote(&models.CommentUpvote{
			ID:        snowflake.GenID(),
			CommentID: commentID,
			UserID:    userID,
		})
		if err != nil {
			return false, 0, err
		}
		upvoted = true
	}

	count, err = CommentUpvoteCounter(commentID, 0).Refresh(cache)
	if err != nil {
		return false, 0, err
	}
	bus.CommentUpvoteToggled(commentID)
	return upvoted, count, nil
}
