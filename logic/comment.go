package logic

import (
	"unihub/dao/mysql"
	"unihub/models"
	"unihub/pkg/errorx"
	"unihub/pkg/snowflake"

	"go.uber.org/zap"
)

// visiblePost 取帖子并按实时鉴权判定可见性，评论和点赞的前置检查
func visiblePost(viewerID, postID int64) (*models.Post, error) {
	post, err := mysql.GetPostByIDWithPreload(postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.Community == nil {
		return nil, errorx.ErrNotFound
	}
	info := authority.ResolveFresh(post.Community, viewerID)
	if !Visible(info, post.Community.IsPrivate, post.Visibility) {
		return nil, errorx.ErrNotFound
	}
	return post, nil
}

// CreateComment 发表评论，只允许一层回复（回复的目标必须是顶层评论）
func CreateComment(userID int64, p *models.ParamCreateComment) (*models.Comment, error) {
	post, err := visiblePost(userID, p.PostID)
	if err != nil {
		return nil, err
	}

	if p.ParentID != nil {
		parent, err := mysql.GetCommentByID(*p.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != post.ID {
			return nil, errorx.ErrNotFound
		}
		if parent.IsReply() {
			return nil, errorx.New(errorx.CodeValidation, "只能回复顶层评论")
		}
	}

	comment := &models.Comment{
		ID:       snowflake.GenID(),
		PostID:   post.ID,
		AuthorID: userID,
		ParentID: p.ParentID,
		Content:  p.Content,
	}
	if err := mysql.CreateComment(comment); err != nil {
		return nil, err
	}

	if _, err := PostCommentCounter(post.ID, 0).Refresh(cache); err != nil {
		zap.L().Warn("refresh comment count failed",
			zap.Int64("post_id", post.ID), zap.Error(err))
	}
	bus.CommentChanged(post.ID)
	return comment, nil
}

// ListComments 帖子的评论列表（顶层 + 一层回复）
func ListComments(viewerID, postID int64) ([]*models.Comment, error) {
	if _, err := visiblePost(viewerID, postID); err != nil {
		return nil, err
	}
	return mysql.ListCommentsByPost(postID)
}

// DeleteComment 删除评论，作者本人或社区管理方可删，回复一并删除
func DeleteComment(userID, commentID int64) error {
	comment, err := mysql.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return errorx.ErrNotFound
	}

	if comment.AuthorID != userID {
		post, err := mysql.GetPostByIDWithPreload(comment.PostID)
		if err != nil {
			return err
		}
		if post == nil || post.Community == nil {
			return errorx.ErrNotFound
		}
		if !authority.Resolve(post.Community, userID).CanAdminister() {
			return errorx.ErrPermission
		}
	}

	if err := mysql.DeleteComment(commentID); err != nil {
		return err
	}

	if _, err := PostCommentCounter(comment.PostID, 0).Refresh(cache); err != nil {
		zap.L().Warn("refresh comment count failed",
			zap.Int64("post_id", comment.PostID), zap.Error(err))
	}
	bus.CommentChanged(comment.PostID)
	return nil
}
