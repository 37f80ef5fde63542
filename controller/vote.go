package controller

import (
	"unihub/logic"
	"unihub/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// PostUpvoteHandler 切换帖子点赞
func PostUpvoteHandler(c *gin.Context) {
	userID, err := GetCurrentUser(c)
	if err != nil {
		ResponseError(c, errorx.ErrNeedLogin)
		return
	}
	postID, err := getPathID(c, "id")
	if err != nil {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	upvoted, count, err := logic.TogglePostUpvote(userID, postID)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{"upvoted": upvoted, "upvote_count": count})
}

// CommentUpvoteHandler 切换评论点赞
func CommentUpvoteHandler(c *gin.Context) {
	userID, err := GetCurrentUser(c)
	if err != nil {
		ResponseError(c, errorx.ErrNeedLogin)
		return
	}
	commentID, err := getPathID(c, "id")
	if err != nil {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	upvoted, count, err := logic.ToggleCommentUpvote(userID, commentID)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{"upvoted": upvoted, "upvote_count": count})
}
