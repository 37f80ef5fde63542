package controller

import (
	"unihub/logic"
	"unihub/models"
	"unihub/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// CreateCommentHandler 发表评论
func CreateCommentHandler(c *gin.Context) {
	userID, err := GetCurrentUser(c)
	if err != nil {
		ResponseError(c, errorx.ErrNeedLogin)
		return
	}
	p := new(models.ParamCreateComment)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	comment, err := logic.CreateComment(userID, p)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, comment)
}

// CommentListHandler 某帖子的评论列表
func CommentListHandler(c *gin.Context) {
	postID, err := getPathID(c, "id")
	if err != nil {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	list, err := logic.ListComments(getViewerID(c), postID)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

// DeleteCommentHandler 删除评论
func DeleteCommentHandler(c *gin.Context) {
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
	if err := logic.DeleteComment(userID, commentID); err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}
