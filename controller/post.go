package controller

import (
	"strconv"

	"unihub/logic"
	"unihub/models"
	"unihub/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// CreatePostHandler 发帖
func CreatePostHandler(c *gin.Context) {
	userID, err := GetCurrentUser(c)
	if err != nil {
		ResponseError(c, errorx.ErrNeedLogin)
		return
	}
	p := new(models.ParamCreatePost)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	post, err := logic.CreatePost(userID, p)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, post)
}

// PostDetailHandler 帖子详情，可见性按实时身份判定
func PostDetailHandler(c *gin.Context) {
	postID, err := getPathID(c, "id")
	if err != nil {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	detail, err := logic.GetPostDetail(getViewerID(c), postID)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, detail)
}

// PostListHandler 帖子列表，community_id 可选
func PostListHandler(c *gin.Context) {
	page, size := getPageInfo(c)
	communityID, _ := strconv.ParseInt(c.Query("community_id"), 10, 64)

	list, err := logic.ListPosts(getViewerID(c),
		&models.ParamPostList{Page: page, Size: size}, communityID)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

// PinPostHandler 置顶/取消置顶，pinned 传 "true"/"false"
func PinPostHandler(c *gin.Context) {
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
	pinned, err := strconv.ParseBool(c.DefaultQuery("pinned", "true"))
	if err != nil {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	if err := logic.TogglePin(userID, postID, pinned); err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}
