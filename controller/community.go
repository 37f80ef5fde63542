package controller

import (
	"unihub/logic"
	"unihub/models"
	"unihub/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// CreateCommunityHandler 创建社区
func CreateCommunityHandler(c *gin.Context) {
	userID, err := GetCurrentUser(c)
	if err != nil {
		ResponseError(c, errorx.ErrNeedLogin)
		return
	}
	p := new(models.ParamCreateCommunity)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	community, err := logic.CreateCommunity(userID, p)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, community)
}

// CommunityListHandler 社区列表，匿名只看到公开社区
func CommunityListHandler(c *gin.Context) {
	page, size := getPageInfo(c)
	list, err := logic.ListCommunities(getViewerID(c), page, size)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

// CommunityDetailHandler 按 slug 查社区详情
func CommunityDetailHandler(c *gin.Context) {
	detail, err := logic.GetCommunityBySlug(c.Param("slug"), getViewerID(c))
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, detail)
}

// UpdateCommunityHandler 更新社区设置（行锁下的受控更新）
func UpdateCommunityHandler(c *gin.Context) {
	userID, err := GetCurrentUser(c)
	if err != nil {
		ResponseError(c, errorx.ErrNeedLogin)
		return
	}
	communityID, err := getPathID(c, "id")
	if err != nil {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	p := new(models.ParamUpdateCommunity)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	community, err := logic.UpdateCommunityWithLock(userID, communityID, p)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, community)
}
