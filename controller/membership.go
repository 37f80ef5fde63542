package controller

import (
	"fmt"

	"unihub/logic"
	"unihub/models"
	"unihub/pkg/errorx"
	"unihub/settings"

	"github.com/gin-gonic/gin"
)

// JoinCommunityHandler 申请加入社区
func JoinCommunityHandler(c *gin.Context) {
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
	m, err := logic.JoinCommunity(userID, communityID)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{"status": m.Status})
}

// LeaveCommunityHandler 退出社区
func LeaveCommunityHandler(c *gin.Context) {
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
	if err := logic.LeaveCommunity(userID, communityID); err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

// MemberListHandler 成员列表，可按 role 过滤
func MemberListHandler(c *gin.Context) {
	communityID, err := getPathID(c, "id")
	if err != nil {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	list, err := logic.ListMembers(getViewerID(c), communityID, c.Query("role"))
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

// PendingListHandler 待审批申请列表
func PendingListHandler(c *gin.Context) {
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
	list, err := logic.ListPendingRequests(userID, communityID)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, list)
}

// HandleRequestHandler 审批入社申请
func HandleRequestHandler(c *gin.Context) {
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
	p := new(models.ParamHandleRequest)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	if err := logic.HandleJoinRequest(userID, communityID, p.UserID, *p.Approve); err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

// HandleRequestsBulkHandler 批量审批入社申请
func HandleRequestsBulkHandler(c *gin.Context) {
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
	p := new(models.ParamHandleRequestsBulk)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	handled, err := logic.HandleJoinRequests(userID, communityID, p.UserIDs, *p.Approve)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{"handled": handled})
}

// UpdateRoleHandler 修改成员角色
func UpdateRoleHandler(c *gin.Context) {
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
	p := new(models.ParamUpdateRole)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	if err := logic.UpdateMemberRole(userID, communityID, p.UserID, p.Role); err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

// InviteHandler 邀请加入社区，邮件异步投递
func InviteHandler(c *gin.Context) {
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
	p := new(models.ParamInvite)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}

	joinURL := fmt.Sprintf("%s/communities/%d", settings.Conf.App.BaseURL, communityID)
	inv, err := logic.InviteToCommunity(userID, communityID, p, joinURL)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{"invitation_id": inv.ID})
}
