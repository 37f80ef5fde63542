package controller

import (
	"unihub/logic"
	"unihub/models"
	"unihub/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// SignUpHandler 注册
func SignUpHandler(c *gin.Context) {
	p := new(models.ParamSignUp)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	if err := logic.SignUp(p); err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}

// LoginHandler 登录
func LoginHandler(c *gin.Context) {
	p := new(models.ParamLogin)
	if err := c.ShouldBindJSON(p); err != nil {
		ResponseErrorWithMsg(c, errorx.CodeInvalidParam, translateError(err))
		return
	}
	user, aToken, rToken, err := logic.Login(p)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{
		"user_id":       user.UserID,
		"username":      user.Username,
		"access_token":  aToken,
		"refresh_token": rToken,
	})
}

// RefreshTokenHandler 换发 Token
func RefreshTokenHandler(c *gin.Context) {
	rToken := c.Query("refresh_token")
	if rToken == "" {
		ResponseError(c, errorx.ErrInvalidParam)
		return
	}
	aToken, newRToken, err := logic.RefreshToken(rToken)
	if err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, gin.H{
		"access_token":  aToken,
		"refresh_token": newRToken,
	})
}

// LogoutHandler 登出
func LogoutHandler(c *gin.Context) {
	userID, err := GetCurrentUser(c)
	if err != nil {
		ResponseError(c, errorx.ErrNeedLogin)
		return
	}
	if err := logic.Logout(userID); err != nil {
		ResponseFromError(c, err)
		return
	}
	ResponseSuccess(c, nil)
}
