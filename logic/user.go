package logic

import (
	"errors"

	"unihub/dao/mysql"
	"unihub/dao/redis"
	"unihub/models"
	"unihub/pkg/errorx"
	"unihub/pkg/jwt"
	"unihub/pkg/snowflake"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignUp 注册
func SignUp(p *models.ParamSignUp) error {
	if err := mysql.CheckUserExist(p.Username); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return mysql.InsertUser(&models.User{
		UserID:   snowflake.GenID(),
		Username: p.Username,
		Email:    p.Email,
		Password: string(hashed),
	})
}

// Login 登录，签发双 Token 并登记到 Redis（单点登录）
func Login(p *models.ParamLogin) (*models.User, string, string, error) {
	user, err := mysql.GetUserByUsername(p.Username)
	if err != nil {
		if errors.Is(err, errorx.ErrUserNotExist) {
			// 不区分"用户不存在"和"密码错误"，避免撞库探测
			return nil, "", "", errorx.ErrInvalidPassword
		}
		return nil, "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(p.Password)) != nil {
		return nil, "", "", errorx.ErrInvalidPassword
	}

	aToken, rToken, err := jwt.GenToken(user.UserID, user.Username)
	if err != nil {
		return nil, "", "", err
	}
	if err := redis.SetUserToken(user.UserID, aToken, rToken,
		jwt.AccessTokenExpireDuration, jwt.RefreshTokenExpireDuration); err != nil {
		// Token 登记失败只影响"挤下线"能力，不阻断登录
		zap.L().Warn("set user token failed", zap.Int64("user_id", user.UserID), zap.Error(err))
	}
	return user, aToken, rToken, nil
}

// RefreshToken 用刷新令牌换发新的双 Token
func RefreshToken(rToken string) (string, string, error) {
	userID, err := jwt.ParseRefreshToken(rToken)
	if err != nil {
		return "", "", errorx.ErrInvalidToken
	}
	user, err := mysql.GetUserByID(userID)
	if err != nil {
		return "", "", err
	}

	aToken, newRToken, err := jwt.GenToken(user.UserID, user.Username)
	if err != nil {
		return "", "", err
	}
	if err := redis.SetUserToken(user.UserID, aToken, newRToken,
		jwt.AccessTokenExpireDuration, jwt.RefreshTokenExpireDuration); err != nil {
		zap.L().Warn("set user token failed", zap.Int64("user_id", user.UserID), zap.Error(err))
	}
	return aToken, newRToken, nil
}

// Logout 登出，吊销已登记的 Token
func Logout(userID int64) error {
	return redis.DeleteUserToken(userID)
}
