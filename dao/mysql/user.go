package mysql

import (
	"errors"
	"fmt"

	"unihub/models"
	"unihub/pkg/errorx"

	"gorm.io/gorm"
)

// CheckUserExist 检查用户名是否已被注册
func CheckUserExist(username string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("query user count failed: %w", err)
	}
	if count > 0 {
		return errorx.ErrUserExist
	}
	return nil
}

// InsertUser 写入新用户，密码已在 logic 层完成 bcrypt 加密
func InsertUser(user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("insert user failed: %w", err)
	}
	return nil
}

// GetUserByID 按 user_id 查询用户，未找到返回 ErrUserNotExist
func GetUserByID(userID int64) (*models.User, error) {
	user := new(models.User)
	err := db.Where("user_id = ?", userID).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorx.ErrUserNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return user, nil
}

// GetUserByUsername 按用户名查询用户，未找到返回 ErrUserNotExist
func GetUserByUsername(username string) (*models.User, error) {
	user := new(models.User)
	err := db.Where("username = ?", username).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorx.ErrUserNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return user, nil
}
