package mysql

import (
	"errors"
	"fmt"

	"unihub/models"

	"gorm.io/gorm"
)

// GetMembership 查询 (user, community) 的成员关系（不限状态）
func GetMembership(userID, communityID int64) (*models.Membership, error) {
	m := new(models.Membership)
	err := db.Where("user_id = ? AND community_id = ?", userID, communityID).First(m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query membership failed: %w", err)
	}
	return m, nil
}

// GetApprovedMembership 查询已通过审批的成员关系
func GetApprovedMembership(userID, communityID int64) (*models.Membership, error) {
	m := new(models.Membership)
	err := db.Where("user_id = ? AND community_id = ? AND status = ?",
		userID, communityID, models.StatusApproved).First(m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query approved membership failed: %w", err)
	}
	return m, nil
}

// GetMembershipForUpdate 在事务内加行锁读取成员关系
func GetMembershipForUpdate(tx *gorm.DB, userID, communityID int64) (*models.Membership, error) {
	m := new(models.Membership)
	err := tx.Where("user_id = ? AND community_id = ?", userID, communityID).First(m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query membership in tx failed: %w", err)
	}
	return m, nil
}

// CreateMembership 插入成员关系，(user_id, community_id) 唯一约束兜底并发重复加入
func CreateMembership(m *models.Membership) error {
	if err := db.Create(m).Error; err != nil {
		return fmt.Errorf("insert membership failed: %w", err)
	}
	return nil
}

// UpdateMembershipStatus 更新成员状态
func UpdateMembershipStatus(id int64, status string) error {
	err := db.Model(&models.Membership{}).
		Where("membership_id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("update membership status failed: %w", err)
	}
	return nil
}

// UpdateMembershipRole 在事务内更新成员角色
func UpdateMembershipRole(tx *gorm.DB, id int64, role string) error {
	if tx == nil {
		tx = db
	}
	err := tx.Model(&models.Membership{}).
		Where("membership_id = ?", id).
		Update("role", role).Error
	if err != nil {
		return fmt.Errorf("update membership role failed: %w", err)
	}
	return nil
}

// DeleteMembership 在事务内删除成员关系
func DeleteMembership(tx *gorm.DB, id int64) error {
	if tx == nil {
		tx = db
	}
	if err := tx.Delete(&models.Membership{}, "membership_id = ?", id).Error; err != nil {
		return fmt.Errorf("delete membership failed: %w", err)
	}
	return nil
}

// ListMemberCommunityIDs 观察者已通过审批的社区 ID 集合
func ListMemberCommunityIDs(userID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := db.Model(&models.Membership{}).
		Where("user_id = ? AND status = ?", userID, models.StatusApproved).
		Pluck("community_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query member community ids failed: %w", err)
	}
	return ids, nil
}

// ListAdminCommunityIDs 观察者担任 admin 的社区 ID 集合
func ListAdminCommunityIDs(userID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := db.Model(&models.Membership{}).
		Where("user_id = ? AND status = ? AND role = ?",
			userID, models.StatusApproved, models.RoleAdmin).
		Pluck("community_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query admin community ids failed: %w", err)
	}
	return ids, nil
}

// CountApprovedMembers 社区已通过审批的成员数（计数缓存的事实来源）
func CountApprovedMembers(tx *gorm.DB, communityID int64) (int64, error) {
	if tx == nil {
		tx = db
	}
	var count int64
	err := tx.Model(&models.Membership{}).
		Where("community_id = ? AND status = ?", communityID, models.StatusApproved).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count approved members failed: %w", err)
	}
	return count, nil
}

// CountAdminUsers 社区管理员人数，创建者始终计入
// 显式 admin 行之外，创建者若没有自己的 admin 行也按一名管理员计算；
// "最后一名管理员"保护以这个口径判断
func CountAdminUsers(tx *gorm.DB, communityID, creatorID int64) (int64, error) {
	if tx == nil {
		tx = db
	}
	var count int64
	err := tx.Model(&models.Membership{}).
		Where("community_id = ? AND role = ? AND status = ?",
			communityID, models.RoleAdmin, models.StatusApproved).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count admin users failed: %w", err)
	}

	var creatorRows int64
	err = tx.Model(&models.Membership{}).
		Where("community_id = ? AND user_id = ? AND role = ? AND status = ?",
			communityID, creatorID, models.RoleAdmin, models.StatusApproved).
		Count(&creatorRows).Error
	if err != nil {
		return 0, fmt.Errorf("count creator admin row failed: %w", err)
	}
	if creatorRows == 0 {
		count++
	}
	return count, nil
}

// ListMembers 社区成员列表，管理员排前面
func ListMembers(communityID int64, role string) ([]*models.Membership, error) {
	list := make([]*models.Membership, 0)
	query := db.Preload("User").
		Where("community_id = ? AND status = ?", communityID, models.StatusApproved)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Order("FIELD(role, 'admin', 'moderator', 'member'), join_time ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("query member list failed: %w", err)
	}
	return list, nil
}

// ListPendingMembers 待审批的入社申请
func ListPendingMembers(communityID int64) ([]*models.Membership, error) {
	list := make([]*models.Membership, 0)
	err := db.Preload("User").
		Where("community_id = ? AND status = ?", communityID, models.StatusPending).
		Order("join_time ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("query pending members failed: %w", err)
	}
	return list, nil
}
