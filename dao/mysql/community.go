package mysql

import (
	"errors"
	"fmt"

	"unihub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetCommunityBySlug 根据 slug 查询社区（带创建者）
// 查不到返回 nil 而不是 error，交给上层决定语义
func GetCommunityBySlug(slug string) (*models.Community, error) {
	community := new(models.Community)
	err := db.Preload("Creator").Where("slug = ?", slug).First(community).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query community by slug failed: %w", err)
	}
	return community, nil
}

// GetCommunityByID 根据 ID 查询社区
func GetCommunityByID(id int64) (*models.Community, error) {
	community := new(models.Community)
	err := db.Preload("Creator").Where("community_id = ?", id).First(community).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query community by id failed: %w", err)
	}
	return community, nil
}

// SlugExists slug 是否已被占用
func SlugExists(slug string) (bool, error) {
	var count int64
	err := db.Model(&models.Community{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check slug exists failed: %w", err)
	}
	return count > 0, nil
}

// CreateCommunity 插入社区记录
func CreateCommunity(c *models.Community) error {
	if err := db.Create(c).Error; err != nil {
		return fmt.Errorf("insert community failed: %w", err)
	}
	return nil
}

// ListCommunities 按观察者可见范围分页查询社区列表
// memberIDs 为该观察者已通过审批的社区 ID 集合；匿名观察者传 nil，只能看到公开社区
func ListCommunities(memberIDs []int64, page, size int64) ([]*models.Community, error) {
	list := make([]*models.Community, 0, size)
	query := db.Preload("Creator")
	if len(memberIDs) == 0 {
		query = query.Where("is_private = ?", false)
	} else {
		query = query.Where("is_private = ? OR community_id IN ?", false, memberIDs)
	}
	err := query.Order("create_time DESC").
		Offset(int((page - 1) * size)).
		Limit(int(size)).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("query community list failed: %w", err)
	}
	return list, nil
}

// ListCreatedCommunityIDs 用户创建的社区 ID 集合
// 创建者不落 Membership 行，观察者的成员/管理员集合要靠它补全
func ListCreatedCommunityIDs(userID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := db.Model(&models.Community{}).
		Where("creator_id = ?", userID).
		Pluck("community_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query created community ids failed: %w", err)
	}
	return ids, nil
}

// GetCommunityForUpdate 在事务内加行锁读取社区（SELECT ... FOR UPDATE）
// 受控更新的互斥范围就是这一行
func GetCommunityForUpdate(tx *gorm.DB, id int64) (*models.Community, error) {
	community := new(models.Community)
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("community_id = ?", id).
		First(community).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock community row failed: %w", err)
	}
	return community, nil
}

// UpdateCommunityFields 在事务内更新白名单字段
func UpdateCommunityFields(tx *gorm.DB, id int64, fields map[string]any) error {
	return tx.Model(&models.Community{}).
		Where("community_id = ?", id).
		Updates(fields).Error
}

// UpdateCommunityMemberCount 直接写冗余计数字段
// 用 UpdateColumn 绕过 gorm 钩子和 update_time，避免重新触发同一条失效链路
func UpdateCommunityMemberCount(tx *gorm.DB, id int64, n int64) error {
	if n < 0 {
		n = 0
	}
	if tx == nil {
		tx = db
	}
	err := tx.Model(&models.Community{}).
		Where("community_id = ?", id).
		UpdateColumn("member_count_cache", n).Error
	if err != nil {
		return fmt.Errorf("update member count cache failed: %w", err)
	}
	return nil
}

// CreateInvitation 插入邀请记录
func CreateInvitation(inv *models.Invitation) error {
	if err := db.Create(inv).Error; err != nil {
		return fmt.Errorf("insert invitation failed: %w", err)
	}
	return nil
}

// MarkInvitationSent 标记邀请邮件已投递
func MarkInvitationSent(id int64) error {
	return db.Model(&models.Invitation{}).
		Where("invitation_id = ?", id).
		UpdateColumn("is_sent", true).Error
}
