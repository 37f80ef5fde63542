package mysql

import (
	"errors"
	"fmt"

	"unihub/models"

	"gorm.io/gorm"
)

// CreatePost 插入帖子
func CreatePost(post *models.Post) error {
	if err := db.Create(post).Error; err != nil {
		return fmt.Errorf("insert post failed: %w", err)
	}
	return nil
}

// GetPostByID 查询帖子（不带关联）
func GetPostByID(pid int64) (*models.Post, error) {
	post := new(models.Post)
	err := db.Where("post_id = ?", pid).First(post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id failed: %w", err)
	}
	return post, nil
}

// GetPostByIDWithPreload 查询帖子并预加载作者和社区，可见性判定需要社区信息
func GetPostByIDWithPreload(pid int64) (*models.Post, error) {
	post := new(models.Post)
	err := db.Preload("Author").
		Preload("Community").
		Preload("Community.Creator").
		Where("post_id = ?", pid).
		First(post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id with preload failed: %w", err)
	}
	return post, nil
}

// ListPostsScoped 按可见性范围分页查询帖子
// scope 由 logic 层的可见性过滤器构造（三段谓词的并集），
// 查询必须 join community 拿到 is_private；排序固定为置顶优先、时间倒序
func ListPostsScoped(scope func(*gorm.DB) *gorm.DB, communityID int64, page, size int64) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, size)
	query := db.Model(&models.Post{}).
		Joins("JOIN community ON community.community_id = post.community_id").
		Preload("Author").
		Preload("Community")
	if communityID != 0 {
		query = query.Where("post.community_id = ?", communityID)
	}
	query = scope(query)
	err := query.Order("post.is_pinned DESC, post.create_time DESC").
		Offset(int((page - 1) * size)).
		Limit(int(size)).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("query scoped post list failed: %w", err)
	}
	return posts, nil
}

// CountPostsByCommunity 社区帖子总数（计数缓存的事实来源）
func CountPostsByCommunity(communityID int64) (int64, error) {
	var count int64
	err := db.Model(&models.Post{}).
		Where("community_id = ?", communityID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count posts failed: %w", err)
	}
	return count, nil
}

// GetRecentPostIDs 社区最近的公开帖子 ID，用于社区详情页的预览缓存
func GetRecentPostIDs(communityID int64, limit int) ([]int64, error) {
	ids := make([]int64, 0, limit)
	err := db.Model(&models.Post{}).
		Where("community_id = ? AND visibility = ?", communityID, models.VisibilityPublic).
		Order("create_time DESC").
		Limit(limit).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query recent post ids failed: %w", err)
	}
	return ids, nil
}

// UpdatePostCountCache 直接写帖子的冗余计数字段（绕过钩子，不触发级联）
func UpdatePostCountCache(postID int64, column string, n int64) error {
	if n < 0 {
		n = 0
	}
	err := db.Model(&models.Post{}).
		Where("post_id = ?", postID).
		UpdateColumn(column, n).Error
	if err != nil {
		return fmt.Errorf("update post %s failed: %w", column, err)
	}
	return nil
}

// SetPostPinned 置顶/取消置顶
func SetPostPinned(postID int64, pinned bool) error {
	err := db.Model(&models.Post{}).
		Where("post_id = ?", postID).
		Update("is_pinned", pinned).Error
	if err != nil {
		return fmt.Errorf("update post pinned failed: %w", err)
	}
	return nil
}
