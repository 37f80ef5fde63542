package logic

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	gomysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"unihub/dao/mysql"
	"unihub/dao/redis"
	"unihub/models"
	"unihub/pkg/errorx"
	"unihub/pkg/snowflake"
)

// slugify 社区名转 slug：小写、字母数字保留、其余折叠成连字符
func slugify(name string) string {
	var b strings.Builder
	lastDash := true // 抑制开头的连字符
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		s = "community"
	}
	return s
}

// uniqueSlug slug 冲突时追加数字后缀：foo、foo-2、foo-3 ...
func uniqueSlug(base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		exists, err := mysql.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// isDuplicateErr MySQL 1062 唯一键冲突
func isDuplicateErr(err error) bool {
	var myErr *gomysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// CreateCommunity 创建社区
// 创建者不落 Membership 行，管理员身份由鉴权中心的 creator fallback 保证
func CreateCommunity(userID int64, p *models.ParamCreateCommunity) (*models.Community, error) {
	slug, err := uniqueSlug(slugify(p.Name))
	if err != nil {
		return nil, err
	}
	community := &models.Community{
		ID:               snowflake.GenID(),
		CreatorID:        userID,
		Name:             p.Name,
		Slug:             slug,
		Description:      p.Description,
		Rules:            p.Rules,
		IsPrivate:        p.IsPrivate,
		RequiresApproval: p.RequiresApproval,
	}
	if err := mysql.CreateCommunity(community); err != nil {
		if isDuplicateErr(err) {
			return nil, errorx.ErrNameTaken
		}
		return nil, err
	}
	// 创建者的可见社区集合已变化，踢掉旧缓存
	bus.ViewerSetsStale(community.ID, userID)
	return community, nil
}

// GetCommunityBySlug 社区详情，slug 查找走缓存
// 私密社区的基本信息对所有人可见（否则没法申请加入），帖子预览只给成员
func GetCommunityBySlug(slug string, viewerID int64) (*models.ApiCommunityDetail, error) {
	community, err := communityBySlugCached(slug)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, errorx.ErrNotFound
	}

	info := authority.Resolve(community, viewerID)
	count, err := MemberCounter(community.ID, community.MemberCountCache).Value(cache)
	if err != nil {
		return nil, err
	}
	postCount, err := CommunityPostCounter(community.ID).Value(cache)
	if err != nil {
		return nil, err
	}

	detail := &models.ApiCommunityDetail{
		Community:   community,
		MemberCount: count,
		PostCount:   postCount,
		IsMember:    info.IsMember,
		IsAdmin:     info.IsAdmin(),
		Status:      info.Status,
	}
	if !community.IsPrivate || info.IsMember {
		detail.RecentPostIDs = recentPostIDs(community.ID)
	}
	return detail, nil
}

func communityBySlugCached(slug string) (*models.Community, error) {
	key := redis.KeyCommunityBySlug(slug)
	if cache != nil {
		val, ok, err := cache.Get(key)
		if err != nil {
			zap.L().Warn("community slug cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			community := new(models.Community)
			if jerr := json.Unmarshal([]byte(val), community); jerr == nil {
				return community, nil
			}
			zap.L().Warn("community slug cache holds invalid json", zap.String("key", key))
		}
	}

	community, err := mysql.GetCommunityBySlug(slug)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, nil
	}
	if cache != nil {
		if data, err := json.Marshal(community); err == nil {
			if serr := cache.Set(key, string(data), ttlCommunitySlug); serr != nil {
				zap.L().Warn("community slug cache write failed", zap.String("key", key), zap.Error(serr))
			}
		}
	}
	return community, nil
}

// recentPostIDs 社区最近公开帖子 ID 列表，缓存 JSON 数组
// 纯展示用途，取不到就返回空，不影响详情接口
func recentPostIDs(communityID int64) []int64 {
	key := redis.KeyCommunityRecentPosts(communityID)
	if cache != nil {
		if val, ok, err := cache.Get(key); err == nil && ok {
			ids := make([]int64, 0)
			if json.Unmarshal([]byte(val), &ids) == nil {
				return ids
			}
		}
	}
	ids, err := mysql.GetRecentPostIDs(communityID, 5)
	if err != nil {
		zap.L().Warn("query recent posts failed",
			zap.Int64("community_id", communityID), zap.Error(err))
		return nil
	}
	if cache != nil {
		if data, err := json.Marshal(ids); err == nil {
			if serr := cache.Set(key, string(data), ttlRecentPosts); serr != nil {
				zap.L().Warn("recent posts cache write failed", zap.String("key", key), zap.Error(serr))
			}
		}
	}
	return ids
}

// ListCommunities 社区列表：公开社区对所有人可见，私密社区只对成员可见
func ListCommunities(viewerID, page, size int64) ([]*models.Community, error) {
	var memberIDs []int64
	if viewerID != 0 {
		var err error
		memberIDs, _, err = filter.viewerSets(viewerID)
		if err != nil {
			return nil, err
		}
	}
	return mysql.ListCommunities(memberIDs, page, size)
}

// UpdateCommunityWithLock 受控的社区设置更新
// 行锁 + 事务串行化并发编辑；锁内重新校验权限（拿到锁的人可能刚被撤权）；
// 只更新白名单字段；改名会重新生成 slug；重名以 Conflict 报出
func UpdateCommunityWithLock(userID, communityID int64, p *models.ParamUpdateCommunity) (*models.Community, error) {
	var oldSlug, newSlug string

	err := mysql.GetDB().Transaction(func(tx *gorm.DB) error {
		locked, err := mysql.GetCommunityForUpdate(tx, communityID)
		if err != nil {
			return err
		}
		if locked == nil {
			return errorx.ErrNotFound
		}
		if !authority.ResolveFresh(locked, userID).IsAdmin() {
			return errorx.ErrPermission
		}
		oldSlug, newSlug = locked.Slug, locked.Slug

		fields := make(map[string]any)
		if p.Name != nil && *p.Name != locked.Name {
			slug, err := uniqueSlug(slugify(*p.Name))
			if err != nil {
				return err
			}
			fields["community_name"] = *p.Name
			fields["slug"] = slug
			newSlug = slug
		}
		if p.Description != nil {
			fields["introduction"] = *p.Description
		}
		if p.Rules != nil {
			fields["rules"] = *p.Rules
		}
		if p.IsPrivate != nil {
			fields["is_private"] = *p.IsPrivate
		}
		if p.RequiresApproval != nil {
			fields["requires_approval"] = *p.RequiresApproval
		}
		if len(fields) == 0 {
			return nil
		}

		if err := mysql.UpdateCommunityFields(tx, communityID, fields); err != nil {
			if isDuplicateErr(err) {
				return errorx.ErrNameTaken
			}
			return fmt.Errorf("update community failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bus.CommunityUpdated(communityID, oldSlug, newSlug)
	return mysql.GetCommunityByID(communityID)
}
