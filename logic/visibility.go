package logic

import (
	"encoding/json"

	"unihub/dao/mysql"
	"unihub/dao/redis"
	"unihub/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Visible 单帖可见性判定表，纯函数
// admin/创建者全可见；已批准成员可见 public/members；
// 其他人（含匿名）只有公开社区的 public 帖可见
func Visible(info *MembershipInfo, communityPrivate bool, visibility string) bool {
	if info.IsAdmin() {
		return true
	}
	if info != nil && info.IsMember {
		return visibility == models.VisibilityPublic || visibility == models.VisibilityMembers
	}
	return !communityPrivate && visibility == models.VisibilityPublic
}

// Filter 可见性过滤器：把判定表翻译成查询谓词，让数据库一次性筛出
// 观察者可见的帖子集合，而不是逐行回调判定
// 两个社区 ID 集合按观察者缓存（3 分钟），指定社区查询时与实时鉴权对账
type Filter struct {
	store       CacheStore
	listMember  func(userID int64) ([]int64, error)
	listAdmin   func(userID int64) ([]int64, error)
	listCreated func(userID int64) ([]int64, error)
	fresh       func(c *models.Community, userID int64) *MembershipInfo
	prune       func(communityID, userID int64)
}

func NewFilter(store CacheStore) *Filter {
	return &Filter{
		store:       store,
		listMember:  mysql.ListMemberCommunityIDs,
		listAdmin:   mysql.ListAdminCommunityIDs,
		listCreated: mysql.ListCreatedCommunityIDs,
		fresh: func(c *models.Community, userID int64) *MembershipInfo {
			return authority.ResolveFresh(c, userID)
		},
		prune: func(communityID, userID int64) {
			bus.ViewerSetsStale(communityID, userID)
		},
	}
}

// Scope 构造帖子列表的可见性谓词，三段不相交子句取并集：
// (a) 公开社区的 public 帖
// (b) 观察者已批准成员的社区里的 public/members 帖
// (c) 观察者是管理员的社区里的全部帖子
// target 非空（查询落在一个具体社区上）时，用实时鉴权核对缓存集合：
// 集合与实时结论不一致说明缓存过期，当场剪掉并以实时结论为准，
// 把"该见没见/不该见还见"的窗口压缩到单次请求以内
func (f *Filter) Scope(viewerID int64, target *models.Community) (func(*gorm.DB) *gorm.DB, error) {
	var memberIDs, adminIDs []int64
	if viewerID != 0 {
		var err error
		memberIDs, adminIDs, err = f.viewerSets(viewerID)
		if err != nil {
			return nil, err
		}
		if target != nil {
			memberIDs, adminIDs = f.reconcile(viewerID, target, memberIDs, adminIDs)
		}
	}

	cond, args := visibilityClause(memberIDs, adminIDs)
	return func(q *gorm.DB) *gorm.DB {
		return q.Where(cond, args...)
	}, nil
}

// visibilityClause 拼出三段子句，空集合的子句直接省掉（避免 IN ()）
func visibilityClause(memberIDs, adminIDs []int64) (string, []any) {
	cond := "(community.is_private = ? AND post.visibility = ?)"
	args := []any{false, models.VisibilityPublic}
	if len(memberIDs) > 0 {
		cond += " OR (post.community_id IN ? AND post.visibility IN ?)"
		args = append(args, memberIDs,
			[]string{models.VisibilityPublic, models.VisibilityMembers})
	}
	if len(adminIDs) > 0 {
		cond += " OR post.community_id IN ?"
		args = append(args, adminIDs)
	}
	return cond, args
}

// viewerSets 观察者的两个社区 ID 集合，缓存 JSON 数组
// 创建者不落 Membership 行，所以两个集合都要并上其创建的社区
func (f *Filter) viewerSets(viewerID int64) (memberIDs, adminIDs []int64, err error) {
	memberIDs, memberOK := f.cachedIDs(redis.KeyUserMemberships(viewerID))
	adminIDs, adminOK := f.cachedIDs(redis.KeyUserAdminMemberships(viewerID))
	if memberOK && adminOK {
		return memberIDs, adminIDs, nil
	}

	var created []int64
	if f.listCreated != nil {
		if created, err = f.listCreated(viewerID); err != nil {
			return nil, nil, err
		}
	}
	if !memberOK {
		if memberIDs, err = f.listMember(viewerID); err != nil {
			return nil, nil, err
		}
		memberIDs = unionIDs(memberIDs, created)
		f.cacheIDs(redis.KeyUserMemberships(viewerID), memberIDs)
	}
	if !adminOK {
		if adminIDs, err = f.listAdmin(viewerID); err != nil {
			return nil, nil, err
		}
		adminIDs = unionIDs(adminIDs, created)
		f.cacheIDs(redis.KeyUserAdminMemberships(viewerID), adminIDs)
	}
	return memberIDs, adminIDs, nil
}

func (f *Filter) cachedIDs(key string) ([]int64, bool) {
	if f.store == nil {
		return nil, false
	}
	val, ok, err := f.store.Get(key)
	if err != nil {
		zap.L().Warn("viewer set cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	ids := make([]int64, 0)
	if jerr := json.Unmarshal([]byte(val), &ids); jerr != nil {
		zap.L().Warn("viewer set cache holds invalid json", zap.String("key", key))
		return nil, false
	}
	return ids, true
}

func (f *Filter) cacheIDs(key string, ids []int64) {
	if f.store == nil {
		return
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if serr := f.store.Set(key, string(data), ttlViewerSets); serr != nil {
		zap.L().Warn("viewer set cache write failed", zap.String("key", key), zap.Error(serr))
	}
}

// reconcile 请求内自愈：目标社区的缓存结论与实时鉴权不一致时，
// 剪掉过期集合并就地修正本次请求使用的副本
func (f *Filter) reconcile(viewerID int64, target *models.Community, memberIDs, adminIDs []int64) ([]int64, []int64) {
	info := f.fresh(target, viewerID)
	cachedMember := containsID(memberIDs, target.ID)
	cachedAdmin := containsID(adminIDs, target.ID)
	// 创建者不落行，集合里也不会有它的社区，按实时结论补上
	if cachedMember == info.IsMember && cachedAdmin == info.IsAdmin() {
		return memberIDs, adminIDs
	}
	if !info.IsCreator {
		f.prune(target.ID, viewerID)
	}
	if info.IsMember && !cachedMember {
		memberIDs = append(memberIDs, target.ID)
	} else if !info.IsMember && cachedMember {
		memberIDs = removeID(memberIDs, target.ID)
	}
	if info.IsAdmin() && !cachedAdmin {
		adminIDs = append(adminIDs, target.ID)
	} else if !info.IsAdmin() && cachedAdmin {
		adminIDs = removeID(adminIDs, target.ID)
	}
	return memberIDs, adminIDs
}

func unionIDs(ids, extra []int64) []int64 {
	for _, id := range extra {
		if !containsID(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
