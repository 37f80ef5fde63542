package logic

import "time"

// CacheStore 外部缓存的最小能力集
// 实现可以随时丢数据、随时不可用；所有读方必须能退化到直查数据库，
// 所有写方把失败当 Warn 日志处理，绝不让缓存故障打断请求
type CacheStore interface {
	Get(key string) (string, bool, error)
	Set(key string, value any, ttl time.Duration) error
	Del(keys ...string) error
	DelByPrefix(prefix string) error
}

// 各类缓存的 TTL，有界过期窗口
const (
	ttlCommunitySlug = 10 * time.Minute
	ttlCounter       = 5 * time.Minute
	ttlMembership    = 5 * time.Minute
	ttlPostPermAllow = 5 * time.Minute
	ttlPostPermDeny  = time.Minute // 拒绝结果缓存得短，审批通过后尽快放行
	ttlViewerSets    = 3 * time.Minute
	ttlRecentPosts   = 10 * time.Minute
)

// 包级协作对象，main 启动时经 Init 装配
var (
	cache     CacheStore
	authority *Authority
	bus       *Bus
	filter    *Filter
)

// Init 装配 logic 层：缓存存取、成员鉴权、失效总线、可见性过滤器
// 必须在 dao 层初始化之后调用
func Init(store CacheStore) {
	cache = store
	authority = NewAuthority(store)
	bus = NewBus(store)
	filter = NewFilter(store)
}
