package logic

import (
	"strconv"
	"time"

	"unihub/dao/mysql"
	"unihub/dao/redis"
	"unihub/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// 同一个计数 key 的并发重算只放行一个，其余请求共享结果
var recomputeGroup singleflight.Group

// Counter 一个冗余计数的完整定义：缓存 key、TTL、持久化字段当前值、
// 事实来源重算、持久化回写
// 读路径三段式：持久化字段 > 0 直接信 → 缓存命中直接用 → 重算并双写
type Counter struct {
	Name string // 指标 label，如 community:member_count
	Key  string // 缓存 key
	TTL  time.Duration

	Cached    int64                 // 实体上持久化的计数字段，0 有歧义（可能没算过）
	Recompute func() (int64, error) // 按事实来源关系重新计数
	Persist   func(n int64) error   // 回写持久化字段（非级联更新）
}

// Value 读取计数
// 缓存层任何故障都只记 Warn 并退化到重算，绝不向调用方冒泡
func (c Counter) Value(store CacheStore) (int64, error) {
	if c.Cached > 0 {
		metrics.CounterCacheHit.WithLabelValues(c.Name, "field").Inc()
		return c.Cached, nil
	}

	if store != nil {
		val, ok, err := store.Get(c.Key)
		if err != nil {
			zap.L().Warn("counter cache read failed",
				zap.String("key", c.Key), zap.Error(err))
		} else if ok {
			if n, perr := strconv.ParseInt(val, 10, 64); perr == nil {
				metrics.CounterCacheHit.WithLabelValues(c.Name, "redis").Inc()
				return n, nil
			}
			zap.L().Warn("counter cache holds non-numeric value",
				zap.String("key", c.Key), zap.String("value", val))
		}
	}

	metrics.CounterCacheMiss.WithLabelValues(c.Name).Inc()

	v, err, _ := recomputeGroup.Do(c.Key, func() (any, error) {
		n, err := c.Recompute()
		if err != nil {
			return int64(0), err
		}
		if n < 0 {
			n = 0
		}
		if store != nil {
			if serr := store.Set(c.Key, strconv.FormatInt(n, 10), c.TTL); serr != nil {
				zap.L().Warn("counter cache write-back failed",
					zap.String("key", c.Key), zap.Error(serr))
			}
		}
		// 持久化字段只在不一致时回写
		if c.Persist != nil && n != c.Cached {
			if perr := c.Persist(n); perr != nil {
				zap.L().Warn("counter field write-back failed",
					zap.String("key", c.Key), zap.Error(perr))
			}
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Refresh 变更路径上的收敛：按事实来源重算、回写持久化字段、更新缓存
// 总是整体重算而不是加减一，保证并发切换下最终收敛到正确值
func (c Counter) Refresh(store CacheStore) (int64, error) {
	n, err := c.Recompute()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	if c.Persist != nil {
		if perr := c.Persist(n); perr != nil {
			return 0, perr
		}
	}
	if store != nil {
		if serr := store.Set(c.Key, strconv.FormatInt(n, 10), c.TTL); serr != nil {
			zap.L().Warn("counter cache refresh failed",
				zap.String("key", c.Key), zap.Error(serr))
		}
	}
	return n, nil
}

// MemberCounter 社区成员数
func MemberCounter(communityID, cachedField int64) Counter {
	return Counter{
		Name:   "community:member_count",
		Key:    redis.KeyCounter("community", "member_count", communityID),
		TTL:    ttlCounter,
		Cached: cachedField,
		Recompute: func() (int64, error) {
			return mysql.CountApprovedMembers(nil, communityID)
		},
		Persist: func(n int64) error {
			return mysql.UpdateCommunityMemberCount(nil, communityID, n)
		},
	}
}

// CommunityPostCounter 社区帖子数，只进缓存不落持久化字段
func CommunityPostCounter(communityID int64) Counter {
	return Counter{
		Name: "community:post_count",
		Key:  redis.KeyCounter("community", "post_count", communityID),
		TTL:  ttlCounter,
		Recompute: func() (int64, error) {
			return mysql.CountPostsByCommunity(communityID)
		},
	}
}

// PostUpvoteCounter 帖子点赞数
func PostUpvoteCounter(postID, cachedField int64) Counter {
	return Counter{
		Name:   "post:upvote_count",
		Key:    redis.KeyCounter("post", "upvote_count", postID),
		TTL:    ttlCounter,
		Cached: cachedField,
		Recompute: func() (int64, error) {
			return mysql.CountPostUpvotes(postID)
		},
		Persist: func(n int64) error {
			return mysql.UpdatePostCountCache(postID, "upvote_count_cache", n)
		},
	}
}

// PostCommentCounter 帖子评论数
func PostCommentCounter(postID, cachedField int64) Counter {
	return Counter{
		Name:   "post:comment_count",
		Key:    redis.KeyCounter("post", "comment_count", postID),
		TTL:    ttlCounter,
		Cached: cachedField,
		Recompute: func() (int64, error) {
			return mysql.CountCommentsByPost(postID)
		},
		Persist: func(n int64) error {
			return mysql.UpdatePostCountCache(postID, "comment_count_cache", n)
		},
	}
}

// CommentUpvoteCounter 评论点赞数
func CommentUpvoteCounter(commentID, cachedField int64) Counter {
	return Counter{
		Name:   "comment:upvote_count",
		Key:    redis.KeyCounter("comment", "upvote_count", commentID),
		TTL:    ttlCounter,
		Cached: cachedField,
		Recompute: func() (int64, error) {
			return mysql.CountCommentUpvotes(commentID)
		},
		Persist: func(n int64) error {
			return mysql.UpdateCommentCountCache(commentID, n)
		},
	}
}
