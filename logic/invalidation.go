package logic

import (
	"unihub/dao/redis"
	"unihub/pkg/metrics"

	"go.uber.org/zap"
)

// Bus 失效总线：每种变更对应一个方法，方法体就是这次变更会弄脏的
// 全部缓存 key 清单。删除全部是尽力而为——缓存挂了变更照样算成功，
// 过期窗口由 TTL 兜底
type Bus struct {
	store CacheStore
}

func NewBus(store CacheStore) *Bus {
	return &Bus{store: store}
}

func (b *Bus) del(trigger string, keys ...string) {
	metrics.CacheInvalidation.WithLabelValues(trigger).Inc()
	if err := b.store.Del(keys...); err != nil {
		zap.L().Warn("cache invalidation failed",
			zap.String("trigger", trigger),
			zap.Strings("keys", keys),
			zap.Error(err))
	}
}

func (b *Bus) delPrefix(trigger, prefix string) {
	if err := b.store.DelByPrefix(prefix); err != nil {
		zap.L().Warn("cache prefix invalidation failed",
			zap.String("trigger", trigger),
			zap.String("prefix", prefix),
			zap.Error(err))
	}
}

// MembershipChanged 成员关系创建/审批/删除/改角色之后调用
// 弄脏的内容：该用户在该社区的身份缓存和发帖权限、该用户的两个社区 ID 集合、
// 社区成员数、社区详情（带成员数）、该社区的全部帖子列表派生缓存
func (b *Bus) MembershipChanged(communityID, userID int64, slug string) {
	b.del("membership_changed",
		redis.KeyMembershipStatus(communityID, userID),
		redis.KeyPostCreationPerm(communityID, userID),
		redis.KeyUserMemberships(userID),
		redis.KeyUserAdminMemberships(userID),
		redis.KeyCounter("community", "member_count", communityID),
		redis.KeyCommunityBySlug(slug),
	)
	b.delPrefix("membership_changed", redis.PrefixPostList(communityID))
}

// CommunityUpdated 社区设置变更之后调用
// oldSlug 与新 slug 不同说明改了名，两个 slug 条目都要清
func (b *Bus) CommunityUpdated(communityID int64, oldSlug, newSlug string) {
	keys := []string{redis.KeyCommunityBySlug(newSlug)}
	if oldSlug != "" && oldSlug != newSlug {
		keys = append(keys, redis.KeyCommunityBySlug(oldSlug))
	}
	b.del("community_updated", keys...)
	b.delPrefix("community_updated", redis.PrefixPostList(communityID))
}

// PostChanged 帖子创建/置顶变更之后调用
func (b *Bus) PostChanged(communityID int64) {
	b.del("post_changed",
		redis.KeyCounter("community", "post_count", communityID),
		redis.KeyCommunityRecentPosts(communityID),
	)
	b.delPrefix("post_changed", redis.PrefixPostList(communityID))
}

// CommentChanged 评论创建/删除之后调用，只弄脏该帖子的评论数
func (b *Bus) CommentChanged(postID int64) {
	b.del("comment_changed",
		redis.KeyCounter("post", "comment_count", postID),
	)
}

// PostUpvoteToggled 帖子点赞切换之后调用，只弄脏该帖子的点赞数
func (b *Bus) PostUpvoteToggled(postID int64) {
	b.del("post_upvote_toggled",
		redis.KeyCounter("post", "upvote_count", postID),
	)
}

// CommentUpvoteToggled 评论点赞切换之后调用
func (b *Bus) CommentUpvoteToggled(commentID int64) {
	b.del("comment_upvote_toggled",
		redis.KeyCounter("comment", "upvote_count", commentID),
	)
}

// ViewerSetsStale 观察者的社区 ID 集合被发现过期时调用（可见性过滤器的
// 请求内自愈路径），把两个集合连同身份缓存一起清掉
func (b *Bus) ViewerSetsStale(communityID, userID int64) {
	b.del("viewer_sets_stale",
		redis.KeyUserMemberships(userID),
		redis.KeyUserAdminMemberships(userID),
		redis.KeyMembershipStatus(communityID, userID),
	)
}
