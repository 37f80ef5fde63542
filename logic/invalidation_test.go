package logic

import (
	"errors"
	"testing"

	"unihub/dao/redis"
)

func TestMembershipChangedKeySet(t *testing.T) {
	store := newFakeStore()
	b := NewBus(store)

	b.MembershipChanged(100, 7, "gophers")

	wantKeys := []string{
		redis.KeyMembershipStatus(100, 7),
		redis.KeyPostCreationPerm(100, 7),
		redis.KeyUserMemberships(7),
		redis.KeyUserAdminMemberships(7),
		redis.KeyCounter("community", "member_count", 100),
		redis.KeyCommunityBySlug("gophers"),
	}
	for _, k := range wantKeys {
		if !store.deleted(k) {
			t.Errorf("成员变更后应删除 %s", k)
		}
	}
	if len(store.prefixes) != 1 || store.prefixes[0] != redis.PrefixPostList(100) {
		t.Errorf("应按前缀删除帖子列表缓存, got %v", store.prefixes)
	}
}

func TestCommunityUpdatedSlugChange(t *testing.T) {
	store := newFakeStore()
	b := NewBus(store)

	b.CommunityUpdated(100, "old-name", "new-name")

	if !store.deleted(redis.KeyCommunityBySlug("old-name")) {
		t.Error("改名后旧 slug 条目应被删除")
	}
	if !store.deleted(redis.KeyCommunityBySlug("new-name")) {
		t.Error("新 slug 条目也应被删除")
	}
}

func TestCommunityUpdatedSameSlug(t *testing.T) {
	store := newFakeStore()
	b := NewBus(store)

	b.CommunityUpdated(100, "gophers", "gophers")

	n := 0
	for _, k := range store.delKeys {
		if k == redis.KeyCommunityBySlug("gophers") {
			n++
		}
	}
	if n != 1 {
		t.Errorf("slug 未变时只应删一次, got %d", n)
	}
}

func TestUpvoteToggledOnlyTouchesOwnCounter(t *testing.T) {
	store := newFakeStore()
	b := NewBus(store)

	b.PostUpvoteToggled(42)

	if len(store.delKeys) != 1 || store.delKeys[0] != redis.KeyCounter("post", "upvote_count", 42) {
		t.Errorf("帖子点赞切换只应弄脏自己的计数, got %v", store.delKeys)
	}
	if len(store.prefixes) != 0 {
		t.Errorf("不应有前缀删除, got %v", store.prefixes)
	}
}

// 删除不存在的 key 是幂等操作，总线也不向上冒错
func TestInvalidationBestEffort(t *testing.T) {
	store := newFakeStore()
	store.delErr = errors.New("redis down")
	b := NewBus(store)

	// 不 panic、不返回错误就算通过
	b.MembershipChanged(100, 7, "gophers")
	b.CommentChanged(42)
	b.ViewerSetsStale(100, 7)
}

func TestDeleteAbsentKeyIdempotent(t *testing.T) {
	store := newFakeStore()
	b := NewBus(store)

	b.CommentChanged(42)
	b.CommentChanged(42)

	if len(store.delKeys) != 2 {
		t.Errorf("重复失效应照常执行, got %v", store.delKeys)
	}
}
