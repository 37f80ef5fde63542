package redis

import (
	"strings"
	"testing"
)

func TestKeyBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"slug", KeyCommunityBySlug("gophers"), "community:slug:gophers"},
		{"counter", KeyCounter("community", "member_count", 100), "community:member_count:100"},
		{"membership", KeyMembershipStatus(100, 7), "membership_status:100:7"},
		{"post_perm", KeyPostCreationPerm(100, 7), "post_creation_permission:100:7"},
		{"memberships", KeyUserMemberships(7), "user_memberships:7"},
		{"admin_memberships", KeyUserAdminMemberships(7), "user_admin_memberships:7"},
		{"recent_posts", KeyCommunityRecentPosts(100), "community:recent_posts:100"},
		{"post_list_prefix", PrefixPostList(100), "post_list:100:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

// 帖子列表的派生缓存必须都落在可前缀删除的命名空间下
func TestPostListKeysShareDeletablePrefix(t *testing.T) {
	prefix := PrefixPostList(100)
	if !strings.HasSuffix(prefix, ":") {
		t.Errorf("前缀应以冒号结尾避免误删 post_list:1001: got %q", prefix)
	}
	other := PrefixPostList(1001)
	if strings.HasPrefix(other, prefix) {
		t.Errorf("不同社区的前缀不应互相包含: %q vs %q", prefix, other)
	}
}

func TestGetRedisKeyNamespace(t *testing.T) {
	if got := getRedisKey("community:slug:x"); got != KeyPrefix+"community:slug:x" {
		t.Errorf("所有 key 应挂在统一命名空间下, got %q", got)
	}
}
