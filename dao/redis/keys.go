package redis

import "fmt"

// 所有 key 挂在统一命名空间下，便于按前缀批量失效
const KeyPrefix = "unihub:"

const (
	KeyUserAccessToken  = "active_access_token:"  // unihub:active_access_token:{uid}
	KeyUserRefreshToken = "active_refresh_token:" // unihub:active_refresh_token:{uid}
)

func getRedisKey(key string) string {
	return KeyPrefix + key
}

// KeyCommunityBySlug 社区 slug 查找缓存，value 为社区 JSON
func KeyCommunityBySlug(slug string) string {
	return fmt.Sprintf("community:slug:%s", slug)
}

// KeyCounter 计数缓存，{entity}:{counter}:{id}
// 例：community:member_count:1001、post:upvote_count:2002
func KeyCounter(entity, counter string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", entity, counter, id)
}

// KeyMembershipStatus 成员身份缓存，value 为 MembershipInfo JSON
func KeyMembershipStatus(communityID, userID int64) string {
	return fmt.Sprintf("membership_status:%d:%d", communityID, userID)
}

// KeyPostCreationPerm 发帖权限缓存，value 为 "allowed"/"denied"
func KeyPostCreationPerm(communityID, userID int64) string {
	return fmt.Sprintf("post_creation_permission:%d:%d", communityID, userID)
}

// KeyUserMemberships 观察者已通过审批的社区 ID 集合（JSON 数组）
func KeyUserMemberships(userID int64) string {
	return fmt.Sprintf("user_memberships:%d", userID)
}

// KeyUserAdminMemberships 观察者担任管理员的社区 ID 集合（JSON 数组）
func KeyUserAdminMemberships(userID int64) string {
	return fmt.Sprintf("user_admin_memberships:%d", userID)
}

// KeyCommunityRecentPosts 社区最近帖子 ID 列表缓存
func KeyCommunityRecentPosts(communityID int64) string {
	return fmt.Sprintf("community:recent_posts:%d", communityID)
}

// PrefixPostList 社区帖子列表派生缓存的前缀，按页/按观察者的条目都挂在下面
func PrefixPostList(communityID int64) string {
	return fmt.Sprintf("post_list:%d:", communityID)
}
