package logic

import (
	"encoding/json"
	"errors"
	"testing"

	"unihub/dao/redis"
	"unihub/models"
)

func testAuthority(store CacheStore, lookup func(userID, communityID int64) (*models.Membership, error)) *Authority {
	return &Authority{store: store, lookup: lookup}
}

func noLookup(t *testing.T) func(int64, int64) (*models.Membership, error) {
	return func(int64, int64) (*models.Membership, error) {
		t.Fatal("不应查库")
		return nil, nil
	}
}

// 创建者没有 Membership 行也必须解析为已批准的管理员成员
func TestResolveCreatorFallback(t *testing.T) {
	a := testAuthority(newFakeStore(), noLookup(t))
	community := &models.Community{ID: 100, CreatorID: 7}

	info := a.Resolve(community, 7)
	if !info.IsMember || !info.IsCreator || !info.IsAdmin() {
		t.Errorf("创建者应解析为管理员成员: %+v", info)
	}
	if info.Role != models.RoleAdmin || info.Status != models.StatusApproved {
		t.Errorf("创建者的角色/状态应为 admin/approved: %+v", info)
	}
}

func TestResolveAnonymous(t *testing.T) {
	a := testAuthority(newFakeStore(), noLookup(t))
	community := &models.Community{ID: 100, CreatorID: 7}

	info := a.Resolve(community, 0)
	if info.IsMember || info.IsAdmin() || info.CanAdminister() {
		t.Errorf("匿名观察者应解析为非成员: %+v", info)
	}
}

func TestResolveFromDBAndCache(t *testing.T) {
	store := newFakeStore()
	calls := 0
	a := testAuthority(store, func(userID, communityID int64) (*models.Membership, error) {
		calls++
		return &models.Membership{
			UserID: userID, CommunityID: communityID,
			Role: models.RoleModerator, Status: models.StatusApproved,
		}, nil
	})
	community := &models.Community{ID: 100, CreatorID: 1}

	info := a.Resolve(community, 7)
	if !info.IsMember || info.Role != models.RoleModerator {
		t.Fatalf("Resolve() = %+v", info)
	}
	if info.IsAdmin() {
		t.Error("moderator 展示口径不是 admin")
	}
	if !info.CanAdminister() {
		t.Error("moderator 应具备管理权限")
	}

	// 第二次命中缓存，不再查库
	info = a.Resolve(community, 7)
	if calls != 1 {
		t.Errorf("缓存命中后不应再查库, calls = %d", calls)
	}
	if !info.IsMember {
		t.Errorf("缓存结论应与首轮一致: %+v", info)
	}
}

func TestResolvePendingNotMember(t *testing.T) {
	a := testAuthority(newFakeStore(), func(userID, communityID int64) (*models.Membership, error) {
		return &models.Membership{
			UserID: userID, CommunityID: communityID,
			Role: models.RoleMember, Status: models.StatusPending,
		}, nil
	})
	community := &models.Community{ID: 100, CreatorID: 1}

	info := a.Resolve(community, 7)
	if info.IsMember {
		t.Error("pending 状态不算成员")
	}
	if info.Status != models.StatusPending {
		t.Errorf("状态应透出 pending: %+v", info)
	}
}

func TestResolveNoRow(t *testing.T) {
	a := testAuthority(newFakeStore(), func(int64, int64) (*models.Membership, error) {
		return nil, nil
	})
	community := &models.Community{ID: 100, CreatorID: 1}

	info := a.Resolve(community, 7)
	if info.IsMember || info.Role != "" || info.Status != "" {
		t.Errorf("无行应解析为非成员空身份: %+v", info)
	}
}

// 鉴权查库失败按"非成员"处理，宁可少见不可多见
func TestResolveLookupErrorDegrades(t *testing.T) {
	a := testAuthority(newFakeStore(), func(int64, int64) (*models.Membership, error) {
		return nil, errors.New("db down")
	})
	community := &models.Community{ID: 100, CreatorID: 1}

	info := a.Resolve(community, 7)
	if info.IsMember || info.IsAdmin() {
		t.Errorf("查库失败不应给出任何权限: %+v", info)
	}
}

func TestResolveFreshBypassesCache(t *testing.T) {
	store := newFakeStore()
	// 缓存里残留着"是成员"的旧结论
	stale, _ := json.Marshal(&MembershipInfo{IsMember: true, Role: models.RoleMember, Status: models.StatusApproved})
	store.data[redis.KeyMembershipStatus(100, 7)] = string(stale)

	a := testAuthority(store, func(int64, int64) (*models.Membership, error) {
		return nil, nil // 实际已被移除
	})
	community := &models.Community{ID: 100, CreatorID: 1}

	if info := a.Resolve(community, 7); !info.IsMember {
		t.Fatal("前置条件：缓存路径应返回旧结论")
	}
	if info := a.ResolveFresh(community, 7); info.IsMember {
		t.Errorf("ResolveFresh 必须绕过缓存: %+v", info)
	}
}

func TestResolveStoreFailureFallsThrough(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")

	a := testAuthority(store, func(int64, int64) (*models.Membership, error) {
		return &models.Membership{Role: models.RoleAdmin, Status: models.StatusApproved}, nil
	})
	community := &models.Community{ID: 100, CreatorID: 1}

	info := a.Resolve(community, 7)
	if !info.IsMember || !info.IsAdmin() {
		t.Errorf("缓存不可用应退化到直查: %+v", info)
	}
}

func TestMembershipInfoNilReceiver(t *testing.T) {
	var info *MembershipInfo
	if info.IsAdmin() || info.CanAdminister() {
		t.Error("nil 身份不应有任何权限")
	}
}

func TestRemovesLastAdmin(t *testing.T) {
	admin := &models.Membership{Role: models.RoleAdmin, Status: models.StatusApproved}
	member := &models.Membership{Role: models.RoleMember, Status: models.StatusApproved}
	pendingAdmin := &models.Membership{Role: models.RoleAdmin, Status: models.StatusPending}

	tests := []struct {
		name       string
		m          *models.Membership
		adminUsers int64
		want       bool
	}{
		// 创建者没有显式 admin 行时计数里已含创建者，
		// 所以唯一一条显式 admin 行退出时 adminUsers 至少是 2
		{"唯一管理员退出", admin, 1, true},
		{"尚有其他管理员", admin, 2, false},
		{"创建者兜底计入后退出", admin, 2, false},
		{"普通成员退出", member, 1, false},
		{"待审批的admin行不算管理员", pendingAdmin, 1, false},
		{"无成员行", nil, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removesLastAdmin(tt.m, tt.adminUsers); got != tt.want {
				t.Errorf("removesLastAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}
