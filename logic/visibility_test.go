package logic

import (
	"testing"

	"unihub/models"
)

// 判定表全量用例：观察者状态 × 社区私密性 × 帖子可见性
func TestVisible(t *testing.T) {
	anonymous := &MembershipInfo{}
	nonMember := &MembershipInfo{}
	member := &MembershipInfo{IsMember: true, Role: models.RoleMember, Status: models.StatusApproved}
	moderator := &MembershipInfo{IsMember: true, Role: models.RoleModerator, Status: models.StatusApproved}
	admin := &MembershipInfo{IsMember: true, Role: models.RoleAdmin, Status: models.StatusApproved}
	creator := &MembershipInfo{IsMember: true, IsCreator: true, Role: models.RoleAdmin, Status: models.StatusApproved}

	tests := []struct {
		name       string
		info       *MembershipInfo
		private    bool
		visibility string
		want       bool
	}{
		{"匿名-公开社区-public", anonymous, false, models.VisibilityPublic, true},
		{"匿名-公开社区-members", anonymous, false, models.VisibilityMembers, false},
		{"匿名-公开社区-admin", anonymous, false, models.VisibilityAdmin, false},
		{"匿名-私密社区-public", anonymous, true, models.VisibilityPublic, false},
		{"匿名-私密社区-members", anonymous, true, models.VisibilityMembers, false},
		{"匿名-私密社区-admin", anonymous, true, models.VisibilityAdmin, false},

		{"非成员-公开社区-public", nonMember, false, models.VisibilityPublic, true},
		{"非成员-公开社区-members", nonMember, false, models.VisibilityMembers, false},
		{"非成员-私密社区-public", nonMember, true, models.VisibilityPublic, false},

		{"成员-公开社区-public", member, false, models.VisibilityPublic, true},
		{"成员-公开社区-members", member, false, models.VisibilityMembers, true},
		{"成员-私密社区-members", member, true, models.VisibilityMembers, true},
		{"成员-公开社区-admin", member, false, models.VisibilityAdmin, false},
		{"成员-私密社区-admin", member, true, models.VisibilityAdmin, false},

		// moderator 有管理权限但展示口径不是 admin，admin 帖不可见
		{"moderator-公开社区-admin", moderator, false, models.VisibilityAdmin, false},
		{"moderator-私密社区-members", moderator, true, models.VisibilityMembers, true},

		{"admin-公开社区-admin", admin, false, models.VisibilityAdmin, true},
		{"admin-私密社区-admin", admin, true, models.VisibilityAdmin, true},
		{"创建者-私密社区-admin", creator, true, models.VisibilityAdmin, true},
		{"创建者-私密社区-public", creator, true, models.VisibilityPublic, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(tt.info, tt.private, tt.visibility); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleNilInfo(t *testing.T) {
	if !Visible(nil, false, models.VisibilityPublic) {
		t.Error("nil info 应按匿名处理，公开社区 public 帖可见")
	}
	if Visible(nil, true, models.VisibilityPublic) {
		t.Error("nil info 不应看到私密社区的帖子")
	}
}

// 谓词与判定表一致性：对每种观察者关系构造对应的 ID 集合，
// 按子句语义逐行求值，结论必须与 Visible 完全一致
func TestVisibilityClauseMatchesDecisionTable(t *testing.T) {
	const communityID int64 = 42

	relations := []struct {
		name      string
		info      *MembershipInfo
		memberIDs []int64
		adminIDs  []int64
	}{
		{"匿名", nil, nil, nil},
		{"非成员", &MembershipInfo{}, nil, nil},
		{"成员", &MembershipInfo{IsMember: true, Role: models.RoleMember, Status: models.StatusApproved},
			[]int64{communityID}, nil},
		{"管理员", &MembershipInfo{IsMember: true, Role: models.RoleAdmin, Status: models.StatusApproved},
			[]int64{communityID}, []int64{communityID}},
		{"创建者", &MembershipInfo{IsMember: true, IsCreator: true, Role: models.RoleAdmin, Status: models.StatusApproved},
			[]int64{communityID}, []int64{communityID}},
	}
	visibilities := []string{models.VisibilityPublic, models.VisibilityMembers, models.VisibilityAdmin}

	// 与 visibilityClause 生成的 SQL 等价的行级求值
	clauseAllows := func(memberIDs, adminIDs []int64, private bool, visibility string) bool {
		if !private && visibility == models.VisibilityPublic {
			return true
		}
		if containsID(memberIDs, communityID) &&
			(visibility == models.VisibilityPublic || visibility == models.VisibilityMembers) {
			return true
		}
		return containsID(adminIDs, communityID)
	}

	for _, rel := range relations {
		for _, private := range []bool{false, true} {
			for _, vis := range visibilities {
				want := Visible(rel.info, private, vis)
				got := clauseAllows(rel.memberIDs, rel.adminIDs, private, vis)
				if got != want {
					t.Errorf("%s private=%v visibility=%s: 子句=%v 判定表=%v",
						rel.name, private, vis, got, want)
				}
			}
		}
	}
}

func TestVisibilityClauseOmitsEmptySets(t *testing.T) {
	cond, args := visibilityClause(nil, nil)
	if cond != "(community.is_private = ? AND post.visibility = ?)" {
		t.Errorf("空集合不应产生 IN 子句: %s", cond)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}

	cond, args = visibilityClause([]int64{1}, []int64{2})
	if len(args) != 5 {
		t.Errorf("全量子句应有 5 个参数: %v", args)
	}
	if cond != "(community.is_private = ? AND post.visibility = ?)"+
		" OR (post.community_id IN ? AND post.visibility IN ?)"+
		" OR post.community_id IN ?" {
		t.Errorf("cond = %s", cond)
	}
}

func newTestFilter(store CacheStore, memberIDs, adminIDs []int64) *Filter {
	return &Filter{
		store:      store,
		listMember: func(int64) ([]int64, error) { return memberIDs, nil },
		listAdmin:  func(int64) ([]int64, error) { return adminIDs, nil },
	}
}

func TestViewerSetsCachedAndWrittenBack(t *testing.T) {
	store := newFakeStore()
	f := newTestFilter(store, []int64{101, 102}, []int64{101})

	memberIDs, adminIDs, err := f.viewerSets(7)
	if err != nil {
		t.Fatalf("viewerSets() error = %v", err)
	}
	if len(memberIDs) != 2 || len(adminIDs) != 1 {
		t.Fatalf("viewerSets() = %v, %v", memberIDs, adminIDs)
	}

	// 第二次读应命中缓存，数据库函数换成报错版也不会被调用
	f.listMember = func(int64) ([]int64, error) { t.Fatal("不应回源"); return nil, nil }
	f.listAdmin = func(int64) ([]int64, error) { t.Fatal("不应回源"); return nil, nil }
	memberIDs, adminIDs, err = f.viewerSets(7)
	if err != nil {
		t.Fatalf("viewerSets() second read error = %v", err)
	}
	if len(memberIDs) != 2 || len(adminIDs) != 1 {
		t.Fatalf("cached viewerSets() = %v, %v", memberIDs, adminIDs)
	}
}

func TestViewerSetsIncludeCreatedCommunities(t *testing.T) {
	// 创建者没有成员行，自建社区 ID 要并进两个集合
	f := newTestFilter(newFakeStore(), []int64{101}, nil)
	f.listCreated = func(int64) ([]int64, error) { return []int64{200}, nil }

	memberIDs, adminIDs, err := f.viewerSets(7)
	if err != nil {
		t.Fatalf("viewerSets() error = %v", err)
	}
	if !containsID(memberIDs, 200) || !containsID(adminIDs, 200) {
		t.Errorf("自建社区应同时出现在成员集和管理集: %v %v", memberIDs, adminIDs)
	}
	if !containsID(memberIDs, 101) {
		t.Errorf("普通成员关系不应丢失: %v", memberIDs)
	}
}

func TestReconcilePrunesStaleMembership(t *testing.T) {
	pruned := false
	f := &Filter{
		store: newFakeStore(),
		fresh: func(*models.Community, int64) *MembershipInfo {
			return &MembershipInfo{} // 实时结论：已不是成员
		},
		prune: func(communityID, userID int64) { pruned = true },
	}
	target := &models.Community{ID: 55}

	memberIDs, adminIDs := f.reconcile(7, target, []int64{55, 60}, []int64{55})
	if !pruned {
		t.Error("缓存与实时结论不一致时应触发剪除")
	}
	if containsID(memberIDs, 55) || containsID(adminIDs, 55) {
		t.Errorf("过期的社区 ID 应从本次请求的集合中移除: %v %v", memberIDs, adminIDs)
	}
	if !containsID(memberIDs, 60) {
		t.Error("其他社区的条目不应被误删")
	}
}

func TestReconcileAddsCreatorCommunity(t *testing.T) {
	pruned := false
	f := &Filter{
		store: newFakeStore(),
		fresh: func(*models.Community, int64) *MembershipInfo {
			return &MembershipInfo{
				IsMember: true, IsCreator: true,
				Role: models.RoleAdmin, Status: models.StatusApproved,
			}
		},
		prune: func(int64, int64) { pruned = true },
	}
	target := &models.Community{ID: 55, CreatorID: 7}

	memberIDs, adminIDs := f.reconcile(7, target, nil, nil)
	if !containsID(memberIDs, 55) || !containsID(adminIDs, 55) {
		t.Errorf("创建者的社区应补进集合: %v %v", memberIDs, adminIDs)
	}
	// 创建者不落行，集合缺它不算缓存过期
	if pruned {
		t.Error("创建者路径不应触发剪除")
	}
}

func TestReconcileConsistentNoop(t *testing.T) {
	f := &Filter{
		store: newFakeStore(),
		fresh: func(*models.Community, int64) *MembershipInfo {
			return &MembershipInfo{IsMember: true, Role: models.RoleMember, Status: models.StatusApproved}
		},
		prune: func(int64, int64) { panic("一致时不该剪除") },
	}
	target := &models.Community{ID: 55}

	memberIDs, adminIDs := f.reconcile(7, target, []int64{55}, nil)
	if !containsID(memberIDs, 55) || len(adminIDs) != 0 {
		t.Errorf("一致时集合不应变化: %v %v", memberIDs, adminIDs)
	}
}
