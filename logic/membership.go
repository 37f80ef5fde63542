package logic

import (
	"encoding/json"

	"unihub/dao/mysql"
	"unihub/dao/redis"
	"unihub/models"
	"unihub/pkg/errorx"
	"unihub/pkg/snowflake"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MembershipInfo 一次成员鉴权的结论，JSON 形式进缓存
type MembershipInfo struct {
	IsMember  bool   `json:"is_member"`
	IsCreator bool   `json:"is_creator"`
	Role      string `json:"role,omitempty"`
	Status    string `json:"status,omitempty"`
}

// IsAdmin 展示口径的管理员：admin 角色或创建者
func (i *MembershipInfo) IsAdmin() bool {
	return i != nil && (i.IsCreator || (i.IsMember && i.Role == models.RoleAdmin))
}

// CanAdminister 权限口径的管理员：admin、moderator 或创建者
func (i *MembershipInfo) CanAdminister() bool {
	if i == nil {
		return false
	}
	if i.IsAdmin() {
		return true
	}
	return i.IsMember && i.Role == models.RoleModerator
}

// Authority 成员鉴权中心，回答"用户 X 在社区 Y 是什么身份"
// lookup 可注入、store 可注入，测试不需要数据库和 Redis
type Authority struct {
	store  CacheStore
	lookup func(userID, communityID int64) (*models.Membership, error)
}

func NewAuthority(store CacheStore) *Authority {
	return &Authority{
		store:  store,
		lookup: mysql.GetMembership,
	}
}

// Resolve 解析观察者身份，优先级：
// 1. 创建者无条件是已批准的管理员成员，不依赖任何 Membership 行
// 2. 缓存命中直接用（5 分钟有界过期）
// 3. 直查数据库并回填缓存
// 匿名观察者（userID==0）永远返回"非成员"，不报错
func (a *Authority) Resolve(community *models.Community, userID int64) *MembershipInfo {
	if community == nil || userID == 0 {
		return &MembershipInfo{}
	}
	if community.IsCreator(userID) {
		return &MembershipInfo{
			IsMember:  true,
			IsCreator: true,
			Role:      models.RoleAdmin,
			Status:    models.StatusApproved,
		}
	}

	key := redis.KeyMembershipStatus(community.ID, userID)
	if a.store != nil {
		val, ok, err := a.store.Get(key)
		if err != nil {
			zap.L().Warn("membership cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			info := new(MembershipInfo)
			if jerr := json.Unmarshal([]byte(val), info); jerr == nil {
				return info
			}
			zap.L().Warn("membership cache holds invalid json", zap.String("key", key))
		}
	}

	info := a.resolveFromDB(community.ID, userID)
	if a.store != nil {
		if data, err := json.Marshal(info); err == nil {
			if serr := a.store.Set(key, string(data), ttlMembership); serr != nil {
				zap.L().Warn("membership cache write failed", zap.String("key", key), zap.Error(serr))
			}
		}
	}
	return info
}

// ResolveFresh 绕过缓存的鉴权，单帖可见性判定用它
// 保证刚被移除的成员不会因为缓存里残留的"可见"结论看到内容
func (a *Authority) ResolveFresh(community *models.Community, userID int64) *MembershipInfo {
	if community == nil || userID == 0 {
		return &MembershipInfo{}
	}
	if community.IsCreator(userID) {
		return &MembershipInfo{
			IsMember:  true,
			IsCreator: true,
			Role:      models.RoleAdmin,
			Status:    models.StatusApproved,
		}
	}
	return a.resolveFromDB(community.ID, userID)
}

func (a *Authority) resolveFromDB(communityID, userID int64) *MembershipInfo {
	m, err := a.lookup(userID, communityID)
	if err != nil {
		// 数据库也挂了就按"非成员"处理，宁可少见不可多见
		zap.L().Error("membership lookup failed",
			zap.Int64("community_id", communityID),
			zap.Int64("user_id", userID),
			zap.Error(err))
		return &MembershipInfo{}
	}
	if m == nil {
		return &MembershipInfo{}
	}
	return &MembershipInfo{
		IsMember: m.IsApproved(),
		Role:     m.Role,
		Status:   m.Status,
	}
}

// JoinCommunity 申请加入社区
// 需要审批的社区产出 pending 行，否则直接 approved；
// 被拒绝过的用户可以重新申请（复用原行）
func JoinCommunity(userID, communityID int64) (*models.Membership, error) {
	community, err := mysql.GetCommunityByID(communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, errorx.ErrNotFound
	}
	if community.IsCreator(userID) {
		return nil, errorx.ErrAlreadyMember
	}

	existing, err := mysql.GetMembership(userID, communityID)
	if err != nil {
		return nil, err
	}

	status := models.StatusApproved
	if community.RequiresApproval {
		status = models.StatusPending
	}

	var m *models.Membership
	switch {
	case existing == nil:
		m = &models.Membership{
			ID:          snowflake.GenID(),
			UserID:      userID,
			CommunityID: communityID,
			Role:        models.RoleMember,
			Status:      status,
		}
		if err := mysql.CreateMembership(m); err != nil {
			return nil, err
		}
	case existing.Status == models.StatusApproved:
		return nil, errorx.ErrAlreadyMember
	case existing.Status == models.StatusPending:
		return nil, errorx.ErrPendingApproval
	default: // rejected，允许重新申请
		if err := mysql.UpdateMembershipStatus(existing.ID, status); err != nil {
			return nil, err
		}
		existing.Status = status
		m = existing
	}

	if m.Status == models.StatusApproved {
		if _, err := MemberCounter(communityID, 0).Refresh(cache); err != nil {
			zap.L().Warn("refresh member count failed",
				zap.Int64("community_id", communityID), zap.Error(err))
		}
	}
	bus.MembershipChanged(communityID, userID, community.Slug)
	return m, nil
}

// removesLastAdmin 该成员行失去管理员身份后社区是否会没有管理员
// adminUsers 按 CountAdminUsers 的口径：创建者即便没有自己的 admin 行也计入
func removesLastAdmin(m *models.Membership, adminUsers int64) bool {
	return m != nil && m.Role == models.RoleAdmin && m.IsApproved() && adminUsers <= 1
}

// LeaveCommunity 退出社区
// 创建者不能退出；最后一名管理员退出会破坏"至少一名管理员"不变量，
// 必须在持有社区行锁的事务里判定，并发的两个退出都会撞到同一把锁
func LeaveCommunity(userID, communityID int64) error {
	community, err := mysql.GetCommunityByID(communityID)
	if err != nil {
		return err
	}
	if community == nil {
		return errorx.ErrNotFound
	}
	if community.IsCreator(userID) {
		return errorx.New(errorx.CodePermission, "创建者不能退出自己的社区")
	}

	err = mysql.GetDB().Transaction(func(tx *gorm.DB) error {
		locked, err := mysql.GetCommunityForUpdate(tx, communityID)
		if err != nil {
			return err
		}
		if locked == nil {
			return errorx.ErrNotFound
		}
		m, err := mysql.GetMembershipForUpdate(tx, userID, communityID)
		if err != nil {
			return err
		}
		if m == nil {
			return errorx.ErrNotMember
		}
		admins, err := mysql.CountAdminUsers(tx, communityID, locked.CreatorID)
		if err != nil {
			return err
		}
		if removesLastAdmin(m, admins) {
			return errorx.ErrLastAdmin
		}
		if err := mysql.DeleteMembership(tx, m.ID); err != nil {
			return err
		}
		n, err := mysql.CountApprovedMembers(tx, communityID)
		if err != nil {
			return err
		}
		return mysql.UpdateCommunityMemberCount(tx, communityID, n)
	})
	if err != nil {
		return err
	}

	bus.MembershipChanged(communityID, userID, community.Slug)
	return nil
}

// HandleJoinRequest 审批入社申请，admin/moderator/创建者可操作
func HandleJoinRequest(operatorID, communityID, targetUserID int64, approve bool) error {
	community, err := mysql.GetCommunityByID(communityID)
	if err != nil {
		return err
	}
	if community == nil {
		return errorx.ErrNotFound
	}
	if !authority.Resolve(community, operatorID).CanAdminister() {
		return errorx.ErrPermission
	}

	m, err := mysql.GetMembership(targetUserID, communityID)
	if err != nil {
		return err
	}
	if m == nil || m.Status != models.StatusPending {
		return errorx.ErrNoPendingFound
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}
	if err := mysql.UpdateMembershipStatus(m.ID, status); err != nil {
		return err
	}

	if approve {
		if _, err := MemberCounter(communityID, 0).Refresh(cache); err != nil {
			zap.L().Warn("refresh member count failed",
				zap.Int64("community_id", communityID), zap.Error(err))
		}
	}
	bus.MembershipChanged(communityID, targetUserID, community.Slug)
	return nil
}

// HandleJoinRequests 批量审批，权限只查一次
// 非待审批的目标跳过不报错，返回实际处理的人数
func HandleJoinRequests(operatorID, communityID int64, targetUserIDs []int64, approve bool) (int, error) {
	community, err := mysql.GetCommunityByID(communityID)
	if err != nil {
		return 0, err
	}
	if community == nil {
		return 0, errorx.ErrNotFound
	}
	if !authority.Resolve(community, operatorID).CanAdminister() {
		return 0, errorx.ErrPermission
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}
	handled := 0
	for _, targetUserID := range targetUserIDs {
		m, err := mysql.GetMembership(targetUserID, communityID)
		if err != nil {
			return handled, err
		}
		if m == nil || m.Status != models.StatusPending {
			continue
		}
		if err := mysql.UpdateMembershipStatus(m.ID, status); err != nil {
			return handled, err
		}
		handled++
		bus.MembershipChanged(communityID, targetUserID, community.Slug)
	}

	if approve && handled > 0 {
		if _, err := MemberCounter(communityID, 0).Refresh(cache); err != nil {
			zap.L().Warn("refresh member count failed",
				zap.Int64("community_id", communityID), zap.Error(err))
		}
	}
	return handled, nil
}

// UpdateMemberRole 修改成员角色，仅 admin/创建者可操作
// 把最后一名管理员降级和退出一样会破坏不变量，同样的行锁事务判定
func UpdateMemberRole(operatorID, communityID, targetUserID int64, role string) error {
	if !models.ValidRole(role) {
		return errorx.ErrInvalidRole
	}
	community, err := mysql.GetCommunityByID(communityID)
	if err != nil {
		return err
	}
	if community == nil {
		return errorx.ErrNotFound
	}
	if !authority.Resolve(community, operatorID).IsAdmin() {
		return errorx.ErrPermission
	}
	if community.IsCreator(targetUserID) {
		return errorx.New(errorx.CodePermission, "不能修改创建者的角色")
	}

	err = mysql.GetDB().Transaction(func(tx *gorm.DB) error {
		locked, err := mysql.GetCommunityForUpdate(tx, communityID)
		if err != nil {
			return err
		}
		if locked == nil {
			return errorx.ErrNotFound
		}
		m, err := mysql.GetMembershipForUpdate(tx, targetUserID, communityID)
		if err != nil {
			return err
		}
		if m == nil || !m.IsApproved() {
			return errorx.ErrNotMember
		}
		if role != models.RoleAdmin {
			admins, err := mysql.CountAdminUsers(tx, communityID, locked.CreatorID)
			if err != nil {
				return err
			}
			if removesLastAdmin(m, admins) {
				return errorx.ErrLastAdmin
			}
		}
		return mysql.UpdateMembershipRole(tx, m.ID, role)
	})
	if err != nil {
		return err
	}

	bus.MembershipChanged(communityID, targetUserID, community.Slug)
	return nil
}

// ListMembers 成员列表，任何能看到社区的人都可以看
func ListMembers(viewerID, communityID int64, role string) ([]*models.Membership, error) {
	community, err := mysql.GetCommunityByID(communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, errorx.ErrNotFound
	}
	if community.IsPrivate && !authority.Resolve(community, viewerID).IsMember {
		return nil, errorx.ErrPermission
	}
	return mysql.ListMembers(communityID, role)
}

// ListPendingRequests 待审批申请列表，admin/moderator/创建者可看
func ListPendingRequests(operatorID, communityID int64) ([]*models.Membership, error) {
	community, err := mysql.GetCommunityByID(communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, errorx.ErrNotFound
	}
	if !authority.Resolve(community, operatorID).CanAdminister() {
		return nil, errorx.ErrPermission
	}
	return mysql.ListPendingMembers(communityID)
}
