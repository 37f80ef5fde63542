package models

// ParamSignUp 注册请求参数
type ParamSignUp struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Password   string `json:"password" binding:"required,min=6"`
	RePassword string `json:"re_password" binding:"required,eqfield=Password"`
}

// ParamLogin 登录请求参数
type ParamLogin struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ParamCreateCommunity 创建社区
type ParamCreateCommunity struct {
	Name             string `json:"name" binding:"required,max=128"`
	Description      string `json:"description" binding:"required"`
	Rules            string `json:"rules"`
	IsPrivate        bool   `json:"is_private"`
	RequiresApproval bool   `json:"requires_approval"`
}

// ParamUpdateCommunity 更新社区设置（带行锁的受控更新）
// 指针字段用于区分"没传"和"传了零值"，只有传了的字段才会被更新
type ParamUpdateCommunity struct {
	Name             *string `json:"name" binding:"omitempty,max=128"`
	Description      *string `json:"description"`
	Rules            *string `json:"rules"`
	IsPrivate        *bool   `json:"is_private"`
	RequiresApproval *bool   `json:"requires_approval"`
}

// ParamCreatePost 创建帖子
type ParamCreatePost struct {
	Title       string `json:"title" binding:"required,max=255"`
	Content     string `json:"content" binding:"required"`
	CommunityID int64  `json:"community_id,string" binding:"required"`
	Visibility  string `json:"visibility" binding:"omitempty,oneof=public members admin"`
}

// ParamCreateComment 发表评论
// ParentID 传了就是回复，只允许回复顶层评论（一层嵌套）
type ParamCreateComment struct {
	PostID   int64  `json:"post_id,string" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ParentID *int64 `json:"parent_id,string"`
}

// ParamUpdateRole 修改成员角色
type ParamUpdateRole struct {
	UserID int64  `json:"user_id,string" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=member moderator admin"`
}

// ParamHandleRequest 审批入社申请
type ParamHandleRequest struct {
	UserID  int64 `json:"user_id,string" binding:"required"`
	Approve *bool `json:"approve" binding:"required"`
}

// ParamHandleRequestsBulk 批量审批
type ParamHandleRequestsBulk struct {
	UserIDs []int64 `json:"user_ids" binding:"required,min=1,max=100"`
	Approve *bool   `json:"approve" binding:"required"`
}

// ParamInvite 邀请加入社区
type ParamInvite struct {
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message"`
}

// ParamPostList 帖子列表的分页参数
type ParamPostList struct {
	Page int64 `json:"page" form:"page"`
	Size int64 `json:"size" form:"size"`
}
