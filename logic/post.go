package logic

import (
	"unihub/dao/mysql"
	"unihub/dao/redis"
	"unihub/models"
	"unihub/pkg/errorx"
	"unihub/pkg/snowflake"

	"go.uber.org/zap"
)

const (
	permAllowed = "allowed"
	permDenied  = "denied"
)

// canCreatePost 发帖资格：已批准成员或管理员/创建者
// 结论进缓存，拒绝缓存得比放行短，审批通过后最多一分钟就能发帖
func canCreatePost(community *models.Community, userID int64) bool {
	if userID == 0 {
		return false
	}
	key := redis.KeyPostCreationPerm(community.ID, userID)
	if cache != nil {
		if val, ok, err := cache.Get(key); err == nil && ok {
			return val == permAllowed
		}
	}

	info := authority.ResolveFresh(community, userID)
	allowed := info.IsMember || info.IsAdmin()

	if cache != nil {
		val, ttl := permDenied, ttlPostPermDeny
		if allowed {
			val, ttl = permAllowed, ttlPostPermAllow
		}
		if serr := cache.Set(key, val, ttl); serr != nil {
			zap.L().Warn("post permission cache write failed", zap.String("key", key), zap.Error(serr))
		}
	}
	return allowed
}

// CreatePost 发帖
func CreatePost(userID int64, p *models.ParamCreatePost) (*models.Post, error) {
	visibility := p.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !models.ValidVisibility(visibility) {
		return nil, errorx.ErrInvalidVisible
	}

	community, err := mysql.GetCommunityByID(p.CommunityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, errorx.ErrNotFound
	}
	if !canCreatePost(community, userID) {
		return nil, errorx.ErrPermission
	}

	post := &models.Post{
		ID:          snowflake.GenID(),
		AuthorID:    userID,
		CommunityID: p.CommunityID,
		Title:       p.Title,
		Content:     p.Content,
		Visibility:  visibility,
	}
	if err := mysql.CreatePost(post); err != nil {
		return nil, err
	}

	bus.PostChanged(p.CommunityID)
	return post, nil
}

// GetPostDetail 帖子详情
// 可见性用绕过缓存的实时鉴权判定，刚被移出社区的人立刻看不到；
// 不可见按 NotFound 报，不向外暴露帖子是否存在
func GetPostDetail(viewerID, postID int64) (*models.ApiPostDetail, error) {
	post, err := mysql.GetPostByIDWithPreload(postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.Community == nil {
		return nil, errorx.ErrNotFound
	}

	info := authority.ResolveFresh(post.Community, viewerID)
	if !Visible(info, post.Community.IsPrivate, post.Visibility) {
		return nil, errorx.ErrNotFound
	}
	return assemblePostDetail(post, viewerID)
}

// ListPosts 可见性过滤后的帖子列表，置顶优先、时间倒序
func ListPosts(viewerID int64, p *models.ParamPostList, communityID int64) ([]*models.ApiPostDetail, error) {
	var target *models.Community
	if communityID != 0 {
		var err error
		target, err = mysql.GetCommunityByID(communityID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, errorx.ErrNotFound
		}
	}

	scope, err := filter.Scope(viewerID, target)
	if err != nil {
		return nil, err
	}
	posts, err := mysql.ListPostsScoped(scope, communityID, p.Page, p.Size)
	if err != nil {
		return nil, err
	}

	list := make([]*models.ApiPostDetail, 0, len(posts))
	for _, post := range posts {
		detail, err := assemblePostDetail(post, viewerID)
		if err != nil {
			return nil, err
		}
		list = append(list, detail)
	}
	return list, nil
}

func assemblePostDetail(post *models.Post, viewerID int64) (*models.ApiPostDetail, error) {
	upvotes, err := PostUpvoteCounter(post.ID, post.UpvoteCountCache).Value(cache)
	if err != nil {
		return nil, err
	}
	comments, err := PostCommentCounter(post.ID, post.CommentCountCache).Value(cache)
	if err != nil {
		return nil, err
	}

	detail := &models.ApiPostDetail{
		Post:         post,
		UpvoteCount:  upvotes,
		CommentCount: comments,
	}
	if post.Author != nil {
		detail.AuthorName = post.Author.Username
	}
	if viewerID != 0 {
		upvoted, err := mysql.HasPostUpvote(post.ID, viewerID)
		if err != nil {
			return nil, err
		}
		detail.Upvoted = upvoted
	}
	return detail, nil
}

// TogglePin 置顶/取消置顶，admin/moderator/创建者可操作
func TogglePin(operatorID, postID int64, pinned bool) error {
	post, err := mysql.GetPostByIDWithPreload(postID)
	if err != nil {
		return err
	}
	if post == nil || post.Community == nil {
		return errorx.ErrNotFound
	}
	if !authority.Resolve(post.Community, operatorID).CanAdminister() {
		return errorx.ErrPermission
	}
	if err := mysql.SetPostPinned(postID, pinned); err != nil {
		return err
	}
	bus.PostChanged(post.CommunityID)
	return nil
}
