package middlewares

import (
	"strings"
	"sync"
	"time"

	"unihub/controller"
	"unihub/dao/redis"
	"unihub/pkg/errorx"
	"unihub/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// tokenCache 本地 Token 缓存，减少单点登录校验打到 Redis 的次数
type tokenCache struct {
	sync.RWMutex
	cache map[int64]*cacheEntry
}

type cacheEntry struct {
	token      string
	expireTime time.Time
}

var (
	localCache = &tokenCache{
		cache: make(map[int64]*cacheEntry),
	}
	cacheExpireDuration = 5 * time.Minute
)

func init() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cleanExpiredCache()
		}
	}()
}

func cleanExpiredCache() {
	localCache.Lock()
	defer localCache.Unlock()
	now := time.Now()
	for userID, entry := range localCache.cache {
		if now.After(entry.expireTime) {
			delete(localCache.cache, userID)
		}
	}
}

func getTokenFromCache(userID int64) (string, bool) {
	localCache.RLock()
	defer localCache.RUnlock()
	entry, exists := localCache.cache[userID]
	if !exists || time.Now().After(entry.expireTime) {
		return "", false
	}
	return entry.token, true
}

func setTokenToCache(userID int64, token string) {
	localCache.Lock()
	defer localCache.Unlock()
	localCache.cache[userID] = &cacheEntry{
		token:      token,
		expireTime: time.Now().Add(cacheExpireDuration),
	}
}

// bearerUserID 解析 Authorization header，成功返回 userID
func bearerUserID(c *gin.Context) (int64, string, *errorx.CodeError) {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader == "" {
		return 0, "", errorx.ErrNeedLogin
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "", errorx.ErrInvalidToken
	}
	mc, err := jwt.ParseToken(parts[1])
	if err != nil {
		return 0, "", errorx.ErrInvalidToken
	}
	return mc.UserID, parts[1], nil
}

// JWTAuthMiddleware 必须登录的接口用
// 单点登录校验走降级模式：本地缓存优先，Redis 不可用时只认 JWT 本身
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, token, cerr := bearerUserID(c)
		if cerr != nil {
			controller.ResponseError(c, cerr)
			c.Abort()
			return
		}
		if !validateTokenWithFallback(c, userID, token) {
			return
		}
		c.Set(controller.CtxUserIDKey, userID)
		c.Next()
	}
}

// JWTAuthOptional 可匿名访问的读接口用
// 带合法 Token 就解析出观察者身份，不带或无效就按匿名放行
func JWTAuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, _, cerr := bearerUserID(c); cerr == nil {
			c.Set(controller.CtxUserIDKey, userID)
		}
		c.Next()
	}
}

// validateTokenWithFallback 返回 false 时已写响应并 Abort
func validateTokenWithFallback(c *gin.Context, userID int64, token string) bool {
	if cachedToken, exists := getTokenFromCache(userID); exists && cachedToken == token {
		return true
	}

	redisToken, err := redis.GetUserAccessToken(userID)
	if err != nil {
		// Redis 不可用降级：JWT 本身已验证通过，放行
		zap.L().Warn("redis token check failed, fallback to jwt only",
			zap.Int64("user_id", userID), zap.Error(err))
		return true
	}
	if token != redisToken {
		controller.ResponseErrorWithMsg(c, errorx.CodeInvalidToken, "账号已在其他设备登录")
		c.Abort()
		return false
	}

	setTokenToCache(userID, token)
	return true
}
