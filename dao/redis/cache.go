package redis

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 缓存层对上层的约定：值一律是 JSON 或十进制字符串，
// 不持久化任何序列化技术绑定的对象图；缓存可能为空、可能过期，读方必须能兜底

// Get 读取缓存，第二个返回值表示是否命中
func Get(key string) (string, bool, error) {
	val, err := rdb.Get(ctx, getRedisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get %s failed: %w", key, err)
	}
	return val, true, nil
}

// Set 带 TTL 写入缓存
func Set(key string, value any, ttl time.Duration) error {
	if err := rdb.Set(ctx, getRedisKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s failed: %w", key, err)
	}
	return nil
}

// Del 删除若干 key，key 不存在时也是成功（幂等）
func Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, getRedisKey(k))
	}
	if err := rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("cache del failed: %w", err)
	}
	return nil
}

// DelByPrefix 按前缀批量删除派生缓存
// 用 SCAN 而不是 KEYS，避免大键空间下阻塞 Redis
func DelByPrefix(prefix string) error {
	pattern := getRedisKey(prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return fmt.Errorf("cache scan %s failed: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache del by prefix %s failed: %w", pattern, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// store 把包级函数适配成 logic 层的 CacheStore 接口
type store struct{}

func (store) Get(key string) (string, bool, error)           { return Get(key) }
func (store) Set(key string, v any, ttl time.Duration) error { return Set(key, v, ttl) }
func (store) Del(keys ...string) error                       { return Del(keys...) }
func (store) DelByPrefix(prefix string) error                { return DelByPrefix(prefix) }

// Store 返回挂在全局客户端上的缓存存取实现
func Store() interface {
	Get(key string) (string, bool, error)
	Set(key string, value any, ttl time.Duration) error
	Del(keys ...string) error
	DelByPrefix(prefix string) error
} {
	return store{}
}
