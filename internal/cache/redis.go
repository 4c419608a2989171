package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisHost   = "127.0.0.1"
	defaultRedisPort   = 6379
	defaultRedisPrefix = "wfp"
)

// Store 带键前缀的 Redis 访问，所有键形如 <prefix>:<key>
type Store struct {
	client *redis.Client
	prefix string
}

var active atomic.Pointer[Store]

// NewStore 基于已有客户端创建 Store
func NewStore(client *redis.Client, prefix string) *Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// InitRedis 按配置创建全局 Store，未启用时清空
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		active.Store(nil)
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultRedisPort
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	active.Store(NewStore(client, cfg.Prefix))
	return nil
}

func current() *Store {
	store := active.Load()
	if store == nil || store.client == nil {
		return nil
	}
	return store
}

// Enabled 是否已启用 Redis
func Enabled() bool {
	return current() != nil
}

// Client 返回底层客户端，未启用时为 nil
func Client() *redis.Client {
	if store := current(); store != nil {
		return store.client
	}
	return nil
}

// Ping 探测连通性，未启用时返回 nil
func Ping(ctx context.Context) error {
	if store := current(); store != nil {
		return store.client.Ping(ctx).Err()
	}
	return nil
}

// Close 关闭全局客户端
func Close() error {
	store := active.Swap(nil)
	if store == nil || store.client == nil {
		return nil
	}
	return store.client.Close()
}

func (s *Store) key(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.prefix
	}
	return s.prefix + ":" + name
}

func (s *Store) getJSON(ctx context.Context, name string, dest interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *Store) setJSON(ctx context.Context, name string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(name), payload, ttl).Err()
}

func (s *Store) del(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.key(name)).Err()
}
