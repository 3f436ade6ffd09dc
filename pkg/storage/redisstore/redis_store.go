package redisstore

import (
	"context"
	"fmt"
	"time"

	"dirsnap/pkg/snapshot"
	"dirsnap/pkg/types"

	"github.com/redis/go-redis/v9"
)

const DefaultKey = "snap:snapshot"

// Store 把快照保存为一个 Redis Hash: field = path, value = digest
type Store struct {
	client *redis.Client
	key    string
}

type Config struct {
	RedisURL string // 标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	Key      string // Hash 的 key，默认 DefaultKey
}

func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithClient(client, cfg.Key), nil
}

// NewWithClient 复用现有客户端
func NewWithClient(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

func (s *Store) Load(ctx context.Context) (snapshot.Snapshot, error) {
	// key 不存在时 HGETALL 返回空 map
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap := snapshot.New()
	for path, digest := range fields {
		snap[path] = types.Digest(digest)
	}
	return snap, nil
}

// Save 用 MULTI/EXEC 保证 DEL + HSET 原子执行
func (s *Store) Save(ctx context.Context, snap snapshot.Snapshot) error {
	values := make(map[string]any, len(snap))
	for path, digest := range snap {
		values[path] = digest.String()
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
