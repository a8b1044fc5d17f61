package store

import (
	"context"
	"errors"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/pdrpinto/navmesh2d/navdata"
)

const redisKeyPrefix = "navmesh2d:asset:"

// RedisStore keeps each asset under one string key.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to a single node, or to a cluster when the address
// list holds several comma separated hosts.
func NewRedisStore(ctx context.Context, url, password string) (*RedisStore, error) {
	addr := strings.TrimPrefix(url, "redis://")
	var client redis.UniversalClient
	if strings.Contains(addr, ",") {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        strings.Split(addr, ","),
			Password:     password,
			PoolSize:     10,
			MinIdleConns: 1,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           0,
			PoolSize:     10,
			MinIdleConns: 1,
		})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, data *navdata.NavMeshData) error {
	raw, err := navdata.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+name, raw, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context, name string) (*navdata.NavMeshData, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(name)
		}
		return nil, err
	}
	return navdata.Unmarshal(raw)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
