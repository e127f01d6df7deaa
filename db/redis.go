package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const snapshotKey = "saasradar:news:snapshot"

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		fmt.Println("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// SnapshotStore persists the aggregator snapshot so a restarted process can
// serve news before its first refresh completes.
type SnapshotStore struct {
	TTL time.Duration
}

func (s *SnapshotStore) Save(data []byte) error {
	return Redis.Set(Ctx, snapshotKey, data, s.TTL).Err()
}

func (s *SnapshotStore) Load() ([]byte, error) {
	data, err := Redis.Get(Ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
