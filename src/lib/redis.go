package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// KVGet reads a JSON value from the key-value store into out. Returns false
// when the key is absent.
func KVGet(ctx context.Context, key string, out any) (bool, error) {
	rd := GetRedisClient()
	val, err := rd.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false, fmt.Errorf("error decoding value for key %s: %s", key, err.Error())
	}
	return true, nil
}

// KVSet writes a JSON value to the key-value store. A zero ttl keeps the key
// forever.
func KVSet(ctx context.Context, key string, value any, ttl time.Duration) error {
	rd := GetRedisClient()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rd.Set(ctx, key, string(b), ttl).Err()
}
