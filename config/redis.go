package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to REDIS_ADDR. It returns nil when Redis is not
// configured or unreachable, and callers run without rate limiting.
func NewRedisClient(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: redis at %s unreachable, rate limiting disabled: %v", cfg.RedisAddr, err)
		client.Close()
		return nil
	}
	log.Println("Successfully connected to redis!")
	return client
}
