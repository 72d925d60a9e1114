package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/util"
)

const defaultKeyPrefix = "trailfeathers:"

// RedisCache is a Redis-backed implementation of Cache. Several server
// processes can share it so an invalidation on one is seen by all.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisCache(conf *util.RedisConfig, ttl time.Duration) *RedisCache {
	var redisTLS *tls.Config
	var addr string
	var dbNum int
	var pass string
	var user string

	if conf != nil {
		addr = conf.Addr
		dbNum = conf.DB
		pass = conf.Pass
		user = conf.User
		if conf.TLS {
			redisTLS = &tls.Config{InsecureSkipVerify: conf.TLSSkipVerify}
		}
	}

	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		DB:        dbNum,
		Password:  pass,
		Username:  user,
		TLSConfig: redisTLS,
	})

	return &RedisCache{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisCache) key(parts ...string) string {
	p := c.keyPrefix
	if p != "" && !strings.HasSuffix(p, ":") {
		p += ":"
	}
	return p + strings.Join(parts, ":")
}

// Ping checks that the Redis server is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("redis cache get failed")
		return nil, false
	}
	return b, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if c.ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("redis cache set failed")
	}
}

func (c *RedisCache) genKey(key string) string {
	return c.key("gen", key)
}

func (c *RedisCache) Generation(ctx context.Context, key string) int64 {
	gen, err := c.client.Get(ctx, c.genKey(key)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.WithError(err).WithField("key", key).Warn("redis cache generation read failed")
		return -1
	}
	return gen
}

// Fill writes value under WATCH on the generation key, so a Delete from any
// process between Generation and Fill aborts the write.
func (c *RedisCache) Fill(ctx context.Context, key string, generation int64, value []byte) bool {
	if c.ttl <= 0 || generation < 0 {
		return false
	}

	stored := false
	genKey := c.genKey(key)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		gen, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if gen != generation {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(key), value, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)

	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		log.WithError(err).WithField("key", key).Warn("redis cache fill failed")
	}

	return stored
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Del(ctx, c.key(k))
			pipe.Incr(ctx, c.genKey(k))
		}
		return nil
	})

	if err != nil {
		log.WithError(err).WithField("keys", keys).Error("redis cache delete failed")
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
