package cache

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/util"
)

// NewCache picks Redis when it is configured and falls back to process memory.
func NewCache(conf *util.ConfigType) Cache {
	ttl := time.Duration(conf.CacheTTLSeconds) * time.Second

	if conf.Redis != nil && conf.Redis.Addr != "" {
		log.WithField("addr", conf.Redis.Addr).Info("using redis list cache")
		return NewRedisCache(conf.Redis, ttl)
	}

	return NewMemoryCache(ttl)
}
