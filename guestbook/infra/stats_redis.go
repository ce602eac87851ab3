package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guestbook-service/guestbook/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava contadores de postagem em hashes do Redis:
//
//	<prefix>:total              outcome -> n (cumulativo, sem TTL)
//	<prefix>:method             METHOD:outcome -> n (cumulativo)
//	<prefix>:minute:<YYYYMMDDhhmm>  outcome -> n (com TTL)
//	<prefix>:client:<ip>        outcome -> n (só com trackClients, com TTL)
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em chaves de série temporal / por cliente.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackClients bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackClients(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackClients = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "guestbook:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	outcome := string(ev.Outcome)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, s.key("total"), outcome, 1)
		if method := strings.ToUpper(strings.TrimSpace(ev.Method)); method != "" {
			pipe.HIncrBy(ctx, s.key("method"), method+":"+outcome, 1)
		}
		if s.bucket == "minute" {
			s.incrExpiring(ctx, pipe, s.key("minute", at.UTC().Format("200601021504")), outcome)
		}
		if ip := strings.TrimSpace(ev.ClientIP); s.trackClients && ip != "" {
			s.incrExpiring(ctx, pipe, s.key("client", ip), outcome)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis stats: %w", err)
	}
	return nil
}

func (s *RedisStatsStore) key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

func (s *RedisStatsStore) incrExpiring(ctx context.Context, pipe redis.Pipeliner, key, field string) {
	pipe.HIncrBy(ctx, key, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
}
