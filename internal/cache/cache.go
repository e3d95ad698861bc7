// Package cache provides a Redis read-through cache in front of a
// comment.Store.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evcraddock/comment-board/internal/comment"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// Connect creates a Redis client and pings it with a short timeout. It
// returns nil when Addr is empty or the server is unreachable; callers
// should then run without a cache.
func Connect(opts Options) *redis.Client {
	if opts.Addr == "" {
		return nil
	}
	client := redis.NewClient(opts.redisOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, list cache disabled", "addr", opts.Addr, "error", err)
		if cerr := client.Close(); cerr != nil {
			slog.Warn("closing redis client", "error", cerr)
		}
		return nil
	}
	return client
}

// redisOptions maps Options onto the client options. TLS requires 1.2 or
// later and verifies the server name taken from Addr.
func (o Options) redisOptions() *redis.Options {
	ro := &redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	}
	if o.TLS {
		host, _, err := net.SplitHostPort(o.Addr)
		if err != nil {
			host = o.Addr
		}
		ro.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}
	return ro
}

// Store caches ListAll results of the wrapped store in Redis and drops the
// snapshot whenever a comment is inserted. Redis failures never fail a
// call; the wrapped store is used instead.
type Store struct {
	next comment.Store
	rdb  redis.Cmdable
	key  string
	ttl  time.Duration
}

var _ comment.Store = (*Store)(nil)

// New wraps next. If rdb is nil, next is returned unchanged.
func New(next comment.Store, rdb redis.Cmdable, prefix string, ttl time.Duration) comment.Store {
	if rdb == nil {
		return next
	}
	if prefix == "" {
		prefix = "cb"
	}
	return &Store{next: next, rdb: rdb, key: prefix + ":comments:all", ttl: ttl}
}

// Key returns the Redis key holding the list snapshot.
func (s *Store) Key() string {
	return s.key
}

// Insert stores the comment, then invalidates the list snapshot.
func (s *Store) Insert(ctx context.Context, content string) (*comment.Comment, error) {
	c, err := s.next.Insert(ctx, content)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		slog.WarnContext(ctx, "cache invalidate failed", "key", s.key, "error", err)
	}
	return c, nil
}

// ListAll serves from the snapshot when present, otherwise loads from the
// wrapped store and writes a fresh snapshot.
func (s *Store) ListAll(ctx context.Context) ([]*comment.Comment, error) {
	if data, err := s.rdb.Get(ctx, s.key).Bytes(); err == nil {
		var comments []*comment.Comment
		if jerr := json.Unmarshal(data, &comments); jerr == nil && comments != nil {
			return comments, nil
		}
		slog.WarnContext(ctx, "discarding unreadable cache entry", "key", s.key)
	} else if err != redis.Nil {
		slog.WarnContext(ctx, "cache read failed", "key", s.key, "error", err)
	}

	comments, err := s.next.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(comments)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "error", err)
		return comments, nil
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", s.key, "error", err)
	}
	return comments, nil
}
