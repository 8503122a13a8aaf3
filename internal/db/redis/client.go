// Package redis implements db.Store on Redis Stack (RedisJSON + RediSearch) via rueidis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/devcamper/internal/db"
)

var _ db.Store = (*Store)(nil)

const clientName = "devcamper"

// Config holds connection parameters.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Store is the Redis Stack backed db.Store.
type Store struct {
	client rueidis.Client
}

// NewStore connects to Redis Stack. The connection is lazy; use WaitForReady to block until it answers.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: cfg.Addrs,
		Username:    cfg.Username,
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
		ClientName:  clientName,
		Dialer:      net.Dialer{Timeout: cfg.DialTimeout},
		// Listings always read fresh documents; FT replies are parsed as RESP2 arrays.
		DisableCache: true,
		AlwaysRESP2:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis client: %w", err)
	}

	return &Store{client: client}, nil
}

// Ping checks connectivity. Used by the health check and WaitForReady.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings until the store answers or timeout expires.
// On timeout the last ping error is reported alongside the deadline.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var last error
	for {
		if last = s.Ping(ctx); last == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis not ready after %s: %w", timeout, errors.Join(ctx.Err(), last))
		case <-ticker.C:
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// isRedisErr reports whether err is a server error whose message contains substr, case-insensitively.
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
