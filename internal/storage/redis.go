package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/example/wordkeeper/internal/logger"
)

const defaultRedisPrefix = "wordkeeper:"

// RedisStore keeps values in Redis under a key prefix and broadcasts
// change events on a channel so every process sharing the data can refresh.
type RedisStore struct {
	*Broker

	log     *logger.Logger
	rdb     *goredis.Client
	prefix  string
	channel string
	origin  string
}

var (
	_ Store   = (*RedisStore)(nil)
	_ Swapper = (*RedisStore)(nil)
	_ Watcher = (*RedisStore)(nil)
)

type redisEvent struct {
	Origin string      `json:"origin"`
	Event  ChangeEvent `json:"event"`
}

// NewRedisStore connects to addr and verifies the connection
func NewRedisStore(ctx context.Context, log *logger.Logger, addr, channel string) (*RedisStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if channel == "" {
		channel = "wordkeeper:changes"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		Broker:  NewBroker(),
		log:     log.With("service", "RedisStore"),
		rdb:     rdb,
		prefix:  defaultRedisPrefix,
		channel: channel,
		origin:  uuid.NewString(),
	}, nil
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	var getCmd *goredis.StringCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		getCmd = pipe.Get(ctx, s.key(key))
		pipe.Set(ctx, s.key(key), value, 0)
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	old, _ := getCmd.Bytes()
	s.publish(ctx, ChangeEvent{Key: key, OldValue: old, NewValue: value})
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	old, err := s.rdb.GetDel(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis remove %s: %w", key, err)
	}
	s.publish(ctx, ChangeEvent{Key: key, OldValue: old})
	return nil
}

// Clear deletes every key under the store prefix
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		for _, k := range keys {
			old, err := s.rdb.GetDel(ctx, k).Bytes()
			if errors.Is(err, goredis.Nil) {
				continue
			}
			if err != nil {
				return fmt.Errorf("redis clear %s: %w", k, err)
			}
			s.publish(ctx, ChangeEvent{Key: k[len(s.prefix):], OldValue: old})
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// CompareAndSwap uses WATCH/MULTI so a concurrent writer aborts the swap
func (s *RedisStore) CompareAndSwap(ctx context.Context, key string, old, next []byte) (bool, error) {
	k := s.key(key)
	swapped := false
	var current []byte

	err := s.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		v, err := tx.Get(ctx, k).Bytes()
		exists := true
		if errors.Is(err, goredis.Nil) {
			exists = false
		} else if err != nil {
			return err
		}
		if !sameValue(v, exists, old) {
			return nil
		}
		current = v
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		if err == nil {
			swapped = true
		}
		return err
	}, k)
	if errors.Is(err, goredis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis compare-and-swap %s: %w", key, err)
	}
	if swapped {
		s.publish(ctx, ChangeEvent{Key: key, OldValue: current, NewValue: next})
	}
	return swapped, nil
}

func (s *RedisStore) publish(ctx context.Context, ev ChangeEvent) {
	s.Publish(ev)

	raw, err := json.Marshal(redisEvent{Origin: s.origin, Event: ev})
	if err != nil {
		s.log.Warn("encode change event", "error", err)
		return
	}
	if err := s.rdb.Publish(ctx, s.channel, raw).Err(); err != nil {
		s.log.Warn("publish change event", "key", ev.Key, "error", err)
	}
}

// Listen forwards change events written by other processes to local
// watchers until ctx is done.
func (s *RedisStore) Listen(ctx context.Context) error {
	sub := s.rdb.Subscribe(ctx, s.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev redisEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					s.log.Warn("bad change event payload", "error", err)
					continue
				}
				if ev.Origin == s.origin {
					continue
				}
				s.Publish(ev.Event)
			}
		}
	}()

	return nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
