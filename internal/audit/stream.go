package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type StreamConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// Stream mirrors events to a Redis stream with XADD.
type Stream struct {
	client *redis.Client
	name   string
}

func NewStream(ctx context.Context, cfg StreamConfig) (*Stream, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Stream{client: rdb, name: cfg.Stream}, nil
}

func (s *Stream) Write(ctx context.Context, ev Event) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.name,
		Values: streamValues(ev),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.name, err)
	}
	return nil
}

func (s *Stream) Close() error {
	return s.client.Close()
}

func streamValues(ev Event) map[string]any {
	values := map[string]any{
		"user_id":   strconv.FormatUint(uint64(ev.UserID), 10),
		"action":    ev.Action,
		"entity":    ev.Entity,
		"entity_id": strconv.FormatUint(uint64(ev.EntityID), 10),
		"at":        ev.At.UTC().Format(time.RFC3339Nano),
	}
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			values["metadata"] = string(b)
		}
	}
	return values
}
