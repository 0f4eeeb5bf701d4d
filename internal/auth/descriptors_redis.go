package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const descriptorKeyPrefix = "face_descriptor:"

// RedisDescriptorStore persists enrolled face descriptors in Redis so the
// enrollment survives restarts and is shared across instances.
type RedisDescriptorStore struct {
	client *redis.Client
}

// NewRedisDescriptorStore creates a Redis-backed descriptor store.
func NewRedisDescriptorStore(client *redis.Client) *RedisDescriptorStore {
	return &RedisDescriptorStore{client: client}
}

// Get returns the enrolled descriptor for a subject.
func (s *RedisDescriptorStore) Get(ctx context.Context, subject string) ([]float64, error) {
	data, err := s.client.Get(ctx, descriptorKeyPrefix+subject).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrDescriptorNotEnrolled
		}
		return nil, fmt.Errorf("redis get descriptor: %w", err)
	}

	var descriptor []float64
	if err := json.Unmarshal(data, &descriptor); err != nil {
		return nil, fmt.Errorf("unmarshal descriptor: %w", err)
	}
	return descriptor, nil
}

// Save stores the descriptor for a subject. Enrollments do not expire.
func (s *RedisDescriptorStore) Save(ctx context.Context, subject string, descriptor []float64) error {
	data, err := json.Marshal(descriptor)
	if err != nil {
		return fmt.Errorf("marshal descriptor: %w", err)
	}

	if err := s.client.Set(ctx, descriptorKeyPrefix+subject, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set descriptor: %w", err)
	}
	return nil
}
