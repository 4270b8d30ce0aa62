package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/bakeshop/pkg/config"
	"github.com/example/bakeshop/pkg/models"
	"github.com/go-redis/redis/v8"
)

// cartKeyPrefix namespaces every persisted cart. One key per session
// holds the full serialized item list.
const cartKeyPrefix = "bakeshop:cart:"

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, 0).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// CartStore persists one session's cart under a fixed namespaced key,
// mirroring the storefront's local-storage contract: the whole item
// list is written on every mutation and read back on load.
type CartStore struct {
	repo      *RedisRepository
	sessionID string
}

func NewCartStore(repo *RedisRepository, sessionID string) *CartStore {
	return &CartStore{repo: repo, sessionID: sessionID}
}

func (s *CartStore) key() string {
	return fmt.Sprintf("%s%s", cartKeyPrefix, s.sessionID)
}

func (s *CartStore) Save(ctx context.Context, items []models.CartItem) error {
	return s.repo.SetJSON(ctx, s.key(), items)
}

// Load returns nil items (not an error) when no cart has been saved.
func (s *CartStore) Load(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.repo.GetJSON(ctx, s.key(), &items)
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CartStore) Clear(ctx context.Context) error {
	return s.repo.client.Del(ctx, s.key()).Err()
}
