package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Juli03-22/lookaly-fullstack/models"
)

// CartRepository persists one cart per owner as a whole-document JSON
// replace under a single key. Owner is a user id or a guest bucket.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func (r *CartRepository) key(owner string) string {
	return fmt.Sprintf("cart:user:%s", owner)
}

// Get loads the owner's cart. A missing or corrupt slot yields an empty
// cart, never an error the caller has to handle; the corrupt slot is reset.
func (r *CartRepository) Get(ctx context.Context, owner string) (*models.Cart, error) {
	key := r.key(owner)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.Cart{Owner: owner, Lines: []models.CartLine{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		_ = r.client.Del(ctx, key).Err()
		return &models.Cart{Owner: owner, Lines: []models.CartLine{}}, nil
	}
	cart.Owner = owner
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(cart.Owner), data, r.ttl).Err()
}

func (r *CartRepository) Delete(ctx context.Context, owner string) error {
	return r.client.Del(ctx, r.key(owner)).Err()
}
