package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/omrawatw/ratnaya-sparkle-shop/internal/domain"
)

var errOptionsCacheMiss = errors.New("delivery options cache miss")

const optionsCacheKey = "delivery:options"

// OptionLister is the slice of the row store this package needs: the active
// delivery options, ordered by display_order.
type OptionLister interface {
	ActiveDeliveryOptions(ctx context.Context) ([]domain.DeliveryOption, error)
}

// Options serves the configured delivery options. Every cart change triggers
// a re-resolve, so reads go through a short-lived Redis cache guarded by
// singleflight instead of hitting Postgres each time.
type Options struct {
	store OptionLister
	redis *redis.Client
	ttl   time.Duration
	sfg   singleflight.Group
}

func NewOptions(store OptionLister, redisClient *redis.Client) *Options {
	return &Options{
		store: store,
		redis: redisClient,
		ttl:   5 * time.Minute,
	}
}

// Active returns the active delivery options, cached.
func (o *Options) Active(ctx context.Context) ([]domain.DeliveryOption, error) {
	v, err, _ := o.sfg.Do(optionsCacheKey, func() (interface{}, error) {
		opts, err := o.cached(ctx)
		if err == nil {
			return opts, nil
		}
		if !errors.Is(err, errOptionsCacheMiss) {
			log.Printf("delivery options cache get error: %v", err)
		}

		opts, err = o.store.ActiveDeliveryOptions(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			if errSet := o.cacheSet(context.Background(), opts); errSet != nil {
				log.Printf("delivery options cache set error: %v", errSet)
			}
		}()

		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.DeliveryOption), nil
}

// Invalidate drops the cached option list. Called after admin edits.
func (o *Options) Invalidate(ctx context.Context) {
	if err := o.redis.Del(ctx, optionsCacheKey).Err(); err != nil {
		log.Printf("delivery options cache invalidate error: %v", err)
	}
}

func (o *Options) cached(ctx context.Context) ([]domain.DeliveryOption, error) {
	data, err := o.redis.Get(ctx, optionsCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errOptionsCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var opts []domain.DeliveryOption
	if err2 := json.Unmarshal(data, &opts); err2 != nil {
		return nil, fmt.Errorf("unmarshal delivery options failed: %w", err2)
	}
	return opts, nil
}

func (o *Options) cacheSet(ctx context.Context, opts []domain.DeliveryOption) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("marshal delivery options failed: %w", err)
	}
	if ret := o.redis.Set(ctx, optionsCacheKey, data, o.ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}
