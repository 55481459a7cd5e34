package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"auction-tool-backend/internal/features/auction/models"
	"auction-tool-backend/internal/features/auction/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixAuction   = "auction:"
	keyActiveAuctions  = "auctions:active"
	keyHistoryAuctions = "auctions:history"
	keyChannelBindings = "auctions:bindings"
)

type redisRepository struct {
	client *redis.Client
}

// New creates a Redis-backed repository and pings the server to validate the
// connection.
func New(ctx context.Context, addr, password string, db int) (repository.Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &redisRepository{client: client}, nil
}

func makeAuctionKey(id string) string {
	return keyPrefixAuction + id
}

func (r *redisRepository) Save(ctx context.Context, auction *models.Auction) error {
	data, err := json.Marshal(auction)
	if err != nil {
		return fmt.Errorf("failed to marshal auction: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, makeAuctionKey(auction.ID), data, 0)
	pipe.SAdd(ctx, keyActiveAuctions, auction.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save auction %s: %w", auction.ID, err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, makeAuctionKey(id))
	pipe.SRem(ctx, keyActiveAuctions, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete auction %s: %w", id, err)
	}
	return nil
}

func (r *redisRepository) LoadAll(ctx context.Context) ([]*models.Auction, error) {
	ids, err := r.client.SMembers(ctx, keyActiveAuctions).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list active auctions: %w", err)
	}

	auctions := make([]*models.Auction, 0, len(ids))
	for _, id := range ids {
		data, err := r.client.Get(ctx, makeAuctionKey(id)).Bytes()
		if err == redis.Nil {
			// Active-set entry without a record; drop the stale id.
			r.client.SRem(ctx, keyActiveAuctions, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load auction %s: %w", id, err)
		}

		var auction models.Auction
		if err := json.Unmarshal(data, &auction); err != nil {
			return nil, fmt.Errorf("failed to decode auction %s: %w", id, err)
		}
		auctions = append(auctions, &auction)
	}

	return auctions, nil
}

func (r *redisRepository) Archive(ctx context.Context, auction *models.Auction) error {
	data, err := json.Marshal(auction)
	if err != nil {
		return fmt.Errorf("failed to marshal auction: %w", err)
	}

	if err := r.client.HSet(ctx, keyHistoryAuctions, auction.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to archive auction %s: %w", auction.ID, err)
	}
	return nil
}

func (r *redisRepository) SaveBindings(ctx context.Context, bindings map[string]models.ChannelBinding) error {
	data, err := json.Marshal(bindings)
	if err != nil {
		return fmt.Errorf("failed to marshal channel bindings: %w", err)
	}

	if err := r.client.Set(ctx, keyChannelBindings, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save channel bindings: %w", err)
	}
	return nil
}

func (r *redisRepository) LoadBindings(ctx context.Context) (map[string]models.ChannelBinding, error) {
	data, err := r.client.Get(ctx, keyChannelBindings).Bytes()
	if err == redis.Nil {
		return make(map[string]models.ChannelBinding), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load channel bindings: %w", err)
	}

	bindings := make(map[string]models.ChannelBinding)
	if err := json.Unmarshal(data, &bindings); err != nil {
		return nil, fmt.Errorf("failed to decode channel bindings: %w", err)
	}
	return bindings, nil
}

func (r *redisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
