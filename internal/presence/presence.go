package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const onlineTTL = 90 * time.Second

// Tracker records which users currently hold a live WebSocket
// connection. Entries expire on their own so a crashed server never
// leaves users stuck online.
type Tracker struct {
	rdb *redis.Client
}

func NewTracker(rdb *redis.Client) *Tracker {
	return &Tracker{rdb: rdb}
}

func presenceKey(userID int) string {
	return fmt.Sprintf("presence:user:%d", userID)
}

func (t *Tracker) SetOnline(ctx context.Context, userID int) error {
	return t.rdb.Set(ctx, presenceKey(userID), 1, onlineTTL).Err()
}

// Refresh extends the online TTL; called from the ping loop.
func (t *Tracker) Refresh(ctx context.Context, userID int) error {
	return t.rdb.Expire(ctx, presenceKey(userID), onlineTTL).Err()
}

func (t *Tracker) SetOffline(ctx context.Context, userID int) error {
	return t.rdb.Del(ctx, presenceKey(userID)).Err()
}

func (t *Tracker) IsOnline(ctx context.Context, userID int) (bool, error) {
	n, err := t.rdb.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
