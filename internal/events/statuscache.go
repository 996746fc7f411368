package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/orders"
)

const (
	// order_status:{order_id} -> {"status": "...", "updated_at": "..."}
	keyOrderStatus = "order_status:%s"

	ttlStatusCache = 5 * time.Minute
)

// StatusCache keeps a redis copy of each order's status fresh. It runs as a
// post-commit handler, so the cache can only ever reflect committed state.
type StatusCache struct {
	Redis *redis.Client
}

func (c *StatusCache) Register(d *Dispatcher) {
	d.Subscribe("OrderStatusChanged", c.onStatusChanged)
}

func (c *StatusCache) onStatusChanged(ctx context.Context, e domain.Event) error {
	ev, ok := e.(orders.OrderStatusChanged)
	if !ok {
		return nil
	}
	body, _ := json.Marshal(map[string]string{
		"status":     string(ev.To),
		"updated_at": ev.At.Format(time.RFC3339),
	})
	key := fmt.Sprintf(keyOrderStatus, ev.OrderID)
	return c.Redis.Set(ctx, key, body, ttlStatusCache).Err()
}
