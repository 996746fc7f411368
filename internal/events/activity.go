package events

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-eshop-core.git/internal/auth"
	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
	"github.com/ariefcatur/go-eshop-core.git/internal/orders"
	"github.com/ariefcatur/go-eshop-core.git/internal/store"
)

// ActivityRecorder appends an activity row per interesting event. Runs
// post-commit; a failed append is retryable noise, not a rollback trigger.
type ActivityRecorder struct {
	Activity store.ActivityRepo
}

func (r *ActivityRecorder) Register(d *Dispatcher) {
	d.Subscribe("OrderPlaced", r.record)
	d.Subscribe("OrderStatusChanged", r.record)
	d.Subscribe("OrderCompleted", r.record)
	d.Subscribe("UserLoggedIn", r.record)
	d.Subscribe("UserLoggedOut", r.record)
}

func (r *ActivityRecorder) record(ctx context.Context, e domain.Event) error {
	var l *domain.ActivityLog
	switch ev := e.(type) {
	case orders.OrderPlaced:
		l = domain.NewActivityLog("Order", ev.OrderID, e.Name())
		l.Details = fmt.Sprintf("order placed for customer %s", ev.CustomerID)
	case orders.OrderStatusChanged:
		l = domain.NewActivityLog("Order", ev.OrderID, e.Name())
		l.Details = fmt.Sprintf("status %s -> %s", ev.From, ev.To)
	case orders.OrderCompleted:
		l = domain.NewActivityLog("Order", ev.OrderID, e.Name())
	case auth.UserLoggedIn:
		l = domain.NewActivityLog("UserAccount", ev.AccountID, e.Name())
		l.UserID = ev.AccountID
		l.UserEmail = ev.Email
	case auth.UserLoggedOut:
		l = domain.NewActivityLog("UserAccount", ev.AccountID, e.Name())
		l.UserID = ev.AccountID
		l.UserEmail = ev.Email
	default:
		return nil
	}
	l.Timestamp = e.OccurredAt()
	return r.Activity.Insert(ctx, l)
}
